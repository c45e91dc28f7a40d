/*
 * results.go, part of gokubo.
 *
 * Copyright 2026 Raul Mera <rauldotmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package kubo

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Result is the final record for one species combination: the mean transport
// coefficient over all its ensembles, the standard error of that mean, and
// the accumulated (un-normalized) correlation function with its time axis,
// for reporting or plotting by external tools.
type Result struct {
	Combination   SpeciesCombination
	Coefficient   Coefficient
	Mean          float64
	StandardError float64
	NSamples      int
	Time          []float64 //in s
	Correlation   []float64 //summed over all ensembles, not normalized
}

type aggState int

const (
	aggIdle aggState = iota
	aggAccumulating
	aggFinalized
)

// Accumulator collects, for one species combination, the per-ensemble scalar
// samples and the running sum of one-sided correlation functions. It is
// created anew (or recycled through Finalize, which resets it) for every
// combination; accumulators are never shared between combinations, nor
// mutated concurrently. For parallel ensemble processing, give each worker
// its own and reduce them with Merge once all workers are done.
type Accumulator struct {
	state   aggState
	samples []float64
	corr    []float64
}

// NewAccumulator returns an empty accumulator for correlation functions of
// dataRange points.
func NewAccumulator(dataRange int) *Accumulator {
	return &Accumulator{
		samples: make([]float64, 0, 128),
		corr:    make([]float64, dataRange),
	}
}

// Add records one ensemble's scalar sample and adds its correlation function
// into the running sum.
func (A *Accumulator) Add(sample float64, corr []float64) {
	A.state = aggAccumulating
	A.samples = append(A.samples, sample)
	floats.Add(A.corr, corr)
}

// Merge folds another accumulator into this one. The other accumulator is
// left untouched.
func (A *Accumulator) Merge(other *Accumulator) {
	if len(other.samples) == 0 {
		return
	}
	A.state = aggAccumulating
	A.samples = append(A.samples, other.samples...)
	floats.Add(A.corr, other.corr)
}

// NSamples returns how many ensembles have been accumulated so far.
func (A *Accumulator) NSamples() int { return len(A.samples) }

// Idle returns true if the accumulator holds nothing, i.e. before its first
// Add and again after every Finalize.
func (A *Accumulator) Idle() bool { return A.state == aggIdle }

// Finalize computes the statistics of the accumulated samples and returns
// the Result for the combination, then resets the accumulator to its empty
// state so a failure in a later combination cannot see this one's samples.
// With zero accumulated ensembles the standard error would be undefined, so
// Finalize returns an EmptySampleSet error instead of NaNs. With a single
// sample the standard error is reported as zero.
func (A *Accumulator) Finalize(combo SpeciesCombination, coeff Coefficient, time []float64) (*Result, error) {
	defer A.reset()
	if len(A.samples) == 0 {
		return nil, CalcError{message: EmptySampleSet, combination: combo.String(), deco: []string{"Finalize"}, critical: true}
	}
	A.state = aggFinalized
	res := &Result{
		Combination: combo,
		Coefficient: coeff,
		Mean:        stat.Mean(A.samples, nil),
		NSamples:    len(A.samples),
		Time:        time,
		Correlation: append([]float64(nil), A.corr...),
	}
	if len(A.samples) > 1 {
		res.StandardError = stat.StdDev(A.samples, nil) / math.Sqrt(float64(len(A.samples)))
	}
	return res, nil
}

func (A *Accumulator) reset() {
	A.samples = A.samples[:0]
	for i := range A.corr {
		A.corr[i] = 0
	}
	A.state = aggIdle
}
