/*
 * calculator.go, part of gokubo.
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
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// The stored properties are Cartesian vectors.
const spatialDims = 3

// Calculator runs the whole Green-Kubo pipeline for one transport
// coefficient: it plans the memory budget, pulls batches, cuts them into
// ensembles, correlates, integrates, scales, and aggregates one Result per
// species combination. The same Calculator can be run any number of times;
// identical input and configuration give the same results.
type Calculator struct {
	coeff Coefficient
	spec  coefficientSpec
	src   PropertySource
	ex    *Experiment
	o     *Options
	log   *zap.Logger
}

// New builds a Calculator for the given coefficient over the given source
// and experiment constants. The window parameters are validated here, before
// anything is read: a data range below 2 or a correlation time below 1 is an
// InvalidWindow error.
func New(coeff Coefficient, src PropertySource, ex *Experiment, options ...*Options) (*Calculator, error) {
	spec, ok := coefficientTable[coeff]
	if !ok {
		return nil, CalcError{message: UnknownCoefficient, deco: []string{"New"}, critical: true}
	}
	var o *Options
	if len(options) > 0 && options[0] != nil {
		o = options[0]
	} else {
		o = DefaultOptions()
	}
	if o.DataRange() < 2 || o.CorrelationTime() < 1 {
		return nil, CalcError{message: InvalidWindow, deco: []string{"New"}, critical: true}
	}
	return &Calculator{
		coeff: coeff,
		spec:  spec,
		src:   src,
		ex:    ex,
		o:     o,
		log:   o.Logger(),
	}, nil
}

// Run processes every species combination and returns one Result per
// combination, in combination order. Each combination gets a fresh
// accumulator; errors are fatal for the whole run and cannot leak one
// combination's samples into another's.
func (C *Calculator) Run() ([]*Result, error) {
	combos, err := C.combinations()
	if err != nil {
		return nil, errDecorate(err, "Run")
	}
	time := C.ex.TimeAxis(C.o.DataRange())
	results := make([]*Result, 0, len(combos))
	for _, combo := range combos {
		res, err := C.runCombination(combo, time)
		if err != nil {
			return nil, errDecorate(err, "Run")
		}
		results = append(results, res)
	}
	return results, nil
}

func (C *Calculator) combinations() ([]SpeciesCombination, error) {
	if C.spec.systemWide {
		return []SpeciesCombination{{A: SystemSpecies, B: SystemSpecies}}, nil
	}
	species := C.o.Species()
	if species == nil {
		species = C.src.SpeciesList()
	}
	if len(species) == 0 {
		return nil, CalcError{message: NoSpecies, critical: true}
	}
	return Combinations(species), nil
}

func (C *Calculator) runCombination(combo SpeciesCombination, time []float64) (*Result, error) {
	nSeries := C.src.NParticles(combo.A)
	if !combo.Same() {
		nSeries += C.src.NParticles(combo.B)
	}
	total, err := C.trajectoryLength(combo)
	if err != nil {
		return nil, err
	}
	plan, err := PlanBatches(C.o.AvailableMemory(), nSeries, spatialDims, C.o.DataRange(), total)
	if err != nil {
		return nil, errDecorate(err, "runCombination: "+combo.String())
	}
	prefactor, err := C.coeff.Prefactor(PrefactorArgs{
		NA:        C.src.NParticles(combo.A),
		NB:        C.src.NParticles(combo.B),
		Same:      combo.Same(),
		DataRange: C.o.DataRange(),
		Ex:        C.ex,
	})
	if err != nil {
		return nil, err
	}
	batches, err := NewBatchSource(C.src, combo, C.spec.property, plan.BatchSize, C.o.DataRange(), C.o.KeepRemainder())
	if err != nil {
		return nil, err
	}
	acc := NewAccumulator(C.o.DataRange())
	if C.o.Cpus() > 1 {
		err = C.consumeParallel(combo, batches, plan, prefactor, time, acc)
	} else {
		err = C.consumeSerial(combo, batches, plan, prefactor, time, acc)
	}
	if err != nil {
		return nil, err
	}
	return acc.Finalize(combo, C.coeff, time)
}

func (C *Calculator) trajectoryLength(combo SpeciesCombination) (int, error) {
	total, err := C.src.Steps(combo.A, C.spec.property)
	if err != nil {
		return 0, CalcError{message: StorageReadFailure, combination: combo.String(), deco: []string{"trajectoryLength", err.Error()}, critical: true}
	}
	if combo.Same() {
		return total, nil
	}
	tb, err := C.src.Steps(combo.B, C.spec.property)
	if err != nil {
		return 0, CalcError{message: StorageReadFailure, combination: combo.String(), deco: []string{"trajectoryLength", err.Error()}, critical: true}
	}
	if tb < total {
		total = tb
	}
	return total, nil
}

// consumeSerial is the default, single-threaded control loop: batches, then
// windows, one at a time.
func (C *Calculator) consumeSerial(combo SpeciesCombination, batches *BatchSource, plan BatchPlan, prefactor float64, time []float64, acc *Accumulator) error {
	corr, err := NewCorrelator(C.o.DataRange(), C.spec.pairwise, C.o.FFT())
	if err != nil {
		return err
	}
	nbatch := 0
	for {
		batch, err := batches.Next()
		if err != nil {
			if IsLast(err) {
				return nil
			}
			return err
		}
		ensembles, err := NewEnsembleSeq(batch, C.o.DataRange(), C.o.CorrelationTime())
		if err != nil {
			return err
		}
		for {
			ens, err := ensembles.Next()
			if err != nil {
				if IsLast(err) {
					break
				}
				return err
			}
			if err := C.processEnsemble(combo, ens, corr, prefactor, time, acc); err != nil {
				return err
			}
		}
		nbatch++
		C.progress(combo, plan, nbatch, batches.NBatches())
	}
}

// consumeParallel fans the windows of each batch out to Cpus workers. Each
// worker owns a private correlator and accumulator; the partial accumulators
// are reduced into acc only after every worker has finished, so acc is never
// mutated concurrently.
func (C *Calculator) consumeParallel(combo SpeciesCombination, batches *BatchSource, plan BatchPlan, prefactor float64, time []float64, acc *Accumulator) error {
	workers := C.o.Cpus()
	ch := make(chan *Ensemble, workers)
	partials := make([]*Accumulator, workers)
	g, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		wacc := NewAccumulator(C.o.DataRange())
		partials[w] = wacc
		wcorr, err := NewCorrelator(C.o.DataRange(), C.spec.pairwise, C.o.FFT())
		if err != nil {
			return err
		}
		g.Go(func() error {
			for ens := range ch {
				if err := C.processEnsemble(combo, ens, wcorr, prefactor, time, wacc); err != nil {
					return err
				}
			}
			return nil
		})
	}
	feed := func() error {
		defer close(ch)
		nbatch := 0
		for {
			batch, err := batches.Next()
			if err != nil {
				if IsLast(err) {
					return nil
				}
				return err
			}
			ensembles, err := NewEnsembleSeq(batch, C.o.DataRange(), C.o.CorrelationTime())
			if err != nil {
				return err
			}
			for {
				ens, err := ensembles.Next()
				if err != nil {
					if IsLast(err) {
						break
					}
					return err
				}
				select {
				case ch <- ens:
				case <-ctx.Done(): //a worker already failed
					return nil
				}
			}
			nbatch++
			C.progress(combo, plan, nbatch, batches.NBatches())
		}
	}
	ferr := feed()
	if err := g.Wait(); err != nil {
		return err
	}
	if ferr != nil {
		return ferr
	}
	for _, wacc := range partials {
		acc.Merge(wacc)
	}
	return nil
}

// processEnsemble turns one window pair into one scalar sample: correlate,
// integrate over the physical time axis, scale by the prefactor, accumulate.
func (C *Calculator) processEnsemble(combo SpeciesCombination, ens *Ensemble, corr *Correlator, prefactor float64, time []float64, acc *Accumulator) error {
	cf, err := corr.Correlate(ens, ens, combo.Same())
	if err != nil {
		return err
	}
	integral, err := Integrate(cf, time, C.o.IntegrationRange())
	if err != nil {
		return err
	}
	acc.Add(prefactor*integral, cf)
	return nil
}

// progress reports one finished batch. Minibatching subdivides work that is
// otherwise reported once, so in that mode nothing is reported at all. The
// total comes from the batch source, which, unlike the plan, counts the
// trailing remainder batch when one is kept.
func (C *Calculator) progress(combo SpeciesCombination, plan BatchPlan, done, total int) {
	if plan.Minibatch {
		return
	}
	C.log.Info("batch processed",
		zap.String("analysis", C.spec.name),
		zap.String("combination", combo.String()),
		zap.Int("batch", done),
		zap.Int("batches", total))
}
