/*
 * options.go, part of gokubo.
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
	"runtime"

	"go.uber.org/zap"
)

// Options collects the tunable parameters of a calculation. Each accessor
// returns the current value, and sets a new one if a valid value is given.
type Options struct {
	dataRange        int
	correlationTime  int
	integrationRange int
	species          []string
	availableMemory  int64
	cpus             int
	keepRemainder    bool
	fft              bool
	logger           *zap.Logger
}

// DefaultOptions returns an Options with the default values: a data range of
// 500 samples, a correlation time of 1, integration over the whole data
// range, all the species in the store, a memory budget of 1 GiB, serial
// ensemble processing and FFT correlation.
func DefaultOptions() *Options {
	ret := new(Options)
	ret.dataRange = 500
	ret.correlationTime = 1
	ret.integrationRange = 0 //0 means "same as the data range"
	ret.species = nil
	ret.availableMemory = 1 << 30
	ret.cpus = 1
	ret.keepRemainder = false
	ret.fft = true
	ret.logger = zap.NewNop()
	return ret
}

// DataRange returns the length, in stored samples, of each correlation
// window, and sets it, if a value of at least 2 is given.
func (o *Options) DataRange(n ...int) int {
	ret := o.dataRange
	if len(n) > 0 && n[0] >= 2 {
		o.dataRange = n[0]
	}
	return ret
}

// CorrelationTime returns the stride, in stored samples, between the start
// offsets of successive ensembles, and sets it, if a value of at least 1 is
// given.
func (o *Options) CorrelationTime(n ...int) int {
	ret := o.correlationTime
	if len(n) > 0 && n[0] >= 1 {
		o.correlationTime = n[0]
	}
	return ret
}

// IntegrationRange returns how many points of the correlation function are
// integrated, and sets it, if a value between 2 and the data range is given.
func (o *Options) IntegrationRange(n ...int) int {
	ret := o.integrationRange
	if ret == 0 {
		ret = o.dataRange
	}
	if len(n) > 0 && n[0] >= 2 && n[0] <= o.dataRange {
		o.integrationRange = n[0]
	}
	return ret
}

// Species returns the species to process, and sets them if a non-empty list
// is given. A nil list means every species served by the PropertySource.
func (o *Options) Species(s ...[]string) []string {
	ret := o.species
	if len(s) > 0 && len(s[0]) > 0 {
		o.species = s[0]
	}
	return ret
}

// AvailableMemory returns the memory budget, in bytes, for one batch of raw
// property data, and sets it, if a positive value is given.
func (o *Options) AvailableMemory(b ...int64) int64 {
	ret := o.availableMemory
	if len(b) > 0 && b[0] > 0 {
		o.availableMemory = b[0]
	}
	return ret
}

// Cpus returns the number of goroutines used to process the ensembles of one
// batch, and sets it, if a valid value is given. With 1 (the default) the
// pipeline is fully serial.
func (o *Options) Cpus(cpus ...int) int {
	ret := o.cpus
	if len(cpus) > 0 && cpus[0] > 0 && cpus[0] <= 4*runtime.NumCPU() {
		o.cpus = cpus[0]
	}
	return ret
}

// KeepRemainder returns whether the final, shorter-than-batch-size slice of
// the trajectory is processed too (it still must hold at least one full
// window), and sets it, if given.
func (o *Options) KeepRemainder(keep ...bool) bool {
	ret := o.keepRemainder
	if len(keep) > 0 {
		o.keepRemainder = keep[0]
	}
	return ret
}

// FFT returns whether correlation functions are computed through FFT rather
// than by the direct sum, and sets it, if given. Both give the same result
// within floating point tolerance; FFT is much faster for large data ranges.
func (o *Options) FFT(fft ...bool) bool {
	ret := o.fft
	if len(fft) > 0 {
		o.fft = fft[0]
	}
	return ret
}

// Logger returns the logger used for progress reporting, and sets it, if a
// non-nil one is given. The default is a no-op logger.
func (o *Options) Logger(l ...*zap.Logger) *zap.Logger {
	ret := o.logger
	if len(l) > 0 && l[0] != nil {
		o.logger = l[0]
	}
	return ret
}
