/*
 * interfaces.go, part of gokubo.
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

// The names under which the common per-species and system-wide properties
// are stored. A PropertySource may of course serve others.
const (
	Velocities   = "velocities"
	ThermalFlux  = "thermal_flux"
	IonicCurrent = "ionic_current"
)

// PropertySource is the storage collaborator: an on-disk (or in-memory) store
// holding one time series per (species, property) pair, with monotonically
// increasing, uniformly spaced timesteps. gokubo only ever reads from it.
// Package store provides reference implementations.
type PropertySource interface {

	//SpeciesList returns the identifiers of all species in the store.
	SpeciesList() []string

	//NParticles returns the number of particles of the given species, or
	//1 for system-wide properties such as a flux.
	NParticles(species string) int

	//Steps returns the number of timesteps stored for the given
	//(species, property) pair.
	Steps(species, property string) (int, error)

	//ReadPropertyBatch performs one atomic bulk read of length timesteps,
	//starting at start, for every particle of the given species. The
	//returned slice has one Series per particle, each of length timesteps
	//and the dimensionality of the stored property. There are no partial
	//reads: on error the whole batch is lost.
	ReadPropertyBatch(species, property string, start, length int) ([]Series, error)
}

// Series is one particle's (or the system's) time series for one property:
// per-timestep vector samples stored timestep-major. The zero value is an
// empty series.
type Series struct {
	dims int
	data []float64
}

// NewSeries wraps data, laid out timestep-major ([t0_x t0_y t0_z t1_x ...]),
// as a Series of the given dimensionality. It panics if the data length is
// not a multiple of dims.
func NewSeries(data []float64, dims int) Series {
	if dims < 1 || len(data)%dims != 0 {
		panic("kubo: series data length must be a multiple of its dimensionality")
	}
	return Series{dims: dims, data: data}
}

// Steps returns the number of timesteps in the series.
func (s Series) Steps() int {
	if s.dims == 0 {
		return 0
	}
	return len(s.data) / s.dims
}

// Dims returns the dimensionality of each sample (3 for a Cartesian vector).
func (s Series) Dims() int { return s.dims }

// At returns the d-th component of the sample at timestep t.
func (s Series) At(t, d int) float64 { return s.data[t*s.dims+d] }

// Window returns a view of n timesteps starting at offset. The view shares
// the backing data with the receiver.
func (s Series) Window(offset, n int) Series {
	return Series{dims: s.dims, data: s.data[offset*s.dims : (offset+n)*s.dims]}
}

// Component copies the d-th component of every timestep into dst, which must
// have length Steps(), and returns it.
func (s Series) Component(d int, dst []float64) []float64 {
	for t := 0; t < s.Steps(); t++ {
		dst[t] = s.data[t*s.dims+d]
	}
	return dst
}

// Experiment holds the simulation-level constants consumed by the
// calculators. They come from the simulation setup; gokubo never derives
// them.
type Experiment struct {
	Volume      float64    //simulation box volume, in simulation length units cubed
	Temperature float64    //in Kelvin
	Timestep    float64    //integration timestep, in simulation time units
	SampleRate  int        //timesteps between consecutive stored samples
	Units       UnitSystem //conversion factors to SI
}

// TimeAxis returns the physical time axis, in seconds, for a correlation
// function of dataRange points: dataRange evenly spaced values from zero to
// dataRange*Timestep*SampleRate in SI.
func (ex *Experiment) TimeAxis(dataRange int) []float64 {
	span := float64(dataRange) * ex.Timestep * float64(ex.SampleRate) * ex.Units.Time
	axis := make([]float64, dataRange)
	for i := range axis {
		axis[i] = span * float64(i) / float64(dataRange-1)
	}
	return axis
}
