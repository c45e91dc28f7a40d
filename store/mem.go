/*
 * mem.go, part of gokubo.
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

package store

import (
	kubo "github.com/rmera/gokubo"
)

// MemSource keeps whole property series in memory. It is meant for
// synthetic trajectories and tests, where the series are small enough that
// out-of-core batching is a formality.
type MemSource struct {
	order  []string //species, in insertion order
	counts map[string]int
	series map[string][]kubo.Series
}

// NewMemSource returns an empty in-memory source.
func NewMemSource() *MemSource {
	return &MemSource{
		counts: make(map[string]int),
		series: make(map[string][]kubo.Series),
	}
}

func key(species, property string) string { return species + "/" + property }

// Add registers one series per particle for the given (species, property)
// pair. All series must have the same length and dimensionality, and the
// particle count of a species must agree between its properties.
func (M *MemSource) Add(species, property string, series ...kubo.Series) error {
	if len(series) == 0 {
		return Error{message: "no series given", deco: []string{"Add"}, critical: true}
	}
	for _, s := range series {
		if s.Steps() != series[0].Steps() || s.Dims() != series[0].Dims() {
			return Error{message: "all series of a property must have the same length and dimensionality", deco: []string{"Add"}, critical: true}
		}
	}
	if n, ok := M.counts[species]; ok {
		if n != len(series) {
			return Error{message: "inconsistent particle count for species " + species, deco: []string{"Add"}, critical: true}
		}
	} else {
		M.order = append(M.order, species)
		M.counts[species] = len(series)
	}
	M.series[key(species, property)] = series
	return nil
}

// SpeciesList returns the registered species, in insertion order, without
// the system pseudo-species.
func (M *MemSource) SpeciesList() []string {
	ret := make([]string, 0, len(M.order))
	for _, s := range M.order {
		if s == kubo.SystemSpecies {
			continue
		}
		ret = append(ret, s)
	}
	return ret
}

// NParticles returns the particle count of the species, or 0 if unknown.
func (M *MemSource) NParticles(species string) int { return M.counts[species] }

// Steps returns the stored series length for the (species, property) pair.
func (M *MemSource) Steps(species, property string) (int, error) {
	s, ok := M.series[key(species, property)]
	if !ok {
		return 0, Error{message: "no series stored for " + key(species, property), deco: []string{"Steps"}, critical: true}
	}
	return s[0].Steps(), nil
}

// ReadPropertyBatch returns views of length timesteps starting at start, one
// per particle. The whole range must be stored.
func (M *MemSource) ReadPropertyBatch(species, property string, start, length int) ([]kubo.Series, error) {
	s, ok := M.series[key(species, property)]
	if !ok {
		return nil, Error{message: "no series stored for " + key(species, property), deco: []string{"ReadPropertyBatch"}, critical: true}
	}
	if start < 0 || length < 1 || start+length > s[0].Steps() {
		return nil, Error{message: "batch range outside the stored series", deco: []string{"ReadPropertyBatch"}, critical: true}
	}
	ret := make([]kubo.Series, len(s))
	for i, ser := range s {
		ret[i] = ser.Window(start, length)
	}
	return ret, nil
}
