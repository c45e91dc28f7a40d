/*
 * combinations.go, part of gokubo.
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

// SpeciesCombination is an unordered (possibly same-species) pair of species
// identifiers. Each combination is processed independently, with its own
// accumulator.
type SpeciesCombination struct {
	A, B string
}

// Same returns true for a same-species combination.
func (c SpeciesCombination) Same() bool { return c.A == c.B }

// String returns the combination as "A-B", e.g. "Na-Cl".
func (c SpeciesCombination) String() string { return c.A + "-" + c.B }

// Combinations returns every with-replacement pair over the given species,
// in the order they would appear in the upper triangle of the species x
// species matrix: for [Na Cl], that is Na-Na, Na-Cl, Cl-Cl.
func Combinations(species []string) []SpeciesCombination {
	ret := make([]SpeciesCombination, 0, len(species)*(len(species)+1)/2)
	for i, a := range species {
		for _, b := range species[i:] {
			ret = append(ret, SpeciesCombination{A: a, B: b})
		}
	}
	return ret
}
