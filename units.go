/*
 * units.go, part of gokubo.
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

// Boltzmann is the Boltzmann constant in J/K.
const Boltzmann = 1.380649e-23

// ElementaryCharge is the elementary charge in C.
const ElementaryCharge = 1.602176634e-19

// UnitSystem holds the conversion factors from the simulation's units to SI.
// gokubo consumes these as given; defining unit systems is the caller's
// business.
type UnitSystem struct {
	Length float64 //simulation length unit, in m
	Time   float64 //simulation time unit, in s
	Energy float64 //simulation energy unit, in J
	Charge float64 //simulation charge unit, in C
}

// The unit systems of the usual MD engines, for convenience. SI is the
// identity.
var (
	SI = UnitSystem{Length: 1, Time: 1, Energy: 1, Charge: 1}

	//LAMMPS "metal" units: Angstrom, picosecond, eV, e.
	Metal = UnitSystem{Length: 1e-10, Time: 1e-12, Energy: ElementaryCharge, Charge: ElementaryCharge}

	//LAMMPS "real" units: Angstrom, femtosecond, kcal/mol, e.
	Real = UnitSystem{Length: 1e-10, Time: 1e-15, Energy: 6.947695e-21, Charge: ElementaryCharge}
)
