/*
 * prefactor.go, part of gokubo.
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

// Coefficient selects which transport coefficient a Calculator computes,
// i.e. which stored property it correlates and which physical prefactor
// scales the correlation integral.
type Coefficient int

const (
	//SelfDiffusion is the self-diffusion coefficient of each species, from
	//the velocity auto-correlation of its particles.
	SelfDiffusion Coefficient = iota
	//DistinctDiffusion is the distinct (particle i with particle j != i)
	//diffusion coefficient per species pair, from velocity
	//cross-correlations.
	DistinctDiffusion
	//IonicConductivity, from the auto-correlation of the system's charge
	//current.
	IonicConductivity
	//ThermalConductivity, from the auto-correlation of the system's
	//thermal flux.
	ThermalConductivity
)

// SystemSpecies is the pseudo-species under which system-wide series (the
// fluxes) are stored.
const SystemSpecies = "system"

// PrefactorArgs carries everything a prefactor formula may depend on:
// particle counts of the two species of the combination, whether they are
// the same species, the window length and the experiment constants.
type PrefactorArgs struct {
	NA, NB    int
	Same      bool
	DataRange int
	Ex        *Experiment
}

// atomScale is the pair-count normalization: a same-species pair has n*(n-1)
// ordered distinct pairs, a cross pair na*nb.
func (p PrefactorArgs) atomScale() float64 {
	if p.Same {
		return float64(p.NA) * float64(p.NA-1)
	}
	return float64(p.NA) * float64(p.NB)
}

// coefficientSpec is one row of the coefficient table. The prefactor
// formulas are configuration, validated against reference values, not
// derived from a single universal expression; in particular whether a
// formula divides by (dataRange - 1) follows the validated form of each
// coefficient. The time axis the integrals run on is already in seconds.
type coefficientSpec struct {
	name       string
	property   string
	pairwise   bool //iterate distinct particle pairs instead of each particle with itself
	systemWide bool //single system-wide series instead of per-species particles
	prefactor  func(PrefactorArgs) float64
}

var coefficientTable = map[Coefficient]coefficientSpec{
	SelfDiffusion: {
		name:     "Green_Kubo_Self_Diffusion_Coefficients",
		property: Velocities,
		prefactor: func(p PrefactorArgs) float64 {
			u := p.Ex.Units
			return u.Length * u.Length / (u.Time * u.Time) / (3 * float64(p.NA))
		},
	},
	DistinctDiffusion: {
		name:     "Green_Kubo_Distinct_Diffusion_Coefficients",
		property: Velocities,
		pairwise: true,
		prefactor: func(p PrefactorArgs) float64 {
			u := p.Ex.Units
			return u.Length * u.Length / (3 * u.Time * float64(p.DataRange-1) * p.atomScale())
		},
	},
	IonicConductivity: {
		name:       "Green_Kubo_Ionic_Conductivity",
		property:   IonicCurrent,
		systemWide: true,
		prefactor: func(p PrefactorArgs) float64 {
			u := p.Ex.Units
			volume := p.Ex.Volume * u.Length * u.Length * u.Length
			current2 := (u.Charge * u.Length / u.Time) * (u.Charge * u.Length / u.Time)
			return current2 / (3 * Boltzmann * p.Ex.Temperature * volume)
		},
	},
	ThermalConductivity: {
		name:       "Green_Kubo_Thermal_Conductivity",
		property:   ThermalFlux,
		systemWide: true,
		prefactor: func(p PrefactorArgs) float64 {
			u := p.Ex.Units
			T := p.Ex.Temperature
			volume := p.Ex.Volume * u.Length * u.Length * u.Length
			return 1 / (3 * float64(p.DataRange-1) * T * T * Boltzmann * volume)
		},
	},
}

// String returns the analysis name of the coefficient.
func (c Coefficient) String() string {
	spec, ok := coefficientTable[c]
	if !ok {
		return "unknown coefficient"
	}
	return spec.name
}

// Property returns the stored property the coefficient is computed from.
func (c Coefficient) Property() (string, error) {
	spec, ok := coefficientTable[c]
	if !ok {
		return "", CalcError{message: UnknownCoefficient, deco: []string{"Property"}, critical: true}
	}
	return spec.property, nil
}

// Prefactor returns the physical scaling constant converting the raw
// correlation integral of one ensemble into a transport-coefficient sample.
// It is computed once per species combination.
func (c Coefficient) Prefactor(p PrefactorArgs) (float64, error) {
	spec, ok := coefficientTable[c]
	if !ok {
		return 0, CalcError{message: UnknownCoefficient, deco: []string{"Prefactor"}, critical: true}
	}
	//a lone particle has no distinct pair, so the pair-count normalization
	//would divide by zero
	if spec.pairwise && p.atomScale() == 0 {
		return 0, CalcError{message: InsufficientParticles, deco: []string{"Prefactor"}, critical: true}
	}
	return spec.prefactor(p), nil
}
