/*
 * integrate.go, part of gokubo.
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

import "gonum.org/v1/gonum/integrate"

// Integrate returns the trapezoidal integral of the first integrationRange
// points of the correlation function corr against the physical time axis.
// corr and time must have equal length, at least integrationRange, which in
// turn must be at least 2.
func Integrate(corr, time []float64, integrationRange int) (float64, error) {
	if integrationRange < 2 || len(corr) < integrationRange || len(time) != len(corr) {
		return 0, CalcError{message: InvalidWindow, deco: []string{"Integrate"}, critical: true}
	}
	return integrate.Trapezoidal(time[:integrationRange], corr[:integrationRange]), nil
}
