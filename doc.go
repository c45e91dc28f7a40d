/*
 * doc.go, part of gokubo.
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

/*Package kubo computes transport coefficients from molecular dynamics
trajectories with the Green-Kubo method, i.e. as the time integral of an
equilibrium time-correlation function of a per-particle velocity or a
system flux.

Trajectories are usually much larger than the available memory, so the
package works on batches: contiguous slices of the stored time series
that are pulled one at a time from a PropertySource, cut into overlapping
fixed-length windows ("ensembles"), correlated pairwise, integrated and
scaled by the physical prefactor of the coefficient at hand. The scalar
obtained from each ensemble is one statistical sample; the final report
per species combination is the sample mean with its standard error,
together with the accumulated correlation function.



	**gokubo capabilities**

    Computes self- and distinct diffusion coefficients, ionic
	conductivity and thermal conductivity (the latter two from the
	corresponding system flux).

    Streams the time series in memory-bounded batches, with the batch
	size decided from the available memory.

    Computes correlation functions directly or through FFT
	(gonum/dsp/fourier); both to the same result within floating point
	tolerance.

    Processes ensembles serially or with a bounded number of workers,
	each with a private accumulator.

    Ships a reference storage backend (package store) with an
	in-memory source for synthetic data and a zstd-compressed on-disk
	series format.

The package does not parse simulation output, keep a metadata catalog,
plot, or define unit systems beyond the conversion constants it
consumes. Those concerns belong to its callers.
*/
package kubo
