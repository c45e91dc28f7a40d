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

//Package store provides reference implementations of kubo.PropertySource:
//an in-memory source, mostly for synthetic data and tests, and a simple
//compressed on-disk format ("gks") with one file per (species, property)
//pair.

/******************** gks format ***************************************

A gks file has the extension gks and is compressed with z-standard (zstd).

The file starts with a text header of key=value lines. The keys species,
property, dims and steps are required. The header ends with a line starting
with the characters "**" followed by one or more spaces and the number of
particles whose series the file holds (1 for a system-wide property, such
as a flux).

After the header the file holds steps frames, back to back. Each frame is
particles*dims float64 values, little endian, particle-major within the
frame. The series are expected to have monotonically increasing, uniformly
spaced timesteps; the file stores no time information of its own.

************************************************************************/

package store
