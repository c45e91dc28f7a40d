/*
 * batch.go, part of gokubo.
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

// Batch is one memory-resident contiguous slice of the time series of a
// species combination: per-particle series of equal length for each of the
// two species. For a same-species combination B aliases A. A Batch is only
// valid until the next call to Next on the BatchSource that produced it.
type Batch struct {
	Start  int
	Length int
	A, B   []Series
}

// BatchSource produces the finite, lazy sequence of batches covering the
// stored trajectory of one species combination. Each batch is one atomic
// bulk fetch per species from the PropertySource; there are no partial or
// streamed reads within a batch. The sequence is not restartable
// mid-iteration, but can be re-run from the start with Reset.
type BatchSource struct {
	src           PropertySource
	property      string
	combo         SpeciesCombination
	batchSize     int
	dataRange     int
	total         int
	pos           int
	keepRemainder bool
}

// NewBatchSource prepares the batch sequence for one species combination.
// The trajectory length is the shortest of the stored lengths of the two
// species' series; with keepRemainder, a final batch shorter than batchSize
// but still holding at least one full window of dataRange samples is
// produced too, otherwise the remainder is dropped.
func NewBatchSource(src PropertySource, combo SpeciesCombination, property string, batchSize, dataRange int, keepRemainder bool) (*BatchSource, error) {
	total, err := src.Steps(combo.A, property)
	if err != nil {
		return nil, CalcError{message: StorageReadFailure, combination: combo.String(), deco: []string{"NewBatchSource", err.Error()}, critical: true}
	}
	if !combo.Same() {
		tb, err := src.Steps(combo.B, property)
		if err != nil {
			return nil, CalcError{message: StorageReadFailure, combination: combo.String(), deco: []string{"NewBatchSource", err.Error()}, critical: true}
		}
		if tb < total {
			total = tb
		}
	}
	B := &BatchSource{
		src:           src,
		property:      property,
		combo:         combo,
		batchSize:     batchSize,
		dataRange:     dataRange,
		total:         total,
		keepRemainder: keepRemainder,
	}
	return B, nil
}

// Steps returns the trajectory length covered by the sequence.
func (B *BatchSource) Steps() int { return B.total }

// NBatches returns how many batches the full sequence produces.
func (B *BatchSource) NBatches() int {
	n := B.total / B.batchSize
	if B.keepRemainder && B.total%B.batchSize >= B.dataRange {
		n++
	}
	return n
}

// Reset rewinds the sequence to the start of the trajectory.
func (B *BatchSource) Reset() { B.pos = 0 }

// Next reads and returns the next batch. When the trajectory is exhausted it
// returns a LastBatchError, which marks the normal end of the sequence.
// Storage failures surface as critical errors; the batch they interrupted is
// lost entirely.
func (B *BatchSource) Next() (*Batch, error) {
	length := B.batchSize
	if remaining := B.total - B.pos; remaining < length {
		if !B.keepRemainder || remaining < B.dataRange {
			return nil, lastBatch{what: "batch"}
		}
		length = remaining
	}
	a, err := B.src.ReadPropertyBatch(B.combo.A, B.property, B.pos, length)
	if err != nil {
		return nil, CalcError{message: StorageReadFailure, combination: B.combo.String(), deco: []string{"Next", err.Error()}, critical: true}
	}
	b := a
	if !B.combo.Same() {
		b, err = B.src.ReadPropertyBatch(B.combo.B, B.property, B.pos, length)
		if err != nil {
			return nil, CalcError{message: StorageReadFailure, combination: B.combo.String(), deco: []string{"Next", err.Error()}, critical: true}
		}
	}
	batch := &Batch{Start: B.pos, Length: length, A: a, B: b}
	B.pos += length
	return batch, nil
}
