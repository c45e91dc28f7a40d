/*
 * ensemble.go, part of gokubo.
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

// Ensemble is one fixed-length window into a batch, treated as one
// quasi-independent statistical sample. A and B hold, per particle, views
// into the batch's series; they share the batch's backing data and are only
// valid while the batch is.
type Ensemble struct {
	Offset int //start offset within the batch
	A, B   []Series
}

// EnsembleSeq produces the lazy sequence of overlapping windows of length
// dataRange within one batch, at offsets 0, stride, 2*stride, ... while the
// window still fits. Successive windows are offset by the correlation time,
// so that the scalars they yield can be treated as approximately independent
// samples. A trailing partial window is discarded. The sequence is
// restartable with Reset.
type EnsembleSeq struct {
	batch     *Batch
	dataRange int
	stride    int
	offset    int
}

// NewEnsembleSeq prepares the window sequence over batch. Windows never
// cross batch boundaries.
func NewEnsembleSeq(batch *Batch, dataRange, stride int) (*EnsembleSeq, error) {
	if dataRange < 2 || stride < 1 {
		return nil, CalcError{message: InvalidWindow, deco: []string{"NewEnsembleSeq"}, critical: true}
	}
	return &EnsembleSeq{batch: batch, dataRange: dataRange, stride: stride}, nil
}

// NEnsembles returns how many windows the sequence produces.
func (E *EnsembleSeq) NEnsembles() int {
	if E.batch.Length < E.dataRange {
		return 0
	}
	return (E.batch.Length-E.dataRange)/E.stride + 1
}

// Reset rewinds the sequence to the first window.
func (E *EnsembleSeq) Reset() { E.offset = 0 }

// Next returns the next window, or a LastBatchError when no full window
// remains. The windows are views: they share the backing data of the batch.
func (E *EnsembleSeq) Next() (*Ensemble, error) {
	if E.offset+E.dataRange > E.batch.Length {
		return nil, lastBatch{what: "ensemble"}
	}
	ens := &Ensemble{
		Offset: E.offset,
		A:      make([]Series, len(E.batch.A)),
		B:      make([]Series, len(E.batch.B)),
	}
	for i, s := range E.batch.A {
		ens.A[i] = s.Window(E.offset, E.dataRange)
	}
	for i, s := range E.batch.B {
		ens.B[i] = s.Window(E.offset, E.dataRange)
	}
	E.offset += E.stride
	return ens, nil
}
