/*
 * memory.go, part of gokubo.
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

const float64Size = 8

// Correlating one window allocates intermediates (padded signals, FFT
// coefficients) a few times the size of the raw data, so a batch is only
// granted a fraction of the budget unless that would make it too small.
const memoryScale = 5

// BatchPlan is the memory budget decision for one species combination: how
// many timesteps each batch holds, and whether the budget forced
// minibatching. When Minibatch is true the batch is barely larger than one
// window and the batch loop degenerates into per-window reads, so progress
// must not be reported batch by batch.
type BatchPlan struct {
	BatchSize int
	NBatches  int
	Minibatch bool
}

// PlanBatches decides the batch size for nSeries property series of the
// given dimensionality, read in windows of dataRange timesteps out of total
// stored timesteps, under a budget of availableMemory bytes of raw data.
// The returned batch size is always at least dataRange; if not even that
// fits, the error carries InsufficientMemory and no read should be
// attempted.
func PlanBatches(availableMemory int64, nSeries, dims, dataRange, total int) (BatchPlan, error) {
	var plan BatchPlan
	if dataRange < 2 {
		return plan, CalcError{message: InvalidWindow, deco: []string{"PlanBatches"}, critical: true}
	}
	stepBytes := int64(nSeries) * int64(dims) * float64Size
	comfortable := availableMemory / (stepBytes * memoryScale)
	bare := availableMemory / stepBytes
	switch {
	case comfortable >= int64(dataRange):
		plan.BatchSize = int(comfortable)
	case bare >= int64(dataRange):
		plan.BatchSize = int(bare)
		plan.Minibatch = true
	default:
		return plan, CalcError{message: InsufficientMemory, deco: []string{"PlanBatches"}, critical: true}
	}
	if plan.BatchSize > total {
		plan.BatchSize = total
	}
	//Full batches only. A BatchSource configured to keep the trailing
	//remainder may produce one more.
	plan.NBatches = total / plan.BatchSize
	return plan, nil
}
