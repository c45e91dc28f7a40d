package kubo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccumulatorStatistics(Te *testing.T) {
	A := NewAccumulator(3)
	A.Add(1, []float64{1, 0, 0})
	A.Add(2, []float64{0, 1, 0})
	A.Add(6, []float64{0, 0, 1})
	combo := SpeciesCombination{A: "Na", B: "Na"}
	res, err := A.Finalize(combo, SelfDiffusion, []float64{0, 1, 2})
	require.NoError(Te, err)
	require.InDelta(Te, 3.0, res.Mean, 1e-12)
	//sample standard deviation of {1,2,6} is sqrt(7), over sqrt(3) samples
	require.InDelta(Te, math.Sqrt(7.0/3.0), res.StandardError, 1e-12)
	require.Equal(Te, 3, res.NSamples)
	//the correlation series is the raw sum, not normalized
	require.Equal(Te, []float64{1, 1, 1}, res.Correlation)
	require.Equal(Te, combo, res.Combination)
}

// Finalize must leave the accumulator pristine, so no sample of one species
// combination can leak into the next.
func TestAccumulatorResetDiscipline(Te *testing.T) {
	A := NewAccumulator(2)
	A.Add(5, []float64{5, 5})
	_, err := A.Finalize(SpeciesCombination{A: "Y", B: "Y"}, SelfDiffusion, []float64{0, 1})
	require.NoError(Te, err)

	require.True(Te, A.Idle())
	A.Add(1, []float64{1, 1})
	require.False(Te, A.Idle())
	res, err := A.Finalize(SpeciesCombination{A: "X", B: "X"}, SelfDiffusion, []float64{0, 1})
	require.NoError(Te, err)
	require.True(Te, A.Idle())
	require.Equal(Te, 1, res.NSamples)
	require.InDelta(Te, 1.0, res.Mean, 1e-12)
	require.Equal(Te, []float64{1, 1}, res.Correlation)
}

// Zero ensembles means the standard error is undefined; that must surface
// as EmptySampleSet, never as NaN. And the failed Finalize still resets.
func TestAccumulatorEmptySampleSet(Te *testing.T) {
	A := NewAccumulator(2)
	_, err := A.Finalize(SpeciesCombination{A: "Na", B: "Na"}, SelfDiffusion, []float64{0, 1})
	require.Error(Te, err)
	require.Equal(Te, EmptySampleSet, MessageOf(err))

	A.Add(2, []float64{2, 2})
	res, err := A.Finalize(SpeciesCombination{A: "Na", B: "Na"}, SelfDiffusion, []float64{0, 1})
	require.NoError(Te, err)
	require.Equal(Te, 1, res.NSamples)
	//a single sample has no spread to estimate
	require.Equal(Te, 0.0, res.StandardError)
	require.False(Te, math.IsNaN(res.StandardError))
}

func TestAccumulatorMerge(Te *testing.T) {
	serial := NewAccumulator(2)
	w1 := NewAccumulator(2)
	w2 := NewAccumulator(2)
	serial.Add(1, []float64{1, 2})
	serial.Add(3, []float64{3, 4})
	w1.Add(1, []float64{1, 2})
	w2.Add(3, []float64{3, 4})
	reduced := NewAccumulator(2)
	reduced.Merge(w1)
	reduced.Merge(w2)
	reduced.Merge(NewAccumulator(2)) //an idle worker contributes nothing
	combo := SpeciesCombination{A: "Na", B: "Cl"}
	time := []float64{0, 1}
	a, err := serial.Finalize(combo, DistinctDiffusion, time)
	require.NoError(Te, err)
	b, err := reduced.Finalize(combo, DistinctDiffusion, time)
	require.NoError(Te, err)
	require.Equal(Te, a.Mean, b.Mean)
	require.Equal(Te, a.StandardError, b.StandardError)
	require.Equal(Te, a.Correlation, b.Correlation)
}
