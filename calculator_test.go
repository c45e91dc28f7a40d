package kubo_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	kubo "github.com/rmera/gokubo"
	"github.com/rmera/gokubo/store"
)

func onesSeries(steps int) kubo.Series {
	data := make([]float64, steps*3)
	for i := range data {
		data[i] = 1
	}
	return kubo.NewSeries(data, 3)
}

func valueSeries(steps int, value float64) kubo.Series {
	data := make([]float64, steps*3)
	for i := range data {
		data[i] = value
	}
	return kubo.NewSeries(data, 3)
}

func wavySeries(steps int, seed float64) kubo.Series {
	data := make([]float64, steps*3)
	for i := range data {
		data[i] = math.Sin(seed + 0.3*float64(i))
	}
	return kubo.NewSeries(data, 3)
}

func siExperiment() *kubo.Experiment {
	return &kubo.Experiment{Volume: 1, Temperature: 300, Timestep: 1, SampleRate: 1, Units: kubo.SI}
}

func naClSource(Te *testing.T, steps int) *store.MemSource {
	src := store.NewMemSource()
	require.NoError(Te, src.Add("Na", kubo.Velocities, onesSeries(steps), onesSeries(steps)))
	require.NoError(Te, src.Add("Cl", kubo.Velocities, onesSeries(steps), onesSeries(steps)))
	return src
}

// Two species of two particles each, four timesteps of unit velocities:
// every piece of the result can be done by hand. Per ordered particle pair
// the correlation is 3*(4-tau); the Na-Na combination has 2 such pairs and
// Na-Cl 4. The trapezoidal integral of [24 18 12 6] over [0, 4] s is 60,
// and the distinct-diffusion prefactor 1/(3*1*(4-1)*atomScale).
func TestDistinctDiffusionEndToEnd(Te *testing.T) {
	o := kubo.DefaultOptions()
	o.DataRange(4)
	o.CorrelationTime(1)
	calc, err := kubo.New(kubo.DistinctDiffusion, naClSource(Te, 4), siExperiment(), o)
	require.NoError(Te, err)
	results, err := calc.Run()
	require.NoError(Te, err)
	require.Len(Te, results, 3) //Na-Na, Na-Cl, Cl-Cl

	byCombo := map[string]*kubo.Result{}
	for _, r := range results {
		byCombo[r.Combination.String()] = r
	}
	nana := byCombo["Na-Na"]
	require.Equal(Te, 1, nana.NSamples)
	require.Equal(Te, []float64{24, 18, 12, 6}, roundAll(nana.Correlation))
	require.InEpsilon(Te, 60.0/18.0, nana.Mean, 1e-9)
	require.Equal(Te, 0.0, nana.StandardError)

	nacl := byCombo["Na-Cl"]
	require.Equal(Te, []float64{48, 36, 24, 12}, roundAll(nacl.Correlation))
	require.InEpsilon(Te, 120.0/36.0, nacl.Mean, 1e-9)

	//Cl-Cl mirrors Na-Na
	require.InEpsilon(Te, nana.Mean, byCombo["Cl-Cl"].Mean, 1e-9)
}

func roundAll(v []float64) []float64 {
	ret := make([]float64, len(v))
	for i, x := range v {
		ret[i] = math.Round(x*1e9) / 1e9
	}
	return ret
}

// Constant unit velocities over six steps with a stride of two give two
// identical ensembles, so the mean is exact and the spread zero.
func TestSelfDiffusionConstantVelocity(Te *testing.T) {
	src := store.NewMemSource()
	require.NoError(Te, src.Add("Na", kubo.Velocities, onesSeries(6), onesSeries(6)))
	o := kubo.DefaultOptions()
	o.DataRange(4)
	o.CorrelationTime(2)
	calc, err := kubo.New(kubo.SelfDiffusion, src, siExperiment(), o)
	require.NoError(Te, err)
	results, err := calc.Run()
	require.NoError(Te, err)
	require.Len(Te, results, 1)
	res := results[0]
	require.Equal(Te, 2, res.NSamples)
	//two particles auto-correlated: 2*3*(4-tau), integrated to 60, scaled
	//by 1/(3*2)
	require.InEpsilon(Te, 10.0, res.Mean, 1e-9)
	require.InDelta(Te, 0.0, res.StandardError, 1e-12)
	require.Equal(Te, []float64{48, 36, 24, 12}, roundAll(res.Correlation)) //summed over both ensembles
}

func TestThermalConductivityFlux(Te *testing.T) {
	src := store.NewMemSource()
	require.NoError(Te, src.Add(kubo.SystemSpecies, kubo.ThermalFlux, valueSeries(4, 2)))
	ex := siExperiment()
	ex.Volume = 1000
	o := kubo.DefaultOptions()
	o.DataRange(4)
	o.CorrelationTime(1)
	calc, err := kubo.New(kubo.ThermalConductivity, src, ex, o)
	require.NoError(Te, err)
	results, err := calc.Run()
	require.NoError(Te, err)
	require.Len(Te, results, 1)
	res := results[0]
	require.Equal(Te, kubo.SystemSpecies+"-"+kubo.SystemSpecies, res.Combination.String())
	//flux of constant 2: correlation 3*4*(4-tau), integral 120
	want := 120.0 / (3 * 3 * 300 * 300 * kubo.Boltzmann * 1000)
	require.InEpsilon(Te, want, res.Mean, 1e-9)
}

func TestIonicConductivityCurrent(Te *testing.T) {
	src := store.NewMemSource()
	require.NoError(Te, src.Add(kubo.SystemSpecies, kubo.IonicCurrent, onesSeries(4)))
	ex := siExperiment()
	ex.Volume = 500
	o := kubo.DefaultOptions()
	o.DataRange(4)
	o.CorrelationTime(1)
	calc, err := kubo.New(kubo.IonicConductivity, src, ex, o)
	require.NoError(Te, err)
	results, err := calc.Run()
	require.NoError(Te, err)
	require.Len(Te, results, 1)
	//unit current: correlation 3*(4-tau) = [12 9 6 3], trapezoid over
	//[0, 4] s is 30
	want := 30.0 / (3 * kubo.Boltzmann * 300 * 500)
	require.InEpsilon(Te, want, results[0].Mean, 1e-9)
}

// A one-particle species cannot produce a distinct correlation; the run
// must fail before any NaN sample is accumulated.
func TestDistinctDiffusionLoneParticle(Te *testing.T) {
	src := store.NewMemSource()
	require.NoError(Te, src.Add("Na", kubo.Velocities, onesSeries(8)))
	o := kubo.DefaultOptions()
	o.DataRange(4)
	calc, err := kubo.New(kubo.DistinctDiffusion, src, siExperiment(), o)
	require.NoError(Te, err)
	_, err = calc.Run()
	require.Error(Te, err)
	require.Equal(Te, kubo.InsufficientParticles, kubo.MessageOf(err))
}

// A trajectory one step too short for a single window must fail loudly, not
// hand back NaN statistics.
func TestEmptySampleSet(Te *testing.T) {
	o := kubo.DefaultOptions()
	o.DataRange(4)
	calc, err := kubo.New(kubo.DistinctDiffusion, naClSource(Te, 3), siExperiment(), o)
	require.NoError(Te, err)
	_, err = calc.Run()
	require.Error(Te, err)
	require.Equal(Te, kubo.EmptySampleSet, kubo.MessageOf(err))
}

// countingSource records bulk reads, to prove the memory check fires before
// any of them.
type countingSource struct {
	*store.MemSource
	reads int
}

func (c *countingSource) ReadPropertyBatch(species, property string, start, length int) ([]kubo.Series, error) {
	c.reads++
	return nil, errors.New("should never be reached")
}

func TestInsufficientMemoryBeforeAnyRead(Te *testing.T) {
	src := &countingSource{MemSource: naClSource(Te, 100)}
	o := kubo.DefaultOptions()
	o.DataRange(4)
	o.AvailableMemory(10) //not even one window of one particle
	calc, err := kubo.New(kubo.DistinctDiffusion, src, siExperiment(), o)
	require.NoError(Te, err)
	_, err = calc.Run()
	require.Error(Te, err)
	require.Equal(Te, kubo.InsufficientMemory, kubo.MessageOf(err))
	require.Equal(Te, 0, src.reads)
}

func TestInvalidWindowAtConfiguration(Te *testing.T) {
	o := kubo.DefaultOptions()
	o.DataRange(2)
	src := naClSource(Te, 8)
	//the accessors refuse out-of-range values, so the stored
	//configuration stays valid
	require.Equal(Te, 2, o.DataRange(1))
	require.Equal(Te, 2, o.DataRange())
	require.Equal(Te, 1, o.CorrelationTime(0))
	_, err := kubo.New(kubo.DistinctDiffusion, src, siExperiment(), o)
	require.NoError(Te, err)
	_, err = kubo.New(kubo.Coefficient(42), src, siExperiment(), o)
	require.Error(Te, err)
	require.Equal(Te, kubo.UnknownCoefficient, kubo.MessageOf(err))
}

func wavySource(Te *testing.T, steps int) *store.MemSource {
	src := store.NewMemSource()
	require.NoError(Te, src.Add("Na", kubo.Velocities, wavySeries(steps, 0.1), wavySeries(steps, 1.9)))
	require.NoError(Te, src.Add("Cl", kubo.Velocities, wavySeries(steps, 0.7), wavySeries(steps, 2.3)))
	return src
}

// Re-running the identical configuration on the identical input must give
// identical records.
func TestRunIdempotent(Te *testing.T) {
	o := kubo.DefaultOptions()
	o.DataRange(8)
	o.CorrelationTime(2)
	calc, err := kubo.New(kubo.DistinctDiffusion, wavySource(Te, 64), siExperiment(), o)
	require.NoError(Te, err)
	first, err := calc.Run()
	require.NoError(Te, err)
	second, err := calc.Run()
	require.NoError(Te, err)
	require.Equal(Te, first, second)
}

// The parallel path may only differ from the serial one by float summation
// order.
func TestParallelMatchesSerial(Te *testing.T) {
	run := func(cpus int) []*kubo.Result {
		o := kubo.DefaultOptions()
		o.DataRange(8)
		o.CorrelationTime(1)
		o.Cpus(cpus)
		calc, err := kubo.New(kubo.DistinctDiffusion, wavySource(Te, 64), siExperiment(), o)
		require.NoError(Te, err)
		results, err := calc.Run()
		require.NoError(Te, err)
		return results
	}
	serial := run(1)
	parallel := run(3)
	require.Equal(Te, len(serial), len(parallel))
	for i := range serial {
		require.Equal(Te, serial[i].Combination, parallel[i].Combination)
		require.Equal(Te, serial[i].NSamples, parallel[i].NSamples)
		require.InEpsilon(Te, serial[i].Mean, parallel[i].Mean, 1e-9)
		for tau := range serial[i].Correlation {
			require.InDelta(Te, serial[i].Correlation[tau], parallel[i].Correlation[tau], 1e-9)
		}
	}
}

// Batch progress is logged once per batch, except under minibatching, where
// it must stay completely silent.
func TestProgressSuppressedWhenMinibatching(Te *testing.T) {
	run := func(memory int64) int {
		core, logs := observer.New(zapcore.InfoLevel)
		o := kubo.DefaultOptions()
		o.DataRange(4)
		o.CorrelationTime(1)
		o.AvailableMemory(memory)
		o.Logger(zap.New(core))
		src := store.NewMemSource()
		require.NoError(Te, src.Add("Na", kubo.Velocities, onesSeries(6), onesSeries(6)))
		calc, err := kubo.New(kubo.DistinctDiffusion, src, siExperiment(), o)
		require.NoError(Te, err)
		_, err = calc.Run()
		require.NoError(Te, err)
		return logs.Len()
	}
	require.Greater(Te, run(1<<30), 0)
	//2 series * 3 dims * 8 bytes = 48 bytes per step: 500 bytes holds the
	//raw window but not the 5x headroom, which is the minibatch regime
	require.Equal(Te, 0, run(500))
}

// With KeepRemainder the kept trailing batch counts toward the logged total.
func TestProgressCountsRemainderBatch(Te *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	o := kubo.DefaultOptions()
	o.DataRange(4)
	o.CorrelationTime(1)
	o.KeepRemainder(true)
	//2 series * 3 dims * 8 bytes = 48 bytes per step, so this budget buys
	//batches of 5: 14 steps make two full batches plus a kept 4-step one
	o.AvailableMemory(5 * 48 * 5)
	o.Logger(zap.New(core))
	src := store.NewMemSource()
	require.NoError(Te, src.Add("Na", kubo.Velocities, onesSeries(14), onesSeries(14)))
	calc, err := kubo.New(kubo.SelfDiffusion, src, siExperiment(), o)
	require.NoError(Te, err)
	_, err = calc.Run()
	require.NoError(Te, err)
	require.Equal(Te, 3, logs.Len())
	for _, entry := range logs.All() {
		require.EqualValues(Te, 3, entry.ContextMap()["batches"])
	}
}
