package kubo

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

func cmplxMulConj(dst, b []complex128) {
	if len(dst) != len(b) {
		panic(fmt.Sprintf("complex conjugate multiplication of slices: Both slices should have the same len %d, %d", len(dst), len(b)))
	}
	for i, v := range b {
		dst[i] *= cmplx.Conj(v)
	}
}

func cmplxRealScale(dst []complex128, sc float64) []complex128 {
	for i, v := range dst {
		dst[i] = v * complex(sc, 0)
	}
	return dst
}

// Correlator computes the one-sided time-correlation function of two
// ensembles, summed over the Cartesian dimensions of the property and over
// the particle pairs of the ensembles. The full discrete cross-correlation
// c[k] = sum_t a[t+k]*b[t] (k from -(N-1) to N-1) is folded down to its
// causal half, k >= 0, by discarding the negative lags.
//
// A pairwise Correlator (distinct correlations) runs over every particle
// pair (i, j), skipping i == j when both ensembles come from the same
// species; a non-pairwise one (auto-correlations, fluxes) correlates each
// particle with itself only, with no skip.
//
// Correlate may run directly or through FFT; the two agree within floating
// point tolerance. A Correlator reuses internal scratch space, so it must
// not be shared between goroutines; give each worker its own.
type Correlator struct {
	dataRange int
	pairwise  bool
	fft       *fourier.CmplxFFT
	ca, cb    []float64    //per-dimension component buffers
	full      []float64    //full correlation, direct path
	apad      []complex128 //zero-padded signals, FFT path
	bpad      []complex128
}

// NewCorrelator prepares a correlator for windows of dataRange samples.
func NewCorrelator(dataRange int, pairwise, useFFT bool) (*Correlator, error) {
	if dataRange < 2 {
		return nil, CalcError{message: InvalidWindow, deco: []string{"NewCorrelator"}, critical: true}
	}
	C := &Correlator{
		dataRange: dataRange,
		pairwise:  pairwise,
		ca:        make([]float64, dataRange),
		cb:        make([]float64, dataRange),
	}
	if useFFT {
		//Padding to twice the window length makes the circular correlation
		//of the FFT equal to the linear one.
		C.fft = fourier.NewCmplxFFT(2 * dataRange)
		C.apad = make([]complex128, 2*dataRange)
		C.bpad = make([]complex128, 2*dataRange)
	} else {
		C.full = make([]float64, 2*dataRange-1)
	}
	return C, nil
}

// DataRange returns the window length the correlator was built for.
func (C *Correlator) DataRange() int { return C.dataRange }

// Correlate returns the one-sided correlation function of the two windows, a
// fresh slice of dataRange values. Both ensembles must hold windows of the
// correlator's data range.
func (C *Correlator) Correlate(ea, eb *Ensemble, sameSpecies bool) ([]float64, error) {
	dst := make([]float64, C.dataRange)
	if C.pairwise {
		for i, a := range ea.A {
			for j, b := range eb.B {
				if sameSpecies && i == j {
					continue
				}
				if err := C.accumulatePair(a, b, dst); err != nil {
					return nil, errDecorate(err, "Correlate")
				}
			}
		}
		return dst, nil
	}
	if len(ea.A) != len(eb.B) {
		return nil, CalcError{message: InvalidWindow, deco: []string{"Correlate: mismatched particle counts"}, critical: true}
	}
	for i, a := range ea.A {
		if err := C.accumulatePair(a, eb.B[i], dst); err != nil {
			return nil, errDecorate(err, "Correlate")
		}
	}
	return dst, nil
}

// accumulatePair adds the dimension-summed one-sided correlation of two
// single-particle windows into dst.
func (C *Correlator) accumulatePair(a, b Series, dst []float64) error {
	if a.Steps() != C.dataRange || b.Steps() != C.dataRange || a.Dims() != b.Dims() {
		return CalcError{message: InvalidWindow, deco: []string{"accumulatePair: window does not match the correlator's data range"}, critical: true}
	}
	for d := 0; d < a.Dims(); d++ {
		a.Component(d, C.ca)
		b.Component(d, C.cb)
		if C.fft != nil {
			C.fftOneSided(C.ca, C.cb, dst)
		} else {
			C.directOneSided(C.ca, C.cb, dst)
		}
	}
	return nil
}

// directOneSided computes the full linear cross-correlation of a and b and
// adds its non-negative lags into dst.
func (C *Correlator) directOneSided(a, b, dst []float64) {
	n := C.dataRange
	for i := range C.full {
		C.full[i] = 0
	}
	for k := range C.full {
		lag := k - (n - 1)
		var sum float64
		for t := 0; t < n; t++ {
			ta := t + lag
			if ta < 0 || ta >= n {
				continue
			}
			sum += a[ta] * b[t]
		}
		C.full[k] = sum
	}
	for tau := 0; tau < n; tau++ {
		dst[tau] += C.full[n-1+tau]
	}
}

// fftOneSided does the same through the convolution theorem: with both
// signals zero-padded to twice their length, the inverse transform of
// FFT(a)*conj(FFT(b)) holds the non-negative lags in its first half.
func (C *Correlator) fftOneSided(a, b, dst []float64) {
	n := C.dataRange
	for i := 0; i < n; i++ {
		C.apad[i] = complex(a[i], 0)
		C.bpad[i] = complex(b[i], 0)
	}
	for i := n; i < 2*n; i++ {
		C.apad[i] = 0
		C.bpad[i] = 0
	}
	C.fft.Coefficients(C.apad, C.apad)
	C.fft.Coefficients(C.bpad, C.bpad)
	cmplxMulConj(C.apad, C.bpad)
	C.fft.Sequence(C.apad, C.apad)
	cmplxRealScale(C.apad, 1.0/float64(len(C.apad))) //normalization of the FFT
	for tau := 0; tau < n; tau++ {
		dst[tau] += real(C.apad[tau])
	}
}
