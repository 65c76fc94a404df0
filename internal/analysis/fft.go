package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitudes of the first half of the discrete
// Fourier transform of data.
func PowerSpectrum(data []float64) []float64 {
	f := fft.FFTReal(data)
	ps := make([]float64, len(f)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}

	return ps
}

// Autocorrelation returns the normalized autocorrelation ρ(k) of data for
// lags 0..len(data)-1, with ρ(0) = 1. Each lag is averaged over the n-k pairs
// that contribute to it. A constant series has no defined correlation and
// yields nil.
func Autocorrelation(data []float64) []float64 {
	n := len(data)
	if n == 0 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	// Zero padding to 2n keeps the circular correlation from wrapping.
	padded := make([]float64, 2*n)
	for i, v := range data {
		padded[i] = v - mean
	}

	f := fft.FFTReal(padded)
	for i, c := range f {
		f[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	raw := fft.IFFT(f)

	c0 := real(raw[0]) / float64(n)
	if c0 == 0 {
		return nil
	}

	acf := make([]float64, n)
	for k := range acf {
		acf[k] = real(raw[k]) / float64(n-k) / c0
	}
	return acf
}

// IntegratedTime is 1 + 2Σρ(k), summed until the first non-positive ρ(k).
func IntegratedTime(acf []float64) float64 {
	tau := 1.0
	for k := 1; k < len(acf); k++ {
		if acf[k] <= 0 {
			break
		}
		tau += 2 * acf[k]
	}
	return tau
}
