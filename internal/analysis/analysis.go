// Package analysis measures converter output on the host side: DC level,
// RMS error and how quantization noise is distributed across frequency.
//
// It runs in tests and the simulation bench only. Nothing here is meant for
// an interrupt context.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/tphakala/simd/c128"
	"github.com/tphakala/simd/cpu"
	"github.com/tphakala/simd/f64"
	"gonum.org/v1/gonum/dsp/fourier"
)

const (
	// midscale is the unsigned code for zero amplitude.
	midscale = 1 << 15

	// fullScale normalizes a signed 16-bit sample to [-1, 1).
	fullScale = 1 << 15

	// hermitianDivisor gives the unique bins of a real FFT: N/2 + 1.
	hermitianDivisor = 2
)

// Normalize converts unsigned midscale-centered samples to floats in [-1, 1).
// dst must be at least as long as src.
func Normalize(dst []float64, src []uint16) {
	dst = dst[:len(src)]
	for i, v := range src {
		dst[i] = float64(int32(v) - midscale)
	}
	f64.Scale(dst, dst, 1.0/fullScale)
}

// Floats returns src normalized into a new slice.
func Floats(src []uint16) []float64 {
	dst := make([]float64, len(src))
	Normalize(dst, src)
	return dst
}

// Mean returns the average of x, or 0 for an empty slice.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return f64.Sum(x) / float64(len(x))
}

// RMS returns the root mean square of x, or 0 for an empty slice.
func RMS(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Sqrt(f64.DotProduct(x, x) / float64(len(x)))
}

// Difference writes a[i]-b[i] into dst over the shortest of the three.
func Difference(dst, a, b []float64) {
	n := min(len(dst), len(a), len(b))
	for i := range n {
		dst[i] = a[i] - b[i]
	}
}

// SIMDInfo reports the vector extensions used by the arithmetic helpers.
func SIMDInfo() string {
	return cpu.Info()
}

// Spectrum is a one-sided power spectrum.
type Spectrum struct {
	Power []float64
	BinHz float64
}

// PowerSpectrum computes the Hann-windowed power spectrum of x sampled at
// sampleRate Hz. len(x) should be even.
func PowerSpectrum(x []float64, sampleRate float64) Spectrum {
	n := len(x)
	if n == 0 {
		return Spectrum{}
	}

	windowed := make([]float64, n)
	for i, v := range x {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n))
		windowed[i] = v * w
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, windowed)

	conj := make([]complex128, len(coeffs))
	for i, c := range coeffs {
		conj[i] = cmplx.Conj(c)
	}
	prod := make([]complex128, len(coeffs))
	c128.Mul(prod, coeffs, conj)

	power := make([]float64, n/hermitianDivisor+1)
	for i := range power {
		power[i] = real(prod[i])
	}
	f64.Scale(power, power, 1/float64(n))

	return Spectrum{Power: power, BinHz: sampleRate / float64(n)}
}

// BandPower sums the power in bins whose centers lie in [loHz, hiHz).
func (s Spectrum) BandPower(loHz, hiHz float64) float64 {
	if s.BinHz == 0 {
		return 0
	}
	lo := max(int(math.Ceil(loHz/s.BinHz)), 0)
	hi := min(int(math.Ceil(hiHz/s.BinHz)), len(s.Power))
	if lo >= hi {
		return 0
	}
	return f64.Sum(s.Power[lo:hi])
}
