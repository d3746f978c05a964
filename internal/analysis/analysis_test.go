package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-isoaudio/internal/engine"
	"github.com/tphakala/go-isoaudio/internal/testutil"
)

// TestNormalize tests unsigned to float conversion.
func TestNormalize(t *testing.T) {
	got := Floats([]uint16{0, 0x4000, 0x8000, 0xC000})
	assert.Equal(t, []float64{-1, -0.5, 0, 0.5}, got)
}

// TestMeanRMS tests basic statistics.
func TestMeanRMS(t *testing.T) {
	assert.Zero(t, Mean(nil))
	assert.Zero(t, RMS(nil))

	x := []float64{1, -1, 1, -1}
	assert.InDelta(t, 0, Mean(x), 1e-12)
	assert.InDelta(t, 1, RMS(x), 1e-12)

	sine := Floats(testutil.Sine(4800, 1000, 48000, 16384))
	assert.InDelta(t, 0, Mean(sine), 1e-4)
	assert.InDelta(t, 0.5/math.Sqrt2, RMS(sine), 1e-3)
}

// TestDifference tests element-wise subtraction over the shortest slice.
func TestDifference(t *testing.T) {
	dst := make([]float64, 3)
	Difference(dst, []float64{3, 2, 1, 0}, []float64{1, 1})
	assert.Equal(t, []float64{2, 1, 0}, dst)
}

// TestPowerSpectrum_ToneBin verifies a tone lands in its bin.
func TestPowerSpectrum_ToneBin(t *testing.T) {
	const (
		rate = 48000
		n    = 4800
	)
	s := PowerSpectrum(Floats(testutil.Sine(n, 3000, rate, 16384)), rate)
	require.Len(t, s.Power, n/2+1)
	assert.InDelta(t, 10.0, s.BinHz, 1e-12)

	tone := s.BandPower(2950, 3060)
	rest := s.BandPower(0, 2900) + s.BandPower(3100, rate/2+1)
	assert.Greater(t, tone, 1000*rest)
}

// TestBandPower_Bounds tests empty and clipped ranges.
func TestBandPower_Bounds(t *testing.T) {
	assert.Zero(t, Spectrum{}.BandPower(0, 100))

	s := Spectrum{Power: []float64{1, 2, 3, 4}, BinHz: 10}
	assert.InDelta(t, 10.0, s.BandPower(-50, 1000), 1e-12)
	assert.InDelta(t, 5.0, s.BandPower(10, 30), 1e-12)
	assert.Zero(t, s.BandPower(30, 10))
}

// TestSigmaDelta_NoiseIsShapedUpward verifies the modulator moves
// quantization error out of the low band.
func TestSigmaDelta_NoiseIsShapedUpward(t *testing.T) {
	const (
		rate = 48000
		n    = 8192
	)
	in := testutil.Sine(n, 1000, rate, 10000)

	m := engine.NewSigmaDelta(engine.DefaultDACBits)
	out := make([]uint16, n)
	for i, v := range in {
		out[i] = m.Modulate(v)
	}

	diff := make([]float64, n)
	Difference(diff, Floats(out), Floats(in))
	s := PowerSpectrum(diff, rate)

	low := s.BandPower(0, rate/8)
	high := s.BandPower(3*rate/8, rate/2+1)
	assert.Less(t, low*4, high, "low band %.3g, high band %.3g", low, high)

	// DC survives shaping.
	assert.InDelta(t, Mean(Floats(in)), Mean(Floats(out)), 1e-3)
}

// TestSIMDInfo verifies CPU feature reporting is available.
func TestSIMDInfo(t *testing.T) {
	assert.NotEmpty(t, SIMDInfo())
}

func BenchmarkPowerSpectrum(b *testing.B) {
	x := Floats(testutil.Noise(4096))
	for b.Loop() {
		PowerSpectrum(x, 48000)
	}
}
