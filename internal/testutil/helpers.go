// Package testutil provides reusable test helpers for the fixed-point audio path.
package testutil

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Signal generation constants.
const (
	// Midscale is the unsigned code for a zero-amplitude sample.
	Midscale = 1 << 15

	// defaultSeed keeps generated noise reproducible across runs.
	defaultSeed = 0x5EED
)

// Constant returns n copies of v.
func Constant(n int, v uint16) []uint16 {
	s := make([]uint16, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// Ramp returns n samples rising by step from start, wrapping at 16 bits.
func Ramp(n int, start, step uint16) []uint16 {
	s := make([]uint16, n)
	v := start
	for i := range s {
		s[i] = v
		v += step
	}
	return s
}

// Sine returns n unsigned samples of a sine at freq Hz sampled at rate Hz,
// centered on midscale with the given peak amplitude.
func Sine(n int, freq, rate float64, amplitude uint16) []uint16 {
	s := make([]uint16, n)
	for i := range s {
		v := float64(amplitude) * math.Sin(2*math.Pi*freq*float64(i)/rate)
		s[i] = uint16(int32(Midscale) + int32(math.Round(v)))
	}
	return s
}

// Noise returns n uniformly distributed 16-bit readings from a fixed seed.
func Noise(n int) []uint16 {
	rng := rand.New(rand.NewPCG(defaultSeed, defaultSeed))
	s := make([]uint16, n)
	for i := range s {
		s[i] = uint16(rng.UintN(1 << 16))
	}
	return s
}

// AssertWithin verifies |expected-actual| <= delta for integer values.
func AssertWithin(t *testing.T, expected, actual, delta int64, msgAndArgs ...any) bool {
	t.Helper()
	diff := expected - actual
	if diff < 0 {
		diff = -diff
	}
	if diff > delta {
		return assert.Fail(t, fmt.Sprintf("expected %d, got %d (diff %d > %d)", expected, actual, diff, delta), msgAndArgs...)
	}
	return true
}

// AssertAllEqual verifies every element of s equals v.
func AssertAllEqual(t *testing.T, s []uint16, v uint16, msgAndArgs ...any) bool {
	t.Helper()
	for i, x := range s {
		if x != v {
			return assert.Fail(t, fmt.Sprintf("s[%d]=%#04x, want %#04x", i, x, v), msgAndArgs...)
		}
	}
	return true
}

// AssertMonotonic verifies that a slice never decreases.
func AssertMonotonic(t *testing.T, s []uint16, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return assert.Fail(t, fmt.Sprintf("s[%d]=%d < s[%d]=%d", i, s[i], i-1, s[i-1]), msgAndArgs...)
		}
	}
	return true
}

// AssertMasked verifies that no element has bits set outside mask.
func AssertMasked(t *testing.T, s []uint16, mask uint16, msgAndArgs ...any) bool {
	t.Helper()
	for i, x := range s {
		if x&^mask != 0 {
			return assert.Fail(t, fmt.Sprintf("s[%d]=%#04x has bits outside mask %#04x", i, x, mask), msgAndArgs...)
		}
	}
	return true
}

// AssertInRange verifies that a value is within [min, max].
func AssertInRange(t *testing.T, value, minVal, maxVal uint32, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, fmt.Sprintf("value %d is outside range [%d, %d]", value, minVal, maxVal), msgAndArgs...)
	}
	return true
}
