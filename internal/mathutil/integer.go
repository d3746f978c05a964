// Package mathutil provides integer helpers for the fixed-point audio path.
//
// Nothing in this package allocates or uses floating point, so every function
// is safe to call from an interrupt context.
package mathutil

import "math"

// GCD returns the greatest common divisor of a and b using Euclid's algorithm.
// GCD(0, b) is b and GCD(0, 0) is 0.
func GCD(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// SatAddU16 adds two unsigned 16-bit values, clamping at 0xFFFF instead of wrapping.
func SatAddU16(a, b uint16) uint16 {
	s := uint32(a) + uint32(b)
	if s > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(s)
}

// SatSubU16 subtracts b from a, clamping at 0 instead of wrapping.
func SatSubU16(a, b uint16) uint16 {
	if b > a {
		return 0
	}
	return a - b
}

// SatS16 clamps a signed value to the int16 range.
func SatS16(v int32) int16 {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	default:
		return int16(v)
	}
}
