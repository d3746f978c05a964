package mathutil

// Q16.16 fixed-point constants
const (
	// Q16Shift is the number of fractional bits in a Q16.16 value.
	Q16Shift = 16

	// Q16One is 1.0 in Q16.16.
	Q16One = 1 << Q16Shift
)
