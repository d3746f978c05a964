package mathutil

// ToQ16 converts an integer to Q16.16.
func ToQ16(v uint32) uint64 {
	return uint64(v) << Q16Shift
}

// Q16Int returns the integer part of a Q16.16 value.
func Q16Int(v uint64) uint32 {
	return uint32(v >> Q16Shift)
}

// EMAQ16 advances an exponential moving average held in Q16.16.
// weight is in 1/65536 units; a weight of 64 gives a time constant of
// roughly 1024 updates. The update is exact at steady state: feeding the same
// sample forever leaves avg equal to sample<<16.
func EMAQ16(avg uint64, sample uint64, weight uint64) uint64 {
	return (avg*(Q16One-weight) + (sample<<Q16Shift)*weight) >> Q16Shift
}
