package engine

import (
	"fmt"

	"github.com/tphakala/go-isoaudio/internal/mathutil"
)

// SigmaDelta is a first-order noise shaper for a DAC narrower than 16 bits.
// The bits the DAC cannot represent are fed back into the next sample, moving
// quantization noise up and out of the audio band. Arithmetic saturates so a
// full-scale input cannot wrap around.
type SigmaDelta struct {
	accumulator uint16
	quantError  uint16
	mask        uint16
}

// NewSigmaDelta creates a modulator for a left-aligned DAC of the given
// resolution. bits must be in 1..16; 16 disables shaping.
func NewSigmaDelta(bits uint) SigmaDelta {
	if bits == 0 || bits > maxDACBits {
		panic(fmt.Sprintf("engine: unsupported DAC resolution %d bits", bits))
	}
	return SigmaDelta{mask: uint16(0xFFFF << (sampleBits - bits))}
}

// Modulate shapes one sample and returns the word to load into the DAC.
func (m *SigmaDelta) Modulate(v uint16) uint16 {
	m.accumulator = mathutil.SatAddU16(v, mathutil.SatSubU16(m.accumulator, m.quantError))
	m.quantError = m.accumulator & m.mask
	return m.quantError
}

// Reset clears the accumulated error.
func (m *SigmaDelta) Reset() {
	m.accumulator = 0
	m.quantError = 0
}

// Mask returns the DAC resolution mask.
func (m *SigmaDelta) Mask() uint16 {
	return m.mask
}
