package engine

// Decimator exchange buffer
const (
	// OutputQueueSize is the capacity of the decimator output queue. Callers must
	// drain it at least once per OutputQueueSize completed samples.
	OutputQueueSize = 128
)

// Sigma-delta modulator constants
const (
	// sampleBits is the width of every sample word on the analog side.
	sampleBits = 16

	// DefaultDACBits is the resolution of the on-chip 12-bit DAC.
	DefaultDACBits = 12

	// maxDACBits disables quantization noise shaping entirely.
	maxDACBits = sampleBits
)
