package isoaudio

// Channel constants
const (
	// MaxChannels is the number of logical channels per direction.
	// Feature unit controls add channel 0 as the master.
	MaxChannels = 1

	masterChannel = 0
)

// Rate constants
const (
	framesPerSecond = 1000 // Full-speed USB frames per second

	minUSBRate = 8000  // Lowest rate with a non-zero feedback lower bound
	maxUSBRate = 96000 // Highest rate the descriptors advertise
)

// Sample format constants
const (
	bytesPerSample = 2       // Signed 16-bit little-endian USB samples
	signOffset     = 1 << 15 // Unsigned midscale code for signed zero
	maxLevel       = 1<<16 - 1
)

// Feature unit ranges
const (
	minVolumeDB = -90
	maxVolumeDB = 90

	minRXGain = 1
	maxRXGain = 16

	txBoostFactor = 2
)

// Default configuration values
const (
	defaultAnalogRate      = 48000
	defaultMasterClockHz   = 72_000_000
	defaultDACBits         = 12
	defaultPrebufferFrames = 5
	defaultCoupling        = 4
	defaultAverageWeight   = 64
)

// defaultSupportedRates lists the rates advertised to the host, highest first.
var defaultSupportedRates = []uint32{48000, 44100, 32000, 24000, 22050, 16000, 12000, 11025, 8000}
