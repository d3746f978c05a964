package isoaudio

// FIFO is a streaming endpoint buffer owned by the USB transport.
// Data is signed 16-bit little-endian samples. Read and Write transfer as
// many bytes as possible without blocking and return the count.
type FIFO interface {
	Available() int
	Read(p []byte) int
	Write(p []byte) int
}

// FeedbackSink receives the asynchronous feedback value, in Q16.16 samples
// per frame, for the playback endpoint.
type FeedbackSink interface {
	SetFeedback(valueQ16 uint32)
}

// CycleCounter is a free-running master clock counter latched at the start
// of each USB frame.
type CycleCounter interface {
	Cycles() uint32
}

// Source identifies a hardware interrupt source gated by a stream.
type Source uint8

// Interrupt sources.
const (
	// SourceADC is the ADC end-of-sequence interrupt feeding capture.
	SourceADC Source = iota
	// SourceDACTimer is the sample timer that reloads the DAC.
	SourceDACTimer
)

// String returns the source name.
func (s Source) String() string {
	switch s {
	case SourceADC:
		return "adc"
	case SourceDACTimer:
		return "dac-timer"
	default:
		return "unknown"
	}
}

// InterruptState is the saved interrupt mask returned by DisableInterrupts.
type InterruptState uintptr

// Hardware is the device abstraction the audio path drives.
//
// DisableInterrupts and RestoreInterrupts bracket control path updates so
// they are atomic with respect to the streaming callbacks, in the manner of
// TinyGo's runtime/interrupt.Disable and Restore.
type Hardware interface {
	CycleCounter
	Enable(src Source)
	Disable(src Source)
	DisableInterrupts() InterruptState
	RestoreInterrupts(state InterruptState)
}

// Direction selects the capture or playback half of the device.
type Direction uint8

// Stream directions.
const (
	// DirCapture is the ADC to host direction (USB IN).
	DirCapture Direction = iota
	// DirPlayback is the host to DAC direction (USB OUT).
	DirPlayback
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirCapture:
		return "capture"
	case DirPlayback:
		return "playback"
	default:
		return "unknown"
	}
}
