// Package simulate runs an audio device against a virtual host on a
// simulated timeline. The host clock and the device crystal disagree by a
// configurable amount, so tests can check that the feedback loop keeps the
// playback FIFO near its target instead of draining or overflowing it.
package simulate

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tphakala/go-isoaudio"
	"github.com/tphakala/go-isoaudio/internal/fifo"
)

// Bench defaults
const (
	defaultFIFOBytes = 4096
	bytesPerSample   = 2
	framesPerSecond  = 1000
	ppmScale         = 1e6
	q16One           = 1 << 16
	midscale         = 1 << 15
)

// Options configures a simulation run.
type Options struct {
	// Config is the device configuration. Nil uses isoaudio.DefaultConfig.
	Config *isoaudio.Config

	// ClockPPM is the device crystal error in parts per million. The DAC,
	// ADC and master clock counter share the crystal.
	ClockPPM float64

	// FIFOBytes sizes each endpoint FIFO. Zero uses 4096.
	FIFOBytes int

	// IgnoreFeedback makes the host send the nominal rate every frame.
	IgnoreFeedback bool

	// HostSignal produces the host's playback sample n. Nil sends silence.
	HostSignal func(n int) int16

	// ADCSignal produces ADC reading n. Nil reads midscale.
	ADCSignal func(n int) uint16

	// RecordDAC keeps every DAC word in the result.
	RecordDAC bool
}

// FrameStats is what the bench observed at the end of one host frame.
type FrameStats struct {
	PlaybackLevel int
	Feedback      uint32
	HostSent      int
}

// Result summarizes a run.
type Result struct {
	Frames    []FrameStats
	DAC       []uint16
	Captured  []int16
	Underruns uint32
	Overruns  uint32
	Registers [isoaudio.NumDiagnosticRegisters]uint32
}

// Bench drives one device through whole host frames.
type Bench struct {
	opts     Options
	hw       *Hardware
	sink     *feedbackLatch
	capture  *fifo.Buffer
	playback *fifo.Buffer
	dev      *isoaudio.Device

	slotAcc  float64 // fractional analog slots carried between frames
	cycleAcc float64 // fractional master cycles carried between frames
	hostAcc  uint64  // Q16.16 samples owed to the host stream

	hostN int
	adcN  int

	dacBuf []uint16
	adcBuf []uint16
	rxBuf  []byte
	txBuf  []byte
}

// New creates a bench with both streams opened by the virtual host.
func New(opts Options) (*Bench, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = isoaudio.DefaultConfig()
	}
	if opts.FIFOBytes == 0 {
		opts.FIFOBytes = defaultFIFOBytes
	}

	b := &Bench{
		opts:     opts,
		hw:       &Hardware{},
		sink:     &feedbackLatch{},
		capture:  fifo.New(opts.FIFOBytes),
		playback: fifo.New(opts.FIFOBytes),
	}

	dev, err := isoaudio.New(cfg, b.hw, b.capture, b.playback, b.sink)
	if err != nil {
		return nil, fmt.Errorf("failed to create device: %w", err)
	}
	b.dev = dev

	for _, dir := range []isoaudio.Direction{isoaudio.DirCapture, isoaudio.DirPlayback} {
		if err := dev.SetInterface(dir, isoaudio.AltStreaming); err != nil {
			return nil, err
		}
	}

	slots := int(cfg.AnalogRate/framesPerSecond) + 2
	b.dacBuf = make([]uint16, slots)
	b.adcBuf = make([]uint16, slots)
	b.rxBuf = make([]byte, opts.FIFOBytes)
	b.txBuf = make([]byte, 0, opts.FIFOBytes)
	return b, nil
}

// Device returns the simulated device.
func (b *Bench) Device() *isoaudio.Device {
	return b.dev
}

// Hardware returns the virtual board.
func (b *Bench) Hardware() *Hardware {
	return b.hw
}

// Run simulates the given number of host frames.
func (b *Bench) Run(frames int) *Result {
	res := &Result{Frames: make([]FrameStats, 0, frames)}
	for range frames {
		res.Frames = append(res.Frames, b.frame(res))
	}

	res.Underruns = b.dev.Playback().Underruns()
	res.Overruns = b.dev.Capture().Overruns()
	res.Registers = b.dev.DiagnosticRegisters()
	return res
}

// frame runs one millisecond of host time.
func (b *Bench) frame(res *Result) FrameStats {
	cfg := b.dev.Config()
	drift := 1 + b.opts.ClockPPM/ppmScale
	pb := b.dev.Playback()
	cp := b.dev.Capture()

	// Start of frame: the counter is latched and feedback goes out.
	b.cycleAcc += float64(cfg.MasterClockHz) / framesPerSecond * drift
	cycles := math.Floor(b.cycleAcc)
	b.cycleAcc -= cycles
	b.hw.Advance(uint32(cycles))
	pb.OnFeedbackTick()

	// Host OUT packet.
	sent := b.hostPacket(pb.Rate())
	pb.OnProducerTick()

	// Host IN packet.
	cp.OnProducerTick()
	if n := b.capture.Read(b.rxBuf); n > 0 {
		for i := 0; i+bytesPerSample <= n; i += bytesPerSample {
			res.Captured = append(res.Captured, int16(binary.LittleEndian.Uint16(b.rxBuf[i:])))
		}
	}

	// Analog side for the rest of the frame.
	b.slotAcc += float64(cfg.AnalogRate) / framesPerSecond * drift
	slots := int(math.Floor(b.slotAcc))
	b.slotAcc -= float64(slots)

	if b.hw.Enabled(isoaudio.SourceDACTimer) {
		out := b.dacBuf[:slots]
		pb.OnConsumerTick(out)
		if b.opts.RecordDAC {
			res.DAC = append(res.DAC, out...)
		}
	}
	if b.hw.Enabled(isoaudio.SourceADC) {
		in := b.adcBuf[:slots]
		for i := range in {
			in[i] = b.adcReading()
		}
		cp.OnADCBlock(in)
	}

	return FrameStats{
		PlaybackLevel: b.playback.Available() / bytesPerSample,
		Feedback:      pb.LastFeedback(),
		HostSent:      sent,
	}
}

// hostPacket writes one frame of host samples, sized by the last feedback
// value the host received.
func (b *Bench) hostPacket(rate uint32) int {
	perFrame := uint64(rate) * q16One / framesPerSecond
	if !b.opts.IgnoreFeedback && b.sink.valid {
		perFrame = uint64(b.sink.value)
	}
	b.hostAcc += perFrame
	n := int(b.hostAcc / q16One)
	b.hostAcc -= uint64(n) * q16One

	b.txBuf = b.txBuf[:0]
	for range n {
		var s int16
		if b.opts.HostSignal != nil {
			s = b.opts.HostSignal(b.hostN)
		}
		b.hostN++
		b.txBuf = binary.LittleEndian.AppendUint16(b.txBuf, uint16(s))
	}
	b.playback.Write(b.txBuf)
	return n
}

func (b *Bench) adcReading() uint16 {
	n := b.adcN
	b.adcN++
	if b.opts.ADCSignal == nil {
		return midscale
	}
	return b.opts.ADCSignal(n)
}
