package isoaudio

import (
	"encoding/binary"

	"github.com/tphakala/go-isoaudio/internal/engine"
	"github.com/tphakala/go-isoaudio/internal/feedback"
	"github.com/tphakala/go-isoaudio/internal/mathutil"
	"github.com/tphakala/go-isoaudio/internal/stream"
)

// CaptureStream carries ADC readings to the host. Readings at the analog
// rate are decimated to the USB rate, converted to signed samples and
// written to the capture FIFO.
type CaptureStream struct {
	machine  *stream.Machine
	dec      *engine.Decimator
	monitor  *feedback.Monitor
	fifo     FIFO
	controls Controls
	gain     int32
	rate     uint32

	overruns uint32
	scratch  [bytesPerSample]byte
}

func newCaptureStream(cfg *Config, hw Hardware, fifo FIFO) *CaptureStream {
	return &CaptureStream{
		machine: stream.NewMachine(stream.Hooks{
			Enable:  func() { hw.Enable(SourceADC) },
			Disable: func() { hw.Disable(SourceADC) },
		}),
		dec:     engine.NewDecimator(cfg.AnalogRate, cfg.CaptureRate),
		monitor: feedback.NewMonitor(cfg.prebufferTarget(cfg.CaptureRate), cfg.AverageWeight),
		fifo:    fifo,
		gain:    int32(cfg.RXGain),
		rate:    cfg.CaptureRate,
	}
}

// OnProducerTick is called by the transport when it is about to load the
// next IN packet. The first call after the stream opens starts the ADC.
func (s *CaptureStream) OnProducerTick() {
	s.machine.Advance(true)
}

// OnADCBlock consumes a block of left-aligned ADC readings. Readings that
// arrive while the stream is not running are discarded.
func (s *CaptureStream) OnADCBlock(readings []uint16) {
	if s.machine.State() != stream.Run {
		return
	}

	// Each output consumes at least one reading, so chunks of the queue
	// size cannot overflow it.
	for len(readings) > 0 {
		n := min(len(readings), engine.OutputQueueSize)
		s.dec.Process(readings[:n])
		for _, sum := range s.dec.Outputs() {
			s.push(uint16(s.dec.Scale(sum)))
		}
		readings = readings[n:]
	}
}

// push converts one decimated reading and writes it to the FIFO.
func (s *CaptureStream) push(v uint16) {
	sample := int16(int32(v) - signOffset)
	if s.controls.Muted(MaxChannels) {
		sample = 0
	} else if s.gain != minRXGain {
		sample = mathutil.SatS16(int32(sample) * s.gain)
	}

	binary.LittleEndian.PutUint16(s.scratch[:], uint16(sample))
	if s.fifo.Write(s.scratch[:]) < bytesPerSample {
		s.overruns++
	}
	s.monitor.Observe(fifoLevel(s.fifo))
}

// State returns the stream state.
func (s *CaptureStream) State() stream.State {
	return s.machine.State()
}

// Overruns returns how many samples were dropped on a full FIFO.
func (s *CaptureStream) Overruns() uint32 {
	return s.overruns
}

// Rate returns the USB sample rate.
func (s *CaptureStream) Rate() uint32 {
	return s.rate
}

func (s *CaptureStream) open() {
	s.machine.Open()
	s.dec.Reset()
	s.monitor.Reset()
}

func (s *CaptureStream) close() {
	s.machine.Close()
}

func (s *CaptureStream) setRate(cfg *Config, rate uint32) {
	s.rate = rate
	s.dec.SetRatio(engine.NewRatio(cfg.AnalogRate, rate))
	s.monitor.SetTarget(cfg.prebufferTarget(rate))
	s.monitor.Reset()
}

// fifoLevel returns the FIFO level in samples, saturated to 16 bits.
func fifoLevel(f FIFO) uint16 {
	return uint16(min(f.Available()/bytesPerSample, maxLevel))
}
