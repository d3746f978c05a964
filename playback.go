package isoaudio

import (
	"encoding/binary"

	"github.com/tphakala/go-isoaudio/internal/engine"
	"github.com/tphakala/go-isoaudio/internal/feedback"
	"github.com/tphakala/go-isoaudio/internal/mathutil"
	"github.com/tphakala/go-isoaudio/internal/stream"
)

// silence is the DAC word for zero amplitude.
const silence = signOffset

// PlaybackStream carries host samples to the DAC. Samples are read from the
// playback FIFO, interpolated to the analog rate and noise shaped. Once per
// frame it reports the asynchronous feedback value to the host.
type PlaybackStream struct {
	machine    *stream.Machine
	interp     *engine.Interpolator
	monitor    *feedback.Monitor
	controller *feedback.Controller
	fifo       FIFO
	sink       FeedbackSink
	counter    CycleCounter
	controls   Controls
	boost      bool
	rate       uint32

	underruns    uint32
	lastFeedback uint32
	scratch      [bytesPerSample]byte
	next         func() uint32
}

func newPlaybackStream(cfg *Config, hw Hardware, fifo FIFO, sink FeedbackSink) *PlaybackStream {
	s := &PlaybackStream{
		machine: stream.NewMachine(stream.Hooks{
			Enable:  func() { hw.Enable(SourceDACTimer) },
			Disable: func() { hw.Disable(SourceDACTimer) },
		}),
		interp:     engine.NewInterpolator(cfg.PlaybackRate, cfg.AnalogRate, cfg.DACBits),
		monitor:    feedback.NewMonitor(cfg.prebufferTarget(cfg.PlaybackRate), cfg.AverageWeight),
		controller: feedback.NewController(cfg.PlaybackRate, cfg.MasterClockHz, cfg.Coupling, cfg.AverageWeight),
		fifo:       fifo,
		sink:       sink,
		counter:    hw,
		boost:      cfg.TXBoost,
		rate:       cfg.PlaybackRate,
	}
	s.next = s.pull
	s.lastFeedback = s.controller.Nominal()
	return s
}

// OnProducerTick is called by the transport after host data lands in the
// FIFO. While starting, it starts the DAC once the pre-buffer target is met.
func (s *PlaybackStream) OnProducerTick() {
	if s.machine.State() != stream.Start {
		return
	}
	s.machine.Advance(s.monitor.TargetReached(fifoLevel(s.fifo)))
}

// OnConsumerTick fills out with DAC words. It writes silence unless the
// stream is running.
func (s *PlaybackStream) OnConsumerTick(out []uint16) {
	if s.machine.State() != stream.Run {
		for i := range out {
			out[i] = silence
		}
		return
	}
	s.interp.FillBuffer(out, s.next)
}

// pull reads one sample from the FIFO as an unsigned word, substituting
// silence on underrun.
func (s *PlaybackStream) pull() uint32 {
	if s.fifo.Read(s.scratch[:]) < bytesPerSample {
		s.underruns++
		s.monitor.Observe(0)
		return silence
	}
	s.monitor.Observe(fifoLevel(s.fifo))

	sample := int16(binary.LittleEndian.Uint16(s.scratch[:]))
	switch {
	case s.controls.Muted(MaxChannels):
		sample = 0
	case s.boost:
		sample = mathutil.SatS16(int32(sample) * txBoostFactor)
	}
	return uint32(int32(sample) + signOffset)
}

// OnFeedbackTick computes the feedback value for the frame that just began,
// hands it to the sink and returns it.
func (s *PlaybackStream) OnFeedbackTick() uint32 {
	fb := s.controller.Update(s.counter.Cycles(), s.machine.State(), s.monitor)
	s.lastFeedback = fb
	s.sink.SetFeedback(fb)
	return fb
}

// State returns the stream state.
func (s *PlaybackStream) State() stream.State {
	return s.machine.State()
}

// Underruns returns how many samples were replaced by silence.
func (s *PlaybackStream) Underruns() uint32 {
	return s.underruns
}

// LastFeedback returns the most recent feedback value in Q16.16.
func (s *PlaybackStream) LastFeedback() uint32 {
	return s.lastFeedback
}

// Rate returns the USB sample rate.
func (s *PlaybackStream) Rate() uint32 {
	return s.rate
}

func (s *PlaybackStream) open() {
	s.machine.Open()
	s.interp.Reset()
	s.monitor.Reset()
	s.controller.ResetStats()
}

func (s *PlaybackStream) close() {
	s.machine.Close()
}

func (s *PlaybackStream) setRate(cfg *Config, rate uint32) {
	s.rate = rate
	s.interp.SetRatio(engine.NewRatio(cfg.AnalogRate, rate))
	s.monitor.SetTarget(cfg.prebufferTarget(rate))
	s.monitor.Reset()
	s.controller.SetSampleRate(rate)
	s.lastFeedback = s.controller.Nominal()
}
