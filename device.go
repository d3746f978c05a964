package isoaudio

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/tphakala/go-isoaudio/internal/feedback"
	"github.com/tphakala/go-isoaudio/internal/stream"
)

// Alternate settings of each streaming interface.
const (
	AltZeroBandwidth = 0 // Stream closed
	AltStreaming     = 1 // 16-bit mono
)

// Device is the audio function of the adapter: one capture and one playback
// stream sharing a configuration and the hardware abstraction.
//
// Methods on Device run on the control path and mask interrupts around their
// updates. The streaming callbacks live on CaptureStream and PlaybackStream.
type Device struct {
	cfg      Config
	hw       Hardware
	log      *slog.Logger
	capture  *CaptureStream
	playback *PlaybackStream
}

// New creates a device with both streams closed. The configuration is
// validated and copied.
func New(cfg *Config, hw Hardware, captureFIFO, playbackFIFO FIFO, sink FeedbackSink) (*Device, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if hw == nil || captureFIFO == nil || playbackFIFO == nil || sink == nil {
		return nil, fmt.Errorf("%w: hardware, FIFOs and feedback sink are required", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := *cfg
	c.SupportedRates = slices.Clone(cfg.SupportedRates)

	d := &Device{
		cfg:      c,
		hw:       hw,
		log:      componentLogger(cfg.Logger, ComponentDevice),
		capture:  newCaptureStream(&c, hw, captureFIFO),
		playback: newPlaybackStream(&c, hw, playbackFIFO, sink),
	}

	d.log.Info("audio device ready",
		"analog_rate", c.AnalogRate,
		"capture_rate", c.CaptureRate,
		"playback_rate", c.PlaybackRate,
		"dac_bits", c.DACBits)

	return d, nil
}

// Capture returns the capture stream for wiring into interrupt handlers.
func (d *Device) Capture() *CaptureStream {
	return d.capture
}

// Playback returns the playback stream for wiring into interrupt handlers.
func (d *Device) Playback() *PlaybackStream {
	return d.playback
}

// Config returns a copy of the active configuration.
func (d *Device) Config() Config {
	c := d.cfg
	c.SupportedRates = slices.Clone(d.cfg.SupportedRates)
	return c
}

// SupportedRates returns the rates the host may select.
func (d *Device) SupportedRates() []uint32 {
	return slices.Clone(d.cfg.SupportedRates)
}

func (d *Device) lock() func() {
	st := d.hw.DisableInterrupts()
	return func() { d.hw.RestoreInterrupts(st) }
}

// SetSampleRate switches the USB rate of one direction. The converter,
// pre-buffer target and feedback nominal follow the new rate.
func (d *Device) SetSampleRate(dir Direction, rate uint32) error {
	if !slices.Contains(d.cfg.SupportedRates, rate) {
		return fmt.Errorf("%w: %d Hz", ErrUnsupportedRate, rate)
	}

	switch dir {
	case DirCapture:
		unlock := d.lock()
		d.capture.setRate(&d.cfg, rate)
		unlock()
		d.log.Info("sample rate changed", "direction", dir.String(), "rate", rate,
			"ratio", d.capture.dec.Ratio().String())
	case DirPlayback:
		unlock := d.lock()
		d.playback.setRate(&d.cfg, rate)
		unlock()
		d.log.Info("sample rate changed", "direction", dir.String(), "rate", rate,
			"ratio", d.playback.interp.Ratio().String())
	default:
		return fmt.Errorf("%w: %d", ErrInvalidDirection, dir)
	}
	return nil
}

// SampleRate returns the USB rate of one direction.
func (d *Device) SampleRate(dir Direction) (uint32, error) {
	switch dir {
	case DirCapture:
		return d.capture.Rate(), nil
	case DirPlayback:
		return d.playback.Rate(), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrInvalidDirection, dir)
	}
}

// SetInterface applies an alternate setting chosen by the host. Selecting
// AltStreaming opens the stream, AltZeroBandwidth closes it.
func (d *Device) SetInterface(dir Direction, alt uint8) error {
	if alt != AltZeroBandwidth && alt != AltStreaming {
		return fmt.Errorf("%w: %d", ErrInvalidAlternate, alt)
	}

	var openStream, closeStream func()
	switch dir {
	case DirCapture:
		openStream, closeStream = d.capture.open, d.capture.close
	case DirPlayback:
		openStream, closeStream = d.playback.open, d.playback.close
	default:
		return fmt.Errorf("%w: %d", ErrInvalidDirection, dir)
	}

	unlock := d.lock()
	if alt == AltStreaming {
		openStream()
	} else {
		closeStream()
	}
	unlock()

	if alt == AltStreaming {
		d.log.Info("stream opened", "direction", dir.String())
	} else {
		d.log.Info("stream closed", "direction", dir.String())
	}
	return nil
}

// State returns the stream state of one direction.
func (d *Device) State(dir Direction) (stream.State, error) {
	switch dir {
	case DirCapture:
		return d.capture.State(), nil
	case DirPlayback:
		return d.playback.State(), nil
	default:
		return stream.Off, fmt.Errorf("%w: %d", ErrInvalidDirection, dir)
	}
}

func (d *Device) controls(dir Direction) (*Controls, error) {
	switch dir {
	case DirCapture:
		return &d.capture.controls, nil
	case DirPlayback:
		return &d.playback.controls, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, dir)
	}
}

// SetMute sets the mute control of a channel. Channel 0 is the master.
func (d *Device) SetMute(dir Direction, ch int, mute bool) error {
	c, err := d.controls(dir)
	if err != nil {
		return err
	}

	unlock := d.lock()
	err = c.SetMute(ch, mute)
	unlock()
	if err != nil {
		return err
	}

	d.log.Debug("mute changed", "direction", dir.String(), "channel", ch, "mute", mute)
	return nil
}

// Mute returns the mute control of a channel.
func (d *Device) Mute(dir Direction, ch int) (bool, error) {
	c, err := d.controls(dir)
	if err != nil {
		return false, err
	}
	if err := checkChannel(ch); err != nil {
		return false, err
	}
	return c.Mute[ch], nil
}

// SetVolume sets the volume control of a channel in dB. The value is stored
// and reported back to the host.
func (d *Device) SetVolume(dir Direction, ch int, dB int16) error {
	c, err := d.controls(dir)
	if err != nil {
		return err
	}

	unlock := d.lock()
	err = c.SetVolume(ch, dB)
	unlock()
	if err != nil {
		return err
	}

	d.log.Debug("volume changed", "direction", dir.String(), "channel", ch, "volume_db", dB)
	return nil
}

// Volume returns the volume control of a channel in dB.
func (d *Device) Volume(dir Direction, ch int) (int16, error) {
	c, err := d.controls(dir)
	if err != nil {
		return 0, err
	}
	if err := checkChannel(ch); err != nil {
		return 0, err
	}
	return c.Volume[ch], nil
}

// SetRXGain sets the capture gain multiplier (1..16).
func (d *Device) SetRXGain(gain uint16) error {
	if gain < minRXGain || gain > maxRXGain {
		return fmt.Errorf("%w: RX gain %d outside %d..%d", ErrOutOfRange, gain, minRXGain, maxRXGain)
	}

	unlock := d.lock()
	d.capture.gain = int32(gain)
	d.cfg.RXGain = gain
	unlock()
	return nil
}

// SetTXBoost enables or disables the 2x playback boost.
func (d *Device) SetTXBoost(on bool) {
	unlock := d.lock()
	d.playback.boost = on
	d.cfg.TXBoost = on
	unlock()
}

// PlaybackBufferStats returns playback FIFO level statistics.
func (d *Device) PlaybackBufferStats() feedback.BufferStats {
	defer d.lock()()
	return d.playback.monitor.Stats()
}

// CaptureBufferStats returns capture FIFO level statistics.
func (d *Device) CaptureBufferStats() feedback.BufferStats {
	defer d.lock()()
	return d.capture.monitor.Stats()
}

// FeedbackStats returns statistics over emitted feedback values.
func (d *Device) FeedbackStats() feedback.FeedbackStats {
	defer d.lock()()
	return d.playback.controller.Stats()
}
