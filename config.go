package isoaudio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"gopkg.in/yaml.v3"
)

// Config holds device audio configuration. The values mirror the settings
// registers that persist between power cycles.
type Config struct {
	// AnalogRate is the ADC/DAC conversion rate in Hz. Both USB rates must
	// be at most AnalogRate.
	AnalogRate uint32 `yaml:"analog_rate"`

	// CaptureRate and PlaybackRate are the initial USB sample rates in Hz.
	CaptureRate  uint32 `yaml:"capture_rate"`
	PlaybackRate uint32 `yaml:"playback_rate"`

	// SupportedRates lists the USB rates the host may select.
	SupportedRates []uint32 `yaml:"supported_rates"`

	// MasterClockHz is the frequency of the free-running cycle counter.
	MasterClockHz uint32 `yaml:"master_clock_hz"`

	// DACBits is the DAC resolution. Playback is noise shaped below 16 bits.
	DACBits uint `yaml:"dac_bits"`

	// PrebufferFrames is how many frames of playback must be buffered
	// before the DAC starts. It is also the level the feedback loop holds.
	PrebufferFrames uint32 `yaml:"prebuffer_frames"`

	// Coupling scales the FIFO level correction of the feedback value.
	Coupling int32 `yaml:"coupling"`

	// AverageWeight is the moving average weight in 1/65536 units.
	AverageWeight uint32 `yaml:"average_weight"`

	// RXGain multiplies captured samples, saturating (1..16).
	RXGain uint16 `yaml:"rx_gain"`

	// TXBoost doubles playback samples, saturating.
	TXBoost bool `yaml:"tx_boost"`

	// Logger receives control path events. Nil uses DefaultLogger.
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns the factory configuration: 48 kHz both ways on a
// 72 MHz master clock with a 12-bit DAC.
func DefaultConfig() *Config {
	return &Config{
		AnalogRate:      defaultAnalogRate,
		CaptureRate:     defaultAnalogRate,
		PlaybackRate:    defaultAnalogRate,
		SupportedRates:  slices.Clone(defaultSupportedRates),
		MasterClockHz:   defaultMasterClockHz,
		DACBits:         defaultDACBits,
		PrebufferFrames: defaultPrebufferFrames,
		Coupling:        defaultCoupling,
		AverageWeight:   defaultAverageWeight,
		RXGain:          minRXGain,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.AnalogRate < minUSBRate {
		return fmt.Errorf("%w: analog rate must be at least %d Hz", ErrInvalidConfig, minUSBRate)
	}

	if c.MasterClockHz < c.AnalogRate {
		return fmt.Errorf("%w: master clock must be at least the analog rate", ErrInvalidConfig)
	}

	if len(c.SupportedRates) == 0 {
		return fmt.Errorf("%w: no supported rates", ErrInvalidConfig)
	}
	for _, rate := range c.SupportedRates {
		if err := c.checkRate(rate); err != nil {
			return err
		}
	}

	for _, rate := range []uint32{c.CaptureRate, c.PlaybackRate} {
		if !slices.Contains(c.SupportedRates, rate) {
			return fmt.Errorf("%w: initial rate %d Hz", ErrUnsupportedRate, rate)
		}
	}

	if c.DACBits == 0 || c.DACBits > 16 {
		return fmt.Errorf("%w: DAC resolution must be 1-16 bits", ErrInvalidConfig)
	}

	if c.PrebufferFrames == 0 {
		return fmt.Errorf("%w: prebuffer must be at least one frame", ErrInvalidConfig)
	}
	if uint64(c.PrebufferFrames)*uint64(c.maxRate())/framesPerSecond > maxLevel {
		return fmt.Errorf("%w: prebuffer of %d frames exceeds %d samples", ErrInvalidConfig, c.PrebufferFrames, maxLevel)
	}

	if c.Coupling < 0 {
		return fmt.Errorf("%w: coupling must not be negative", ErrInvalidConfig)
	}

	if c.AverageWeight == 0 || c.AverageWeight >= 1<<16 {
		return fmt.Errorf("%w: average weight must be in (0, 65536)", ErrInvalidConfig)
	}

	if c.RXGain < minRXGain || c.RXGain > maxRXGain {
		return fmt.Errorf("%w: RX gain must be %d-%d", ErrInvalidConfig, minRXGain, maxRXGain)
	}

	return nil
}

// checkRate verifies a USB rate can be converted to and from AnalogRate.
func (c *Config) checkRate(rate uint32) error {
	if rate < minUSBRate || rate > maxUSBRate {
		return fmt.Errorf("%w: %d Hz outside %d-%d Hz", ErrUnsupportedRate, rate, minUSBRate, maxUSBRate)
	}
	if rate > c.AnalogRate {
		return fmt.Errorf("%w: %d Hz above analog rate %d Hz", ErrUnsupportedRate, rate, c.AnalogRate)
	}
	return nil
}

func (c *Config) maxRate() uint32 {
	return slices.Max(c.SupportedRates)
}

// prebufferTarget returns the pre-buffer target in samples at rate.
func (c *Config) prebufferTarget(rate uint32) uint16 {
	return uint16(c.PrebufferFrames * rate / framesPerSecond)
}

// LoadConfig reads a YAML configuration. Fields absent from the document
// keep their DefaultConfig values; unknown fields are rejected.
func LoadConfig(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	componentLogger(nil, ComponentConfig).Debug("configuration loaded",
		"analog_rate", cfg.AnalogRate,
		"capture_rate", cfg.CaptureRate,
		"playback_rate", cfg.PlaybackRate,
		"dac_bits", cfg.DACBits)

	return cfg, nil
}
