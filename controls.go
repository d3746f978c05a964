package isoaudio

import "fmt"

// Controls holds the feature unit state of one direction. Index 0 is the
// master channel.
type Controls struct {
	Mute   [MaxChannels + 1]bool
	Volume [MaxChannels + 1]int16 // dB
}

func checkChannel(ch int) error {
	if ch < masterChannel || ch > MaxChannels {
		return fmt.Errorf("%w: %d (max %d)", ErrInvalidChannel, ch, MaxChannels)
	}
	return nil
}

// SetMute sets the mute control of channel ch.
func (c *Controls) SetMute(ch int, mute bool) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	c.Mute[ch] = mute
	return nil
}

// SetVolume sets the volume control of channel ch in dB.
func (c *Controls) SetVolume(ch int, dB int16) error {
	if err := checkChannel(ch); err != nil {
		return err
	}
	if dB < minVolumeDB || dB > maxVolumeDB {
		return fmt.Errorf("%w: volume %d dB outside %d..%d dB", ErrOutOfRange, dB, minVolumeDB, maxVolumeDB)
	}
	c.Volume[ch] = dB
	return nil
}

// Muted reports whether channel ch is silenced, either by its own control or
// by the master channel.
func (c *Controls) Muted(ch int) bool {
	return c.Mute[masterChannel] || c.Mute[ch]
}

// VolumeRange returns the advertised volume range and step in dB.
func VolumeRange() (lo, hi, res int16) {
	return minVolumeDB, maxVolumeDB, 1
}
