package simulate

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV format constants
const (
	wavBitDepth    = 16
	wavChannels    = 1
	wavFormatPCM   = 1
	wavSignOffset  = 1 << 15
	wavMinSample   = -1 << 15
	wavMaxSample   = 1<<15 - 1
	wavAnalogAlign = 0xFFF0 // 12-bit left-aligned ADC
)

// ErrInvalidWAV indicates a file that is not a mono 16-bit PCM WAV.
var ErrInvalidWAV = errors.New("invalid WAV file")

// Recording is mono 16-bit PCM audio.
type Recording struct {
	Samples []int16
	Rate    int
}

// WriteWAV writes signed samples to a mono 16-bit WAV file.
func WriteWAV(path string, rate int, samples []int16) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create WAV file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	enc := wav.NewEncoder(f, rate, wavBitDepth, wavChannels, wavFormatPCM)
	buf := &audio.IntBuffer{
		Data:           make([]int, len(samples)),
		Format:         &audio.Format{NumChannels: wavChannels, SampleRate: rate},
		SourceBitDepth: wavBitDepth,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write WAV samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return nil
}

// WriteDACWAV writes unsigned DAC words to a WAV file at the analog rate.
func WriteDACWAV(path string, rate int, dac []uint16) error {
	samples := make([]int16, len(dac))
	for i, v := range dac {
		samples[i] = int16(int32(v) - wavSignOffset)
	}
	return WriteWAV(path, rate, samples)
}

// ReadWAV reads a mono 16-bit WAV file.
func ReadWAV(path string) (*Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidWAV, path)
	}
	if dec.NumChans != wavChannels || dec.BitDepth != wavBitDepth {
		return nil, fmt.Errorf("%w: need mono %d-bit, got %d channels %d-bit",
			ErrInvalidWAV, wavBitDepth, dec.NumChans, dec.BitDepth)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV samples: %w", err)
	}

	rec := &Recording{
		Samples: make([]int16, len(buf.Data)),
		Rate:    int(dec.SampleRate),
	}
	for i, v := range buf.Data {
		rec.Samples[i] = int16(min(max(v, wavMinSample), wavMaxSample))
	}
	return rec, nil
}

// ADCReadings converts signed samples to left-aligned 12-bit ADC readings.
func ADCReadings(samples []int16) []uint16 {
	out := make([]uint16, len(samples))
	for i, s := range samples {
		out[i] = uint16(int32(s)+wavSignOffset) & wavAnalogAlign
	}
	return out
}
