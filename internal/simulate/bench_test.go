package simulate

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-isoaudio"
	"github.com/tphakala/go-isoaudio/internal/analysis"
	"github.com/tphakala/go-isoaudio/internal/stream"
	"github.com/tphakala/go-isoaudio/internal/testutil"
)

func meanLevel(frames []FrameStats) float64 {
	var sum float64
	for _, f := range frames {
		sum += float64(f.PlaybackLevel)
	}
	return sum / float64(len(frames))
}

// TestBench_HoldsLevelUnderClockError runs the feedback loop against fast
// and slow device crystals.
func TestBench_HoldsLevelUnderClockError(t *testing.T) {
	tests := []struct {
		name string
		rate uint32
		ppm  float64
	}{
		{"48k nominal", 48000, 0},
		{"48k fast crystal", 48000, 100},
		{"48k slow crystal", 48000, -100},
		{"44.1k fast crystal", 44100, 250},
		{"22.05k slow crystal", 22050, -250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := isoaudio.DefaultConfig()
			cfg.PlaybackRate = tt.rate

			b, err := New(Options{Config: cfg, ClockPPM: tt.ppm})
			require.NoError(t, err)
			res := b.Run(20000)

			assert.Zero(t, res.Underruns)
			assert.Equal(t, uint32(stream.Run), res.Registers[isoaudio.RegPlaybackState])

			perFrame := float64(tt.rate) / 1000
			target := 5 * perFrame
			mid := meanLevel(res.Frames[9000:10000])
			late := meanLevel(res.Frames[19000:])
			assert.InDelta(t, target, late, 2*perFrame, "level wandered from target")
			assert.InDelta(t, mid, late, 16, "level drifting")

			// Feedback stays within one sample of nominal.
			lo := (tt.rate/1000 - 1) << 16
			hi := (tt.rate/1000 + 1) << 16
			for _, f := range res.Frames {
				testutil.AssertInRange(t, f.Feedback, lo, hi)
			}
		})
	}
}

// TestBench_DrainsWithoutFeedback shows a host ignoring feedback underruns a
// fast device.
func TestBench_DrainsWithoutFeedback(t *testing.T) {
	b, err := New(Options{ClockPPM: 500, IgnoreFeedback: true})
	require.NoError(t, err)

	res := b.Run(12000)
	assert.Positive(t, res.Underruns)
}

// TestBench_CaptureKeepsPace verifies the host receives the USB rate.
func TestBench_CaptureKeepsPace(t *testing.T) {
	cfg := isoaudio.DefaultConfig()
	cfg.CaptureRate = 44100

	b, err := New(Options{
		Config:    cfg,
		ADCSignal: func(int) uint16 { return 0xA000 },
	})
	require.NoError(t, err)

	res := b.Run(1000)
	assert.Zero(t, res.Overruns)

	// The host collects each frame's samples in the next frame's IN packet.
	assert.Len(t, res.Captured, 999*48*44100/48000)
	for _, s := range res.Captured {
		testutil.AssertWithin(t, 0x2000, int64(s), 1)
	}
}

// TestBench_WAVRoundTrip drives capture from a WAV file and dumps the DAC.
func TestBench_WAVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "input.wav")

	tone := make([]int16, 4800)
	for i := range tone {
		tone[i] = int16(8000 * math.Sin(2*math.Pi*440*float64(i)/48000))
	}
	require.NoError(t, WriteWAV(inPath, 48000, tone))

	rec, err := ReadWAV(inPath)
	require.NoError(t, err)
	require.Equal(t, 48000, rec.Rate)
	require.Equal(t, tone, rec.Samples)

	readings := ADCReadings(rec.Samples)
	b, err := New(Options{
		ADCSignal:  func(n int) uint16 { return readings[n%len(readings)] },
		HostSignal: func(n int) int16 { return rec.Samples[n%len(rec.Samples)] },
		RecordDAC:  true,
	})
	require.NoError(t, err)
	res := b.Run(100)

	require.Len(t, res.Captured, 99*48)
	for i, s := range res.Captured {
		assert.Equal(t, int16(int32(readings[i])-32768), s, "sample %d", i)
	}

	require.NotEmpty(t, res.DAC)
	testutil.AssertMasked(t, res.DAC, 0xFFF0)

	outPath := filepath.Join(dir, "dac.wav")
	require.NoError(t, WriteDACWAV(outPath, 48000, res.DAC))
	dump, err := ReadWAV(outPath)
	require.NoError(t, err)
	assert.Len(t, dump.Samples, len(res.DAC))

	// The shaped DAC output still carries the tone at the right level.
	rms := analysis.RMS(analysis.Floats(res.DAC))
	assert.InDelta(t, 8000.0/32768/math.Sqrt2, rms, 0.01)
}

// TestReadWAV_Errors tests rejected files.
func TestReadWAV_Errors(t *testing.T) {
	_, err := ReadWAV(filepath.Join(t.TempDir(), "missing.wav"))
	require.Error(t, err)
}

// TestHardware tests the virtual board.
func TestHardware(t *testing.T) {
	h := &Hardware{}
	h.Advance(10)
	h.Advance(math.MaxUint32)
	assert.Equal(t, uint32(9), h.Cycles())

	st := h.DisableInterrupts()
	assert.True(t, h.Masked())
	h.RestoreInterrupts(st)
	assert.False(t, h.Masked())

	h.Enable(isoaudio.SourceADC)
	assert.True(t, h.Enabled(isoaudio.SourceADC))
	assert.False(t, h.Enabled(isoaudio.SourceDACTimer))
	h.Disable(isoaudio.SourceADC)
	assert.False(t, h.Enabled(isoaudio.SourceADC))
}

func BenchmarkBench_Frame(b *testing.B) {
	bench, err := New(Options{ClockPPM: 50})
	require.NoError(b, err)
	for b.Loop() {
		bench.Run(1)
	}
}
