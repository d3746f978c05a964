package isoaudio

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-isoaudio/internal/fifo"
)

// fakeHardware records interrupt gating and masking.
type fakeHardware struct {
	cycles   uint32
	enabled  [2]bool
	enables  [2]int
	disables [2]int
	depth    int
	masked   int
}

func (h *fakeHardware) Cycles() uint32 { return h.cycles }

func (h *fakeHardware) Enable(src Source) {
	h.enabled[src] = true
	h.enables[src]++
}

func (h *fakeHardware) Disable(src Source) {
	h.enabled[src] = false
	h.disables[src]++
}

func (h *fakeHardware) DisableInterrupts() InterruptState {
	h.depth++
	h.masked++
	return InterruptState(h.depth)
}

func (h *fakeHardware) RestoreInterrupts(InterruptState) {
	h.depth--
}

type fakeSink struct {
	values []uint32
}

func (s *fakeSink) SetFeedback(v uint32) {
	s.values = append(s.values, v)
}

type testDevice struct {
	*Device
	hw       *fakeHardware
	sink     *fakeSink
	captureFIFO  *fifo.Buffer
	playbackFIFO *fifo.Buffer
}

func newTestDevice(t *testing.T, cfg *Config, fifoBytes int) *testDevice {
	t.Helper()
	if cfg == nil {
		cfg = DefaultConfig()
	}
	td := &testDevice{
		hw:           &fakeHardware{},
		sink:         &fakeSink{},
		captureFIFO:  fifo.New(fifoBytes),
		playbackFIFO: fifo.New(fifoBytes),
	}
	dev, err := New(cfg, td.hw, td.captureFIFO, td.playbackFIFO, td.sink)
	require.NoError(t, err)
	td.Device = dev
	return td
}

// encode packs signed samples as little-endian bytes.
func encode(samples ...int16) []byte {
	b := make([]byte, len(samples)*bytesPerSample)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(b[i*bytesPerSample:], uint16(s))
	}
	return b
}

// drain reads every buffered sample from f.
func drain(f *fifo.Buffer) []int16 {
	b := make([]byte, f.Available())
	n := f.Read(b)
	out := make([]int16, n/bytesPerSample)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(b[i*bytesPerSample:]))
	}
	return out
}

func repeat(n int, v int16) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = v
	}
	return s
}
