package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestMonitor_FirstObservationInitializes verifies stale data is not carried over.
func TestMonitor_FirstObservationInitializes(t *testing.T) {
	m := NewMonitor(240, 0)
	assert.False(t, m.Observed())
	m.Observe(100)
	assert.True(t, m.Observed())

	s := m.Stats()
	assert.Equal(t, uint16(100), s.LevelMin)
	assert.Equal(t, uint16(100), s.LevelMax)
	assert.Equal(t, uint32(100<<16), s.LevelAvgQ16)
	assert.Equal(t, uint16(100), s.LevelAvg())
}

// TestMonitor_MinMax tests extreme tracking.
func TestMonitor_MinMax(t *testing.T) {
	m := NewMonitor(240, 0)
	for _, level := range []uint16{200, 180, 260, 240, 239} {
		m.Observe(level)
	}

	s := m.Stats()
	assert.Equal(t, uint16(180), s.LevelMin)
	assert.Equal(t, uint16(260), s.LevelMax)
	assert.Greater(t, s.LevelAvgQ16, uint32(199<<16))
	assert.Less(t, s.LevelAvgQ16, uint32(201<<16))
}

// TestMonitor_AverageTracksLevel verifies the moving average settles.
func TestMonitor_AverageTracksLevel(t *testing.T) {
	m := NewMonitor(240, 0)
	m.Start(0)
	for range 20000 {
		m.Observe(240)
	}
	assert.InDelta(t, 240, float64(m.Stats().LevelAvgQ16)/65536, 0.02)

	m.Start(240)
	for range 1000 {
		m.Observe(240)
	}
	assert.Equal(t, uint32(240<<16), m.Stats().LevelAvgQ16)
}

// TestMonitor_Reset verifies the next observation restarts the statistics.
func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor(240, 0)
	m.Observe(10)
	m.Observe(500)
	m.Reset()
	assert.Equal(t, BufferStats{}, m.Stats())

	m.Observe(300)
	assert.Equal(t, BufferStats{LevelMin: 300, LevelMax: 300, LevelAvgQ16: 300 << 16}, m.Stats())
}

// TestMonitor_TargetReached tests the pre-buffer predicate.
func TestMonitor_TargetReached(t *testing.T) {
	m := NewMonitor(240, 0)
	assert.False(t, m.TargetReached(0))
	assert.False(t, m.TargetReached(239))
	assert.True(t, m.TargetReached(240))
	assert.True(t, m.TargetReached(1000))

	m.SetTarget(110)
	assert.Equal(t, uint16(110), m.Target())
	assert.True(t, m.TargetReached(110))
}
