// Package feedback implements FIFO level tracking and the asynchronous
// rate feedback loop for an isochronous audio stream.
//
// A Monitor watches how full a stream FIFO is as samples cross it. A
// Controller turns master clock cycles counted over one host frame into the
// Q16.16 samples-per-frame value the host uses to pace playback, nudged by
// how far the playback FIFO sits from its pre-buffer target.
package feedback

import "github.com/tphakala/go-isoaudio/internal/mathutil"

// DefaultAverageWeight is the moving average weight in 1/65536 units.
// It gives a time constant of roughly 1000 observations.
const DefaultAverageWeight = 64

// BufferStats holds FIFO level statistics in samples.
type BufferStats struct {
	LevelMin    uint16
	LevelMax    uint16
	LevelAvgQ16 uint32
}

// LevelAvg returns the integer part of the average level.
func (s BufferStats) LevelAvg() uint16 {
	return uint16(mathutil.Q16Int(uint64(s.LevelAvgQ16)))
}

// Monitor tracks the fill level of one stream FIFO.
//
// Observe must be called from a single interrupt context. Stats may be read
// from the control path.
type Monitor struct {
	stats   BufferStats
	target  uint16
	weight  uint64
	started bool
}

// NewMonitor creates a monitor with a pre-buffer target in samples and an
// average weight in 1/65536 units. A zero weight selects DefaultAverageWeight.
func NewMonitor(target uint16, weight uint32) *Monitor {
	if weight == 0 {
		weight = DefaultAverageWeight
	}
	return &Monitor{target: target, weight: uint64(weight)}
}

// Start force-initializes all statistics to level.
func (m *Monitor) Start(level uint16) {
	m.stats = BufferStats{
		LevelMin:    level,
		LevelMax:    level,
		LevelAvgQ16: uint32(mathutil.ToQ16(uint32(level))),
	}
	m.started = true
}

// Reset discards the statistics. The next Observe starts them afresh.
func (m *Monitor) Reset() {
	m.stats = BufferStats{}
	m.started = false
}

// Observe records the FIFO level seen as a sample enters or leaves it.
func (m *Monitor) Observe(level uint16) {
	if !m.started {
		m.Start(level)
		return
	}

	if level < m.stats.LevelMin {
		m.stats.LevelMin = level
	}
	if level > m.stats.LevelMax {
		m.stats.LevelMax = level
	}
	m.stats.LevelAvgQ16 = uint32(mathutil.EMAQ16(uint64(m.stats.LevelAvgQ16), uint64(level), m.weight))
}

// Observed reports whether any level has been recorded since the last Reset.
func (m *Monitor) Observed() bool {
	return m.started
}

// TargetReached reports whether level has reached the pre-buffer target.
func (m *Monitor) TargetReached(level uint16) bool {
	return level >= m.target
}

// Target returns the pre-buffer target in samples.
func (m *Monitor) Target() uint16 {
	return m.target
}

// SetTarget changes the pre-buffer target, typically after a rate switch.
func (m *Monitor) SetTarget(target uint16) {
	m.target = target
}

// Stats returns a copy of the current statistics.
func (m *Monitor) Stats() BufferStats {
	return m.stats
}
