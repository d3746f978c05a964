package feedback

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/tphakala/go-isoaudio/internal/mathutil"
	"github.com/tphakala/go-isoaudio/internal/stream"
)

// DefaultCoupling scales the FIFO level correction. The correction is
// (avg-target) * coupling / 65536 in Q16.16, so 4 moves the feedback by
// 1/16384 sample per frame for each sample of level error.
const DefaultCoupling = 4

// framesPerSecond is the full-speed USB frame rate.
const framesPerSecond = 1000

// FeedbackStats holds statistics over emitted feedback values (Q16.16).
type FeedbackStats struct {
	ValueMin    uint32
	ValueMax    uint32
	ValueAvgQ16 uint64
}

// ValueAvg returns the average feedback value in Q16.16.
func (s FeedbackStats) ValueAvg() uint32 {
	return mathutil.Q16Int(s.ValueAvgQ16)
}

// Controller computes the asynchronous feedback value once per host frame.
//
// The primary term counts master clock cycles between frame boundaries and
// converts them to samples per frame. While the stream runs, the playback
// FIFO's average level relative to its target adds a small correction that
// removes residual drift. Update must be called from a single interrupt
// context.
type Controller struct {
	sampleRate    uint32
	masterClockHz uint64
	coupling      int64
	weight        uint64

	prevCycleCount uint32
	latched        bool

	stats        FeedbackStats
	statsStarted bool
}

// NewController creates a controller for a stream at sampleRate Hz whose
// cycle counter runs at masterClockHz. A zero weight selects
// DefaultAverageWeight.
func NewController(sampleRate, masterClockHz uint32, coupling int32, weight uint32) *Controller {
	if masterClockHz == 0 {
		panic("feedback: zero master clock frequency")
	}
	if weight == 0 {
		weight = DefaultAverageWeight
	}
	return &Controller{
		sampleRate:    sampleRate,
		masterClockHz: uint64(masterClockHz),
		coupling:      int64(coupling),
		weight:        uint64(weight),
	}
}

// SetSampleRate switches the nominal rate and forgets the latched counter.
func (c *Controller) SetSampleRate(rate uint32) {
	c.sampleRate = rate
	c.Reset()
}

// SampleRate returns the nominal sample rate.
func (c *Controller) SampleRate() uint32 {
	return c.sampleRate
}

// Reset forgets the previous counter reading and the statistics.
func (c *Controller) Reset() {
	c.prevCycleCount = 0
	c.latched = false
	c.ResetStats()
}

// ResetStats arms the statistics so the next emitted value re-initializes them.
func (c *Controller) ResetStats() {
	c.stats = FeedbackStats{}
	c.statsStarted = false
}

// Nominal returns the ideal feedback value, sampleRate/1000 in Q16.16.
func (c *Controller) Nominal() uint32 {
	return uint32(mathutil.ToQ16(c.sampleRate) / framesPerSecond)
}

// Bounds returns the range feedback values are clamped to: one sample per
// frame either side of the nominal integer rate.
func (c *Controller) Bounds() (lo, hi uint32) {
	perFrame := c.sampleRate / framesPerSecond
	lo = uint32(mathutil.ToQ16(perFrame - 1))
	hi = uint32(mathutil.ToQ16(perFrame + 1))
	return lo, hi
}

// Raw converts a cycle count over one frame into samples per frame in
// Q16.16, without level correction or clamping. Results beyond 32 bits
// saturate.
func (c *Controller) Raw(elapsed uint32) uint32 {
	hi, lo := bits.Mul64(uint64(elapsed)*uint64(c.sampleRate), mathutil.Q16One)
	if hi >= c.masterClockHz {
		return math.MaxUint32
	}
	q, _ := bits.Div64(hi, lo, c.masterClockHz)
	if q > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(q)
}

// Update computes the feedback value for the frame boundary at which the
// cycle counter read counter. level supplies the playback FIFO statistics
// and is only consulted while state is stream.Run and it has observations.
//
// The first call after Reset has no previous reading and reports Nominal.
// A counter that has not moved since the previous frame panics.
func (c *Controller) Update(counter uint32, state stream.State, level *Monitor) uint32 {
	if !c.latched {
		c.prevCycleCount = counter
		c.latched = true
		return c.emit(c.Nominal())
	}

	elapsed := counter - c.prevCycleCount
	if elapsed == 0 {
		panic(fmt.Sprintf("feedback: cycle counter stalled at %d", counter))
	}
	c.prevCycleCount = counter

	fb := int64(c.Raw(elapsed))
	if state == stream.Run && level != nil && level.Observed() {
		fb -= c.correction(level)
	}

	lo, hi := c.Bounds()
	switch {
	case fb < int64(lo):
		fb = int64(lo)
	case fb > int64(hi):
		fb = int64(hi)
	}
	return c.emit(uint32(fb))
}

// correction returns the level term subtracted from the raw feedback.
// It is exactly zero when the average level equals the target.
func (c *Controller) correction(level *Monitor) int64 {
	bias := int64(level.Stats().LevelAvgQ16) - int64(mathutil.ToQ16(uint32(level.Target())))
	return bias * c.coupling / mathutil.Q16One
}

func (c *Controller) emit(v uint32) uint32 {
	if !c.statsStarted {
		c.stats = FeedbackStats{ValueMin: v, ValueMax: v, ValueAvgQ16: mathutil.ToQ16(v)}
		c.statsStarted = true
		return v
	}
	if v < c.stats.ValueMin {
		c.stats.ValueMin = v
	}
	if v > c.stats.ValueMax {
		c.stats.ValueMax = v
	}
	c.stats.ValueAvgQ16 = mathutil.EMAQ16(c.stats.ValueAvgQ16, uint64(v), c.weight)
	return v
}

// Stats returns a copy of the feedback statistics.
func (c *Controller) Stats() FeedbackStats {
	return c.stats
}
