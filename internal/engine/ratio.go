// Package engine implements the integer rational sample-rate converter used on
// the interrupt path: a block decimator for the analog-to-USB direction and a
// sample-and-blend interpolator with sigma-delta noise shaping for the
// USB-to-analog direction.
//
// Both converters distribute the fractional part of the rate ratio with a
// Bresenham-style accumulator, so the long-run sample count is exact and only
// the sample straddling each period boundary is split. There is no floating
// point and no per-sample division on the whole-sample path.
package engine

import (
	"fmt"

	"github.com/tphakala/go-isoaudio/internal/mathutil"
)

// Ratio is an exact rate ratio rateIn/rateOut = Integer + FracNum/FracDen.
// FracNum < FracDen, FracDen > 0 and the fraction is fully reduced.
type Ratio struct {
	Integer uint32
	FracNum uint32
	FracDen uint32
}

// NewRatio derives the ratio for converting between rateIn and rateOut, where
// rateIn is the faster of the two clocks. It panics when rateOut is zero or
// rateIn < rateOut: rates are validated on the control path before reaching here.
func NewRatio(rateIn, rateOut uint32) Ratio {
	if rateOut == 0 {
		panic("engine: output rate must be non-zero")
	}
	if rateIn < rateOut {
		panic(fmt.Sprintf("engine: input rate %d below output rate %d", rateIn, rateOut))
	}

	n := rateIn % rateOut
	d := rateOut
	g := mathutil.GCD(n, d)

	return Ratio{
		Integer: rateIn / rateOut,
		FracNum: n / g,
		FracDen: d / g,
	}
}

// Weight returns the length of one period in 1/FracDen units of a sample,
// Integer*FracDen + FracNum.
func (r Ratio) Weight() uint64 {
	return uint64(r.Integer)*uint64(r.FracDen) + uint64(r.FracNum)
}

// IsInteger reports whether the ratio has no fractional part.
func (r Ratio) IsInteger() bool {
	return r.FracNum == 0
}

// String formats the ratio as "I+n/d".
func (r Ratio) String() string {
	return fmt.Sprintf("%d+%d/%d", r.Integer, r.FracNum, r.FracDen)
}

// carry advances the boundary bookkeeping after a period boundary split a
// sample, giving fracCarry to the closing period and FracDen-fracCarry to the
// next one. It returns the next period's starting count and fractional carry.
// When the leftover share exceeds FracNum it stands in for one whole sample.
func (r Ratio) carry(fracCarry uint32) (count, nextCarry uint32) {
	if r.FracDen-fracCarry > r.FracNum {
		return 1, r.FracNum + fracCarry
	}
	return 0, r.FracNum + fracCarry - r.FracDen
}
