package engine

// Decimator averages blocks of raw analog readings down to the USB rate.
//
// Each output period spans Ratio.Weight()/FracDen readings. Whole readings are
// summed block-wise; the one reading that straddles a period boundary is split
// between the closing and the next period. Completed sums are pushed into a
// fixed 128-entry queue which the caller drains with Outputs and converts to
// samples with Scale.
//
// A Decimator must only be used from one interrupt context.
type Decimator struct {
	ratio Ratio

	sum            uint32
	samplesInBlock uint32
	fracCarry      uint32

	queue  [OutputQueueSize]uint32
	queued uint32
}

// NewDecimator creates a decimator converting rateIn readings to rateOut samples.
func NewDecimator(rateIn, rateOut uint32) *Decimator {
	d := &Decimator{}
	d.SetRatio(NewRatio(rateIn, rateOut))
	return d
}

// SetRatio installs a new ratio and resets all state.
func (d *Decimator) SetRatio(r Ratio) {
	d.ratio = r
	d.Reset()
}

// Ratio returns the active ratio.
func (d *Decimator) Ratio() Ratio {
	return d.ratio
}

// Reset discards the partial period and any queued outputs.
func (d *Decimator) Reset() {
	d.sum = 0
	d.samplesInBlock = 0
	d.fracCarry = d.ratio.FracNum
	d.queued = 0
}

// Process consumes a block of raw readings and returns the number of output
// sums completed by this call. It panics if the output queue overflows.
func (d *Decimator) Process(samples []uint16) uint32 {
	var produced uint32
	r := d.ratio

	for len(samples) > 0 {
		if d.samplesInBlock < r.Integer {
			n := min(r.Integer-d.samplesInBlock, uint32(len(samples)))
			d.sum += sumBlock(samples[:n])
			d.samplesInBlock += n
			samples = samples[n:]

			if d.samplesInBlock < r.Integer {
				break
			}
			if d.fracCarry == 0 {
				d.push(d.sum)
				produced++
				d.sum = 0
				d.samplesInBlock = 0
				d.fracCarry = r.FracNum
			}
			continue
		}

		// Boundary reading: fracCarry/FracDen of it closes this period and the
		// remainder seeds the next one, so no part of the reading is lost.
		x := uint32(samples[0])
		samples = samples[1:]

		closing := uint32(uint64(x) * uint64(d.fracCarry) / uint64(r.FracDen))
		d.push(d.sum + closing)
		produced++

		d.sum = x - closing
		d.samplesInBlock, d.fracCarry = r.carry(d.fracCarry)
	}

	return produced
}

// Outputs returns the queued sums and empties the queue. The returned slice
// aliases internal storage and is only valid until the next Process call.
func (d *Decimator) Outputs() []uint32 {
	out := d.queue[:d.queued]
	d.queued = 0
	return out
}

// Pending returns the number of queued sums.
func (d *Decimator) Pending() uint32 {
	return d.queued
}

// Scale converts an accumulated period sum to one averaged sample:
// sum*FracDen / (Integer*FracDen + FracNum).
func (d *Decimator) Scale(sum uint32) uint32 {
	return uint32(uint64(sum) * uint64(d.ratio.FracDen) / d.ratio.Weight())
}

func (d *Decimator) push(sum uint32) {
	if d.queued >= OutputQueueSize {
		panic("engine: decimator output queue overflow")
	}
	d.queue[d.queued] = sum
	d.queued++
}

// sumBlock adds a run of whole readings.
func sumBlock(samples []uint16) uint32 {
	var s uint32
	for _, v := range samples {
		s += uint32(v)
	}
	return s
}
