package engine

// Interpolator expands USB-rate samples to the analog output rate.
//
// It mirrors the Decimator: each input is held for Integer output slots and the
// slot that straddles a period boundary blends the current and next input in
// proportion fracCarry/FracDen. Every value written by FillBuffer passes
// through the SigmaDelta modulator.
//
// An Interpolator must only be used from one interrupt context.
type Interpolator struct {
	ratio Ratio

	hold           uint32
	samplesInBlock uint32
	fracCarry      uint32

	mod SigmaDelta
}

// NewInterpolator creates an interpolator from rateIn USB samples to rateOut
// analog slots, shaping for a DAC of dacBits resolution. rateOut must be at
// least rateIn.
func NewInterpolator(rateIn, rateOut uint32, dacBits uint) *Interpolator {
	p := &Interpolator{mod: NewSigmaDelta(dacBits)}
	p.SetRatio(NewRatio(rateOut, rateIn))
	return p
}

// SetRatio installs a new ratio (analog slots per USB sample) and resets all
// state, including the modulator.
func (p *Interpolator) SetRatio(r Ratio) {
	p.ratio = r
	p.Reset()
}

// Ratio returns the active ratio.
func (p *Interpolator) Ratio() Ratio {
	return p.ratio
}

// Reset forgets the held sample. The next slot fetches a fresh input.
func (p *Interpolator) Reset() {
	p.hold = 0
	p.samplesInBlock = p.ratio.Integer
	p.fracCarry = 0
	p.mod.Reset()
}

// FillBuffer writes len(out) analog slots, calling next whenever a new input
// sample is needed.
func (p *Interpolator) FillBuffer(out []uint16, next func() uint32) {
	for i := range out {
		out[i] = p.mod.Modulate(p.step(next))
	}
}

// FillRaw is FillBuffer without noise shaping.
func (p *Interpolator) FillRaw(out []uint16, next func() uint32) {
	for i := range out {
		out[i] = p.step(next)
	}
}

// step produces one analog slot.
func (p *Interpolator) step(next func() uint32) uint16 {
	r := p.ratio

	if p.samplesInBlock == r.Integer {
		if p.fracCarry == 0 {
			p.hold = next()
			p.samplesInBlock = 0
			p.fracCarry = r.FracNum
		} else {
			// Boundary slot: fracCarry of the held input, the rest from the next.
			in := next()
			f := uint64(p.fracCarry)
			v := (uint64(p.hold)*f + uint64(in)*(uint64(r.FracDen)-f)) / uint64(r.FracDen)

			p.hold = in
			p.samplesInBlock, p.fracCarry = r.carry(p.fracCarry)
			return uint16(v)
		}
	}

	p.samplesInBlock++
	return uint16(p.hold)
}
