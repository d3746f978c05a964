package simulate

import "github.com/tphakala/go-isoaudio"

// Hardware is a virtual board: a master clock counter advanced by the bench
// and interrupt source gates the device toggles.
type Hardware struct {
	cycles  uint32
	enabled [2]bool
	masked  int
}

// Cycles returns the latched master clock count.
func (h *Hardware) Cycles() uint32 {
	return h.cycles
}

// Advance moves the master clock forward.
func (h *Hardware) Advance(cycles uint32) {
	h.cycles += cycles
}

// Enable starts an interrupt source.
func (h *Hardware) Enable(src isoaudio.Source) {
	h.enabled[src] = true
}

// Disable stops an interrupt source.
func (h *Hardware) Disable(src isoaudio.Source) {
	h.enabled[src] = false
}

// Enabled reports whether an interrupt source is running.
func (h *Hardware) Enabled(src isoaudio.Source) bool {
	return h.enabled[src]
}

// DisableInterrupts masks the virtual interrupt controller.
func (h *Hardware) DisableInterrupts() isoaudio.InterruptState {
	h.masked++
	return isoaudio.InterruptState(h.masked - 1)
}

// RestoreInterrupts restores the mask saved by DisableInterrupts.
func (h *Hardware) RestoreInterrupts(state isoaudio.InterruptState) {
	h.masked = int(state)
}

// Masked reports whether interrupts are currently masked.
func (h *Hardware) Masked() bool {
	return h.masked > 0
}

// feedbackLatch stores the last value sent to the feedback endpoint.
type feedbackLatch struct {
	value uint32
	valid bool
}

func (l *feedbackLatch) SetFeedback(v uint32) {
	l.value = v
	l.valid = true
}
