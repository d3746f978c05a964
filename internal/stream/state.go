// Package stream implements the per-direction OFF/START/RUN state machine
// that gates an isochronous audio stream.
package stream

// State is the lifecycle state of one stream direction.
type State uint8

const (
	// Off means the host has not selected a streaming alternate setting.
	Off State = iota
	// Start means the stream is open but not yet running, e.g. pre-buffering.
	Start
	// Run means the interrupt source for the direction is enabled.
	Run
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case Off:
		return "off"
	case Start:
		return "start"
	case Run:
		return "run"
	default:
		return "unknown"
	}
}

// Hooks are called when a Machine enters or leaves Run.
type Hooks struct {
	Enable  func()
	Disable func()
}

// Machine is the state machine for one direction.
//
// Open and Close are control-path operations and must be called with the
// direction's interrupts masked. Advance is called from the streaming
// interrupt.
type Machine struct {
	state State
	hooks Hooks
}

// NewMachine creates a machine in Off. Nil hooks are ignored.
func NewMachine(hooks Hooks) *Machine {
	return &Machine{hooks: hooks}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Open moves the stream to Start. Opening a running stream first disables
// its interrupt source so it restarts from a clean pre-buffer.
func (m *Machine) Open() {
	if m.state == Run {
		m.disable()
	}
	m.state = Start
}

// Close moves the stream to Off, disabling the interrupt source if running.
func (m *Machine) Close() {
	if m.state == Run {
		m.disable()
	}
	m.state = Off
}

// Advance moves Start to Run when ready is true and reports whether the
// transition happened.
func (m *Machine) Advance(ready bool) bool {
	if m.state != Start || !ready {
		return false
	}
	m.state = Run
	if m.hooks.Enable != nil {
		m.hooks.Enable()
	}
	return true
}

func (m *Machine) disable() {
	if m.hooks.Disable != nil {
		m.hooks.Disable()
	}
}
