package core

// KeyState is the per-frame state of one key or button.
type KeyState uint8

const (
	StateUp      KeyState = iota // Not down
	StatePressed                 // Went down since the last tick
	StateHeld                    // Down for at least one full tick
)

// Device sizes.
const (
	KeyboardSize = 128
	MouseSize    = 8
)

// InputDevice tracks edge-triggered state for a keyboard or a mouse.
// state and prev form the current/previous snapshot pair; Promote is the
// per-tick transition between them.
type InputDevice struct {
	state  []KeyState
	prev   []KeyState
	focus  bool
	active int
}

// NewInputDevice creates a device with size keys, all up.
func NewInputDevice(size int) *InputDevice {
	return &InputDevice{
		state: make([]KeyState, size),
		prev:  make([]KeyState, size),
	}
}

func (d *InputDevice) valid(k int) bool {
	return k >= 0 && k < len(d.state)
}

// Down records a key going down. Repeats of an already-down key are ignored.
func (d *InputDevice) Down(k int) {
	if !d.valid(k) || d.state[k] != StateUp {
		return
	}
	d.state[k] = StatePressed
	d.active++
}

// Up records a key going up. The active count never drops below zero,
// even for spurious releases.
func (d *InputDevice) Up(k int) {
	if !d.valid(k) {
		return
	}
	d.state[k] = StateUp
	if d.active > 0 {
		d.active--
	}
}

// SetFocus updates whether the device currently has focus.
func (d *InputDevice) SetFocus(focused bool) {
	d.focus = focused
}

// Promote turns pressed keys into held keys and then snapshots the state,
// so "pressed" is visible to scripts for exactly one frame.
func (d *InputDevice) Promote() {
	for k, s := range d.state {
		if s == StatePressed {
			d.state[k] = StateHeld
		}
	}
	copy(d.prev, d.state)
}

// IsDown reports whether k is pressed or held.
func (d *InputDevice) IsDown(k int) bool {
	return d.valid(k) && d.state[k] != StateUp
}

// WasPressed reports whether k went down since the last tick.
func (d *InputDevice) WasPressed(k int) bool {
	return d.valid(k) && d.state[k] == StatePressed
}

// WasReleased reports whether k went up since the last tick.
func (d *InputDevice) WasReleased(k int) bool {
	return d.valid(k) && d.state[k] == StateUp && d.prev[k] != StateUp
}

// State returns the raw state of k.
func (d *InputDevice) State(k int) KeyState {
	if !d.valid(k) {
		return StateUp
	}
	return d.state[k]
}

// HasFocus reports the focus flag.
func (d *InputDevice) HasFocus() bool {
	return d.focus
}

// Count returns how many keys are currently down.
func (d *InputDevice) Count() int {
	return d.active
}
