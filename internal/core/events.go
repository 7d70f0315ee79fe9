package core

import "time"

// Event is anything the frame loop dequeues. The set is closed: only types in
// this package implement it.
type Event interface {
	event()
}

// InputKind says which input device an event is about.
type InputKind int

const (
	InputKeyboard InputKind = iota
	InputMouse
)

// DisplayClosed is sent when the display goes away (window closed, terminal
// program ended, SSH session dropped).
type DisplayClosed struct{}

func (DisplayClosed) event() {}

// KeyEvent is a keyboard key going down or up.
type KeyEvent struct {
	Key  int
	Down bool
}

func (KeyEvent) event() {}

// ButtonEvent is a mouse button going down or up.
type ButtonEvent struct {
	Button int
	Down   bool
}

func (ButtonEvent) event() {}

// PointerMoved carries the pointer position in physical display cells.
type PointerMoved struct {
	X, Y int
}

func (PointerMoved) event() {}

// FocusChanged is sent when a device gains or loses focus.
type FocusChanged struct {
	Device  InputKind
	Focused bool
}

func (FocusChanged) event() {}

// TimerTick is sent by the frame timer once per 1/fps.
type TimerTick struct {
	At time.Time
}

func (TimerTick) event() {}

// ReloadRequested asks for a module reload at the next tick boundary.
type ReloadRequested struct {
	Path string // File that triggered the request, if any
}

func (ReloadRequested) event() {}
