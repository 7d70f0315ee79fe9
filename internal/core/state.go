package core

import "time"

// RunState is the process-wide run flags.
type RunState struct {
	Running         bool
	Paused          bool
	ReloadRequested bool
	ErrorLatched    bool // Set by a trapped script error, cleared only by reload
	QuitRequested   bool
	EntryModule     string
}

// Clock tracks script time. Time only advances while not paused.
type Clock struct {
	Time  float64 // Accumulated seconds
	Delta float64 // Seconds since the previous tick, 0 while paused

	last time.Time
}

// Start sets the wall reference for the first tick.
func (c *Clock) Start(now time.Time) {
	c.last = now
}

// Tick advances the clock to now. The wall reference moves even while paused,
// so resuming does not produce a jump.
func (c *Clock) Tick(now time.Time, paused bool) {
	if c.last.IsZero() {
		c.last = now
	}
	d := now.Sub(c.last).Seconds()
	c.last = now
	if d < 0 {
		d = 0
	}
	if paused {
		c.Delta = 0
		return
	}
	c.Delta = d
	c.Time += d
}

// Pointer is the mouse position in logical cells.
type Pointer struct {
	X, Y int
}

// Cursor holds what scripts asked of the mouse cursor.
type Cursor struct {
	Hidden  bool
	Grabbed bool
	Shape   int
}

// State is the engine context. One instance exists per engine and every
// subsystem that needs run flags, time, input or display settings gets a
// pointer to it. It is only touched from the loop goroutine.
type State struct {
	Run      RunState
	Clock    Clock
	Keyboard *InputDevice
	Mouse    *InputDevice
	Pointer  Pointer
	Cursor   Cursor
	Display  DisplayConfig
	Resized  bool // Display size or scale changed since the last redraw
}

// NewState creates a state with default display settings.
func NewState(entry string) *State {
	return &State{
		Run:      RunState{EntryModule: entry},
		Keyboard: NewInputDevice(KeyboardSize),
		Mouse:    NewInputDevice(MouseSize),
		Display:  DefaultDisplayConfig(),
	}
}

// SetScale changes the display scale, flagging a resize when it differs.
func (s *State) SetScale(scale int) {
	if scale != s.Display.Scale {
		s.Display.Scale = scale
		s.Resized = true
	}
}

// SetSize changes the logical display size, flagging a resize when it differs.
func (s *State) SetSize(width, height int) {
	if width != s.Display.Width || height != s.Display.Height {
		s.Display.Width = width
		s.Display.Height = height
		s.Resized = true
	}
}
