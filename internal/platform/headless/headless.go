// Package headless is a display platform without a terminal. Frames are kept
// in memory; it is used by tests and by `cabinet --headless` for running game
// logic on machines without a tty.
package headless

import (
	"sync"

	"github.com/vovakirdan/tui-cabinet/internal/audio"
	"github.com/vovakirdan/tui-cabinet/internal/core"
	"github.com/vovakirdan/tui-cabinet/internal/device"
)

// Driver opens headless displays. Audio defaults to audio.NullDevice.
type Driver struct {
	Audio audio.Device
	// FailDisplay and FailAudio make the corresponding Open return the
	// error, for exercising startup failures.
	FailDisplay error
	FailAudio   error

	mu      sync.Mutex
	display *Display
}

// OpenDisplay creates a display at the physical size of cfg.
func (d *Driver) OpenDisplay(cfg core.DisplayConfig) (device.Display, error) {
	if d.FailDisplay != nil {
		return nil, d.FailDisplay
	}
	w, h := cfg.PhysicalSize()
	disp := &Display{
		back:  core.NewScreen(w, h),
		title: cfg.Title,
	}
	d.mu.Lock()
	d.display = disp
	d.mu.Unlock()
	return disp, nil
}

// OpenAudio returns the configured audio device.
func (d *Driver) OpenAudio() (audio.Device, error) {
	if d.FailAudio != nil {
		return nil, d.FailAudio
	}
	if d.Audio == nil {
		return audio.NullDevice{}, nil
	}
	return d.Audio, nil
}

// Display returns the last display opened.
func (d *Driver) Display() *Display {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.display
}

// Display keeps the last presented frame.
type Display struct {
	mu       sync.Mutex
	back     *core.Screen
	frame    string
	presents int
	title    string
	cursor   core.Cursor
	closed   bool
	resizes  int
}

func (d *Display) Backbuffer() *core.Screen {
	return d.back
}

func (d *Display) Resize(width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.back = core.NewScreen(width, height)
	d.resizes++
	return nil
}

func (d *Display) Present() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frame = d.back.String()
	d.presents++
	return nil
}

func (d *Display) SetTitle(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.title = title
}

func (d *Display) SetCursor(c core.Cursor) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cursor = c
}

func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// Frame returns the runes of the last presented frame.
func (d *Display) Frame() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

// Presents returns how many frames were presented.
func (d *Display) Presents() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.presents
}

// Resizes returns how many times the display was resized.
func (d *Display) Resizes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resizes
}

// Title returns the current title.
func (d *Display) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title
}

// Cursor returns the cursor state last applied.
func (d *Display) Cursor() core.Cursor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cursor
}

// Closed reports whether Close was called.
func (d *Display) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}
