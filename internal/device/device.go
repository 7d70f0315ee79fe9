// Package device owns the native display and audio device for the lifetime
// of the engine. It creates them once, rebuilds the offscreen surface when
// the logical size or scale changes, and tears everything down in order.
package device

import (
	"github.com/vovakirdan/tui-cabinet/internal/audio"
	"github.com/vovakirdan/tui-cabinet/internal/core"
)

// Display is an output surface that presents a cell backbuffer.
type Display interface {
	// Backbuffer is the surface Present shows. Its size is the physical
	// display size.
	Backbuffer() *core.Screen
	// Resize changes the physical size in cells.
	Resize(width, height int) error
	// Present flips the backbuffer to the output.
	Present() error
	SetTitle(title string)
	SetCursor(c core.Cursor)
	Close() error
}

// Driver opens the native handles. The terminal and headless platforms
// implement it.
type Driver interface {
	OpenDisplay(cfg core.DisplayConfig) (Display, error)
	OpenAudio() (audio.Device, error)
}
