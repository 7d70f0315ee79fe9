package device

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-cabinet/internal/audio"
	"github.com/vovakirdan/tui-cabinet/internal/core"
)

// ErrNotSetUp is returned when a method needs the display before Setup.
var ErrNotSetUp = errors.New("device: not set up")

// Manager is the only place that creates or destroys the display, the audio
// device and the offscreen surface. At most one of each exists.
type Manager struct {
	driver    Driver
	state     *core.State
	logger    *log.Logger
	display   Display
	audio     audio.Device
	offscreen *core.Screen
}

// NewManager creates a manager that opens devices through driver.
func NewManager(driver Driver, state *core.State, logger *log.Logger) *Manager {
	return &Manager{
		driver: driver,
		state:  state,
		logger: logger,
	}
}

// Setup opens the display at the physical size of the current display
// config, then the audio device. Either failing is fatal to startup; what was
// already opened is closed again.
func (m *Manager) Setup() error {
	cfg := m.state.Display
	display, err := m.driver.OpenDisplay(cfg)
	if err != nil {
		return fmt.Errorf("device: cannot open display: %w", err)
	}
	m.display = display

	dev, err := m.driver.OpenAudio()
	if err != nil {
		m.Teardown()
		return fmt.Errorf("device: cannot open audio: %w", err)
	}
	m.audio = dev

	m.rebuild()
	m.state.Resized = false

	w, h := cfg.PhysicalSize()
	m.logger.Info("devices ready", "title", cfg.Title, "size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"scale", cfg.Scale, "display", fmt.Sprintf("%dx%d", w, h))
	return nil
}

// rebuild drops the offscreen surface and creates a new one at the logical
// size when the scale is not 1.
func (m *Manager) rebuild() {
	m.offscreen = nil
	cfg := m.state.Display
	if cfg.Scale != 1 {
		m.offscreen = core.NewScreen(cfg.Width, cfg.Height)
	}
}

// Recreate applies a pending size or scale change: the offscreen surface is
// rebuilt at the logical size and the display resized to the physical size.
// It is a no-op when nothing changed.
func (m *Manager) Recreate() error {
	if !m.state.Resized {
		return nil
	}
	if m.display == nil {
		return ErrNotSetUp
	}

	m.rebuild()
	w, h := m.state.Display.PhysicalSize()
	if err := m.display.Resize(w, h); err != nil {
		return fmt.Errorf("device: cannot resize display: %w", err)
	}
	m.state.Resized = false
	m.logger.Debug("display recreated", "scale", m.state.Display.Scale, "width", w, "height", h)
	return nil
}

// RenderTarget returns the surface scripts draw on: the offscreen surface
// when scaled, otherwise the backbuffer itself.
func (m *Manager) RenderTarget() *core.Screen {
	if m.offscreen != nil {
		return m.offscreen
	}
	if m.display == nil {
		return nil
	}
	return m.display.Backbuffer()
}

// Present scales the offscreen surface onto the backbuffer if there is one,
// then flips the display.
func (m *Manager) Present() error {
	if m.display == nil {
		return ErrNotSetUp
	}
	if m.offscreen != nil {
		m.offscreen.ScaleTo(m.display.Backbuffer(), m.state.Display.Scale)
	}
	m.display.SetCursor(m.state.Cursor)
	return m.display.Present()
}

// Display returns the open display, or nil.
func (m *Manager) Display() Display {
	return m.display
}

// Audio returns the open audio device, or nil.
func (m *Manager) Audio() audio.Device {
	return m.audio
}

// Offscreen returns the offscreen surface, or nil when not scaled.
func (m *Manager) Offscreen() *core.Screen {
	return m.offscreen
}

// Teardown closes the audio device, then the display. Safe to call more
// than once and after a failed Setup.
func (m *Manager) Teardown() {
	if m.audio != nil {
		if err := m.audio.Close(); err != nil {
			m.logger.Warn("audio close failed", "error", err)
		}
		m.audio = nil
	}
	m.offscreen = nil
	if m.display != nil {
		if err := m.display.Close(); err != nil {
			m.logger.Warn("display close failed", "error", err)
		}
		m.display = nil
	}
}
