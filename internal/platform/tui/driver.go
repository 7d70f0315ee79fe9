package tui

import (
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-cabinet/internal/audio"
	"github.com/vovakirdan/tui-cabinet/internal/core"
	"github.com/vovakirdan/tui-cabinet/internal/device"
)

// ErrNoTerminal is returned when stdin or stdout is not a terminal.
var ErrNoTerminal = errors.New("tui: not a terminal")

// exitTimeout bounds how long Close waits for the terminal to be restored.
const exitTimeout = 2 * time.Second

// Driver opens the display on the local terminal.
type Driver struct {
	Queue        *core.Queue
	Logger       *log.Logger
	ReleaseDelay time.Duration
	// OpenAudioDevice creates the audio device. Nil means no sound.
	OpenAudioDevice func() (audio.Device, error)
}

// OpenDisplay starts a Bubble Tea program on the terminal.
func (d *Driver) OpenDisplay(cfg core.DisplayConfig) (device.Display, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, ErrNoTerminal
	}

	w, h := cfg.PhysicalSize()
	disp := NewDisplay(d.Queue, DisplayOptions{
		Title:        cfg.Title,
		Width:        w,
		Height:       h,
		ReleaseDelay: d.ReleaseDelay,
	})
	if tw, th, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		disp.setTerminalSize(tw, th)
		if tw < w || th < h {
			d.Logger.Info("terminal smaller than display, frames are clipped",
				"terminal", [2]int{tw, th}, "display", [2]int{w, h})
		}
	}

	p := tea.NewProgram(
		disp.Model(),
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Pointer motion and buttons
		tea.WithReportFocus(),
	)

	local := &localDisplay{Display: disp, exited: make(chan struct{})}
	go func() {
		defer close(local.exited)
		if _, err := p.Run(); err != nil {
			d.Logger.Error("terminal program failed", "error", err)
		}
		d.Queue.TryPush(core.DisplayClosed{})
	}()
	return local, nil
}

// OpenAudio opens the configured audio device.
func (d *Driver) OpenAudio() (audio.Device, error) {
	if d.OpenAudioDevice == nil {
		return audio.NullDevice{}, nil
	}
	return d.OpenAudioDevice()
}

// localDisplay waits for the program to restore the terminal on Close.
type localDisplay struct {
	*Display
	exited chan struct{}
}

func (l *localDisplay) Close() error {
	_ = l.Display.Close()
	select {
	case <-l.exited:
	case <-time.After(exitTimeout):
	}
	return nil
}
