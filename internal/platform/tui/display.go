package tui

import (
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-cabinet/internal/core"
)

// DisplayOptions configures a terminal display.
type DisplayOptions struct {
	Title        string
	Width        int // Physical size in cells
	Height       int
	ReleaseDelay time.Duration
	Renderer     *lipgloss.Renderer // Per-session renderer for SSH; nil for the local terminal
}

type titleMsg string

// Display presents engine frames through a Bubble Tea program. The program
// may be run locally (Driver) or by the wish middleware (SSHServer); either way
// the model pulls frames with a command, so the display never needs the
// *tea.Program itself.
type Display struct {
	queue        *core.Queue
	back         *core.Screen
	styler       *styler
	releaseDelay time.Duration

	frames chan string // capacity 1, newest frame wins
	titles chan string
	done   chan struct{}
	once   sync.Once

	termW, termH atomic.Int32

	mu     sync.Mutex
	title  string
	cursor core.Cursor
}

// NewDisplay creates a display that pushes input events into queue.
func NewDisplay(queue *core.Queue, opts DisplayOptions) *Display {
	if opts.ReleaseDelay <= 0 {
		opts.ReleaseDelay = DefaultReleaseDelay
	}
	return &Display{
		queue:        queue,
		back:         core.NewScreen(opts.Width, opts.Height),
		styler:       newStyler(opts.Renderer),
		releaseDelay: opts.ReleaseDelay,
		frames:       make(chan string, 1),
		titles:       make(chan string, 1),
		done:         make(chan struct{}),
		title:        opts.Title,
	}
}

// Model returns a fresh Bubble Tea model bound to this display.
func (d *Display) Model() tea.Model {
	return newModel(d)
}

func (d *Display) push(e core.Event) {
	d.queue.Push(e)
}

func (d *Display) setTerminalSize(w, h int) {
	d.termW.Store(int32(w))
	d.termH.Store(int32(h))
}

// waitFrame blocks until the engine presents a frame, retitles the display
// or closes it.
func (d *Display) waitFrame() tea.Cmd {
	return func() tea.Msg {
		select {
		case f := <-d.frames:
			return frameMsg(f)
		case t := <-d.titles:
			return titleMsg(t)
		case <-d.done:
			return closeMsg{}
		}
	}
}

// Backbuffer returns the surface that Present shows.
func (d *Display) Backbuffer() *core.Screen {
	return d.back
}

// Resize changes the physical size of the backbuffer.
func (d *Display) Resize(width, height int) error {
	d.back = core.NewScreen(width, height)
	return nil
}

// Present renders the backbuffer, clipped to the terminal, and hands it to
// the model. A frame the model has not picked up yet is replaced.
func (d *Display) Present() error {
	frame := d.styler.RenderScreen(d.back, int(d.termW.Load()), int(d.termH.Load()))
	select {
	case <-d.frames:
	default:
	}
	select {
	case d.frames <- frame:
	case <-d.done:
	}
	return nil
}

// SetTitle changes the terminal window title.
func (d *Display) SetTitle(title string) {
	d.mu.Lock()
	changed := title != d.title
	d.title = title
	d.mu.Unlock()
	if !changed {
		return
	}
	select {
	case <-d.titles:
	default:
	}
	select {
	case d.titles <- title:
	default:
	}
}

// Title returns the current title.
func (d *Display) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title
}

// SetCursor records the cursor state. Terminals have no pointer cursor to
// hide or grab, so it is only kept for reporting.
func (d *Display) SetCursor(c core.Cursor) {
	d.mu.Lock()
	d.cursor = c
	d.mu.Unlock()
}

// Close tells the model to quit. Safe to call more than once.
func (d *Display) Close() error {
	d.once.Do(func() { close(d.done) })
	return nil
}

// Done is closed once the display has been closed.
func (d *Display) Done() <-chan struct{} {
	return d.done
}
