package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-cabinet/internal/core"
)

// Model is the Bubble Tea model for one display. It only translates: terminal
// messages become engine events on the queue, and frames presented by the
// engine become the view.
type Model struct {
	display *Display
	view    string
	held    map[int]uint64 // key -> generation of its latest press
	gen     uint64
	closing bool
}

func newModel(d *Display) Model {
	return Model{
		display: d,
		held:    make(map[int]uint64),
	}
}

// Init starts waiting for frames.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.display.waitFrame(),
		tea.SetWindowTitle(m.display.Title()),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case releaseMsg:
		if m.held[msg.key] == msg.gen {
			delete(m.held, msg.key)
			m.display.push(core.KeyEvent{Key: msg.key, Down: false})
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.FocusMsg:
		m.display.push(core.FocusChanged{Device: core.InputKeyboard, Focused: true})
		m.display.push(core.FocusChanged{Device: core.InputMouse, Focused: true})
		return m, nil

	case tea.BlurMsg:
		m.display.push(core.FocusChanged{Device: core.InputKeyboard, Focused: false})
		m.display.push(core.FocusChanged{Device: core.InputMouse, Focused: false})
		return m, nil

	case tea.WindowSizeMsg:
		m.display.setTerminalSize(msg.Width, msg.Height)
		return m, nil

	case frameMsg:
		m.view = string(msg)
		return m, m.display.waitFrame()

	case titleMsg:
		return m, tea.Batch(tea.SetWindowTitle(string(msg)), m.display.waitFrame())

	case closeMsg:
		m.closing = true
		return m, tea.Quit
	}

	return m, nil
}

// handleKey forwards a press and schedules the matching release.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if IsClose(msg) {
		m.closing = true
		m.display.push(core.DisplayClosed{})
		return m, tea.Quit
	}

	k, ok := MapKey(msg)
	if !ok {
		return m, nil
	}

	m.gen++
	m.held[k] = m.gen
	m.display.push(core.KeyEvent{Key: k, Down: true})
	return m, releaseCmd(m.display.releaseDelay, k, m.gen)
}

// handleMouse forwards pointer motion and button changes.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.display.push(core.PointerMoved{X: msg.X, Y: msg.Y})

	b, ok := MapButton(msg.Button)
	if !ok {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		m.display.push(core.ButtonEvent{Button: b, Down: true})
	case tea.MouseActionRelease:
		m.display.push(core.ButtonEvent{Button: b, Down: false})
	}
	return m, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.closing {
		return ""
	}
	return m.view
}

// DefaultReleaseDelay is how long a key stays down after its last repeat.
const DefaultReleaseDelay = 120 * time.Millisecond
