// Package tui provides the Bubble Tea display for the engine. It turns
// terminal input into engine events and shows presented frames, either on
// the local terminal or in a single SSH session.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// releaseMsg fires when a key has not repeated for the release delay.
// Terminals never report key-up, so releases are synthesized this way.
type releaseMsg struct {
	key int
	gen uint64
}

// releaseCmd returns a command that reports key as released after delay.
func releaseCmd(delay time.Duration, key int, gen uint64) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return releaseMsg{key: key, gen: gen}
	})
}

// frameMsg carries a rendered frame to the model.
type frameMsg string

// closeMsg asks the program to quit because the engine closed the display.
type closeMsg struct{}
