package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-cabinet/internal/core"
)

// closeBinding ends the session regardless of what the game does with keys.
var closeBinding = key.NewBinding(
	key.WithKeys("ctrl+c"),
	key.WithHelp("ctrl+c", "close"),
)

var specialKeys = map[tea.KeyType]int{
	tea.KeyUp:        core.KeyUp,
	tea.KeyDown:      core.KeyDown,
	tea.KeyLeft:      core.KeyLeft,
	tea.KeyRight:     core.KeyRight,
	tea.KeyEnter:     core.KeyEnter,
	tea.KeyEsc:       core.KeyEscape,
	tea.KeyTab:       core.KeyTab,
	tea.KeyBackspace: core.KeyBackspace,
	tea.KeySpace:     core.KeySpace,
	tea.KeyInsert:    core.KeyInsert,
	tea.KeyDelete:    core.KeyDelete,
	tea.KeyHome:      core.KeyHome,
	tea.KeyEnd:       core.KeyEnd,
	tea.KeyPgUp:      core.KeyPgUp,
	tea.KeyPgDown:    core.KeyPgDn,
	tea.KeyF1:        core.KeyF1,
	tea.KeyF2:        core.KeyF2,
	tea.KeyF3:        core.KeyF3,
	tea.KeyF4:        core.KeyF4,
	tea.KeyF5:        core.KeyF5,
	tea.KeyF6:        core.KeyF6,
	tea.KeyF7:        core.KeyF7,
	tea.KeyF8:        core.KeyF8,
	tea.KeyF9:        core.KeyF9,
	tea.KeyF10:       core.KeyF10,
	tea.KeyF11:       core.KeyF11,
	tea.KeyF12:       core.KeyF12,
}

// MapKey translates a key message to an engine key code.
// Returns false for keys the engine has no code for.
func MapKey(msg tea.KeyMsg) (int, bool) {
	if msg.Type == tea.KeyRunes {
		if len(msg.Runes) != 1 {
			return 0, false
		}
		return core.KeyForRune(msg.Runes[0])
	}
	k, ok := specialKeys[msg.Type]
	return k, ok
}

// IsClose reports whether msg is the close binding.
func IsClose(msg tea.KeyMsg) bool {
	return key.Matches(msg, closeBinding)
}

// MapButton translates a mouse button to an engine button code.
func MapButton(b tea.MouseButton) (int, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return core.ButtonLeft, true
	case tea.MouseButtonRight:
		return core.ButtonRight, true
	case tea.MouseButtonMiddle:
		return core.ButtonMiddle, true
	}
	return 0, false
}
