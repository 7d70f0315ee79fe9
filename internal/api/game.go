package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-cabinet/internal/registry"
)

func init() {
	registry.Register("game", newGame)
}

// newGame builds the game table. Scripts also assign their lifecycle hooks
// (init, load, update, render) on it.
func newGame(h *registry.Host) registry.Namespace {
	return &table{
		name: "game",
		funcs: map[string]lua.LGFunction{
			"getTime": func(L *lua.LState) int {
				return pushNumber(L, h.State.Clock.Time)
			},
			"getDelta": func(L *lua.LState) int {
				return pushNumber(L, h.State.Clock.Delta)
			},
			"pause": func(L *lua.LState) int {
				if h.State.Run.Paused {
					return pushBool(L, false)
				}
				h.State.Run.Paused = true
				return pushBool(L, true)
			},
			"resume": func(L *lua.LState) int {
				if !h.State.Run.Paused {
					return pushBool(L, false)
				}
				h.State.Run.Paused = false
				return pushBool(L, true)
			},
			"isPaused": func(L *lua.LState) int {
				return pushBool(L, h.State.Run.Paused)
			},
			"reload": func(L *lua.LState) int {
				h.State.Run.ReloadRequested = true
				return 0
			},
			"quit": func(L *lua.LState) int {
				if !h.State.Run.Running {
					return pushBool(L, false)
				}
				h.State.Run.Running = false
				h.State.Run.QuitRequested = true
				return pushBool(L, true)
			},
		},
	}
}
