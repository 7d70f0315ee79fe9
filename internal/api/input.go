package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-cabinet/internal/core"
	"github.com/vovakirdan/tui-cabinet/internal/registry"
)

func init() {
	registry.Register("keyboard", newKeyboard)
	registry.Register("mouse", newMouse)
}

// cursorNames are the shapes setCursor accepts, in numbering order.
var cursorNames = []string{
	"NONE", "DEFAULT", "ARROW", "BUSY", "QUESTION", "EDIT", "MOVE",
	"RESIZE_N", "RESIZE_W", "RESIZE_S", "RESIZE_E",
	"RESIZE_NW", "RESIZE_SW", "RESIZE_SE", "RESIZE_NE",
	"PROGRESS", "PRECISION", "LINK", "ALT_SELECT", "UNAVAILABLE",
}

// CursorDefault is the shape setCursor() picks with no argument.
const CursorDefault = 1

// deviceFuncs are the queries keyboard and mouse share.
func deviceFuncs(dev func() *core.InputDevice) map[string]lua.LGFunction {
	query := func(fn func(d *core.InputDevice, k int) bool) lua.LGFunction {
		return func(L *lua.LState) int {
			k, ok := intArg(L, 1)
			return pushBool(L, ok && fn(dev(), k))
		}
	}
	return map[string]lua.LGFunction{
		"isDown":      query((*core.InputDevice).IsDown),
		"wasPressed":  query((*core.InputDevice).WasPressed),
		"wasReleased": query((*core.InputDevice).WasReleased),
		"hasFocus": func(L *lua.LState) int {
			return pushBool(L, dev().HasFocus())
		},
		"getCount": func(L *lua.LState) int {
			return pushNumber(L, float64(dev().Count()))
		},
	}
}

func newKeyboard(h *registry.Host) registry.Namespace {
	consts := make(map[string]lua.LValue)
	for name, code := range core.KeyNames() {
		consts["KEY_"+name] = lua.LNumber(code)
	}
	return &table{
		name:   "keyboard",
		funcs:  deviceFuncs(func() *core.InputDevice { return h.State.Keyboard }),
		consts: consts,
	}
}

func newMouse(h *registry.Host) registry.Namespace {
	consts := map[string]lua.LValue{
		"BUTTON_LEFT":   lua.LNumber(core.ButtonLeft),
		"BUTTON_RIGHT":  lua.LNumber(core.ButtonRight),
		"BUTTON_MIDDLE": lua.LNumber(core.ButtonMiddle),
	}
	for i, name := range cursorNames {
		consts["CURSOR_"+name] = lua.LNumber(i)
	}

	funcs := deviceFuncs(func() *core.InputDevice { return h.State.Mouse })
	funcs["getPosition"] = func(L *lua.LState) int {
		ox, _ := intArg(L, 1)
		oy, _ := intArg(L, 2)
		pos := L.NewTable()
		L.SetField(pos, "x", lua.LNumber(h.State.Pointer.X-h.Canvas.OffsetX+ox))
		L.SetField(pos, "y", lua.LNumber(h.State.Pointer.Y-h.Canvas.OffsetY+oy))
		L.Push(pos)
		return 1
	}
	funcs["hide"] = func(L *lua.LState) int {
		h.State.Cursor.Hidden = true
		return 0
	}
	funcs["show"] = func(L *lua.LState) int {
		h.State.Cursor.Hidden = false
		return 0
	}
	funcs["grab"] = func(L *lua.LState) int {
		h.State.Cursor.Grabbed = true
		return 0
	}
	funcs["ungrab"] = func(L *lua.LState) int {
		h.State.Cursor.Grabbed = false
		return 0
	}
	funcs["setCursor"] = func(L *lua.LState) int {
		shape := CursorDefault
		if L.GetTop() > 0 {
			n, ok := intArg(L, 1)
			if !ok || n < 0 || n >= len(cursorNames) {
				return pushBool(L, false)
			}
			shape = n
		}
		h.State.Cursor.Shape = shape
		return pushBool(L, true)
	}

	return &table{name: "mouse", funcs: funcs, consts: consts}
}
