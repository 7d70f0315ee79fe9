package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-cabinet/internal/core"
	"github.com/vovakirdan/tui-cabinet/internal/registry"
)

func init() {
	registry.Register("graphics", newGraphics)
}

func newGraphics(h *registry.Host) registry.Namespace {
	return &table{
		name: "graphics",
		funcs: map[string]lua.LGFunction{
			"setRenderOffset": func(L *lua.LState) int {
				x, okX := intArg(L, 1)
				y, okY := intArg(L, 2)
				if !okX || !okY {
					return pushBool(L, false)
				}
				h.Canvas.OffsetX, h.Canvas.OffsetY = x, y
				return pushBool(L, true)
			},
			"getRenderOffset": func(L *lua.LState) int {
				return pushPair(L, "x", h.Canvas.OffsetX, "y", h.Canvas.OffsetY)
			},

			"setScale": func(L *lua.LState) int {
				scale, ok := intArg(L, 1)
				if !ok {
					return pushBool(L, false)
				}
				cfg := h.State.Display
				cfg.Scale = scale
				if cfg.Validate() != nil {
					return pushBool(L, false)
				}
				if scale != h.State.Display.Scale {
					h.State.SetScale(scale)
					writeConfig(L, h, "scale", scale)
				}
				return pushBool(L, true)
			},
			"getScale": func(L *lua.LState) int {
				return pushNumber(L, float64(h.State.Display.Scale))
			},
			"setSize": func(L *lua.LState) int {
				w, okW := intArg(L, 1)
				hh, okH := intArg(L, 2)
				if !okW || !okH {
					return pushBool(L, false)
				}
				cfg := h.State.Display
				cfg.Width, cfg.Height = w, hh
				if cfg.Validate() != nil {
					return pushBool(L, false)
				}
				if w != h.State.Display.Width || hh != h.State.Display.Height {
					h.State.SetSize(w, hh)
					writeConfig(L, h, "width", w)
					writeConfig(L, h, "height", hh)
				}
				return pushBool(L, true)
			},
			"getSize": func(L *lua.LState) int {
				return pushPair(L, "w", h.State.Display.Width, "h", h.State.Display.Height)
			},

			"setColor": func(L *lua.LState) int {
				return setColor(L, &h.Canvas.Color, false)
			},
			"getColor": func(L *lua.LState) int {
				return pushColor(L, h.Canvas.Color, false)
			},
			"setBackColor": func(L *lua.LState) int {
				return setColor(L, &h.Canvas.Back, false)
			},
			"getBackColor": func(L *lua.LState) int {
				return pushColor(L, h.Canvas.Back, false)
			},
			"setBlendColor": func(L *lua.LState) int {
				return setColor(L, &h.Canvas.Blend, true)
			},
			"getBlendColor": func(L *lua.LState) int {
				return pushColor(L, h.Canvas.Blend, true)
			},

			"setLineWidth": func(L *lua.LState) int {
				w, ok := intArg(L, 1)
				if !ok || w < 1 {
					return pushBool(L, false)
				}
				h.Canvas.LineWidth = w
				return pushBool(L, true)
			},
			"getLineWidth": func(L *lua.LState) int {
				return pushNumber(L, float64(h.Canvas.LineWidth))
			},

			"line": func(L *lua.LState) int {
				var v [4]int
				for i := range v {
					n, ok := intArg(L, i+1)
					if !ok {
						return pushBool(L, false)
					}
					v[i] = n
				}
				h.Canvas.Line(v[0], v[1], v[2], v[3])
				return pushBool(L, true)
			},
			"rect": func(L *lua.LState) int {
				var v [4]int
				for i := range v {
					n, ok := intArg(L, i+1)
					if !ok {
						return pushBool(L, false)
					}
					v[i] = n
				}
				h.Canvas.Rect(v[0], v[1], v[2], v[3], boolArg(L, 5))
				return pushBool(L, true)
			},
			"text": func(L *lua.LState) int {
				x, okX := intArg(L, 1)
				y, okY := intArg(L, 2)
				s, okS := strArg(L, 3)
				if !okX || !okY || !okS {
					return pushBool(L, false)
				}
				h.Canvas.Text(x, y, s)
				return pushBool(L, true)
			},
		},
	}
}

// writeConfig mirrors a display change into the table init() received.
func writeConfig(L *lua.LState, h *registry.Host, key string, v int) {
	if h.Config != nil {
		L.SetField(h.Config, key, lua.LNumber(v))
	}
}

func pushPair(L *lua.LState, k1 string, v1 int, k2 string, v2 int) int {
	t := L.NewTable()
	L.SetField(t, k1, lua.LNumber(v1))
	L.SetField(t, k2, lua.LNumber(v2))
	L.Push(t)
	return 1
}

// setColor reads r, g, b and an optional alpha. Channels are 0-255 unless
// floats is set, in which case they are 0-1; alpha is always 0-1.
func setColor(L *lua.LState, dst *core.Color, floats bool) int {
	r, okR := numArg(L, 1)
	g, okG := numArg(L, 2)
	b, okB := numArg(L, 3)
	if !okR || !okG || !okB {
		return pushBool(L, false)
	}
	a := optNum(L, 4, 1)
	if floats {
		*dst = core.RGBAF(r, g, b, a)
	} else {
		*dst = core.RGBA(int(r), int(g), int(b), a)
	}
	return pushBool(L, true)
}

func pushColor(L *lua.LState, c core.Color, floats bool) int {
	t := L.NewTable()
	if floats {
		r, g, b, a := c.Floats()
		L.SetField(t, "r", lua.LNumber(r))
		L.SetField(t, "g", lua.LNumber(g))
		L.SetField(t, "b", lua.LNumber(b))
		L.SetField(t, "a", lua.LNumber(a))
	} else {
		L.SetField(t, "r", lua.LNumber(c.R))
		L.SetField(t, "g", lua.LNumber(c.G))
		L.SetField(t, "b", lua.LNumber(c.B))
		L.SetField(t, "a", lua.LNumber(float64(c.A)/255))
	}
	L.Push(t)
	return 1
}
