package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-cabinet/internal/core"
	"github.com/vovakirdan/tui-cabinet/internal/registry"
)

func init() {
	registry.Register("image", newImage)
}

func newImage(h *registry.Host) registry.Namespace {
	return &table{
		name: "image",
		funcs: map[string]lua.LGFunction{
			"load": func(L *lua.LState) int {
				name, ok := strArg(L, 1)
				if !ok {
					return pushBool(L, false)
				}
				cols, rows := 1, 1
				if c, ok := intArg(L, 2); ok {
					cols = c
				}
				if r, ok := intArg(L, 3); ok {
					rows = r
				}
				return pushBool(L, h.Images.Load(name, cols, rows))
			},
			"setTiled": func(L *lua.LState) int {
				name, okN := strArg(L, 1)
				cols, okC := intArg(L, 2)
				rows, okR := intArg(L, 3)
				if !okN || !okC || !okR {
					return pushBool(L, false)
				}
				return pushBool(L, h.Images.SetTiled(name, cols, rows))
			},
			"draw": func(L *lua.LState) int {
				name, okN := strArg(L, 1)
				x, okX := intArg(L, 2)
				y, okY := intArg(L, 3)
				if !okN || !okX || !okY {
					return pushBool(L, false)
				}
				flip, alpha := drawOptions(L, 4)
				return pushBool(L, h.Canvas.DrawImage(h.Images.Get(name), x, y, flip, alpha))
			},
			"drawTiled": func(L *lua.LState) int {
				name, okN := strArg(L, 1)
				x, okX := intArg(L, 2)
				y, okY := intArg(L, 3)
				index, okI := intArg(L, 4)
				if !okN || !okX || !okY || !okI {
					return pushBool(L, false)
				}
				flip, alpha := drawOptions(L, 5)
				return pushBool(L, h.Canvas.DrawTile(h.Images.Get(name), x, y, index, flip, alpha))
			},
		},
	}
}

// drawOptions reads the trailing flipH, flipV, alpha arguments starting at n.
func drawOptions(L *lua.LState, n int) (core.Flip, float64) {
	flip := core.FlipNone
	if boolArg(L, n) {
		flip |= core.FlipHorizontal
	}
	if boolArg(L, n+1) {
		flip |= core.FlipVertical
	}
	return flip, optNum(L, n+2, 1)
}
