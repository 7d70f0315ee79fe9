// Package api implements the namespaces scripts see as globals: game,
// console, keyboard, mouse, graphics, image, music and sound. Each one
// registers itself with the registry in init().
//
// Bindings never raise Lua errors. Arguments of the wrong type or out of
// range make a call return false or nil, matching what a script would get
// for a missing asset.
package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-cabinet/internal/registry"
)

// table is a namespace built from plain maps.
type table struct {
	name   string
	funcs  map[string]lua.LGFunction
	consts map[string]lua.LValue
}

func (t *table) Name() string { return t.name }
func (t *table) Functions() map[string]lua.LGFunction { return t.funcs }
func (t *table) Constants() map[string]lua.LValue { return t.consts }

var _ registry.Namespace = (*table)(nil)

func intArg(L *lua.LState, n int) (int, bool) {
	v, ok := L.Get(n).(lua.LNumber)
	return int(v), ok
}

func numArg(L *lua.LState, n int) (float64, bool) {
	v, ok := L.Get(n).(lua.LNumber)
	return float64(v), ok
}

// optNum returns argument n, or def when it is absent or not a number.
func optNum(L *lua.LState, n int, def float64) float64 {
	if v, ok := numArg(L, n); ok {
		return v
	}
	return def
}

func strArg(L *lua.LState, n int) (string, bool) {
	switch v := L.Get(n).(type) {
	case lua.LString:
		return string(v), true
	case lua.LNumber:
		return v.String(), true
	}
	return "", false
}

func boolArg(L *lua.LState, n int) bool {
	return lua.LVAsBool(L.Get(n))
}

func pushBool(L *lua.LState, b bool) int {
	L.Push(lua.LBool(b))
	return 1
}

func pushNil(L *lua.LState) int {
	L.Push(lua.LNil)
	return 1
}

func pushNumber(L *lua.LState, v float64) int {
	L.Push(lua.LNumber(v))
	return 1
}
