// Package script hosts the Lua side of the engine: a gopher-lua state, the
// require-style module loader with its cache, and the bridge that invokes
// lifecycle hooks on the script's game table with error latching.
package script

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
)

// Engine wraps a single Lua state. All methods must be called from the
// goroutine that owns the frame loop.
type Engine struct {
	L       *lua.LState
	scope   *lua.LTable
	sources map[string][]string // chunk name -> source lines, for diagnostics
	handles handleTable
	logger  *log.Logger
}

// NewEngine creates a Lua state with the base, table, string and math
// libraries. The os and io libraries are left out on purpose: games only
// reach the host through the API namespaces.
func NewEngine(logger *log.Logger) *Engine {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	e := &Engine{
		L:       L,
		sources: make(map[string][]string),
		handles: newHandleTable(),
		logger:  logger,
	}
	e.scope = e.NewScope()
	return e
}

// NewScope creates a fresh global scope and makes it current. Reads of
// unknown names fall through to the Lua standard library.
func (e *Engine) NewScope() *lua.LTable {
	scope := e.L.NewTable()
	mt := e.L.NewTable()
	e.L.SetField(mt, "__index", e.L.G.Global)
	e.L.SetMetatable(scope, mt)
	e.L.SetField(scope, "_G", scope)
	e.scope = scope
	return scope
}

// Scope returns the current global scope.
func (e *Engine) Scope() *lua.LTable {
	return e.scope
}

// Compile turns source into a callable chunk. Syntax errors come back as
// *Exception.
func (e *Engine) Compile(name, src string) (*lua.LFunction, error) {
	e.sources[name] = strings.Split(src, "\n")
	fn, err := e.L.Load(strings.NewReader(src), name)
	if err != nil {
		return nil, e.exception(err)
	}
	return fn, nil
}

// Call runs fn under the exception trap and returns its first result.
// Lua errors and Go panics raised inside the call come back as *Exception.
func (e *Engine) Call(fn *lua.LFunction, args ...lua.LValue) (ret lua.LValue, err error) {
	defer func() {
		if r := recover(); r != nil {
			ret = lua.LNil
			err = &Exception{Message: fmt.Sprint(r)}
		}
	}()

	if err := e.L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, args...); err != nil {
		return lua.LNil, e.exception(err)
	}
	ret = e.L.Get(-1)
	e.L.Pop(1)
	return ret, nil
}

// SourceLine returns line n (1-based) of a compiled chunk, if known.
func (e *Engine) SourceLine(chunk string, n int) (string, bool) {
	lines, ok := e.sources[chunk]
	if !ok || n < 1 || n > len(lines) {
		return "", false
	}
	return strings.TrimRight(lines[n-1], "\r"), true
}

// Forget drops retained source text. Called when the module cache is cleared.
func (e *Engine) Forget() {
	clear(e.sources)
}

// Close releases every handle and the Lua state.
func (e *Engine) Close() {
	e.ReleaseAll()
	e.L.Close()
}
