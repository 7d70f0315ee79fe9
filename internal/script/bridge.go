package script

import (
	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-cabinet/internal/core"
)

// GameObject is the name of the scope table that carries lifecycle hooks.
const GameObject = "game"

// Bridge calls named hooks on the script's game table. The first trapped
// failure latches core.RunState.ErrorLatched and every later Invoke becomes a
// no-op until the loader reloads.
type Bridge struct {
	engine  *Engine
	state   *core.State
	logger  *log.Logger
	onError []func(*Exception)
}

// NewBridge creates a bridge over engine that latches into state.
func NewBridge(engine *Engine, state *core.State, logger *log.Logger) *Bridge {
	return &Bridge{
		engine: engine,
		state:  state,
		logger: logger,
	}
}

// OnError registers a callback run for every trapped failure, after it is
// logged and latched.
func (b *Bridge) OnError(fn func(*Exception)) {
	b.onError = append(b.onError, fn)
}

// Invoke calls game[name](args...). It returns false without doing anything
// while latched, false when the hook is missing or not a function, and false
// when the call raised. Only a completed call returns true.
func (b *Bridge) Invoke(name string, args ...lua.LValue) bool {
	if b.state.Run.ErrorLatched {
		return false
	}

	fn, self, ok := b.lookup(name)
	if !ok {
		return false
	}
	if self != nil {
		args = append([]lua.LValue{self}, args...)
	}

	if _, err := b.engine.Call(fn, args...); err != nil {
		b.Fail(b.engine.exception(err))
		return false
	}
	return true
}

// Has reports whether the game table currently defines hook name.
func (b *Bridge) Has(name string) bool {
	_, _, ok := b.lookup(name)
	return ok
}

// lookup resolves hook name to a function. A callable value (a table or
// userdata with a __call function) resolves to that function, with the value
// itself returned as self to pass first.
func (b *Bridge) lookup(name string) (fn *lua.LFunction, self lua.LValue, ok bool) {
	L := b.engine.L
	game, ok := L.GetField(b.engine.Scope(), GameObject).(*lua.LTable)
	if !ok {
		return nil, nil, false
	}
	v := L.GetField(game, name)
	if fn, ok := v.(*lua.LFunction); ok {
		return fn, nil, true
	}
	switch v.(type) {
	case *lua.LTable, *lua.LUserData:
		if call, ok := L.GetMetaField(v, "__call").(*lua.LFunction); ok {
			return call, v, true
		}
	}
	return nil, nil, false
}

// Fail logs exc with its source snippet and latches the error flag.
func (b *Bridge) Fail(exc *Exception) {
	kv := []any{"at", exc.Where(), "error", exc.Message}
	if snippet := exc.Snippet(); snippet != "" {
		kv = append(kv, "source", snippet)
	}
	b.logger.Error("script error", kv...)
	if exc.Trace != "" {
		b.logger.Debug("script traceback", "trace", exc.Trace)
	}

	b.state.Run.ErrorLatched = true
	for _, fn := range b.onError {
		fn(exc)
	}
}

// Latched reports whether invocations are suppressed.
func (b *Bridge) Latched() bool {
	return b.state.Run.ErrorLatched
}

// Unlatch clears the error flag. Only a reload should call it.
func (b *Bridge) Unlatch() {
	b.state.Run.ErrorLatched = false
}
