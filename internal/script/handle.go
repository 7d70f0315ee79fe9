package script

import lua "github.com/yuin/gopher-lua"

// Handle is a token for a script value the engine keeps alive, such as a
// cached module export. Native code holds Handles instead of raw values, and
// a Handle stops resolving once the engine releases it at reload or shutdown.
type Handle struct {
	id  uint64
	gen uint64
}

// Valid reports whether h was ever issued. Released handles are still
// "valid" tokens, they just no longer resolve.
func (h Handle) Valid() bool {
	return h.id != 0
}

type handleTable struct {
	gen    uint64
	next   uint64
	values map[uint64]lua.LValue
}

func newHandleTable() handleTable {
	return handleTable{gen: 1, values: make(map[uint64]lua.LValue)}
}

// Retain stores v and returns a handle to it.
func (e *Engine) Retain(v lua.LValue) Handle {
	e.handles.next++
	id := e.handles.next
	e.handles.values[id] = v
	return Handle{id: id, gen: e.handles.gen}
}

// Resolve returns the value behind h, or false if h was released or belongs
// to an earlier generation.
func (e *Engine) Resolve(h Handle) (lua.LValue, bool) {
	if h.gen != e.handles.gen {
		return lua.LNil, false
	}
	v, ok := e.handles.values[h.id]
	if !ok {
		return lua.LNil, false
	}
	return v, true
}

// Release drops a single handle.
func (e *Engine) Release(h Handle) {
	if h.gen == e.handles.gen {
		delete(e.handles.values, h.id)
	}
}

// ReleaseAll drops every handle and starts a new generation, so handles
// issued before the call never resolve again.
func (e *Engine) ReleaseAll() {
	clear(e.handles.values)
	e.handles.gen++
}

// Retained returns how many handles currently resolve.
func (e *Engine) Retained() int {
	return len(e.handles.values)
}
