package script

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	lua "github.com/yuin/gopher-lua"
)

func TestHandles(t *testing.T) {
	e := NewEngine(log.New(io.Discard))
	defer e.Close()

	var zero Handle
	assert.False(t, zero.Valid())

	tbl := e.L.NewTable()
	h := e.Retain(tbl)
	assert.True(t, h.Valid())
	assert.Equal(t, 1, e.Retained())

	v, ok := e.Resolve(h)
	assert.True(t, ok)
	assert.Same(t, tbl, v.(*lua.LTable))

	e.Release(h)
	_, ok = e.Resolve(h)
	assert.False(t, ok)
	assert.Zero(t, e.Retained())

	h = e.Retain(lua.LString("x"))
	e.ReleaseAll()
	_, ok = e.Resolve(h)
	assert.False(t, ok)

	// A fresh handle after ReleaseAll must not collide with the stale one.
	h2 := e.Retain(lua.LString("y"))
	assert.NotEqual(t, h, h2)
	v, ok = e.Resolve(h2)
	assert.True(t, ok)
	assert.Equal(t, lua.LString("y"), v)
}
