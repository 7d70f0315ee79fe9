package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"
)

func TestInvokeCallsHook(t *testing.T) {
	h := newHarness(t, map[string]string{
		"main.lua": `
function game.update(time, delta)
  hit("update")
  global.last = time + delta
end
`,
	})
	h.loader.Require("main")

	ok := h.bridge.Invoke("update", lua.LNumber(1.5), lua.LNumber(0.5))
	assert.True(t, ok)
	assert.Equal(t, 1, h.hits["update"])
	assert.Equal(t, lua.LNumber(2), h.engine.Scope().RawGetString("last"))
}

func TestInvokeMissingHook(t *testing.T) {
	h := newHarness(t, map[string]string{
		"main.lua": `game.render = 5`,
	})
	h.loader.Require("main")

	assert.False(t, h.bridge.Invoke("update"))
	assert.False(t, h.bridge.Invoke("render"), "non-function hook")
	assert.False(t, h.bridge.Latched())
	assert.Empty(t, h.errors)
	assert.False(t, h.bridge.Has("update"))
}

func TestInvokeCallableTable(t *testing.T) {
	h := newHarness(t, map[string]string{
		"main.lua": `
local updater = { name = "updater" }
setmetatable(updater, {
  __call = function(self, time, delta)
    hit(self.name)
    global.sum = time + delta
  end,
})
game.update = updater
game.render = setmetatable({}, {})
`,
	})
	h.loader.Require("main")

	require.True(t, h.bridge.Has("update"))
	assert.True(t, h.bridge.Invoke("update", lua.LNumber(2), lua.LNumber(0.25)))
	assert.Equal(t, 1, h.hits["updater"])
	assert.Equal(t, lua.LNumber(2.25), h.engine.Scope().RawGetString("sum"))

	assert.False(t, h.bridge.Has("render"), "table without __call")
	assert.False(t, h.bridge.Invoke("render"))
	assert.False(t, h.bridge.Latched())
}

func TestInvokeLatchesOnError(t *testing.T) {
	h := newHarness(t, map[string]string{
		"main.lua": `
function game.update()
  error("broken")
end

function game.render()
  hit("render")
end
`,
	})
	h.loader.Require("main")
	require.True(t, h.bridge.Has("render"))

	assert.False(t, h.bridge.Invoke("update"))
	assert.True(t, h.bridge.Latched())
	assert.True(t, h.state.Run.ErrorLatched)

	require.Len(t, h.errors, 1)
	exc := h.errors[0]
	assert.Equal(t, "main.lua", exc.File)
	assert.Equal(t, 3, exc.Line)
	assert.Equal(t, `  error("broken")`, exc.Source)

	// Latched: nothing runs, nothing else is reported.
	assert.False(t, h.bridge.Invoke("render"))
	assert.False(t, h.bridge.Invoke("update"))
	assert.Zero(t, h.hits["render"])
	assert.Len(t, h.errors, 1)
}

func TestReloadClearsLatch(t *testing.T) {
	h := newHarness(t, map[string]string{
		"main.lua": `
function game.update(t)
  hit("update")
  if t > 0 then error("late") end
end
`,
	})
	h.loader.Require("main")

	assert.True(t, h.bridge.Invoke("update", lua.LNumber(0)))
	assert.False(t, h.bridge.Invoke("update", lua.LNumber(1)))
	require.True(t, h.bridge.Latched())

	h.loader.Reload("main")
	assert.False(t, h.bridge.Latched())
	assert.True(t, h.bridge.Invoke("update", lua.LNumber(0)))
	assert.Equal(t, 3, h.hits["update"])
}

func TestInvokeRecoversGoPanic(t *testing.T) {
	h := newHarness(t, map[string]string{
		"main.lua": `function game.load() explode() end`,
	})
	h.engine.L.SetField(h.engine.Scope(), "explode", h.engine.L.NewFunction(func(*lua.LState) int {
		panic("native failure")
	}))
	h.loader.Require("main")

	assert.False(t, h.bridge.Invoke("load"))
	assert.True(t, h.bridge.Latched())
	require.Len(t, h.errors, 1)
	assert.Contains(t, h.errors[0].Message, "native failure")
}
