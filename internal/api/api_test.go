package api

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-cabinet/internal/audio"
	"github.com/vovakirdan/tui-cabinet/internal/core"
	"github.com/vovakirdan/tui-cabinet/internal/gfx"
	"github.com/vovakirdan/tui-cabinet/internal/registry"
)

type env struct {
	L      *lua.LState
	host   *registry.Host
	screen *core.Screen
}

// newEnv binds every namespace into the globals of a fresh Lua state.
func newEnv(t *testing.T) *env {
	t.Helper()
	logger := log.New(io.Discard)
	state := core.NewState("main")
	state.Run.Running = true

	screen := core.NewScreen(8, 4)
	canvas := gfx.NewCanvas()
	canvas.SetTarget(screen)

	host := &registry.Host{
		State:  state,
		Canvas: canvas,
		Images: gfx.NewImages(logger),
		Audio:  audio.NewSystem(audio.NullDevice{}, logger),
		Logger: logger,
	}

	L := lua.NewState()
	t.Cleanup(L.Close)
	registry.Bind(L, L.G.Global, host)
	return &env{L: L, host: host, screen: screen}
}

// eval runs "return <expr>" and returns the single result.
func (e *env) eval(t *testing.T, expr string) lua.LValue {
	t.Helper()
	require.NoError(t, e.L.DoString("return "+expr))
	v := e.L.Get(-1)
	e.L.Pop(1)
	return v
}

func (e *env) run(t *testing.T, src string) {
	t.Helper()
	require.NoError(t, e.L.DoString(src))
}

func TestAllNamespacesRegistered(t *testing.T) {
	for _, name := range []string{"game", "console", "keyboard", "mouse", "graphics", "image", "music", "sound"} {
		assert.True(t, registry.Exists(name), name)
	}
}

func TestGamePauseResumeQuit(t *testing.T) {
	e := newEnv(t)
	e.host.State.Clock.Time = 2.5

	assert.Equal(t, lua.LNumber(2.5), e.eval(t, "game.getTime()"))
	assert.Equal(t, lua.LTrue, e.eval(t, "game.pause()"))
	assert.Equal(t, lua.LFalse, e.eval(t, "game.pause()"))
	assert.Equal(t, lua.LTrue, e.eval(t, "game.isPaused()"))
	assert.Equal(t, lua.LTrue, e.eval(t, "game.resume()"))
	assert.Equal(t, lua.LFalse, e.eval(t, "game.resume()"))

	e.run(t, "game.reload()")
	assert.True(t, e.host.State.Run.ReloadRequested)

	assert.Equal(t, lua.LTrue, e.eval(t, "game.quit()"))
	assert.False(t, e.host.State.Run.Running)
	assert.True(t, e.host.State.Run.QuitRequested)
	assert.Equal(t, lua.LFalse, e.eval(t, "game.quit()"))
}

func TestKeyboardQueries(t *testing.T) {
	e := newEnv(t)
	kb := e.host.State.Keyboard

	assert.Equal(t, lua.LNumber(core.KeyA), e.eval(t, "keyboard.KEY_A"))
	assert.Equal(t, lua.LNumber(core.KeySpace), e.eval(t, "keyboard.KEY_SPACE"))
	assert.Equal(t, lua.LNumber(core.KeyF12), e.eval(t, "keyboard.KEY_F12"))

	kb.Down(core.KeyA)
	assert.Equal(t, lua.LTrue, e.eval(t, "keyboard.wasPressed(keyboard.KEY_A)"))
	assert.Equal(t, lua.LTrue, e.eval(t, "keyboard.isDown(keyboard.KEY_A)"))
	assert.Equal(t, lua.LNumber(1), e.eval(t, "keyboard.getCount()"))

	kb.Promote()
	assert.Equal(t, lua.LFalse, e.eval(t, "keyboard.wasPressed(keyboard.KEY_A)"))
	kb.Up(core.KeyA)
	assert.Equal(t, lua.LTrue, e.eval(t, "keyboard.wasReleased(keyboard.KEY_A)"))

	// Bad arguments are answered with false, never an error.
	assert.Equal(t, lua.LFalse, e.eval(t, `keyboard.isDown("a")`))
	assert.Equal(t, lua.LFalse, e.eval(t, "keyboard.isDown(9999)"))
	assert.Equal(t, lua.LFalse, e.eval(t, "keyboard.isDown()"))
}

func TestMouse(t *testing.T) {
	e := newEnv(t)
	e.host.State.Pointer = core.Pointer{X: 10, Y: 6}
	e.host.Canvas.OffsetX = 2

	pos := e.eval(t, "mouse.getPosition(1, 1)").(*lua.LTable)
	assert.Equal(t, lua.LNumber(9), e.L.GetField(pos, "x"))
	assert.Equal(t, lua.LNumber(7), e.L.GetField(pos, "y"))

	e.host.State.Mouse.Down(core.ButtonLeft)
	assert.Equal(t, lua.LTrue, e.eval(t, "mouse.isDown(mouse.BUTTON_LEFT)"))

	e.run(t, "mouse.hide() mouse.grab()")
	assert.Equal(t, core.Cursor{Hidden: true, Grabbed: true}, e.host.State.Cursor)
	assert.Equal(t, lua.LTrue, e.eval(t, "mouse.setCursor(mouse.CURSOR_EDIT)"))
	assert.Equal(t, 5, e.host.State.Cursor.Shape)
	assert.Equal(t, lua.LFalse, e.eval(t, "mouse.setCursor(100)"))
	assert.Equal(t, lua.LTrue, e.eval(t, "mouse.setCursor()"))
	assert.Equal(t, CursorDefault, e.host.State.Cursor.Shape)
	e.run(t, "mouse.show() mouse.ungrab()")
	assert.False(t, e.host.State.Cursor.Hidden)
}

func TestGraphicsScaleWritesConfig(t *testing.T) {
	e := newEnv(t)
	cfg := e.L.NewTable()
	e.host.Config = cfg

	assert.Equal(t, lua.LTrue, e.eval(t, "graphics.setScale(2)"))
	assert.Equal(t, 2, e.host.State.Display.Scale)
	assert.True(t, e.host.State.Resized)
	assert.Equal(t, lua.LNumber(2), e.L.GetField(cfg, "scale"))

	e.host.State.Resized = false
	assert.Equal(t, lua.LTrue, e.eval(t, "graphics.setScale(2)"))
	assert.False(t, e.host.State.Resized, "same value does not flag a resize")

	assert.Equal(t, lua.LTrue, e.eval(t, "graphics.setSize(320, 200)"))
	assert.Equal(t, lua.LNumber(320), e.L.GetField(cfg, "width"))
	size := e.eval(t, "graphics.getSize()").(*lua.LTable)
	assert.Equal(t, lua.LNumber(200), e.L.GetField(size, "h"))

	assert.Equal(t, lua.LFalse, e.eval(t, "graphics.setScale(0)"))
	assert.Equal(t, lua.LFalse, e.eval(t, "graphics.setScale(100)"))
	assert.Equal(t, lua.LFalse, e.eval(t, "graphics.setSize(-1, 10)"))
	assert.Equal(t, lua.LFalse, e.eval(t, `graphics.setSize("x")`))
	assert.Equal(t, 2, e.host.State.Display.Scale)
}

func TestGraphicsColors(t *testing.T) {
	e := newEnv(t)

	e.run(t, "graphics.setColor(255, 0, 0, 0.5)")
	assert.Equal(t, core.RGBA(255, 0, 0, 0.5), e.host.Canvas.Color)
	col := e.eval(t, "graphics.getColor()").(*lua.LTable)
	assert.Equal(t, lua.LNumber(255), e.L.GetField(col, "r"))

	e.run(t, "graphics.setBlendColor(1, 1, 1, 0.5)")
	blend := e.eval(t, "graphics.getBlendColor()").(*lua.LTable)
	assert.InDelta(t, 0.5, float64(e.L.GetField(blend, "a").(lua.LNumber)), 0.01)

	assert.Equal(t, lua.LFalse, e.eval(t, "graphics.setBackColor(1, 2)"))
	assert.Equal(t, core.Black, e.host.Canvas.Back)
}

func TestGraphicsDrawing(t *testing.T) {
	e := newEnv(t)

	e.run(t, `
graphics.setColor(0, 255, 0)
graphics.rect(0, 0, 2, 2, true)
graphics.line(4, 0, 4, 3)
graphics.text(5, 1, "ok")
graphics.setRenderOffset(1, 0)
graphics.rect(6, 3, 1, 1, true)
`)
	green := core.Color{G: 255, A: 255}
	assert.Equal(t, green, e.screen.Pixel(1, 1))
	assert.Equal(t, green, e.screen.Pixel(4, 3))
	assert.Equal(t, "ok", e.screen.Row(1)[5:7])
	assert.Equal(t, green, e.screen.Pixel(7, 3))

	assert.Equal(t, lua.LFalse, e.eval(t, "graphics.line(1, 2)"))
	assert.Equal(t, lua.LFalse, e.eval(t, "graphics.setLineWidth(0)"))
	assert.Equal(t, lua.LNumber(1), e.eval(t, "graphics.getLineWidth()"))
}

func TestImageNamespace(t *testing.T) {
	e := newEnv(t)
	missing := filepath.Join(t.TempDir(), "missing.png")
	e.L.SetGlobal("missing", lua.LString(missing))

	assert.Equal(t, lua.LFalse, e.eval(t, "image.load(missing)"))
	assert.Equal(t, lua.LFalse, e.eval(t, "image.draw(missing, 0, 0)"))
	assert.Equal(t, lua.LFalse, e.eval(t, "image.drawTiled(missing, 0, 0, 0)"))
	assert.Equal(t, lua.LFalse, e.eval(t, "image.load()"))
	assert.Equal(t, 1, e.host.Images.Len())
}

func TestMusicNamespace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "theme.ogg"), []byte("x"), 0o644))
	t.Chdir(dir)
	e := newEnv(t)

	assert.Equal(t, lua.LNil, e.eval(t, `music.play("nope.ogg")`))
	assert.Equal(t, lua.LTrue, e.eval(t, `music.play("theme.ogg")`))
	assert.Equal(t, lua.LTrue, e.eval(t, `music.isPlaying("theme.ogg")`))
	assert.Equal(t, lua.LFalse, e.eval(t, `music.resume("theme.ogg")`))
	assert.Equal(t, lua.LTrue, e.eval(t, `music.pause("theme.ogg")`))
	assert.Equal(t, lua.LFalse, e.eval(t, `music.isPlaying("theme.ogg")`))

	assert.Equal(t, lua.LTrue, e.eval(t, `music.setVolume("theme.ogg", 0.25)`))
	assert.Equal(t, lua.LNumber(0.25), e.eval(t, `music.getVolume("theme.ogg")`))
	assert.Equal(t, lua.LFalse, e.eval(t, `music.setVolume("theme.ogg", 2)`))
	assert.Equal(t, lua.LFalse, e.eval(t, `music.setSpeed("theme.ogg", 0)`))
	assert.Equal(t, lua.LNil, e.eval(t, `music.getPan("nope.ogg")`))
	assert.Equal(t, lua.LTrue, e.eval(t, `music.setLooping("theme.ogg", true)`))
	assert.Equal(t, lua.LFalse, e.eval(t, `music.setLooping("theme.ogg", true)`))
	assert.Equal(t, lua.LTrue, e.eval(t, `music.stop("theme.ogg")`))
}

func TestSoundNamespace(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hit.wav"), []byte("x"), 0o644))
	t.Chdir(dir)
	e := newEnv(t)

	assert.Equal(t, lua.LTrue, e.eval(t, `sound.load("hit.wav")`))
	assert.Equal(t, lua.LTrue, e.eval(t, `sound.play("hit.wav")`))
	assert.Equal(t, lua.LTrue, e.eval(t, `sound.play("hit.wav", 0.5, -1, 0.5)`))
	assert.Equal(t, lua.LFalse, e.eval(t, `sound.play("hit.wav", 1.5)`))
	assert.Equal(t, lua.LFalse, e.eval(t, `sound.play("nope.wav")`))
	assert.Equal(t, 2, e.host.Audio.Sounds.PoolSize())
}

func TestFormat(t *testing.T) {
	L := lua.NewState()
	defer L.Close()

	require.NoError(t, L.DoString(`seq = {1, "two", {}}; rec = {b = 2, a = "x"}`))
	tests := []struct {
		name string
		in   []lua.LValue
		want string
	}{
		{"scalars", []lua.LValue{lua.LString("hp"), lua.LNumber(3), lua.LTrue, lua.LNil}, "hp 3 true nil"},
		{"sequence", []lua.LValue{L.GetGlobal("seq")}, `[ 1, "two", table ]`},
		{"record", []lua.LValue{L.GetGlobal("rec")}, `{ a: "x", b: 2 }`},
		{"empty", []lua.LValue{L.NewTable()}, "{ }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.in...))
		})
	}
}
