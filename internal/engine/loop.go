package engine

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-cabinet/internal/core"
)

// Loop consumes events until the display closes or the game quits, then
// shuts down. It returns the process exit code.
func (e *Engine) Loop() int {
	if e.phase != Running {
		return ExitInit
	}
	for e.state.Run.Running {
		e.Step(e.queue.Wait())
	}
	e.Shutdown()
	return e.exitCode
}

// Step handles one event and redraws if a frame is due and no other events
// are waiting. Loop calls it for every event; tests drive it directly.
func (e *Engine) Step(ev core.Event) {
	e.handle(ev)
	if e.state.Run.Running && e.redrawDue && e.queue.Empty() {
		e.redraw()
	}
}

func (e *Engine) handle(ev core.Event) {
	s := e.state
	switch ev := ev.(type) {
	case core.DisplayClosed:
		e.logger.Debug("display closed")
		s.Run.Running = false

	case core.KeyEvent:
		if ev.Down {
			s.Keyboard.Down(ev.Key)
		} else {
			s.Keyboard.Up(ev.Key)
		}

	case core.ButtonEvent:
		if ev.Down {
			s.Mouse.Down(ev.Button)
		} else {
			s.Mouse.Up(ev.Button)
		}

	case core.PointerMoved:
		scale := max(s.Display.Scale, 1)
		s.Pointer = core.Pointer{X: ev.X / scale, Y: ev.Y / scale}

	case core.FocusChanged:
		switch ev.Device {
		case core.InputKeyboard:
			s.Keyboard.SetFocus(ev.Focused)
		case core.InputMouse:
			s.Mouse.SetFocus(ev.Focused)
		}

	case core.TimerTick:
		e.tick(ev)

	case core.ReloadRequested:
		e.logger.Info("source changed", "file", ev.Path)
		s.Run.ReloadRequested = true
	}
}

// tick runs one simulation step. update sees this frame's presses before
// they are promoted to held; a pending reload replaces the redraw.
func (e *Engine) tick(ev core.TimerTick) {
	s := e.state
	s.Clock.Tick(ev.At, s.Run.Paused)
	e.audio.Update(s.Clock.Time, s.Clock.Delta)

	e.bridge.Invoke("update", lua.LNumber(s.Clock.Time), lua.LNumber(s.Clock.Delta))

	s.Keyboard.Promote()
	s.Mouse.Promote()
	e.redrawDue = true

	if s.Run.ReloadRequested {
		e.redrawDue = false
		s.Run.ReloadRequested = false
		e.loader.Reload(s.Run.EntryModule)
	}
}

func (e *Engine) redraw() {
	e.redrawDue = false
	if err := e.devices.Recreate(); err != nil {
		e.logger.Error("cannot recreate display", "error", err)
		return
	}

	e.canvas.SetTarget(e.devices.RenderTarget())
	e.canvas.Clear()
	e.bridge.Invoke("render", lua.LNumber(e.state.Clock.Time))

	if err := e.devices.Present(); err != nil {
		e.logger.Error("cannot present frame", "error", err)
	}
}
