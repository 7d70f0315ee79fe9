// Package engine runs a script-driven game: it loads the entry module, opens
// the devices the game asks for in init(), and drives update and render from
// a single event queue until the display closes or the game quits.
package engine

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-cabinet/internal/audio"
	"github.com/vovakirdan/tui-cabinet/internal/core"
	"github.com/vovakirdan/tui-cabinet/internal/device"
	"github.com/vovakirdan/tui-cabinet/internal/gfx"
	"github.com/vovakirdan/tui-cabinet/internal/registry"
	"github.com/vovakirdan/tui-cabinet/internal/script"
	"github.com/vovakirdan/tui-cabinet/internal/storage"
	"github.com/vovakirdan/tui-cabinet/internal/watch"

	// Namespaces register themselves with the registry.
	_ "github.com/vovakirdan/tui-cabinet/internal/api"
)

// DefaultEntry is the entry module when none is given.
const DefaultEntry = "game"

// Exit codes returned by Run.
const (
	ExitOK   = 0
	ExitInit = 1
)

var (
	// ErrNoDriver is returned by Init when Options.Driver is nil.
	ErrNoDriver = errors.New("engine: no device driver")
	// ErrStarted is returned by Init when called twice.
	ErrStarted = errors.New("engine: already started")
)

// Phase is where the engine is in its lifecycle.
type Phase int

const (
	Idle Phase = iota
	Running
	Stopped
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// Journal records runs and the script errors that latched during them.
// *storage.Store implements it.
type Journal interface {
	StartRun(entry string) (string, error)
	EndRun(runID string, exitCode int) error
	RecordError(runID string, e storage.ScriptError) (int64, error)
}

// Options configures an Engine.
type Options struct {
	Entry     string             // Entry module name; defaults to DefaultEntry
	Dir       string             // Module directory; empty means the working directory
	Extension string             // Module file extension; defaults to script.DefaultExtension
	Display   core.DisplayConfig // Display before init() changes it; zero means the default
	Driver    device.Driver
	Queue     *core.Queue // Created when nil
	Logger    *log.Logger
	Journal   Journal // Optional

	Watch         bool // Reload when module sources change
	WatchDebounce time.Duration

	// ManualTicks leaves the frame timer off; the caller pushes
	// core.TimerTick events itself.
	ManualTicks bool
	Now         func() time.Time
}

// Engine owns every subsystem of one running game. All methods except
// Queue must be called from the goroutine that runs the loop.
type Engine struct {
	opts   Options
	state  *core.State
	queue  *core.Queue
	logger *log.Logger

	script  *script.Engine
	bridge  *script.Bridge
	loader  *script.Loader
	host    *registry.Host
	canvas  *gfx.Canvas
	images  *gfx.Images
	devices *device.Manager
	audio   *audio.System
	timer   *core.Timer
	watcher *watch.Watcher

	runID     string
	phase     Phase
	redrawDue bool
	exitCode  int
}

// New creates an idle engine. Nothing is loaded or opened until Init.
func New(opts Options) *Engine {
	if opts.Entry == "" {
		opts.Entry = DefaultEntry
	}
	if opts.Extension == "" {
		opts.Extension = script.DefaultExtension
	}
	if opts.Display == (core.DisplayConfig{}) {
		opts.Display = core.DefaultDisplayConfig()
	}
	if opts.Queue == nil {
		opts.Queue = core.NewQueue(core.DefaultQueueSize)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	state := core.NewState(opts.Entry)
	state.Display = opts.Display

	return &Engine{
		opts:   opts,
		state:  state,
		queue:  opts.Queue,
		logger: opts.Logger,
	}
}

// SplitEntry turns an entry file path into the directory to run from and
// the module name: "games/pong/main.lua" gives "games/pong" and "main".
// A bare name keeps the directory empty.
func SplitEntry(path, ext string) (dir, name string) {
	dir, file := filepath.Split(path)
	if ext == "" {
		ext = script.DefaultExtension
	}
	name = strings.TrimSuffix(file, ext)
	if dir == "" {
		return "", name
	}
	return filepath.Clean(dir), name
}

// Init loads the entry module, lets the game configure the display in
// init(config), opens the devices and calls load(). Any error is fatal and
// leaves the engine stopped with devices closed.
func (e *Engine) Init() error {
	if e.phase != Idle {
		return ErrStarted
	}
	if e.opts.Driver == nil {
		return ErrNoDriver
	}

	e.script = script.NewEngine(e.logger.WithPrefix("lua"))
	e.bridge = script.NewBridge(e.script, e.state, e.logger)
	e.bridge.OnError(e.journalError)

	e.canvas = gfx.NewCanvas()
	e.images = gfx.NewImages(e.logger.WithPrefix("image"))
	e.host = &registry.Host{
		State:  e.state,
		Canvas: e.canvas,
		Images: e.images,
		Logger: e.logger.WithPrefix("script"),
	}
	e.loader = script.NewLoader(e.script, e.bridge, e.logger.WithPrefix("module"), script.LoaderOptions{
		Dir:       e.opts.Dir,
		Extension: e.opts.Extension,
		Bind: func(scope *lua.LTable) {
			registry.Bind(e.script.L, scope, e.host)
		},
	})
	e.devices = device.NewManager(e.opts.Driver, e.state, e.logger.WithPrefix("device"))

	e.startRun()
	e.logger.Info("starting", "entry", e.opts.Entry, "dir", e.opts.Dir)
	e.loader.Require(e.opts.Entry)

	cfg := e.configTable()
	e.host.Config = cfg
	e.bridge.Invoke("init", cfg)
	e.state.Display = readConfig(cfg, e.state.Display)
	if err := e.state.Display.Validate(); err != nil {
		return e.abort(fmt.Errorf("engine: invalid display config: %w", err))
	}

	if err := e.devices.Setup(); err != nil {
		return e.abort(err)
	}
	e.audio = audio.NewSystem(e.devices.Audio(), e.logger.WithPrefix("audio"))
	e.host.Audio = e.audio
	e.canvas.SetTarget(e.devices.RenderTarget())

	e.bridge.Invoke("load")

	if e.opts.Watch {
		e.startWatcher()
	}

	e.state.Run.Running = true
	e.state.Clock.Start(e.opts.Now())
	e.phase = Running
	if !e.opts.ManualTicks {
		e.timer = core.NewTimer(e.state.Display.TickInterval(), e.queue)
		e.timer.Start()
	}
	return nil
}

// abort tears down what Init opened and records the failed run.
func (e *Engine) abort(err error) error {
	e.logger.Error("initialization failed", "error", err)
	e.exitCode = ExitInit
	e.Shutdown()
	return err
}

// configTable builds the table passed to init(). The game edits it in place.
func (e *Engine) configTable() *lua.LTable {
	L := e.script.L
	d := e.state.Display
	t := L.NewTable()
	L.SetField(t, "title", lua.LString(d.Title))
	L.SetField(t, "width", lua.LNumber(d.Width))
	L.SetField(t, "height", lua.LNumber(d.Height))
	L.SetField(t, "scale", lua.LNumber(d.Scale))
	L.SetField(t, "fps", lua.LNumber(d.FPS))
	return t
}

// readConfig reads the table back over cur. Fields of the wrong type keep
// their current value.
func readConfig(t *lua.LTable, cur core.DisplayConfig) core.DisplayConfig {
	if v, ok := t.RawGetString("title").(lua.LString); ok {
		cur.Title = string(v)
	}
	num := func(key string, dst *int) {
		if v, ok := t.RawGetString(key).(lua.LNumber); ok {
			*dst = int(v)
		}
	}
	num("width", &cur.Width)
	num("height", &cur.Height)
	num("scale", &cur.Scale)
	num("fps", &cur.FPS)
	return cur
}

func (e *Engine) startWatcher() {
	dir := e.opts.Dir
	if dir == "" {
		dir = "."
	}
	w, err := watch.New(watch.Options{
		Dir:       dir,
		Extension: e.opts.Extension,
		Debounce:  e.opts.WatchDebounce,
	}, e.queue, e.logger.WithPrefix("watch"))
	if err == nil {
		err = w.Start()
	}
	if err != nil {
		e.logger.Warn("source watcher disabled", "dir", dir, "error", err)
		if w != nil {
			w.Stop()
		}
		return
	}
	e.watcher = w
	e.logger.Info("watching sources", "dir", dir)
}

func (e *Engine) startRun() {
	if e.opts.Journal == nil {
		return
	}
	id, err := e.opts.Journal.StartRun(e.opts.Entry)
	if err != nil {
		e.logger.Warn("journal unavailable", "error", err)
		return
	}
	e.runID = id
}

func (e *Engine) journalError(exc *script.Exception) {
	if e.runID == "" {
		return
	}
	_, err := e.opts.Journal.RecordError(e.runID, storage.ScriptError{
		File:    exc.File,
		Line:    exc.Line,
		Message: exc.Message,
		Source:  exc.Source,
	})
	if err != nil {
		e.logger.Warn("cannot record script error", "error", err)
	}
}

// Run initializes and loops, returning the process exit code.
func (e *Engine) Run() int {
	if err := e.Init(); err != nil {
		return ExitInit
	}
	return e.Loop()
}

// Shutdown releases everything in a fixed order: audio, timer, watcher,
// devices, modules, images, then the journal entry. Safe to call more than
// once.
func (e *Engine) Shutdown() {
	if e.phase == Stopped {
		return
	}
	e.phase = Stopped
	e.state.Run.Running = false

	if e.audio != nil {
		e.audio.Close()
		e.host.Audio = nil
	}
	if e.timer != nil {
		e.timer.Stop()
	}
	if e.watcher != nil {
		e.watcher.Stop()
	}
	if e.devices != nil {
		e.devices.Teardown()
	}
	e.queue.Close()
	if e.loader != nil {
		e.loader.Clear()
	}
	if e.images != nil {
		e.images.Clear()
	}
	if e.runID != "" {
		if err := e.opts.Journal.EndRun(e.runID, e.exitCode); err != nil {
			e.logger.Warn("cannot close journal run", "error", err)
		}
	}
	if e.script != nil {
		e.script.Close()
	}
	e.logger.Info("stopped", "entry", e.opts.Entry, "code", e.exitCode)
}

// State returns the engine context.
func (e *Engine) State() *core.State {
	return e.state
}

// Queue returns the event queue. Any goroutine may push into it.
func (e *Engine) Queue() *core.Queue {
	return e.queue
}

// Phase returns the lifecycle phase.
func (e *Engine) Phase() Phase {
	return e.phase
}

// Loader returns the module loader, or nil before Init.
func (e *Engine) Loader() *script.Loader {
	return e.loader
}

// Bridge returns the invocation bridge, or nil before Init.
func (e *Engine) Bridge() *script.Bridge {
	return e.bridge
}

// Audio returns the audio schedulers, or nil while no device is open.
func (e *Engine) Audio() *audio.System {
	return e.audio
}

// Devices returns the device manager, or nil before Init.
func (e *Engine) Devices() *device.Manager {
	return e.devices
}

// RunID returns the journal id of this run, empty without a journal.
func (e *Engine) RunID() string {
	return e.runID
}
