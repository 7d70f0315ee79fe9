package script

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"
)

// DefaultExtension is appended to module names to find their source file.
const DefaultExtension = ".lua"

// Module is one cached require() result.
type Module struct {
	Name     string
	File     string
	Source   string
	Unit     *lua.LFunction
	Exports  Handle
	LoadedAt time.Time
	Missing  bool // No source file; exports are nil
	Failed   bool // Compile or run failed; exports are nil
}

// Binder installs the host API into a freshly created scope.
type Binder func(scope *lua.LTable)

// LoaderOptions configures a Loader.
type LoaderOptions struct {
	Dir       string // Base directory for module files; empty means the working directory
	Extension string // Defaults to DefaultExtension
	Bind      Binder // Called for every new scope
	Now       func() time.Time
}

// Loader implements require() with a per-name cache and full invalidation.
// Each module runs in its own environment table, so its top-level
// assignments stay private; module, exports and global are bound in it.
type Loader struct {
	engine  *Engine
	bridge  *Bridge
	logger  *log.Logger
	opts    LoaderOptions
	modules map[string]*Module
	require *lua.LFunction
}

// NewLoader creates a loader and installs require() and the host API into
// the engine's current scope.
func NewLoader(engine *Engine, bridge *Bridge, logger *log.Logger, opts LoaderOptions) *Loader {
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	l := &Loader{
		engine:  engine,
		bridge:  bridge,
		logger:  logger,
		opts:    opts,
		modules: make(map[string]*Module),
	}
	l.require = engine.L.NewFunction(l.luaRequire)
	l.bindScope(engine.Scope())
	return l
}

func (l *Loader) bindScope(scope *lua.LTable) {
	l.engine.L.SetField(scope, "require", l.require)
	if l.opts.Bind != nil {
		l.opts.Bind(scope)
	}
}

func (l *Loader) luaRequire(L *lua.LState) int {
	name, ok := L.Get(1).(lua.LString)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(l.Require(string(name)))
	return 1
}

// Require returns the exports of module name, loading it on first use.
// A cache hit returns the identical value. Missing files and failing
// modules yield nil and are cached as such until the next reload.
func (l *Loader) Require(name string) lua.LValue {
	if m, ok := l.modules[name]; ok {
		v, _ := l.engine.Resolve(m.Exports)
		return v
	}

	file := name + l.opts.Extension
	path := file
	if l.opts.Dir != "" {
		path = filepath.Join(l.opts.Dir, file)
	}

	m := &Module{Name: name, File: file, LoadedAt: l.opts.Now()}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("module not found", "module", name, "file", path)
		} else {
			l.logger.Warn("cannot read module", "module", name, "file", path, "error", err)
		}
		m.Missing = true
		m.Exports = l.engine.Retain(lua.LNil)
		l.modules[name] = m
		return lua.LNil
	}
	m.Source = string(data)

	L := l.engine.L
	module := L.NewTable()
	exports := L.NewTable()
	L.SetField(module, "exports", exports)
	L.SetField(module, "name", lua.LString(name))

	env := L.NewTable()
	L.SetField(env, "module", module)
	L.SetField(env, "exports", exports)
	L.SetField(env, "global", l.engine.Scope())
	mt := L.NewTable()
	L.SetField(mt, "__index", l.engine.Scope())
	L.SetMetatable(env, mt)

	// Cache before running so a cyclic require gets the partial exports
	m.Exports = l.engine.Retain(exports)
	l.modules[name] = m

	unit, err := l.engine.Compile(file, m.Source)
	if err != nil {
		return l.fail(m, err)
	}
	unit.Env = env
	m.Unit = unit

	ret, err := l.engine.Call(unit)
	if err != nil {
		return l.fail(m, err)
	}

	if ret != lua.LNil {
		L.SetField(module, "exports", ret)
	}
	result := L.GetField(module, "exports")

	l.engine.Release(m.Exports)
	m.Exports = l.engine.Retain(result)
	l.logger.Debug("module loaded", "module", name, "file", path)
	return result
}

func (l *Loader) fail(m *Module, err error) lua.LValue {
	l.bridge.Fail(l.engine.exception(err))
	l.engine.Release(m.Exports)
	m.Exports = l.engine.Retain(lua.LNil)
	m.Failed = true
	return lua.LNil
}

// Reload drops every cached module, builds a fresh global scope, clears the
// error latch and requires entry again.
func (l *Loader) Reload(entry string) lua.LValue {
	l.Clear()
	l.bindScope(l.engine.NewScope())
	l.bridge.Unlatch()
	l.logger.Info("reloading", "entry", entry)
	return l.Require(entry)
}

// Clear releases every cached export.
func (l *Loader) Clear() {
	clear(l.modules)
	l.engine.ReleaseAll()
	l.engine.Forget()
}

// Module returns the cache entry for name.
func (l *Loader) Module(name string) (*Module, bool) {
	m, ok := l.modules[name]
	return m, ok
}

// Names returns the cached module names, sorted.
func (l *Loader) Names() []string {
	names := make([]string, 0, len(l.modules))
	for name := range l.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of cached modules.
func (l *Loader) Len() int {
	return len(l.modules)
}
