// Package registry provides a global registry for script API namespaces.
// Namespaces register themselves in init() functions, allowing the engine
// to install every table into a fresh script scope without hardcoded
// dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/vovakirdan/tui-cabinet/internal/audio"
	"github.com/vovakirdan/tui-cabinet/internal/core"
	"github.com/vovakirdan/tui-cabinet/internal/gfx"
)

// Host is what namespace functions act on. The engine owns one Host and
// every namespace built for any scope closes over it, so fields may be
// filled in after binding (Config only exists once init() is about to run).
type Host struct {
	State  *core.State
	Canvas *gfx.Canvas
	Images *gfx.Images
	Audio  *audio.System
	Logger *log.Logger

	// Config is the table passed to the script's init hook. Graphics
	// setters write changed values back into it.
	Config *lua.LTable
}

// Namespace is one global table exposed to scripts (e.g. "graphics").
type Namespace interface {
	// Name returns the global name scripts use for the table.
	Name() string

	// Functions returns the callable fields of the table.
	Functions() map[string]lua.LGFunction

	// Constants returns the plain value fields of the table.
	Constants() map[string]lua.LValue
}

// Info describes a registered namespace.
type Info struct {
	Name      string
	Functions []string
	Constants []string
}

// Factory creates a namespace bound to a host.
type Factory func(h *Host) Namespace

var (
	factories = make(map[string]Factory)
	mu        sync.RWMutex
)

// Register adds a namespace factory to the registry.
// Typically called from an init() function.
// Panics if a namespace with the same name is already registered.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		panic(fmt.Sprintf("registry: namespace %q already registered", name))
	}
	factories[name] = f
}

// List returns information about all registered namespaces, sorted by name.
func List() []Info {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Info, 0, len(factories))
	for name, f := range factories {
		// A throwaway instance; its functions are never called.
		ns := f(&Host{})
		result = append(result, Info{
			Name:      name,
			Functions: sortedKeys(ns.Functions()),
			Constants: sortedKeys(ns.Constants()),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

// Exists checks if a namespace with the given name is registered.
func Exists(name string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[name]
	return ok
}

// Bind creates a fresh table for every registered namespace and sets it on
// scope. Called once per scope, so a reload hands scripts new tables.
func Bind(L *lua.LState, scope *lua.LTable, h *Host) {
	mu.RLock()
	defer mu.RUnlock()

	names := sortedKeys(factories)
	for _, name := range names {
		ns := factories[name](h)
		tbl := L.NewTable()
		for k, fn := range ns.Functions() {
			L.SetField(tbl, k, L.NewFunction(fn))
		}
		for k, v := range ns.Constants() {
			L.SetField(tbl, k, v)
		}
		L.SetField(scope, name, tbl)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
