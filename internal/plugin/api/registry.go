// Package api exposes layoutswitch to Lua scripts as the "ks" module.
//
// Scripts load it with
//
//	local ks = require("ks")
//
// and reach the layout engine through ks.layout, the edited buffer through
// ks.buf, editor and switcher notifications through ks.event and the log
// through ks.log.
package api

import (
	"fmt"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/layoutswitch/internal/editor"
	"github.com/dshills/layoutswitch/internal/event"
	"github.com/dshills/layoutswitch/internal/layout"
	"github.com/dshills/layoutswitch/internal/logging"
	"github.com/dshills/layoutswitch/internal/switcher"
)

// Version is reported to scripts as ks.version.
const Version = "1.0.0"

// Module is one table of the ks module.
type Module interface {
	// Name returns the field name under ks, e.g. "layout".
	Name() string

	// Register builds the module table. It must not keep L beyond the
	// lifetime of the state.
	Register(L *lua.LState) (*lua.LTable, error)
}

// Registry manages API modules and their registration.
type Registry struct {
	mu      sync.RWMutex
	modules map[string]Module
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{modules: make(map[string]Module)}
}

// Register adds a module to the registry.
func (r *Registry) Register(mod Module) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.modules[mod.Name()]; exists {
		return fmt.Errorf("module %q already registered", mod.Name())
	}
	r.modules[mod.Name()] = mod
	return nil
}

// Get returns a module by name.
func (r *Registry) Get(name string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mod, ok := r.modules[name]
	return mod, ok
}

// List returns the registered module names in order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.modules))
	for name := range r.modules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InjectAll registers every module into L and makes require("ks") return
// the combined table.
func (r *Registry) InjectAll(L *lua.LState) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ks := L.NewTable()
	for name, mod := range r.modules {
		tbl, err := mod.Register(L)
		if err != nil {
			return fmt.Errorf("failed to register module %q: %w", name, err)
		}
		L.SetField(ks, name, tbl)
	}
	L.SetField(ks, "version", lua.LString(Version))

	L.PreloadModule("ks", func(L *lua.LState) int {
		L.Push(ks)
		return 1
	})
	return nil
}

// Context gives modules access to the running editor session. Nil fields
// disable the functions that need them.
type Context struct {
	Table    *layout.Table
	Switcher SwitcherProvider
	Editor   EditorProvider
	Bus      *event.Bus
	Logger   *logging.Logger
}

// SwitcherProvider runs layout operations.
type SwitcherProvider interface {
	MapLastInput() (switcher.Edit, error)
	MapLastInputWord() (switcher.Edit, error)
	MapVisualSelection() (switcher.Edit, error)
	ToggleLayout() layout.Flag
}

// EditorProvider is the editor surface visible to scripts. Rows and columns
// are the host's: zero-based rows, columns in the configured encoding.
type EditorProvider interface {
	Line(row int) (string, error)
	Lines() []string
	Cursor() switcher.Position
	SetLine(row int, text string) error
	SetCursor(pos switcher.Position) error
	Layout() layout.Flag
	Mode() editor.Mode
	Feed(keys string) error
	Execute(cmd editor.Command) error
}

// DefaultRegistry creates a registry with the standard modules.
func DefaultRegistry(ctx *Context) (*Registry, error) {
	r := NewRegistry()
	modules := []Module{
		NewLayoutModule(ctx),
		NewBufferModule(ctx),
		NewEventModule(ctx),
		NewLogModule(ctx),
	}
	for _, mod := range modules {
		if err := r.Register(mod); err != nil {
			return nil, err
		}
	}
	return r, nil
}
