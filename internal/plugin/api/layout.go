package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/layoutswitch/internal/layout"
	"github.com/dshills/layoutswitch/internal/switcher"
)

// LayoutModule implements ks.layout.
type LayoutModule struct {
	ctx *Context
}

// NewLayoutModule creates the layout module.
func NewLayoutModule(ctx *Context) *LayoutModule {
	return &LayoutModule{ctx: ctx}
}

// Name returns the module name.
func (m *LayoutModule) Name() string {
	return "layout"
}

// Register builds the ks.layout table.
func (m *LayoutModule) Register(L *lua.LState) (*lua.LTable, error) {
	mod := L.NewTable()

	L.SetField(mod, "translate", L.NewFunction(m.translate))
	L.SetField(mod, "detect", L.NewFunction(m.detect))
	L.SetField(mod, "current", L.NewFunction(m.current))
	L.SetField(mod, "toggle", L.NewFunction(m.toggle))
	L.SetField(mod, "map_last_input", L.NewFunction(m.op(switcher.OpLastInput)))
	L.SetField(mod, "map_last_input_word", L.NewFunction(m.op(switcher.OpLastInputWord)))
	L.SetField(mod, "map_visual", L.NewFunction(m.op(switcher.OpVisual)))

	tbl := m.table()
	L.SetField(mod, "EN", lua.LString(tbl.EN()))
	L.SetField(mod, "RU", lua.LString(tbl.RU()))

	return mod, nil
}

func (m *LayoutModule) table() *layout.Table {
	if m.ctx.Table == nil {
		return layout.Default()
	}
	return m.ctx.Table
}

// translate(text, direction) -> string
// direction is "en-ru", "ru-en", or a target layout name.
func (m *LayoutModule) translate(L *lua.LState) int {
	text := L.CheckString(1)
	d, err := layout.ParseDirection(L.CheckString(2))
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	L.Push(lua.LString(m.table().String(text, d)))
	return 1
}

// detect(text) -> direction or nil
// Returns the direction that would fix text, nil when undecidable.
func (m *LayoutModule) detect(L *lua.LState) int {
	d, ok := m.table().Detect(L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(d.String()))
	return 1
}

// current() -> "en" | "ru"
func (m *LayoutModule) current(L *lua.LState) int {
	if m.ctx.Editor == nil {
		L.RaiseError("current: no editor available")
		return 0
	}
	L.Push(lua.LString(m.ctx.Editor.Layout().String()))
	return 1
}

// toggle() -> "en" | "ru"
func (m *LayoutModule) toggle(L *lua.LState) int {
	if m.ctx.Switcher == nil {
		L.RaiseError("toggle: no switcher available")
		return 0
	}
	L.Push(lua.LString(m.ctx.Switcher.ToggleLayout().String()))
	return 1
}

// map_last_input() / map_last_input_word() / map_visual() -> edit table
// Runs the operation as an editor command, so insert mode is resumed
// afterwards exactly as after a key binding.
func (m *LayoutModule) op(op switcher.Op) lua.LGFunction {
	return func(L *lua.LState) int {
		if m.ctx.Switcher == nil {
			L.RaiseError("%s: no switcher available", op)
			return 0
		}

		var run func() (switcher.Edit, error)
		switch op {
		case switcher.OpLastInput:
			run = m.ctx.Switcher.MapLastInput
		case switcher.OpLastInputWord:
			run = m.ctx.Switcher.MapLastInputWord
		default:
			run = m.ctx.Switcher.MapVisualSelection
		}

		var edit switcher.Edit
		cmd := func() error {
			var err error
			edit, err = run()
			return err
		}

		var err error
		if m.ctx.Editor != nil {
			err = m.ctx.Editor.Execute(cmd)
		} else {
			err = cmd()
		}
		if err != nil {
			L.RaiseError("%s: %v", op, err)
			return 0
		}

		L.Push(editTable(L, edit))
		return 1
	}
}

func editTable(L *lua.LState, e switcher.Edit) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("op", lua.LString(e.Op))
	t.RawSetString("applied", lua.LBool(e.Applied))
	t.RawSetString("row", lua.LNumber(e.Row))
	t.RawSetString("line", lua.LString(e.Line))
	t.RawSetString("original", lua.LString(e.Original))
	t.RawSetString("replacement", lua.LString(e.Replacement))
	t.RawSetString("layout", lua.LString(e.Layout.String()))
	if e.Applied {
		t.RawSetString("direction", lua.LString(e.Direction.String()))
	}
	return t
}
