package api

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/layoutswitch/internal/switcher"
)

// BufferModule implements ks.buf.
type BufferModule struct {
	ctx *Context
}

// NewBufferModule creates the buffer module.
func NewBufferModule(ctx *Context) *BufferModule {
	return &BufferModule{ctx: ctx}
}

// Name returns the module name.
func (m *BufferModule) Name() string {
	return "buf"
}

// Register builds the ks.buf table.
func (m *BufferModule) Register(L *lua.LState) (*lua.LTable, error) {
	mod := L.NewTable()

	L.SetField(mod, "line", L.NewFunction(m.line))
	L.SetField(mod, "set_line", L.NewFunction(m.setLine))
	L.SetField(mod, "line_count", L.NewFunction(m.lineCount))
	L.SetField(mod, "cursor", L.NewFunction(m.cursor))
	L.SetField(mod, "set_cursor", L.NewFunction(m.setCursor))
	L.SetField(mod, "mode", L.NewFunction(m.mode))
	L.SetField(mod, "feed", L.NewFunction(m.feed))

	return mod, nil
}

func (m *BufferModule) editor(L *lua.LState, fn string) EditorProvider {
	if m.ctx.Editor == nil {
		L.RaiseError("%s: no editor available", fn)
	}
	return m.ctx.Editor
}

// line(row) -> string
func (m *BufferModule) line(L *lua.LState) int {
	row := L.CheckInt(1)
	text, err := m.editor(L, "line").Line(row)
	if err != nil {
		L.RaiseError("line: %v", err)
		return 0
	}
	L.Push(lua.LString(text))
	return 1
}

// set_line(row, text)
func (m *BufferModule) setLine(L *lua.LState) int {
	row := L.CheckInt(1)
	text := L.CheckString(2)
	if err := m.editor(L, "set_line").SetLine(row, text); err != nil {
		L.RaiseError("set_line: %v", err)
	}
	return 0
}

// line_count() -> n
func (m *BufferModule) lineCount(L *lua.LState) int {
	L.Push(lua.LNumber(len(m.editor(L, "line_count").Lines())))
	return 1
}

// cursor() -> row, col
func (m *BufferModule) cursor(L *lua.LState) int {
	pos := m.editor(L, "cursor").Cursor()
	L.Push(lua.LNumber(pos.Row))
	L.Push(lua.LNumber(pos.Col))
	return 2
}

// set_cursor(row, col)
func (m *BufferModule) setCursor(L *lua.LState) int {
	pos := switcher.Position{Row: L.CheckInt(1), Col: L.CheckInt(2)}
	if pos.Col < 0 {
		L.ArgError(2, "column must be non-negative")
		return 0
	}
	if err := m.editor(L, "set_cursor").SetCursor(pos); err != nil {
		L.RaiseError("set_cursor: %v", err)
	}
	return 0
}

// mode() -> "NORMAL" | "INSERT" | "VISUAL"
func (m *BufferModule) mode(L *lua.LState) int {
	L.Push(lua.LString(m.editor(L, "mode").Mode().String()))
	return 1
}

// feed(keys)
// Feeds keys in key notation, e.g. "ighbdtn<Esc>".
func (m *BufferModule) feed(L *lua.LState) int {
	keys := L.CheckString(1)
	if err := m.editor(L, "feed").Feed(keys); err != nil {
		L.RaiseError("feed: %v", err)
	}
	return 0
}
