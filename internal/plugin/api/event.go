package api

import (
	"context"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/layoutswitch/internal/event"
	"github.com/dshills/layoutswitch/internal/event/topic"
	luastate "github.com/dshills/layoutswitch/internal/plugin/lua"
)

// EventModule implements ks.event on top of the session bus.
//
// Handlers run on the publisher's goroutine, which is the goroutine driving
// the editor, so they share the LState with the script that registered them.
type EventModule struct {
	ctx *Context
	L   *lua.LState

	mu   sync.Mutex
	subs map[string]event.Subscription
}

// NewEventModule creates the event module.
func NewEventModule(ctx *Context) *EventModule {
	return &EventModule{ctx: ctx, subs: make(map[string]event.Subscription)}
}

// Name returns the module name.
func (m *EventModule) Name() string {
	return "event"
}

// Register builds the ks.event table.
func (m *EventModule) Register(L *lua.LState) (*lua.LTable, error) {
	m.L = L

	mod := L.NewTable()
	L.SetField(mod, "on", L.NewFunction(m.on))
	L.SetField(mod, "off", L.NewFunction(m.off))
	L.SetField(mod, "emit", L.NewFunction(m.emit))

	topics := L.NewTable()
	for name, t := range map[string]topic.Topic{
		"INSERT_ENTERED": event.TopicInsertEntered,
		"TEXT_CHANGED":   event.TopicTextChanged,
		"LAYOUT_TOGGLED": event.TopicLayoutToggled,
		"TRANSLITERATED": event.TopicTransliterated,
	} {
		topics.RawSetString(name, lua.LString(t))
	}
	L.SetField(mod, "topics", topics)

	return mod, nil
}

// Cleanup removes every subscription made by scripts.
func (m *EventModule) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx.Bus != nil {
		for _, sub := range m.subs {
			_ = m.ctx.Bus.Unsubscribe(sub)
		}
	}
	m.subs = make(map[string]event.Subscription)
}

// on(pattern, handler) -> id
// handler(payload, topic) receives the payload as a table. A Lua error in
// the handler is reported to the publisher.
func (m *EventModule) on(L *lua.LState) int {
	pattern := topic.Topic(L.CheckString(1))
	fn := L.CheckFunction(2)

	if m.ctx.Bus == nil {
		L.RaiseError("on: no event bus available")
		return 0
	}

	sub, err := m.ctx.Bus.Subscribe(pattern, m.handler(fn))
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}

	m.mu.Lock()
	m.subs[sub.ID] = sub
	m.mu.Unlock()

	L.Push(lua.LString(sub.ID))
	return 1
}

// off(id) -> bool
func (m *EventModule) off(L *lua.LState) int {
	id := L.CheckString(1)

	m.mu.Lock()
	sub, ok := m.subs[id]
	delete(m.subs, id)
	m.mu.Unlock()

	if !ok || m.ctx.Bus == nil {
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LBool(m.ctx.Bus.Unsubscribe(sub) == nil))
	return 1
}

// emit(topic, payload)
// Publishes a script event. payload is converted to Go maps and slices.
func (m *EventModule) emit(L *lua.LState) int {
	t := topic.Topic(L.CheckString(1))
	payload := luastate.ToGo(L.Get(2))

	if m.ctx.Bus == nil {
		L.RaiseError("emit: no event bus available")
		return 0
	}

	ctx := L.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := m.ctx.Bus.Emit(ctx, t, payload, "lua"); err != nil {
		L.RaiseError("emit %s: %v", t, err)
	}
	return 0
}

func (m *EventModule) handler(fn *lua.LFunction) event.Handler {
	return func(_ context.Context, ev event.Event) error {
		L := m.L
		if L == nil {
			return fmt.Errorf("lua handler for %s: state released", ev.Topic)
		}
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true},
			payloadTable(L, ev.Payload), lua.LString(ev.Topic))
	}
}

func payloadTable(L *lua.LState, payload any) lua.LValue {
	t := L.NewTable()
	switch p := payload.(type) {
	case event.Position:
		t.RawSetString("row", lua.LNumber(p.Row))
		t.RawSetString("col", lua.LNumber(p.Col))
	case event.Toggled:
		t.RawSetString("layout", lua.LString(p.Layout))
	case event.Transliterated:
		t.RawSetString("op", lua.LString(p.Op))
		t.RawSetString("row", lua.LNumber(p.Row))
		t.RawSetString("direction", lua.LString(p.Direction))
		t.RawSetString("original", lua.LString(p.Original))
		t.RawSetString("replacement", lua.LString(p.Replacement))
	default:
		return luastate.ToLua(L, payload)
	}
	return t
}
