package api

import (
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/layoutswitch/internal/logging"
)

// LogModule implements ks.log, writing to the application log under the
// "lua" component.
type LogModule struct {
	log *logging.Logger
}

// NewLogModule creates the log module.
func NewLogModule(ctx *Context) *LogModule {
	l := ctx.Logger
	if l == nil {
		l = logging.Nop()
	}
	return &LogModule{log: l.WithComponent("lua")}
}

// Name returns the module name.
func (m *LogModule) Name() string {
	return "log"
}

// Register builds the ks.log table.
func (m *LogModule) Register(L *lua.LState) (*lua.LTable, error) {
	mod := L.NewTable()
	L.SetField(mod, "debug", L.NewFunction(m.write(m.log.Debug)))
	L.SetField(mod, "info", L.NewFunction(m.write(m.log.Info)))
	L.SetField(mod, "warn", L.NewFunction(m.write(m.log.Warn)))
	L.SetField(mod, "error", L.NewFunction(m.write(m.log.Error)))
	return mod, nil
}

// debug(...) / info(...) / warn(...) / error(...)
// Arguments are converted with tostring and joined by spaces.
func (m *LogModule) write(fn func(string, ...any)) lua.LGFunction {
	return func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		fn(strings.Join(parts, " "))
		return 0
	}
}
