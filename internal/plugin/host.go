// Package plugin runs user Lua scripts against a layoutswitch session.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dshills/layoutswitch/internal/logging"
	"github.com/dshills/layoutswitch/internal/plugin/api"
	"github.com/dshills/layoutswitch/internal/plugin/lua"
)

// Host owns one Lua state with the ks module installed.
type Host struct {
	state  *lua.State
	events *api.EventModule
	log    *logging.Logger
}

// HostOption configures a Host.
type HostOption func(*hostConfig)

type hostConfig struct {
	timeout time.Duration
}

// WithTimeout bounds each script run. Zero disables the limit.
func WithTimeout(d time.Duration) HostOption {
	return func(c *hostConfig) {
		c.timeout = d
	}
}

// NewHost creates a Lua state and injects the ks module built on actx.
func NewHost(actx *api.Context, opts ...HostOption) (*Host, error) {
	cfg := hostConfig{timeout: lua.DefaultExecutionTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}

	log := actx.Logger
	if log == nil {
		log = logging.Nop()
	}

	reg, err := api.DefaultRegistry(actx)
	if err != nil {
		return nil, err
	}
	mod, _ := reg.Get("event")
	events := mod.(*api.EventModule)

	state := lua.NewState(lua.WithExecutionTimeout(cfg.timeout))
	if err := reg.InjectAll(state.L); err != nil {
		state.Close()
		return nil, err
	}

	return &Host{
		state:  state,
		events: events,
		log:    log.WithComponent("plugin"),
	}, nil
}

// State returns the underlying Lua state.
func (h *Host) State() *lua.State {
	return h.state
}

// RunFile executes a script file.
func (h *Host) RunFile(ctx context.Context, path string) error {
	start := time.Now()
	if err := h.state.DoFile(ctx, path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	h.log.Debug("ran %s in %s", path, time.Since(start))
	return nil
}

// RunString executes Lua source; name is used in errors.
func (h *Host) RunString(ctx context.Context, name, code string) error {
	if err := h.state.DoString(ctx, code); err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	return nil
}

// RunScripts executes every file in order, continuing past failures.
func (h *Host) RunScripts(ctx context.Context, paths []string) error {
	var errs []error
	for _, p := range paths {
		if err := h.RunFile(ctx, p); err != nil {
			h.log.Warn("%v", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close removes script event subscriptions and releases the state.
func (h *Host) Close() error {
	h.events.Cleanup()
	return h.state.Close()
}
