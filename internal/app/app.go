// Package app wires configuration, logging, the editor, the layout switcher
// and the Lua runtime into one application.
package app

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/layoutswitch/internal/config"
	"github.com/dshills/layoutswitch/internal/editor"
	"github.com/dshills/layoutswitch/internal/event"
	"github.com/dshills/layoutswitch/internal/layout"
	"github.com/dshills/layoutswitch/internal/logging"
	"github.com/dshills/layoutswitch/internal/plugin"
	"github.com/dshills/layoutswitch/internal/plugin/api"
	"github.com/dshills/layoutswitch/internal/switcher"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the TOML or YAML configuration file. Empty uses defaults
	// and the environment.
	ConfigPath string

	// File is loaded into the editor and written by Save.
	File string

	// LogLevel overrides logging.level when set.
	LogLevel string

	// Debug forces debug logging.
	Debug bool

	// LogOutput receives the log when logging.file is not configured.
	// Defaults to os.Stderr.
	LogOutput io.Writer

	// Screen is used by Run instead of the terminal.
	Screen tcell.Screen

	// Loader replaces the default configuration loader.
	Loader *config.Loader
}

// Application is the central coordinator for all components.
type Application struct {
	mu sync.Mutex

	opts    Options
	cfg     *config.Config
	log     *logging.Logger
	logFile *os.File

	table    *layout.Table
	bus      *event.Bus
	editor   *editor.Editor
	switcher *switcher.Switcher
	plugins  *plugin.Host

	closed bool
}

// New creates an application and initializes all components in dependency
// order.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

func (app *Application) bootstrap() error {
	// 1. Config
	loader := app.opts.Loader
	if loader == nil {
		loader = config.NewLoader()
	}
	cfg, err := loader.Load(app.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}
	app.cfg = cfg

	// 2. Logging
	if err := app.initLogging(); err != nil {
		return &InitError{Component: "logging", Err: err}
	}

	// 3. Layout table
	app.table, err = cfg.Table()
	if err != nil {
		return &InitError{Component: "layout", Err: err}
	}

	// 4. Event bus
	app.bus = event.NewBus()

	// 5. Editor
	lines, err := readLines(app.opts.File)
	if err != nil {
		return &InitError{Component: "editor", Err: err}
	}
	app.editor = editor.New(editor.Options{
		Encoding:      cfg.ColumnEncoding(),
		Table:         app.table,
		Layout:        cfg.InitialLayout(),
		EmulateKeymap: cfg.Layout.EmulateKeymap,
		Bus:           app.bus,
		Logger:        app.log,
	}, lines...)

	// 6. Switcher
	app.switcher = switcher.New(app.editor, app.editor, app.switcherOptions(cfg))
	if err := app.switcher.Attach(app.bus); err != nil {
		return &InitError{Component: "switcher", Err: err}
	}
	if err := app.bindKeys(cfg.Keymap); err != nil {
		return &InitError{Component: "keymap", Err: err}
	}

	// 7. Lua
	app.plugins, err = plugin.NewHost(&api.Context{
		Table:    app.table,
		Switcher: app.switcher,
		Editor:   app.editor,
		Bus:      app.bus,
		Logger:   app.log,
	}, plugin.WithTimeout(cfg.PluginTimeout()))
	if err != nil {
		return &InitError{Component: "plugin", Err: err}
	}

	app.log.Debug("initialized session %s", app.switcher.ID())
	return nil
}

func (app *Application) switcherOptions(cfg *config.Config) switcher.Options {
	o := cfg.SwitcherOptions()
	o.Table = app.table
	o.Logger = app.log
	o.Bus = app.bus
	return o
}

// readLines loads path as editor lines. A missing file starts empty.
func readLines(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &FileError{Op: "read", Path: path, Err: err}
	}
	text := strings.TrimSuffix(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	return strings.Split(text, "\n"), nil
}

// Config returns the active configuration.
func (app *Application) Config() *config.Config {
	return app.cfg
}

// Logger returns the application logger.
func (app *Application) Logger() *logging.Logger {
	return app.log
}

// Bus returns the event bus.
func (app *Application) Bus() *event.Bus {
	return app.bus
}

// Editor returns the editor.
func (app *Application) Editor() *editor.Editor {
	return app.editor
}

// Switcher returns the layout switcher.
func (app *Application) Switcher() *switcher.Switcher {
	return app.switcher
}

// Table returns the layout table.
func (app *Application) Table() *layout.Table {
	return app.table
}

// RunScripts runs the configured plugin scripts.
func (app *Application) RunScripts(ctx context.Context) error {
	return app.plugins.RunScripts(ctx, app.cfg.Plugin.Scripts)
}

// RunScript runs one Lua file against the editor.
func (app *Application) RunScript(ctx context.Context, path string) error {
	return app.plugins.RunFile(ctx, path)
}

// Save writes the buffer to the file it was loaded from.
func (app *Application) Save() error {
	if app.opts.File == "" {
		return ErrNoFilePath
	}
	if err := os.WriteFile(app.opts.File, []byte(app.editor.Text()+"\n"), 0o644); err != nil {
		return &FileError{Op: "save", Path: app.opts.File, Err: err}
	}
	app.log.Info("saved %s", app.opts.File)
	return nil
}

// ApplyConfig switches to cfg: switcher options, key bindings and the log
// level change in place. The layout table, column encoding and keymap
// emulation stay as they were at startup.
func (app *Application) ApplyConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	app.editor.Unbind()
	if err := app.bindKeys(cfg.Keymap); err != nil {
		// Restore the previous bindings.
		app.editor.Unbind()
		_ = app.bindKeys(app.cfg.Keymap)
		return err
	}

	o := app.switcherOptions(cfg)
	o.Encoding = app.cfg.ColumnEncoding()
	app.switcher.Reconfigure(o)
	app.log.SetLevel(app.level(cfg))

	cfg.Engine.Encoding = app.cfg.Engine.Encoding
	cfg.Layout.EN, cfg.Layout.RU = app.cfg.Layout.EN, app.cfg.Layout.RU
	cfg.Layout.EmulateKeymap = app.cfg.Layout.EmulateKeymap
	app.cfg = cfg
	app.log.Info("configuration reloaded")
	return nil
}

// Shutdown releases every component. It is safe to call more than once.
func (app *Application) Shutdown() {
	app.mu.Lock()
	defer app.mu.Unlock()
	if app.closed {
		return
	}
	app.closed = true

	if app.plugins != nil {
		if err := app.plugins.Close(); err != nil {
			app.log.Warn("closing plugins: %v", err)
		}
	}
	if app.switcher != nil {
		_ = app.switcher.Detach()
	}
	if app.log != nil {
		_ = app.log.Sync()
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
	}
}
