package app

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/dshills/layoutswitch/internal/config"
	"github.com/dshills/layoutswitch/internal/input/key"
	"github.com/dshills/layoutswitch/internal/tui"
)

// Run starts the terminal UI and blocks until the user quits or ctx is
// done. A user quit returns ErrQuit. When a config file is in use it is
// watched and reloads are applied on the UI goroutine.
func (app *Application) Run(ctx context.Context) error {
	app.mu.Lock()
	closed := app.closed
	app.mu.Unlock()
	if closed {
		return ErrShutdown
	}

	ui, err := app.newUI()
	if err != nil {
		return err
	}

	if app.opts.ConfigPath != "" {
		w, err := app.watchConfig(ui)
		if err != nil {
			app.log.Warn("config reload disabled: %v", err)
		} else {
			defer w.Close()
		}
	}

	if err := ui.Run(ctx); err != nil {
		return err
	}
	return ErrQuit
}

func (app *Application) newUI() (*tui.UI, error) {
	quit := key.Event{}
	if spec := app.cfg.Keymap.Quit; spec != "" {
		ev, err := key.Parse(spec)
		if err != nil {
			return nil, err
		}
		quit = ev
	}

	title := "[scratch]"
	if app.opts.File != "" {
		title = filepath.Base(app.opts.File)
	}

	return tui.New(tui.Options{
		Screen: app.opts.Screen,
		Editor: app.editor,
		Bus:    app.bus,
		Quit:   quit,
		Title:  title,
		Logger: app.log,
	})
}

func (app *Application) watchConfig(ui *tui.UI) (*config.Watcher, error) {
	loader := app.opts.Loader
	if loader == nil {
		loader = config.NewLoader()
	}

	onReload := func(cfg *config.Config) {
		_ = ui.Post(func() {
			if err := app.ApplyConfig(cfg); err != nil {
				ui.SetStatus("config: %v", err)
				return
			}
			ui.SetStatus("config reloaded")
		})
	}
	onError := func(err error) {
		app.log.Warn("config reload: %v", err)
		_ = ui.Post(func() {
			var perr *config.ParseError
			if errors.As(err, &perr) {
				ui.SetStatus("config: %s", perr.Message)
				return
			}
			ui.SetStatus("config: %v", err)
		})
	}

	return config.NewWatcher(app.opts.ConfigPath, onReload,
		config.WithLoader(loader),
		config.WithErrorHandler(onError),
	)
}
