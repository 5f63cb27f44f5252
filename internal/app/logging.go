package app

import (
	"fmt"
	"io"
	"os"

	"github.com/dshills/layoutswitch/internal/config"
	"github.com/dshills/layoutswitch/internal/logging"
)

// initLogging creates the application logger from the config and flags and
// installs it as the process-wide logger.
func (app *Application) initLogging() error {
	var out io.Writer = os.Stderr
	if app.opts.LogOutput != nil {
		out = app.opts.LogOutput
	}
	if path := app.cfg.Logging.File; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		app.logFile = f
		out = f
	}

	app.log = logging.New(logging.Config{
		Level:  app.level(app.cfg),
		Output: out,
		JSON:   app.cfg.Logging.Format == "json",
		Name:   "layoutswitch",
	})
	logging.Set(app.log)
	return nil
}

// level resolves the log level: -debug, then -log-level, then the config.
func (app *Application) level(cfg *config.Config) logging.Level {
	switch {
	case app.opts.Debug:
		return logging.LevelDebug
	case app.opts.LogLevel != "":
		return logging.ParseLevel(app.opts.LogLevel)
	default:
		return logging.ParseLevel(cfg.Logging.Level)
	}
}
