// Package config loads layoutswitch settings.
//
// Settings come from built-in defaults, then an optional TOML or YAML file
// (chosen by extension), then LAYOUTSWITCH_* environment variables. Validate
// checks every enumerated value before the settings are used, and Watcher
// reloads the file when it changes on disk.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/dshills/layoutswitch/internal/coord"
	"github.com/dshills/layoutswitch/internal/input/key"
	"github.com/dshills/layoutswitch/internal/layout"
	"github.com/dshills/layoutswitch/internal/span"
	"github.com/dshills/layoutswitch/internal/switcher"
)

// Config is the complete settings tree.
type Config struct {
	Layout  LayoutConfig  `toml:"layout" yaml:"layout"`
	Engine  EngineConfig  `toml:"engine" yaml:"engine"`
	Keymap  KeymapConfig  `toml:"keymap" yaml:"keymap"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Plugin  PluginConfig  `toml:"plugin" yaml:"plugin"`
}

// LayoutConfig selects the layout table and starting layout.
type LayoutConfig struct {
	// EN and RU override the default key-position arrays. Both or neither.
	EN string `toml:"en" yaml:"en"`
	RU string `toml:"ru" yaml:"ru"`

	// Initial is the layout flag at startup, "en" or "ru".
	Initial string `toml:"initial" yaml:"initial"`

	// EmulateKeymap makes the editor type RU characters for EN keys while
	// the layout is RU.
	EmulateKeymap bool `toml:"emulate_keymap" yaml:"emulate_keymap"`
}

// EngineConfig tunes the switcher.
type EngineConfig struct {
	WordBoundary string `toml:"word_boundary" yaml:"word_boundary"`
	VisualPolicy string `toml:"visual_policy" yaml:"visual_policy"`
	HistoryDepth int    `toml:"history_depth" yaml:"history_depth"`
	Strategy     string `toml:"strategy" yaml:"strategy"`
	Encoding     string `toml:"encoding" yaml:"encoding"`
}

// KeymapConfig binds switcher operations to keys, in key notation.
type KeymapConfig struct {
	MapLastInput     string `toml:"map_last_input" yaml:"map_last_input"`
	MapLastInputWord string `toml:"map_last_input_word" yaml:"map_last_input_word"`
	MapVisual        string `toml:"map_visual" yaml:"map_visual"`
	ToggleLayout     string `toml:"toggle_layout" yaml:"toggle_layout"`
	Save             string `toml:"save" yaml:"save"`
	Quit             string `toml:"quit" yaml:"quit"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
	// File receives the log instead of stderr when set.
	File string `toml:"file" yaml:"file"`
}

// PluginConfig lists Lua scripts run at startup.
type PluginConfig struct {
	Scripts []string `toml:"scripts" yaml:"scripts"`
	// Timeout bounds each script run, in time.ParseDuration syntax.
	Timeout string `toml:"timeout" yaml:"timeout"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{Initial: "en"},
		Engine: EngineConfig{
			WordBoundary: "whitespace",
			VisualPolicy: "detect",
			HistoryDepth: 1,
			Strategy:     "splice",
			Encoding:     "utf8",
		},
		Keymap: KeymapConfig{
			MapLastInput:     "<C-g>",
			MapLastInputWord: "<C-l>",
			MapVisual:        "<C-l>",
			ToggleLayout:     "<C-^>",
			Save:             "<C-s>",
			Quit:             "<C-q>",
		},
		Logging: LoggingConfig{Level: "info", Format: "console"},
		Plugin:  PluginConfig{Timeout: "2s"},
	}
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error
	check := func(path string, value any, err error) {
		if err != nil {
			errs = append(errs, &ValidationError{Path: path, Value: value, Err: err})
		}
	}

	if (c.Layout.EN == "") != (c.Layout.RU == "") {
		check("layout", c.Layout.EN+"/"+c.Layout.RU, errors.New("en and ru must be set together"))
	} else if c.Layout.EN != "" {
		_, err := layout.New(c.Layout.EN, c.Layout.RU)
		check("layout.en", c.Layout.EN, err)
	}
	_, err := layout.ParseFlag(c.Layout.Initial)
	check("layout.initial", c.Layout.Initial, err)

	_, err = span.ParseWordBoundary(c.Engine.WordBoundary)
	check("engine.word_boundary", c.Engine.WordBoundary, err)
	_, err = switcher.ParseVisualPolicy(c.Engine.VisualPolicy)
	check("engine.visual_policy", c.Engine.VisualPolicy, err)
	_, err = switcher.ParseStrategy(c.Engine.Strategy)
	check("engine.strategy", c.Engine.Strategy, err)
	_, err = coord.ParseEncoding(c.Engine.Encoding)
	check("engine.encoding", c.Engine.Encoding, err)
	if c.Engine.HistoryDepth < 1 {
		check("engine.history_depth", c.Engine.HistoryDepth, errors.New("must be at least 1"))
	}

	for path, spec := range c.Keymap.specs() {
		if spec == "" {
			continue
		}
		_, err := key.Parse(spec)
		check(path, spec, err)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		check("logging.level", c.Logging.Level, errors.New("want debug, info, warn or error"))
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		check("logging.format", c.Logging.Format, errors.New("want console or json"))
	}

	if c.Plugin.Timeout != "" {
		d, err := time.ParseDuration(c.Plugin.Timeout)
		if err == nil && d < 0 {
			err = errors.New("must not be negative")
		}
		check("plugin.timeout", c.Plugin.Timeout, err)
	}

	return errors.Join(errs...)
}

func (k KeymapConfig) specs() map[string]string {
	return map[string]string{
		"keymap.map_last_input":      k.MapLastInput,
		"keymap.map_last_input_word": k.MapLastInputWord,
		"keymap.map_visual":          k.MapVisual,
		"keymap.toggle_layout":       k.ToggleLayout,
		"keymap.save":                k.Save,
		"keymap.quit":                k.Quit,
	}
}

// Table builds the layout table, the default one unless overridden.
func (c *Config) Table() (*layout.Table, error) {
	if c.Layout.EN == "" && c.Layout.RU == "" {
		return layout.Default(), nil
	}
	t, err := layout.New(c.Layout.EN, c.Layout.RU)
	if err != nil {
		return nil, fmt.Errorf("layout table: %w", err)
	}
	return t, nil
}

// InitialLayout returns the configured starting flag.
func (c *Config) InitialLayout() layout.Flag {
	f, _ := layout.ParseFlag(c.Layout.Initial)
	return f
}

// ColumnEncoding returns the configured host column encoding.
func (c *Config) ColumnEncoding() coord.Encoding {
	e, _ := coord.ParseEncoding(c.Engine.Encoding)
	return e
}

// SwitcherOptions converts the engine settings. Call Validate first; invalid
// values fall back to defaults.
func (c *Config) SwitcherOptions() switcher.Options {
	boundary, _ := span.ParseWordBoundary(c.Engine.WordBoundary)
	policy, _ := switcher.ParseVisualPolicy(c.Engine.VisualPolicy)
	strategy, _ := switcher.ParseStrategy(c.Engine.Strategy)
	return switcher.Options{
		Encoding:     c.ColumnEncoding(),
		WordBoundary: boundary,
		VisualPolicy: policy,
		Strategy:     strategy,
		HistoryDepth: c.Engine.HistoryDepth,
	}
}

// PluginTimeout returns the script time limit; zero means none.
func (c *Config) PluginTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Plugin.Timeout)
	return d
}
