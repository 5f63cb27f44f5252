package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvPrefix is the prefix of every recognized environment variable.
const EnvPrefix = "LAYOUTSWITCH_"

// EnvLoader overlays environment variables onto a Config.
type EnvLoader struct {
	prefix  string
	lookup  func(string) (string, bool)
	setters map[string]func(*Config, string) error
}

// NewEnvLoader creates an environment loader. The prefix should include the
// trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		lookup:  os.LookupEnv,
		setters: defaultEnvMapping(),
	}
}

// NewEnvLoaderWithLookup creates a loader reading variables through lookup.
func NewEnvLoaderWithLookup(prefix string, lookup func(string) (string, bool)) *EnvLoader {
	l := NewEnvLoader(prefix)
	l.lookup = lookup
	return l
}

// defaultEnvMapping maps variable names, without prefix, to the field they set.
func defaultEnvMapping() map[string]func(*Config, string) error {
	str := func(field func(*Config) *string) func(*Config, string) error {
		return func(c *Config, v string) error {
			*field(c) = v
			return nil
		}
	}
	return map[string]func(*Config, string) error{
		"LOG_LEVEL":     str(func(c *Config) *string { return &c.Logging.Level }),
		"LOG_FORMAT":    str(func(c *Config) *string { return &c.Logging.Format }),
		"LOG_FILE":      str(func(c *Config) *string { return &c.Logging.File }),
		"LAYOUT":        str(func(c *Config) *string { return &c.Layout.Initial }),
		"WORD_BOUNDARY": str(func(c *Config) *string { return &c.Engine.WordBoundary }),
		"VISUAL_POLICY": str(func(c *Config) *string { return &c.Engine.VisualPolicy }),
		"STRATEGY":      str(func(c *Config) *string { return &c.Engine.Strategy }),
		"ENCODING":      str(func(c *Config) *string { return &c.Engine.Encoding }),
		"HISTORY_DEPTH": func(c *Config, v string) error {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return err
			}
			c.Engine.HistoryDepth = n
			return nil
		},
		"EMULATE_KEYMAP": func(c *Config, v string) error {
			b, err := parseBool(v)
			if err != nil {
				return err
			}
			c.Layout.EmulateKeymap = b
			return nil
		},
	}
}

// Apply sets every mapped variable that is present. Empty values count as
// set.
func (l *EnvLoader) Apply(cfg *Config) error {
	var errs []error
	for name, set := range l.setters {
		env := l.prefix + name
		val, ok := l.lookup(env)
		if !ok {
			continue
		}
		if err := set(cfg, val); err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", env, val, err))
		}
	}
	return errors.Join(errs...)
}

// Names returns the full variable names the loader reads.
func (l *EnvLoader) Names() []string {
	names := make([]string, 0, len(l.setters))
	for name := range l.setters {
		names = append(names, l.prefix+name)
	}
	return names
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, nil
	case "false", "no", "off", "0", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}
