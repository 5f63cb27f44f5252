package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FileSystem abstracts file reads for testing.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// OSFS reads from the real file system.
type OSFS struct{}

// ReadFile implements FileSystem.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader assembles a Config from defaults, a file and the environment.
type Loader struct {
	fs  FileSystem
	env *EnvLoader
}

// NewLoader creates a loader reading the OS file system and LAYOUTSWITCH_*
// variables.
func NewLoader() *Loader {
	return &Loader{fs: OSFS{}, env: NewEnvLoader(EnvPrefix)}
}

// NewLoaderWithFS creates a loader with a custom file system and environment
// loader. A nil env skips the environment overlay.
func NewLoaderWithFS(fsys FileSystem, env *EnvLoader) *Loader {
	return &Loader{fs: fsys, env: env}
}

// Load reads path over the defaults, applies the environment and validates
// the result. An empty path or a missing file yields the defaults.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := l.fs.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		default:
			if err := Decode(path, data, cfg); err != nil {
				return nil, err
			}
		}
	}

	if l.env != nil {
		if err := l.env.Apply(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", displayPath(path), err)
	}
	return cfg, nil
}

// Load is NewLoader().Load(path).
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// Decode parses data into cfg, picking the format from the extension of
// path: .toml, or .yaml and .yml. Keys absent from data keep cfg's values.
// Unknown keys are errors.
func Decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return decodeTOML(path, data, cfg)
	case ".yaml", ".yml":
		return decodeYAML(path, data, cfg)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func decodeTOML(path string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	err := dec.Decode(cfg)
	if err == nil {
		return nil
	}

	perr := &ParseError{Path: path, Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		perr.Line, perr.Column = derr.Position()
		perr.Message = derr.String()
	}
	var serr *toml.StrictMissingError
	if errors.As(err, &serr) {
		perr.Message = serr.String()
	}
	return perr
}

func decodeYAML(path string, data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err := dec.Decode(cfg)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	perr := &ParseError{Path: path, Message: err.Error(), Err: err}
	var terr *yaml.TypeError
	if errors.As(err, &terr) && len(terr.Errors) > 0 {
		perr.Message = strings.Join(terr.Errors, "; ")
		var line int
		if _, scanErr := fmt.Sscanf(terr.Errors[0], "line %d:", &line); scanErr == nil {
			perr.Line = line
		}
	}
	return perr
}

// Encode renders cfg in the format implied by path.
func Encode(path string, cfg *Config) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return toml.Marshal(cfg)
	case ".yaml", ".yml":
		return yaml.Marshal(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func displayPath(path string) string {
	if path == "" {
		return "<defaults>"
	}
	return path
}
