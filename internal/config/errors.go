package config

import (
	"errors"
	"fmt"
)

var (
	// ErrValidationFailed is wrapped by every ValidationError.
	ErrValidationFailed = errors.New("validation failed")

	// ErrUnsupportedFormat is returned for files that are neither TOML nor
	// YAML.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	ErrWatcherClosed = errors.New("watcher closed")
)

// ParseError reports a file that could not be decoded. Line and Column are
// 1-based and zero when the decoder did not report a position.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	pos := e.Path
	switch {
	case e.Line > 0 && e.Column > 0:
		pos = fmt.Sprintf("%s:%d:%d", e.Path, e.Line, e.Column)
	case e.Line > 0:
		pos = fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	return fmt.Sprintf("parse %s: %s", pos, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ValidationError describes one invalid setting.
type ValidationError struct {
	// Path is the dotted setting path, e.g. "engine.strategy".
	Path string
	// Value is the rejected value.
	Value any
	// Err is the reason.
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %v: %v", e.Path, e.Value, e.Err)
}

// Unwrap returns ErrValidationFailed and the reason.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidationFailed, e.Err}
}
