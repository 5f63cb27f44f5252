package editor

import "errors"

var (
	// ErrRowOutOfRange is returned for a row outside the buffer.
	ErrRowOutOfRange = errors.New("row out of range")

	// ErrUnmappedKey is returned for a key with no meaning in the current mode.
	ErrUnmappedKey = errors.New("unmapped key")
)
