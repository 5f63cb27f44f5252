package switcher

import "errors"

var (
	// ErrNoSelection is returned by MapVisualSelection when the host has no
	// visual selection marks.
	ErrNoSelection = errors.New("no visual selection")

	// ErrMultilineSelection is returned when the selection spans rows.
	ErrMultilineSelection = errors.New("selection spans multiple lines")

	// ErrRetypeUnsupported is returned when the retype strategy is configured
	// but the host does not implement Retyper.
	ErrRetypeUnsupported = errors.New("host cannot retype")
)
