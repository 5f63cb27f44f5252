package switcher

import "github.com/dshills/layoutswitch/internal/layout"

// Position is a cursor location. Row is zero-based; Col is an offset in the
// host's storage encoding.
type Position struct {
	Row int
	Col int
}

// Host is the editor the switcher reads from and writes to.
type Host interface {
	// Line returns the text of row.
	Line(row int) (string, error)

	// Cursor returns the current cursor position.
	Cursor() Position

	// SetLine replaces the text of row.
	SetLine(row int, text string) error

	// SetCursor moves the cursor.
	SetCursor(pos Position) error

	// SelectionMarks returns the start and end marks of the last visual
	// selection. end names the first unit of the last selected character.
	SelectionMarks() (start, end Position, ok bool)
}

// LayoutFlag exposes the host's active input layout.
type LayoutFlag interface {
	Layout() layout.Flag
	SetLayout(f layout.Flag)
}

// Retyper is implemented by hosts that can replay edits as input: delete
// backspaces characters before the cursor, then type text.
type Retyper interface {
	Retype(backspaces int, text string) error
}
