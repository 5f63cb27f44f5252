// Package editor is a small modal text editor kept entirely in memory.
//
// It understands enough of Vim's normal, insert and visual modes to drive a
// layout switcher the way a real editor would: it reports insert-mode entry
// and text changes on an event bus, keeps the '<' and '>' marks of the last
// visual selection, and exposes its buffer, cursor and layout flag through
// the switcher's host interfaces. Columns crossing those interfaces are
// offsets in the configured encoding; internally the cursor is a character
// index.
package editor

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dshills/layoutswitch/internal/coord"
	"github.com/dshills/layoutswitch/internal/event"
	"github.com/dshills/layoutswitch/internal/event/topic"
	"github.com/dshills/layoutswitch/internal/input/key"
	"github.com/dshills/layoutswitch/internal/layout"
	"github.com/dshills/layoutswitch/internal/logging"
	"github.com/dshills/layoutswitch/internal/switcher"
)

// Mode is the editing mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
	ModeVisual
)

func (m Mode) String() string {
	switch m {
	case ModeInsert:
		return "INSERT"
	case ModeVisual:
		return "VISUAL"
	default:
		return "NORMAL"
	}
}

// Options configures an Editor.
type Options struct {
	// Encoding is the column encoding of the host interfaces.
	Encoding coord.Encoding

	// Table is used by keymap emulation. Defaults to layout.Default().
	Table *layout.Table

	// Layout is the initial layout flag.
	Layout layout.Flag

	// EmulateKeymap makes typed EN keys produce RU characters while the
	// layout flag is RU, like a Vim keymap with iminsert=1.
	EmulateKeymap bool

	// Bus receives editor.insert.entered and editor.text.changed.
	Bus *event.Bus

	Logger *logging.Logger
}

// Command is an action bound to a key.
type Command func() error

type bindingKey struct {
	mode Mode
	ev   key.Event
}

// Mark is a buffer position in characters.
type Mark struct {
	Row int
	Col int
}

// Editor is an in-memory modal editor.
type Editor struct {
	lines []string
	row   int
	col   int
	mode  Mode
	flag  layout.Flag
	opts  Options
	log   *logging.Logger

	anchor   Mark
	marks    [2]Mark
	hasMarks bool

	count   int
	pending rune

	bindings map[bindingKey]Command
}

// New creates an editor holding lines, in normal mode at the top left.
func New(opts Options, lines ...string) *Editor {
	if opts.Table == nil {
		opts.Table = layout.Default()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &Editor{
		lines:    append([]string(nil), lines...),
		flag:     opts.Layout,
		opts:     opts,
		log:      opts.Logger.WithComponent("editor"),
		bindings: make(map[bindingKey]Command),
	}
}

// Bind runs cmd through Execute when ev is pressed in mode.
func (e *Editor) Bind(mode Mode, ev key.Event, cmd Command) {
	e.bindings[bindingKey{mode, normalize(ev)}] = cmd
}

// Unbind removes every binding.
func (e *Editor) Unbind() {
	clear(e.bindings)
}

func normalize(ev key.Event) key.Event {
	if ev.IsRune() {
		ev.Modifiers &^= key.ModShift
	}
	return ev
}

// Mode returns the current mode.
func (e *Editor) Mode() Mode {
	return e.mode
}

// Lines returns a copy of the buffer.
func (e *Editor) Lines() []string {
	return append([]string(nil), e.lines...)
}

// Text returns the buffer joined by newlines.
func (e *Editor) Text() string {
	return strings.Join(e.lines, "\n")
}

// CursorMark returns the cursor in characters.
func (e *Editor) CursorMark() Mark {
	return Mark{Row: e.row, Col: e.col}
}

// Selection returns the ordered bounds of the active visual selection.
func (e *Editor) Selection() (lo, hi Mark, ok bool) {
	if e.mode != ModeVisual {
		return Mark{}, Mark{}, false
	}
	lo, hi = order(e.anchor, e.CursorMark())
	return lo, hi, true
}

// Line implements switcher.Host.
func (e *Editor) Line(row int) (string, error) {
	if row < 0 || row >= len(e.lines) {
		return "", fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	return e.lines[row], nil
}

// Cursor implements switcher.Host.
func (e *Editor) Cursor() switcher.Position {
	return switcher.Position{Row: e.row, Col: e.opts.Encoding.Offset(e.lines[e.row], e.col)}
}

// SetLine implements switcher.Host.
func (e *Editor) SetLine(row int, text string) error {
	if _, err := e.Line(row); err != nil {
		return err
	}
	e.lines[row] = text
	if row == e.row {
		e.col = min(e.col, e.lineLen())
	}
	e.textChanged()
	return nil
}

// SetCursor implements switcher.Host. The column is clamped to the line.
func (e *Editor) SetCursor(pos switcher.Position) error {
	line, err := e.Line(pos.Row)
	if err != nil {
		return err
	}
	enc := e.opts.Encoding
	e.row = pos.Row
	e.col = enc.CharIndex(line, enc.Clamp(line, pos.Col))
	return nil
}

// SelectionMarks implements switcher.Host.
func (e *Editor) SelectionMarks() (start, end switcher.Position, ok bool) {
	if !e.hasMarks {
		return switcher.Position{}, switcher.Position{}, false
	}
	return e.position(e.marks[0]), e.position(e.marks[1]), true
}

func (e *Editor) position(m Mark) switcher.Position {
	if m.Row >= len(e.lines) {
		m.Row = len(e.lines) - 1
	}
	line := e.lines[m.Row]
	col := min(m.Col, utf8.RuneCountInString(line))
	return switcher.Position{Row: m.Row, Col: e.opts.Encoding.Offset(line, col)}
}

// Layout implements switcher.LayoutFlag.
func (e *Editor) Layout() layout.Flag {
	return e.flag
}

// SetLayout implements switcher.LayoutFlag.
func (e *Editor) SetLayout(f layout.Flag) {
	e.flag = f
}

// Retype implements switcher.Retyper: it deletes backspaces characters
// before the cursor and types text, reporting each change like user input.
func (e *Editor) Retype(backspaces int, text string) error {
	for i := 0; i < backspaces; i++ {
		if e.col == 0 {
			return fmt.Errorf("retype: %d backspaces past start of line", backspaces)
		}
		e.deleteBefore()
	}
	for _, r := range text {
		e.insertRune(r)
	}
	return nil
}

// Execute runs cmd the way Vim's <C-\><C-o> does: insert mode is left
// without moving the cursor and entered again afterwards. From visual mode
// the selection is ended first so its marks are set.
func (e *Editor) Execute(cmd Command) error {
	switch e.mode {
	case ModeInsert:
		e.mode = ModeNormal
		err := cmd()
		e.mode = ModeInsert
		e.col = min(e.col, e.lineLen())
		e.insertEntered()
		return err
	case ModeVisual:
		e.exitVisual()
	}
	return cmd()
}

func (e *Editor) chars() []rune {
	return []rune(e.lines[e.row])
}

func (e *Editor) lineLen() int {
	return utf8.RuneCountInString(e.lines[e.row])
}

// lastCol is the rightmost cursor column outside insert mode.
func (e *Editor) lastCol() int {
	return max(e.lineLen()-1, 0)
}

func (e *Editor) insertRune(r rune) {
	c := e.chars()
	c = append(c[:e.col], append([]rune{r}, c[e.col:]...)...)
	e.lines[e.row] = string(c)
	e.col++
	e.textChanged()
}

func (e *Editor) deleteBefore() {
	c := e.chars()
	e.lines[e.row] = string(append(c[:e.col-1], c[e.col:]...))
	e.col--
	e.textChanged()
}

func (e *Editor) enterInsert(col int) {
	e.mode = ModeInsert
	e.col = col
	e.insertEntered()
}

func (e *Editor) exitVisual() {
	lo, hi := order(e.anchor, e.CursorMark())
	e.marks = [2]Mark{lo, hi}
	e.hasMarks = true
	e.mode = ModeNormal
}

func (e *Editor) insertEntered() {
	e.publish(event.TopicInsertEntered)
}

func (e *Editor) textChanged() {
	if e.mode == ModeInsert {
		e.publish(event.TopicTextChanged)
	}
}

func (e *Editor) publish(t topic.Topic) {
	if e.opts.Bus == nil {
		return
	}
	pos := e.Cursor()
	err := e.opts.Bus.Emit(context.Background(), t, event.Position{Row: pos.Row, Col: pos.Col}, "editor")
	if err != nil {
		e.log.Warn("publish %s: %v", t, err)
	}
}

func order(a, b Mark) (Mark, Mark) {
	if b.Row < a.Row || (b.Row == a.Row && b.Col < a.Col) {
		return b, a
	}
	return a, b
}
