// Package switcher fixes text typed in the wrong keyboard layout.
//
// A Switcher follows the host editor's insert-mode lifecycle to know which
// characters were typed last, and on request rewrites them (or a word of them,
// or a visual selection) through the EN/RU layout table, then flips the
// host's layout flag so typing continues in the layout the user meant.
//
// All methods must be called from the goroutine that drives the host.
package switcher

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/layoutswitch/internal/coord"
	"github.com/dshills/layoutswitch/internal/event"
	"github.com/dshills/layoutswitch/internal/layout"
	"github.com/dshills/layoutswitch/internal/logging"
	"github.com/dshills/layoutswitch/internal/session"
	"github.com/dshills/layoutswitch/internal/span"
	"github.com/dshills/layoutswitch/internal/translit"
)

// Op names a switcher operation.
type Op string

const (
	OpLastInput     Op = "map_last_input"
	OpLastInputWord Op = "map_last_input_word"
	OpVisual        Op = "map_visual"
)

// Edit describes the outcome of an operation.
type Edit struct {
	Op Op

	// Applied is false when the cursor was outside the tracked run and only
	// the layout flag was toggled.
	Applied bool

	Row    int
	Line   string
	Cursor Position

	// Span is the rewritten character range.
	Span        span.Span
	Direction   layout.Direction
	Original    string
	Replacement string

	// Layout is the flag after the operation.
	Layout layout.Flag
}

// Switcher is one layout-switching session bound to a host.
type Switcher struct {
	id       string
	host     Host
	flag     LayoutFlag
	opts     Options
	resolver *span.Resolver
	log      *logging.Logger
	bus      *event.Bus
	subs     []event.Subscription

	// applying is set while the switcher writes to the host so the host's
	// own change notifications do not disturb the run.
	applying bool
}

// New creates a switcher for host.
func New(host Host, flag LayoutFlag, opts Options) *Switcher {
	opts = opts.withDefaults()
	id := uuid.NewString()
	return &Switcher{
		id:       id,
		host:     host,
		flag:     flag,
		opts:     opts,
		resolver: span.NewResolver(session.New(opts.HistoryDepth), opts.WordBoundary),
		log:      opts.Logger.WithComponent("switcher").WithField("session", id),
		bus:      opts.Bus,
	}
}

// ID returns the session identifier.
func (s *Switcher) ID() string {
	return s.id
}

// Options returns the active options.
func (s *Switcher) Options() Options {
	return s.opts
}

// Run returns the tracked insertion run in character indices.
func (s *Switcher) Run() session.Run {
	return s.resolver.State().Run()
}

// Reconfigure applies new policies. The table, encoding and history are
// kept; only the word boundary, visual policy, strategy and history depth
// change.
func (s *Switcher) Reconfigure(o Options) {
	s.opts.WordBoundary = o.WordBoundary
	s.opts.VisualPolicy = o.VisualPolicy
	s.opts.Strategy = o.Strategy
	if o.HistoryDepth >= 1 {
		s.opts.HistoryDepth = o.HistoryDepth
		s.resolver.State().SetDepth(o.HistoryDepth)
	}
	s.resolver.SetBoundary(o.WordBoundary)
	s.log.Debug("reconfigured: boundary=%s visual=%s strategy=%s depth=%d",
		s.opts.WordBoundary, s.opts.VisualPolicy, s.opts.Strategy, s.opts.HistoryDepth)
}

// OnInsertEnter must be called when the host enters insert mode.
func (s *Switcher) OnInsertEnter(pos Position) {
	line, err := s.host.Line(pos.Row)
	if err != nil {
		s.log.Warn("insert enter: %v", err)
		return
	}
	col := s.charIndex(line, pos.Col)
	restored := s.resolver.InsertEntered(pos.Row, col)
	run := s.Run()
	s.log.Debug("insert enter at %d:%d restored=%t run=[%d, %d]", pos.Row, col, restored, run.Start, run.End)
}

// OnTextChanged must be called after every text change in insert mode.
// Calls made while the switcher is writing its own edit are ignored.
func (s *Switcher) OnTextChanged(pos Position) {
	if s.applying {
		return
	}
	line, err := s.host.Line(pos.Row)
	if err != nil {
		s.log.Warn("text changed: %v", err)
		return
	}
	s.resolver.TextChanged(pos.Row, s.charIndex(line, pos.Col))
}

// MapLastInput rewrites the characters typed since the run started, up to
// the cursor, then toggles the layout flag. When the cursor is outside the
// run nothing is rewritten but the flag is still toggled.
func (s *Switcher) MapLastInput() (Edit, error) {
	return s.mapInsert(OpLastInput)
}

// MapLastInputWord is MapLastInput narrowed to the last word before the
// cursor.
func (s *Switcher) MapLastInputWord() (Edit, error) {
	return s.mapInsert(OpLastInputWord)
}

func (s *Switcher) mapInsert(op Op) (Edit, error) {
	log := s.log.WithField("op", string(op))
	enc := s.opts.Encoding

	pos := s.host.Cursor()
	line, err := s.host.Line(pos.Row)
	if err != nil {
		return Edit{}, fmt.Errorf("%s: read line %d: %w", op, pos.Row, err)
	}
	col := s.charIndex(line, pos.Col)

	var (
		sp span.Span
		ok bool
	)
	if op == OpLastInputWord {
		sp, ok = s.resolver.LastInputWord(line, pos.Row, col)
	} else {
		sp, ok = s.resolver.LastInput(pos.Row, col)
	}

	if !ok {
		run := s.Run()
		log.Debug("cursor %d:%d outside run %d:[%d, %d], toggling only",
			pos.Row, col, run.Row, run.Start, run.End)
		return Edit{Op: op, Row: pos.Row, Line: line, Cursor: pos, Layout: s.toggle()}, nil
	}

	dir := s.flag.Layout().Direction()
	res := translit.Apply(line, sp, dir, s.opts.Table, enc)
	cursor := Position{Row: pos.Row, Col: enc.Offset(res.Line, col)}

	if err := s.write(pos.Row, res, cursor, true); err != nil {
		return Edit{}, fmt.Errorf("%s: %w", op, err)
	}
	s.resolver.Commit()

	edit := s.edit(op, pos.Row, res, cursor, dir)
	edit.Layout = s.toggle()
	log.Debug("%s %q -> %q, cursor %d", sp, res.Original, res.Replacement, cursor.Col)
	s.publish(event.TopicTransliterated, event.Transliterated{
		Op:          string(op),
		Row:         pos.Row,
		Direction:   dir.String(),
		Original:    res.Original,
		Replacement: res.Replacement,
	})
	return edit, nil
}

// MapVisualSelection rewrites the last visual selection. The direction comes
// from the visual policy and the layout flag is left unchanged. The cursor is
// left on the last rewritten character.
func (s *Switcher) MapVisualSelection() (Edit, error) {
	log := s.log.WithField("op", string(OpVisual))
	enc := s.opts.Encoding

	start, end, ok := s.host.SelectionMarks()
	if !ok {
		return Edit{}, ErrNoSelection
	}
	if start.Row != end.Row {
		return Edit{}, ErrMultilineSelection
	}

	row := start.Row
	line, err := s.host.Line(row)
	if err != nil {
		return Edit{}, fmt.Errorf("%s: read line %d: %w", OpVisual, row, err)
	}

	sp := span.Visual(line, s.charIndex(line, start.Col), s.charIndex(line, end.Col))
	lo := coord.UTF8.Offset(line, sp.Lo)
	hi := coord.UTF8.Offset(line, sp.Hi)
	dir := s.visualDirection(line[lo:hi])

	res := translit.Apply(line, sp, dir, s.opts.Table, enc)
	last := sp.Hi - 1
	if last < sp.Lo {
		last = sp.Lo
	}
	cursor := Position{Row: row, Col: enc.Offset(res.Line, last)}

	if err := s.write(row, res, cursor, false); err != nil {
		return Edit{}, fmt.Errorf("%s: %w", OpVisual, err)
	}

	edit := s.edit(OpVisual, row, res, cursor, dir)
	edit.Layout = s.flag.Layout()
	log.Debug("%s %q -> %q (%s)", sp, res.Original, res.Replacement, dir)
	s.publish(event.TopicTransliterated, event.Transliterated{
		Op:          string(OpVisual),
		Row:         row,
		Direction:   dir.String(),
		Original:    res.Original,
		Replacement: res.Replacement,
	})
	return edit, nil
}

// ToggleLayout flips the layout flag without rewriting anything.
func (s *Switcher) ToggleLayout() layout.Flag {
	return s.toggle()
}

func (s *Switcher) visualDirection(text string) layout.Direction {
	fallback := s.flag.Layout().Direction()
	if s.opts.VisualPolicy == PolicyFlag {
		return fallback
	}
	return s.opts.Table.DetectOr(text, fallback)
}

func (s *Switcher) edit(op Op, row int, res translit.Result, cursor Position, dir layout.Direction) Edit {
	return Edit{
		Op:          op,
		Applied:     true,
		Row:         row,
		Line:        res.Line,
		Cursor:      cursor,
		Span:        res.Span,
		Direction:   dir,
		Original:    res.Original,
		Replacement: res.Replacement,
	}
}

// write applies res to the host. retype permits the retype strategy, which
// only works when the cursor sits at the end of the span.
func (s *Switcher) write(row int, res translit.Result, cursor Position, retype bool) error {
	s.applying = true
	defer func() { s.applying = false }()

	if retype && s.opts.Strategy == StrategyRetype {
		r, ok := s.host.(Retyper)
		if !ok {
			return ErrRetypeUnsupported
		}
		if err := r.Retype(res.Span.Len(), res.Replacement); err != nil {
			return fmt.Errorf("retype: %w", err)
		}
		return nil
	}

	if err := s.host.SetLine(row, res.Line); err != nil {
		return fmt.Errorf("set line %d: %w", row, err)
	}
	if err := s.host.SetCursor(cursor); err != nil {
		return fmt.Errorf("set cursor: %w", err)
	}
	return nil
}

func (s *Switcher) toggle() layout.Flag {
	next := s.flag.Layout().Toggle()
	s.flag.SetLayout(next)
	s.publish(event.TopicLayoutToggled, event.Toggled{Layout: next.String()})
	return next
}

// charIndex converts a host offset to a character index, clamping it to the
// line first.
func (s *Switcher) charIndex(line string, off int) int {
	enc := s.opts.Encoding
	return enc.CharIndex(line, enc.Clamp(line, off))
}
