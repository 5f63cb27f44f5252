package editor

import (
	"fmt"
	"unicode"

	"github.com/dshills/layoutswitch/internal/input/key"
	"github.com/dshills/layoutswitch/internal/layout"
)

// Feed parses seq as key notation ("<Esc>0lla") and handles every key.
func (e *Editor) Feed(seq string) error {
	events, err := key.ParseSequence(seq)
	if err != nil {
		return err
	}
	for _, ev := range events {
		if err := e.HandleKey(ev); err != nil {
			return fmt.Errorf("key %s: %w", ev, err)
		}
	}
	return nil
}

// Type handles every rune of text as a plain key press.
func (e *Editor) Type(text string) error {
	for _, r := range text {
		if err := e.HandleKey(key.NewRuneEvent(r, key.ModNone)); err != nil {
			return err
		}
	}
	return nil
}

// HandleKey processes one key press.
func (e *Editor) HandleKey(ev key.Event) error {
	if cmd, ok := e.bindings[bindingKey{e.mode, normalize(ev)}]; ok {
		e.count, e.pending = 0, 0
		return e.Execute(cmd)
	}

	switch e.mode {
	case ModeInsert:
		return e.insertKey(ev)
	case ModeVisual:
		return e.visualKey(ev)
	default:
		return e.normalKey(ev)
	}
}

func (e *Editor) insertKey(ev key.Event) error {
	ctrl := ev.Modifiers.Has(key.ModCtrl)

	switch ev.Key {
	case key.KeyEscape:
		e.mode = ModeNormal
		if e.col > 0 {
			e.col--
		}
	case key.KeyBackspace:
		e.backspace()
	case key.KeyDelete:
		if e.col < e.lineLen() {
			c := e.chars()
			e.lines[e.row] = string(append(c[:e.col], c[e.col+1:]...))
			e.textChanged()
		}
	case key.KeyEnter:
		c := e.chars()
		rest := string(c[e.col:])
		e.lines[e.row] = string(c[:e.col])
		e.lines = append(e.lines[:e.row+1], append([]string{rest}, e.lines[e.row+1:]...)...)
		e.row++
		e.col = 0
		e.textChanged()
	case key.KeyTab:
		e.insertRune('\t')
	case key.KeyLeft:
		if ctrl {
			e.col = wordBackward(e.chars(), e.col)
		} else if e.col > 0 {
			e.col--
		}
	case key.KeyRight:
		if ctrl {
			e.col = wordForward(e.chars(), e.col)
		} else if e.col < e.lineLen() {
			e.col++
		}
	case key.KeyUp, key.KeyDown:
		e.moveRow(rowDelta(ev.Key, 1), e.lineLen)
	case key.KeyHome:
		e.col = 0
	case key.KeyEnd:
		e.col = e.lineLen()
	default:
		if !ev.IsText() {
			return ErrUnmappedKey
		}
		r := ev.Rune
		if e.opts.EmulateKeymap && e.flag == layout.RU {
			r = e.opts.Table.Translate(r, layout.ENToRU)
		}
		e.insertRune(r)
	}
	return nil
}

func (e *Editor) backspace() {
	if e.col > 0 {
		e.deleteBefore()
		return
	}
	if e.row == 0 {
		return
	}
	prev := e.lines[e.row-1]
	e.lines[e.row-1] = prev + e.lines[e.row]
	e.lines = append(e.lines[:e.row], e.lines[e.row+1:]...)
	e.row--
	e.col = len([]rune(prev))
	e.textChanged()
}

func (e *Editor) normalKey(ev key.Event) error {
	if e.countKey(ev) {
		return nil
	}
	n := max(e.count, 1)
	e.count = 0

	if e.motion(ev, n) {
		return nil
	}
	if ev.Key == key.KeyEscape {
		return nil
	}
	if !ev.IsText() {
		return ErrUnmappedKey
	}

	switch ev.Rune {
	case 'i':
		e.enterInsert(e.col)
	case 'a':
		e.enterInsert(min(e.col+1, e.lineLen()))
	case 'I':
		e.enterInsert(firstNonBlank(e.chars()))
	case 'A':
		e.enterInsert(e.lineLen())
	case 'o':
		e.lines = append(e.lines[:e.row+1], append([]string{""}, e.lines[e.row+1:]...)...)
		e.row++
		e.enterInsert(0)
	case 'x':
		c := e.chars()
		if len(c) > 0 {
			end := min(e.col+n, len(c))
			e.lines[e.row] = string(append(c[:e.col], c[end:]...))
			e.col = min(e.col, e.lastCol())
		}
	case 'v':
		e.mode = ModeVisual
		e.anchor = e.CursorMark()
	default:
		return ErrUnmappedKey
	}
	return nil
}

func (e *Editor) visualKey(ev key.Event) error {
	if e.pending == 'i' {
		e.pending = 0
		if ev.IsText() && ev.Rune == 'w' {
			e.selectInnerWord()
			return nil
		}
		return ErrUnmappedKey
	}
	if e.countKey(ev) {
		return nil
	}
	n := max(e.count, 1)
	e.count = 0

	if e.motion(ev, n) {
		return nil
	}
	switch {
	case ev.Key == key.KeyEscape:
		e.exitVisual()
	case ev.IsText() && ev.Rune == 'i':
		e.pending = 'i'
	case ev.IsText() && ev.Rune == 'o':
		anchor := e.anchor
		e.anchor = e.CursorMark()
		e.row, e.col = anchor.Row, anchor.Col
	default:
		return ErrUnmappedKey
	}
	return nil
}

// countKey accumulates a count prefix. A leading 0 is a motion.
func (e *Editor) countKey(ev key.Event) bool {
	if !ev.IsText() || ev.Rune < '0' || ev.Rune > '9' || (ev.Rune == '0' && e.count == 0) {
		return false
	}
	e.count = e.count*10 + int(ev.Rune-'0')
	return true
}

// motion moves the cursor for normal and visual mode motions.
func (e *Editor) motion(ev key.Event, n int) bool {
	r := ev.Rune
	if !ev.IsText() {
		r = 0
	}
	switch {
	case ev.Key == key.KeyLeft || r == 'h':
		e.col = max(e.col-n, 0)
	case ev.Key == key.KeyRight || r == 'l':
		e.col = min(e.col+n, e.lastCol())
	case ev.Key == key.KeyUp || r == 'k':
		e.moveRow(-n, e.lastCol)
	case ev.Key == key.KeyDown || r == 'j':
		e.moveRow(n, e.lastCol)
	case ev.Key == key.KeyHome || r == '0':
		e.col = 0
	case ev.Key == key.KeyEnd || r == '$':
		e.col = e.lastCol()
	case r == 'w':
		for i := 0; i < n; i++ {
			e.col = wordForward(e.chars(), e.col)
		}
		e.col = min(e.col, e.lastCol())
	case r == 'b':
		for i := 0; i < n; i++ {
			e.col = wordBackward(e.chars(), e.col)
		}
	default:
		return false
	}
	return true
}

func (e *Editor) moveRow(delta int, limit func() int) {
	e.row = min(max(e.row+delta, 0), len(e.lines)-1)
	e.col = min(e.col, limit())
}

func rowDelta(k key.Key, n int) int {
	if k == key.KeyUp {
		return -n
	}
	return n
}

// selectInnerWord selects the run of characters of the same class
// (blank or not) around the cursor.
func (e *Editor) selectInnerWord() {
	c := e.chars()
	if len(c) == 0 {
		return
	}
	blank := unicode.IsSpace(c[e.col])
	lo, hi := e.col, e.col
	for lo > 0 && unicode.IsSpace(c[lo-1]) == blank {
		lo--
	}
	for hi < len(c)-1 && unicode.IsSpace(c[hi+1]) == blank {
		hi++
	}
	e.anchor = Mark{Row: e.row, Col: lo}
	e.col = hi
}

func wordBackward(c []rune, col int) int {
	i := col
	for i > 0 && unicode.IsSpace(c[i-1]) {
		i--
	}
	for i > 0 && !unicode.IsSpace(c[i-1]) {
		i--
	}
	return i
}

func wordForward(c []rune, col int) int {
	i := col
	for i < len(c) && !unicode.IsSpace(c[i]) {
		i++
	}
	for i < len(c) && unicode.IsSpace(c[i]) {
		i++
	}
	return i
}

func firstNonBlank(c []rune) int {
	for i, r := range c {
		if !unicode.IsSpace(r) {
			return i
		}
	}
	return len(c)
}
