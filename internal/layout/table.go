package layout

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Errors returned by table construction and parsing.
var (
	ErrLengthMismatch   = errors.New("layout arrays differ in length")
	ErrDuplicateRune    = errors.New("layout array repeats a rune")
	ErrEmptyTable       = errors.New("layout arrays are empty")
	ErrUnknownFlag      = errors.New("unknown layout flag")
	ErrUnknownDirection = errors.New("unknown translation direction")
)

// DefaultEN and DefaultRU are the JCUKEN key assignments. Position i of one
// string is typed by the same key as position i of the other.
const (
	DefaultEN = "~`F<DULT:PBQRKVYJGHCNEA{WXIO}SM\">Zf,dult;pbqrkvyjghcnea[wxio]sm'.z@#$^&/?"
	DefaultRU = "ЁёАБВГДЕЖЗИЙКЛМНОПРСТУФХЦЧШЩЪЫЬЭЮЯабвгдежзийклмнопрстуфхцчшщъыьэюя\"№;:?.,"
)

var defaultTable = MustNew(DefaultEN, DefaultRU)

// Default returns the table built from DefaultEN and DefaultRU.
func Default() *Table {
	return defaultTable
}

// Table is an immutable bidirectional rune mapping between two layouts.
// It is safe for concurrent use.
type Table struct {
	en   []rune
	ru   []rune
	toRU map[rune]rune
	toEN map[rune]rune
}

// New builds a table from two parallel arrays. Both arrays must have the same
// number of runes and neither may repeat a rune.
func New(en, ru string) (*Table, error) {
	enRunes := []rune(en)
	ruRunes := []rune(ru)

	if len(enRunes) == 0 || len(ruRunes) == 0 {
		return nil, ErrEmptyTable
	}
	if len(enRunes) != len(ruRunes) {
		return nil, fmt.Errorf("%w: en has %d runes, ru has %d", ErrLengthMismatch, len(enRunes), len(ruRunes))
	}

	t := &Table{
		en:   enRunes,
		ru:   ruRunes,
		toRU: make(map[rune]rune, len(enRunes)),
		toEN: make(map[rune]rune, len(ruRunes)),
	}
	for i, r := range enRunes {
		if _, dup := t.toRU[r]; dup {
			return nil, fmt.Errorf("%w: en %q at %d", ErrDuplicateRune, r, i)
		}
		t.toRU[r] = ruRunes[i]
	}
	for i, r := range ruRunes {
		if _, dup := t.toEN[r]; dup {
			return nil, fmt.Errorf("%w: ru %q at %d", ErrDuplicateRune, r, i)
		}
		t.toEN[r] = enRunes[i]
	}
	return t, nil
}

// MustNew is like New but panics on error.
// Use only for known-valid arrays in initialization code.
func MustNew(en, ru string) *Table {
	t, err := New(en, ru)
	if err != nil {
		panic("invalid layout table: " + err.Error())
	}
	return t
}

// Len returns the number of key positions in the table.
func (t *Table) Len() int {
	return len(t.en)
}

// EN returns the EN array.
func (t *Table) EN() string {
	return string(t.en)
}

// RU returns the RU array.
func (t *Table) RU() string {
	return string(t.ru)
}

// Translate maps r in direction d. Runes absent from the source array are
// returned unchanged.
func (t *Table) Translate(r rune, d Direction) rune {
	m := t.toRU
	if d == RUToEN {
		m = t.toEN
	}
	if mapped, ok := m[r]; ok {
		return mapped
	}
	return r
}

// Has reports whether r is in the source array of direction d.
func (t *Table) Has(r rune, d Direction) bool {
	if d == RUToEN {
		_, ok := t.toEN[r]
		return ok
	}
	_, ok := t.toRU[r]
	return ok
}

// Transformer returns a transformer mapping every rune in direction d.
func (t *Table) Transformer(d Direction) transform.Transformer {
	return runes.Map(func(r rune) rune {
		return t.Translate(r, d)
	})
}

// String maps every rune of s in direction d.
func (t *Table) String(s string, d Direction) string {
	if s == "" {
		return s
	}
	out, _, err := transform.String(t.Transformer(d), s)
	if err != nil {
		// runes.Map never fails on a complete string; fall back to a
		// rune-by-rune copy to stay total.
		buf := make([]byte, 0, len(s))
		for _, r := range s {
			buf = utf8.AppendRune(buf, t.Translate(r, d))
		}
		return string(buf)
	}
	return out
}
