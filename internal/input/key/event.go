package key

import (
	"strings"
	"unicode"
)

// Event is a single key press.
type Event struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// NewRuneEvent creates a character key press.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{Key: KeyRune, Rune: r, Modifiers: mods}
}

// NewSpecialEvent creates a non-character key press.
func NewSpecialEvent(k Key, mods Modifier) Event {
	return Event{Key: k, Modifiers: mods}
}

// IsRune reports whether e is a character key press.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// IsModified reports whether a modifier other than Shift on a character is
// held; Shift is part of the character itself.
func (e Event) IsModified() bool {
	if e.IsRune() {
		return e.Modifiers&(ModCtrl|ModAlt) != 0
	}
	return e.Modifiers != ModNone
}

// IsText reports whether e types its rune.
func (e Event) IsText() bool {
	return e.IsRune() && !e.IsModified() && unicode.IsPrint(e.Rune)
}

// Equals compares key, rune and modifiers. Shift on characters is ignored.
func (e Event) Equals(other Event) bool {
	if e.Key != other.Key || e.Rune != other.Rune {
		return false
	}
	if e.IsRune() {
		const mask = ModCtrl | ModAlt
		return e.Modifiers&mask == other.Modifiers&mask
	}
	return e.Modifiers == other.Modifiers
}

// VimString returns the Vim notation of e, e.g. "a", "<C-l>", "<Esc>".
func (e Event) VimString() string {
	if e.IsRune() && !e.IsModified() {
		switch e.Rune {
		case ' ':
			return "<Space>"
		case '<':
			return "<lt>"
		}
		return string(e.Rune)
	}

	mods := e.Modifiers
	name := e.Key.String()
	if e.Key == KeyRune {
		mods &^= ModShift
		name = strings.ToLower(string(e.Rune))
	}
	return "<" + mods.vimPrefix() + name + ">"
}

// String returns the Vim notation of e.
func (e Event) String() string {
	return e.VimString()
}
