package key

import "strings"

// Modifier is a bit set of held modifier keys. Meta and Option fold into
// ModAlt since terminals do not tell them apart.
type Modifier uint8

const (
	ModNone  Modifier = 0
	ModShift Modifier = 1 << (iota - 1)
	ModCtrl
	ModAlt
)

// Has reports whether m contains mod.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// With returns m with mod added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// modifierOrder fixes the order modifiers are printed in.
var modifierOrder = [...]struct {
	mod  Modifier
	name string
	vim  string
}{
	{ModCtrl, "Ctrl", "C"},
	{ModAlt, "Alt", "A"},
	{ModShift, "Shift", "S"},
}

// String returns a representation like "Ctrl+Alt".
func (m Modifier) String() string {
	var parts []string
	for _, o := range modifierOrder {
		if m.Has(o.mod) {
			parts = append(parts, o.name)
		}
	}
	return strings.Join(parts, "+")
}

// vimPrefix returns the modifier part of Vim notation, e.g. "C-S-".
func (m Modifier) vimPrefix() string {
	var b strings.Builder
	for _, o := range modifierOrder {
		if m.Has(o.mod) {
			b.WriteString(o.vim)
			b.WriteByte('-')
		}
	}
	return b.String()
}

// ModifierFromName maps a modifier name in either notation ("C", "ctrl",
// "M", "option", ...) to its bit. Unknown names yield ModNone.
func ModifierFromName(name string) Modifier {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "c", "ctrl", "control":
		return ModCtrl
	case "a", "m", "alt", "meta", "option":
		return ModAlt
	case "s", "shift":
		return ModShift
	}
	return ModNone
}
