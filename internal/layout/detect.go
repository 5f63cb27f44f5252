package layout

import "unicode"

// Detect infers the direction that converts s into the other layout from the
// script majority of its letters: mostly Cyrillic means RUToEN, mostly Latin
// means ENToRU. ok is false when the counts tie, including text without any
// letters.
func (t *Table) Detect(s string) (d Direction, ok bool) {
	var cyrillic, latin int
	for _, r := range s {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}

	switch {
	case cyrillic > latin:
		return RUToEN, true
	case latin > cyrillic:
		return ENToRU, true
	default:
		return ENToRU, false
	}
}

// DetectOr is Detect with a fallback direction for ties.
func (t *Table) DetectOr(s string, fallback Direction) Direction {
	if d, ok := t.Detect(s); ok {
		return d
	}
	return fallback
}
