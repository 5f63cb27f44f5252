package layout

import (
	"fmt"
	"strings"
)

// Flag is the active input layout of the editor.
type Flag int

const (
	// EN is the Latin layout.
	EN Flag = 0
	// RU is the Cyrillic layout.
	RU Flag = 1
)

// String returns the lower-case layout name.
func (f Flag) String() string {
	switch f {
	case EN:
		return "en"
	case RU:
		return "ru"
	default:
		return fmt.Sprintf("Flag(%d)", int(f))
	}
}

// Toggle returns the other layout.
func (f Flag) Toggle() Flag {
	if f == RU {
		return EN
	}
	return RU
}

// Direction returns the direction that reinterprets text typed under f as
// text typed under the other layout.
func (f Flag) Direction() Direction {
	if f == RU {
		return RUToEN
	}
	return ENToRU
}

// ParseFlag parses "en" or "ru" (case-insensitive), or the numeric forms
// "0" and "1" used by editors that store the flag as an integer option.
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en", "0":
		return EN, nil
	case "ru", "1":
		return RU, nil
	default:
		return EN, fmt.Errorf("%w: %q", ErrUnknownFlag, s)
	}
}

// Direction selects which array of a Table is the source of a translation.
type Direction int

const (
	// ENToRU maps EN runes to their RU counterparts.
	ENToRU Direction = iota
	// RUToEN maps RU runes to their EN counterparts.
	RUToEN
)

// String returns "en-ru" or "ru-en".
func (d Direction) String() string {
	switch d {
	case ENToRU:
		return "en-ru"
	case RUToEN:
		return "ru-en"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Reverse returns the opposite direction.
func (d Direction) Reverse() Direction {
	if d == ENToRU {
		return RUToEN
	}
	return ENToRU
}

// Target returns the flag that text is in after translating in direction d.
func (d Direction) Target() Flag {
	if d == ENToRU {
		return RU
	}
	return EN
}

// ParseDirection parses "en-ru", "ru-en" and the aliases "ru" and "en"
// naming the target layout.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en-ru", "en_ru", "ru":
		return ENToRU, nil
	case "ru-en", "ru_en", "en":
		return RUToEN, nil
	default:
		return ENToRU, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}
