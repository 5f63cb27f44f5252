package key

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse errors.
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// Parse parses one key specification.
//
// Supported formats:
//   - Single character: "a", "A", "ж"
//   - Key names: "Enter", "Esc", "Left"
//   - Modifier style: "Ctrl+L", "Ctrl+Shift+Left"
//   - Vim style: "<C-l>", "<C-Left>", "<C-^>", "<C-\>", "<Esc>", "<BS>"
func Parse(spec string) (Event, error) {
	if strings.TrimSpace(spec) == "" {
		return Event{}, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVimStyle(spec[1 : len(spec)-1])
	}

	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		var mods Modifier
		if unicode.IsUpper(r) {
			mods = ModShift
		}
		return NewRuneEvent(r, mods), nil
	}

	spec = strings.TrimSpace(spec)
	if i := strings.LastIndex(spec, "+"); i > 0 && i < len(spec)-1 {
		return parseModifierStyle(spec[:i], spec[i+1:])
	}

	if k := KeyFromName(spec); k != KeyNone {
		return NewSpecialEvent(k, ModNone), nil
	}
	return Event{}, fmt.Errorf("%w: %q", ErrInvalidSpec, spec)
}

// parseVimStyle parses the inside of <...>, e.g. "C-l", "C-S-Left", "CR".
func parseVimStyle(inner string) (Event, error) {
	var mods Modifier
	for {
		i := strings.IndexByte(inner, '-')
		// A trailing "-" is the key itself, as in "<C-->".
		if i <= 0 || i == len(inner)-1 {
			break
		}
		mod := ModifierFromName(inner[:i])
		if mod == ModNone {
			break
		}
		mods = mods.With(mod)
		inner = inner[i+1:]
	}
	return keyWithModifiers(inner, mods)
}

func parseModifierStyle(modPart, keyPart string) (Event, error) {
	var mods Modifier
	for _, name := range strings.Split(modPart, "+") {
		mod := ModifierFromName(name)
		if mod == ModNone {
			return Event{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidSpec, name)
		}
		mods = mods.With(mod)
	}
	return keyWithModifiers(keyPart, mods)
}

func keyWithModifiers(name string, mods Modifier) (Event, error) {
	if name == "" {
		return Event{}, ErrInvalidSpec
	}
	if k := KeyFromName(name); k != KeyNone {
		return NewSpecialEvent(k, mods), nil
	}
	if r, ok := runeNameMap[strings.ToLower(name)]; ok {
		return NewRuneEvent(r, mods), nil
	}
	if utf8.RuneCountInString(name) == 1 {
		r, _ := utf8.DecodeRuneInString(name)
		if mods.Has(ModCtrl) {
			r = unicode.ToLower(r)
		}
		return NewRuneEvent(r, mods), nil
	}
	return Event{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, name)
}

// MustParse is like Parse but panics on error.
func MustParse(spec string) Event {
	ev, err := Parse(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return ev
}

// ParseSequence parses a run of keys such as "<Esc>0lla" or
// "<C-Left><Left>". Characters outside brackets, including spaces, are
// literal; a "<" that does not open a valid key is literal too.
func ParseSequence(s string) ([]Event, error) {
	var seq []Event
	for i := 0; i < len(s); {
		if s[i] == '<' {
			if end := strings.IndexByte(s[i+1:], '>'); end >= 0 {
				if ev, err := Parse(s[i : i+end+2]); err == nil {
					seq = append(seq, ev)
					i += end + 2
					continue
				}
			}
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			return nil, fmt.Errorf("%w: invalid UTF-8 at byte %d", ErrInvalidSpec, i)
		}
		seq = append(seq, NewRuneEvent(r, ModNone))
		i += size
	}
	return seq, nil
}

// FormatSequence renders seq in Vim notation.
func FormatSequence(seq []Event) string {
	var b strings.Builder
	for _, ev := range seq {
		b.WriteString(ev.VimString())
	}
	return b.String()
}
