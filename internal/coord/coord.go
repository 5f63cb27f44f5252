// Package coord converts between encoded offsets and character indices
// within a single line of text.
//
// Editors address positions in storage units: bytes for UTF-8 buffers, code
// units for UTF-16 ones. Span arithmetic is done in characters (runes). The
// two coincide only for single-unit characters, so every conversion walks the
// line prefix. Both directions are defined on [0, Len(line)] inclusive of the
// end-of-line position; anything outside that range is a caller bug and
// panics. Callers that take positions from an editor use Clamp first.
package coord

import (
	"fmt"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Encoding identifies the storage unit an editor measures offsets in.
type Encoding int

const (
	// UTF8 offsets count bytes.
	UTF8 Encoding = iota
	// UTF16 offsets count UTF-16 code units.
	UTF16
	// Runes offsets count code points, so offsets equal character indices.
	Runes
)

// String returns the encoding name as used in configuration.
func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "utf8"
	case UTF16:
		return "utf16"
	case Runes:
		return "runes"
	default:
		return fmt.Sprintf("Encoding(%d)", int(e))
	}
}

// ParseEncoding parses "utf8", "utf16" or "runes".
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "-", "")) {
	case "utf8", "":
		return UTF8, nil
	case "utf16":
		return UTF16, nil
	case "runes", "codepoints":
		return Runes, nil
	default:
		return UTF8, fmt.Errorf("unknown encoding %q", s)
	}
}

// width returns the number of storage units of the rune r that occupies size
// bytes of a Go string.
func (e Encoding) width(r rune, size int) int {
	switch e {
	case UTF16:
		if n := len(utf16.Encode([]rune{r})); n > 0 {
			return n
		}
		return 1
	case Runes:
		return 1
	default:
		return size
	}
}

// RuneLen returns the number of storage units r occupies.
func (e Encoding) RuneLen(r rune) int {
	size := utf8.RuneLen(r)
	if size < 0 {
		size = 1
	}
	return e.width(r, size)
}

// Len returns the encoded length of line.
func (e Encoding) Len(line string) int {
	switch e {
	case UTF8:
		return len(line)
	case Runes:
		return utf8.RuneCountInString(line)
	}
	n := 0
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		n += e.width(r, size)
		i += size
	}
	return n
}

// CharIndex returns the number of characters fully contained in the encoded
// prefix of line of length off. An offset inside a multi-unit character
// counts only the characters before it.
func (e Encoding) CharIndex(line string, off int) int {
	if off < 0 || off > e.Len(line) {
		panic(fmt.Sprintf("coord: %s offset %d out of range [0, %d]", e, off, e.Len(line)))
	}

	units, chars := 0, 0
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		w := e.width(r, size)
		if units+w > off {
			break
		}
		units += w
		chars++
		i += size
	}
	return chars
}

// Offset returns the encoded length of the first idx characters of line.
func (e Encoding) Offset(line string, idx int) int {
	count := utf8.RuneCountInString(line)
	if idx < 0 || idx > count {
		panic(fmt.Sprintf("coord: character index %d out of range [0, %d]", idx, count))
	}

	units := 0
	for i, n := 0, 0; n < idx; n++ {
		r, size := utf8.DecodeRuneInString(line[i:])
		units += e.width(r, size)
		i += size
	}
	return units
}

// Clamp limits off to [0, Len(line)].
func (e Encoding) Clamp(line string, off int) int {
	if off < 0 {
		return 0
	}
	if n := e.Len(line); off > n {
		return n
	}
	return off
}
