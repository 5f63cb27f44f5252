// Package span resolves which characters of a line a transliteration
// operation rewrites.
//
// A Resolver drives a session.State from two editor lifecycle events
// (insert mode entered, text changed while inserting) and answers three
// queries against it: the last input run, the last word of that run, and an
// explicit visual selection. All positions are character indices.
package span

import "fmt"

// Span is a half-open character range [Lo, Hi) within one line.
type Span struct {
	Lo int
	Hi int
}

// Len returns the number of characters in the span.
func (s Span) Len() int {
	if s.Hi < s.Lo {
		return 0
	}
	return s.Hi - s.Lo
}

// Empty reports whether the span covers no characters.
func (s Span) Empty() bool {
	return s.Len() == 0
}

// String returns the span in interval notation.
func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Lo, s.Hi)
}

// WordBoundary selects where the last-input-word query stops scanning.
type WordBoundary int

const (
	// BoundaryWhitespace stops at the nearest whitespace character.
	BoundaryWhitespace WordBoundary = iota
	// BoundaryAlpha stops at the nearest character that is not a letter.
	BoundaryAlpha
)

// String returns the boundary name as used in configuration.
func (b WordBoundary) String() string {
	switch b {
	case BoundaryWhitespace:
		return "whitespace"
	case BoundaryAlpha:
		return "alpha"
	default:
		return fmt.Sprintf("WordBoundary(%d)", int(b))
	}
}

// ParseWordBoundary parses "whitespace" or "alpha".
func ParseWordBoundary(s string) (WordBoundary, error) {
	switch s {
	case "whitespace", "space", "":
		return BoundaryWhitespace, nil
	case "alpha", "alphabetic":
		return BoundaryAlpha, nil
	default:
		return BoundaryWhitespace, fmt.Errorf("unknown word boundary %q", s)
	}
}
