// Package translit rewrites a span of a line through a layout table.
package translit

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/layoutswitch/internal/coord"
	"github.com/dshills/layoutswitch/internal/layout"
	"github.com/dshills/layoutswitch/internal/span"
)

// Result describes one rewrite.
type Result struct {
	// Line is the full line after the rewrite.
	Line string

	// Span is the rewritten character range, clamped to the line.
	Span span.Span

	// Original and Replacement are the span's text before and after.
	Original    string
	Replacement string

	// Delta is the change in encoded length of the span. Positions after the
	// span shift by Delta storage units; character indices do not move.
	Delta int
}

// Changed reports whether the rewrite altered the line.
func (r Result) Changed() bool {
	return r.Original != r.Replacement
}

// Apply maps every character of sp in line through table in direction d and
// splices the result between the untouched prefix and suffix. Delta is
// measured in enc units.
func Apply(line string, sp span.Span, d layout.Direction, table *layout.Table, enc coord.Encoding) Result {
	n := utf8.RuneCountInString(line)
	sp = clamp(sp, n)

	lo := coord.UTF8.Offset(line, sp.Lo)
	hi := lo + coord.UTF8.Offset(line[lo:], sp.Hi-sp.Lo)

	original := line[lo:hi]
	replacement := table.String(original, d)

	var b strings.Builder
	b.Grow(len(line) - len(original) + len(replacement))
	b.WriteString(line[:lo])
	b.WriteString(replacement)
	b.WriteString(line[hi:])

	return Result{
		Line:        b.String(),
		Span:        sp,
		Original:    original,
		Replacement: replacement,
		Delta:       enc.Len(replacement) - enc.Len(original),
	}
}

func clamp(sp span.Span, n int) span.Span {
	if sp.Lo < 0 {
		sp.Lo = 0
	}
	if sp.Hi > n {
		sp.Hi = n
	}
	if sp.Lo > sp.Hi {
		sp.Lo = sp.Hi
	}
	return sp
}
