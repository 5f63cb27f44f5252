package span

import (
	"unicode"
	"unicode/utf8"

	"github.com/dshills/layoutswitch/internal/coord"
	"github.com/dshills/layoutswitch/internal/session"
)

// Resolver computes spans from the insertion run it tracks.
type Resolver struct {
	state    *session.State
	boundary WordBoundary
}

// NewResolver creates a resolver over state.
func NewResolver(state *session.State, boundary WordBoundary) *Resolver {
	return &Resolver{state: state, boundary: boundary}
}

// State returns the tracked session state.
func (r *Resolver) State() *session.State {
	return r.state
}

// Boundary returns the word boundary policy.
func (r *Resolver) Boundary() WordBoundary {
	return r.boundary
}

// SetBoundary changes the word boundary policy.
func (r *Resolver) SetBoundary(b WordBoundary) {
	r.boundary = b
}

// InsertEntered handles insert mode being entered with the cursor at col on
// row. A run saved by Commit is restored verbatim; otherwise a new empty run
// starts at the cursor. It reports whether a saved run was restored.
func (r *Resolver) InsertEntered(row, col int) bool {
	if saved, ok := r.state.PopHistory(); ok {
		r.state.Restore(saved)
		return true
	}
	r.state.Reset(col, row)
	return false
}

// TextChanged handles a text change while inserting, with the cursor now at
// col on row. A cursor that jumped outside the contiguous run, or to another
// row, starts a new run at col.
func (r *Resolver) TextChanged(row, col int) {
	run := r.state.Run()
	if !r.state.Active() || col > run.End+1 || col <= run.Start || row != run.Row {
		r.state.Reset(col, row)
		return
	}
	r.state.Extend(col, row)
}

// Guard reports whether a cursor at col on row lies inside the tracked run,
// which is required before rewriting the last input.
func (r *Resolver) Guard(row, col int) bool {
	return r.state.Active() && r.state.Run().Contains(row, col)
}

// LastInput returns the span from the start of the run to the cursor.
// ok is false when the guard fails.
func (r *Resolver) LastInput(row, col int) (Span, bool) {
	if !r.Guard(row, col) {
		return Span{}, false
	}
	return Span{Lo: r.state.Run().Start, Hi: col}, true
}

// LastInputWord narrows the last input span to the characters after the
// nearest word boundary before the cursor. The boundary character itself is
// excluded; with no boundary the span reaches the start of the run.
func (r *Resolver) LastInputWord(line string, row, col int) (Span, bool) {
	full, ok := r.LastInput(row, col)
	if !ok {
		return Span{}, false
	}

	chars := []rune(line)
	if full.Hi > len(chars) {
		return Span{}, false
	}

	lo := full.Lo
	for i := full.Hi - 1; i >= full.Lo; i-- {
		if r.isBoundary(chars[i]) {
			lo = i + 1
			break
		}
	}
	return Span{Lo: lo, Hi: full.Hi}, true
}

func (r *Resolver) isBoundary(c rune) bool {
	if unicode.IsSpace(c) {
		return true
	}
	return r.boundary == BoundaryAlpha && !unicode.IsLetter(c)
}

// Commit saves the current run so the next InsertEntered restores it instead
// of starting over. It is called after the switcher rewrites the run itself.
func (r *Resolver) Commit() {
	r.state.PushHistory()
}

// Visual returns the span selected by the marks lo and hi, both character
// indices with hi naming the last selected character. The end is advanced
// past that character's grapheme cluster, clamped to one past the end of
// line. Reversed marks are swapped.
func Visual(line string, lo, hi int) Span {
	if hi < lo {
		lo, hi = hi, lo
	}
	n := utf8.RuneCountInString(line)
	if lo > n {
		lo = n
	}
	if lo < 0 {
		lo = 0
	}
	return Span{Lo: lo, Hi: coord.ClusterEnd(line, hi)}
}
