// Package session tracks the contiguous insertion run the user is typing and
// a bounded history of runs saved across the switcher's own rewrites.
//
// Positions are character indices within a line; Row identifies the line.
// The state is owned by a single switcher and is not safe for concurrent use.
package session

// DefaultHistoryDepth is the number of saved runs kept when none is given.
const DefaultHistoryDepth = 1

// Run is a half-open character range [Start, End) typed on Row.
type Run struct {
	Start int
	End   int
	Row   int
}

// Len returns the number of characters in the run.
func (r Run) Len() int {
	return r.End - r.Start
}

// Contains reports whether col lies in (Start, End] on row, which is where a
// cursor must be for the run to end at or after it.
func (r Run) Contains(row, col int) bool {
	return row == r.Row && r.Start < col && col <= r.End
}

// State is the insertion-run memory of one switcher.
type State struct {
	run     Run
	active  bool
	history []Run
	depth   int
}

// New creates a state keeping at most depth saved runs. A depth below one
// uses DefaultHistoryDepth.
func New(depth int) *State {
	if depth < 1 {
		depth = DefaultHistoryDepth
	}
	return &State{depth: depth}
}

// Run returns the current run.
func (s *State) Run() Run {
	return s.run
}

// Active reports whether a run has been started since the state was created.
func (s *State) Active() bool {
	return s.active
}

// Reset starts an empty run at character index at on row.
func (s *State) Reset(at, row int) {
	s.run = Run{Start: at, End: at, Row: row}
	s.active = true
}

// Extend moves the end of the run to character index to on row. The start
// follows when to falls before it so Start <= End always holds.
func (s *State) Extend(to, row int) {
	if !s.active {
		s.Reset(to, row)
		return
	}
	s.run.End = to
	s.run.Row = row
	if to < s.run.Start {
		s.run.Start = to
	}
}

// Restore replaces the current run verbatim.
func (s *State) Restore(r Run) {
	if r.End < r.Start {
		r.Start, r.End = r.End, r.Start
	}
	s.run = r
	s.active = true
}

// PushHistory saves the current run. The oldest entry is dropped once the
// history holds depth runs.
func (s *State) PushHistory() {
	if !s.active {
		return
	}
	if len(s.history) == s.depth {
		copy(s.history, s.history[1:])
		s.history = s.history[:len(s.history)-1]
	}
	s.history = append(s.history, s.run)
}

// PopHistory removes and returns the most recently saved run.
func (s *State) PopHistory() (Run, bool) {
	if len(s.history) == 0 {
		return Run{}, false
	}
	last := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	return last, true
}

// HistoryLen returns the number of saved runs.
func (s *State) HistoryLen() int {
	return len(s.history)
}

// Depth returns the history bound.
func (s *State) Depth() int {
	return s.depth
}

// SetDepth changes the history bound, discarding the oldest runs that no
// longer fit.
func (s *State) SetDepth(depth int) {
	if depth < 1 {
		depth = DefaultHistoryDepth
	}
	s.depth = depth
	if over := len(s.history) - depth; over > 0 {
		s.history = append(s.history[:0], s.history[over:]...)
	}
}
