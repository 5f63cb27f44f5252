package switcher

import (
	"fmt"
	"strings"

	"github.com/dshills/layoutswitch/internal/coord"
	"github.com/dshills/layoutswitch/internal/event"
	"github.com/dshills/layoutswitch/internal/layout"
	"github.com/dshills/layoutswitch/internal/logging"
	"github.com/dshills/layoutswitch/internal/span"
)

// VisualPolicy selects the direction of a visual-selection rewrite.
type VisualPolicy int

const (
	// PolicyDetect picks the direction from the script of the selected text,
	// falling back to the layout flag on a tie.
	PolicyDetect VisualPolicy = iota
	// PolicyFlag always uses the layout flag.
	PolicyFlag
)

func (p VisualPolicy) String() string {
	if p == PolicyFlag {
		return "flag"
	}
	return "detect"
}

// ParseVisualPolicy parses "detect" or "flag".
func ParseVisualPolicy(s string) (VisualPolicy, error) {
	switch strings.ToLower(s) {
	case "detect", "":
		return PolicyDetect, nil
	case "flag":
		return PolicyFlag, nil
	}
	return 0, fmt.Errorf("unknown visual policy %q", s)
}

// Strategy selects how a last-input rewrite is written back to the host.
type Strategy int

const (
	// StrategySplice replaces the whole line and moves the cursor.
	StrategySplice Strategy = iota
	// StrategyRetype deletes the span with backspaces and types the
	// replacement through Retyper.
	StrategyRetype
)

func (s Strategy) String() string {
	if s == StrategyRetype {
		return "retype"
	}
	return "splice"
}

// ParseStrategy parses "splice" or "retype".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(s) {
	case "splice", "":
		return StrategySplice, nil
	case "retype":
		return StrategyRetype, nil
	}
	return 0, fmt.Errorf("unknown strategy %q", s)
}

// Options configures a Switcher. The zero value is usable.
type Options struct {
	// Table is the layout table. Defaults to layout.Default().
	Table *layout.Table

	// Encoding is the host's column encoding. Defaults to UTF-8.
	Encoding coord.Encoding

	WordBoundary span.WordBoundary
	VisualPolicy VisualPolicy
	Strategy     Strategy

	// HistoryDepth bounds the saved-run stack. Values below 1 mean 1.
	HistoryDepth int

	// Logger receives debug traces. Defaults to a no-op logger.
	Logger *logging.Logger

	// Bus, when set, receives layout.toggled and layout.transliterated.
	Bus *event.Bus
}

func (o Options) withDefaults() Options {
	if o.Table == nil {
		o.Table = layout.Default()
	}
	if o.HistoryDepth < 1 {
		o.HistoryDepth = 1
	}
	if o.Logger == nil {
		o.Logger = logging.Nop()
	}
	return o
}
