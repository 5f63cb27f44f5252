package switcher

import (
	"context"
	"errors"
	"testing"

	"github.com/dshills/layoutswitch/internal/coord"
	"github.com/dshills/layoutswitch/internal/event"
	"github.com/dshills/layoutswitch/internal/layout"
	"github.com/dshills/layoutswitch/internal/span"
)

// fakeHost is a single-purpose in-memory host. Columns are in enc units.
type fakeHost struct {
	enc    coord.Encoding
	lines  []string
	cursor Position
	flag   layout.Flag

	markStart, markEnd Position
	hasMarks           bool

	setLineErr error
	onChange   func(Position)
}

func newFakeHost(enc coord.Encoding, lines ...string) *fakeHost {
	if len(lines) == 0 {
		lines = []string{""}
	}
	return &fakeHost{enc: enc, lines: lines}
}

func (h *fakeHost) Line(row int) (string, error) {
	if row < 0 || row >= len(h.lines) {
		return "", errors.New("no such row")
	}
	return h.lines[row], nil
}

func (h *fakeHost) Cursor() Position { return h.cursor }

func (h *fakeHost) SetLine(row int, text string) error {
	if h.setLineErr != nil {
		return h.setLineErr
	}
	h.lines[row] = text
	h.changed()
	return nil
}

func (h *fakeHost) SetCursor(pos Position) error {
	h.cursor = pos
	return nil
}

func (h *fakeHost) SelectionMarks() (Position, Position, bool) {
	return h.markStart, h.markEnd, h.hasMarks
}

func (h *fakeHost) Layout() layout.Flag      { return h.flag }
func (h *fakeHost) SetLayout(f layout.Flag) { h.flag = f }

func (h *fakeHost) changed() {
	if h.onChange != nil {
		h.onChange(h.cursor)
	}
}

// insert types text at the cursor one character at a time.
func (h *fakeHost) insert(text string) {
	for _, r := range text {
		line := h.lines[h.cursor.Row]
		idx := h.enc.CharIndex(line, h.cursor.Col)
		chars := []rune(line)
		chars = append(chars[:idx], append([]rune{r}, chars[idx:]...)...)
		h.lines[h.cursor.Row] = string(chars)
		h.cursor.Col += h.enc.RuneLen(r)
		h.changed()
	}
}

// backspace deletes n characters before the cursor.
func (h *fakeHost) backspace(n int) {
	for ; n > 0; n-- {
		line := h.lines[h.cursor.Row]
		idx := h.enc.CharIndex(line, h.cursor.Col)
		if idx == 0 {
			return
		}
		chars := []rune(line)
		h.cursor.Col -= h.enc.RuneLen(chars[idx-1])
		h.lines[h.cursor.Row] = string(append(chars[:idx-1], chars[idx:]...))
		h.changed()
	}
}

// retypeHost adds the Retyper capability.
type retypeHost struct {
	*fakeHost
	calls int
}

func (h *retypeHost) Retype(backspaces int, text string) error {
	h.calls++
	h.backspace(backspaces)
	h.insert(text)
	return nil
}

func setup(t *testing.T, flag layout.Flag, opts Options) (*fakeHost, *Switcher) {
	t.Helper()
	h := newFakeHost(opts.Encoding)
	h.flag = flag
	sw := New(h, h, opts)
	h.onChange = sw.OnTextChanged
	return h, sw
}

func typeInsert(h *fakeHost, sw *Switcher, text string) {
	sw.OnInsertEnter(h.cursor)
	h.insert(text)
}

func TestMapLastInput(t *testing.T) {
	tests := []struct {
		typed string
		want  string
		flag  layout.Flag
	}{
		{"", "", layout.RU},
		{"", "", layout.EN},
		{"hello", "руддщ", layout.EN},
		{"руддщ", "hello", layout.RU},
		{"Мама мыла раму", "Vfvf vskf hfve", layout.RU},
		{"№", "#", layout.RU},
		{"  №", "  #", layout.RU},
		{"  №", "  №", layout.EN},
	}

	for _, tt := range tests {
		t.Run(tt.typed+"/"+tt.flag.String(), func(t *testing.T) {
			h, sw := setup(t, tt.flag, Options{})
			typeInsert(h, sw, tt.typed)

			if h.cursor.Col != len(tt.typed) {
				t.Fatalf("cursor after typing = %d, want %d", h.cursor.Col, len(tt.typed))
			}

			edit, err := sw.MapLastInput()
			if err != nil {
				t.Fatalf("MapLastInput: %v", err)
			}

			if h.lines[0] != tt.want {
				t.Errorf("line = %q, want %q", h.lines[0], tt.want)
			}
			if h.flag != tt.flag.Toggle() {
				t.Errorf("flag = %s, want %s", h.flag, tt.flag.Toggle())
			}
			if edit.Layout != h.flag {
				t.Errorf("edit layout = %s, host %s", edit.Layout, h.flag)
			}
			if h.cursor.Row != 0 || h.cursor.Col != len(tt.want) {
				t.Errorf("cursor = %+v, want col %d", h.cursor, len(tt.want))
			}
			if edit.Applied != (tt.typed != "") {
				t.Errorf("applied = %v", edit.Applied)
			}
		})
	}
}

func TestMapLastInputWord(t *testing.T) {
	h, sw := setup(t, layout.EN, Options{})
	typeInsert(h, sw, "Quick brown pfqxbr")

	edit, err := sw.MapLastInputWord()
	if err != nil {
		t.Fatal(err)
	}
	if h.lines[0] != "Quick brown зайчик" {
		t.Errorf("line = %q", h.lines[0])
	}
	if edit.Original != "pfqxbr" || edit.Replacement != "зайчик" {
		t.Errorf("unexpected edit %+v", edit)
	}
	if h.cursor.Col != len("Quick brown зайчик") {
		t.Errorf("cursor = %d", h.cursor.Col)
	}
}

func TestMapLastInputWordTwiceRestores(t *testing.T) {
	h, sw := setup(t, layout.EN, Options{})
	typeInsert(h, sw, "Something")

	if _, err := sw.MapLastInputWord(); err != nil {
		t.Fatal(err)
	}
	if h.lines[0] != "Ыщьуерштп" {
		t.Fatalf("first call: %q", h.lines[0])
	}
	if _, err := sw.MapLastInputWord(); err != nil {
		t.Fatal(err)
	}
	if h.lines[0] != "Something" {
		t.Errorf("second call: %q", h.lines[0])
	}
	if h.cursor.Col != len("Something") || h.flag != layout.EN {
		t.Errorf("cursor %d flag %s", h.cursor.Col, h.flag)
	}
}

func TestGuardFailureTogglesOnly(t *testing.T) {
	h, sw := setup(t, layout.EN, Options{})
	typeInsert(h, sw, "Something")

	// Leave insert mode and re-enter in the middle of the line.
	h.cursor.Col = 3
	sw.OnInsertEnter(h.cursor)

	edit, err := sw.MapLastInputWord()
	if err != nil {
		t.Fatal(err)
	}
	if edit.Applied {
		t.Error("expected no rewrite")
	}
	if h.lines[0] != "Something" || h.cursor.Col != 3 {
		t.Errorf("host changed: %q at %d", h.lines[0], h.cursor.Col)
	}
	if h.flag != layout.RU {
		t.Error("flag should still be toggled")
	}
}

func TestCursorPastRun(t *testing.T) {
	h, sw := setup(t, layout.EN, Options{})
	h.lines[0] = "Smth"
	sw.OnInsertEnter(h.cursor)
	h.insert("else")
	h.cursor.Col += 2 // moved right without changing text

	if edit, _ := sw.MapLastInputWord(); edit.Applied {
		t.Error("cursor past the run must not rewrite")
	}
	if h.lines[0] != "elseSmth" || h.cursor.Col != 6 {
		t.Errorf("host changed: %q at %d", h.lines[0], h.cursor.Col)
	}
}

func TestMapVisualSelection(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		lo, hi     int // character indices of the marks
		flag       layout.Flag
		want       string
		wantCursor int // character index
	}{
		{"middle of word", "hellopal", 2, 4, layout.EN, "heддщpal", 4},
		{"middle of ru word", "руддщзфд", 2, 4, layout.RU, "руlloзфд", 4},
		{"last word", "руддщ руддщ", 6, 10, layout.RU, "руддщ hello", 10},
		{"detect against flag", "hello", 0, 4, layout.RU, "руддщ", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, sw := setup(t, tt.flag, Options{})
			h.lines[0] = tt.line
			h.hasMarks = true
			h.markStart = Position{Col: coord.UTF8.Offset(tt.line, tt.lo)}
			h.markEnd = Position{Col: coord.UTF8.Offset(tt.line, tt.hi)}

			edit, err := sw.MapVisualSelection()
			if err != nil {
				t.Fatal(err)
			}
			if h.lines[0] != tt.want {
				t.Errorf("line = %q, want %q", h.lines[0], tt.want)
			}
			if want := coord.UTF8.Offset(tt.want, tt.wantCursor); h.cursor.Col != want {
				t.Errorf("cursor = %d, want %d", h.cursor.Col, want)
			}
			if h.flag != tt.flag || edit.Layout != tt.flag {
				t.Error("visual mapping must not toggle the flag")
			}
		})
	}
}

func TestMapVisualSelectionFlagPolicy(t *testing.T) {
	h, sw := setup(t, layout.RU, Options{VisualPolicy: PolicyFlag})
	h.lines[0] = "hello"
	h.hasMarks = true
	h.markEnd = Position{Col: 4}

	if _, err := sw.MapVisualSelection(); err != nil {
		t.Fatal(err)
	}
	if h.lines[0] != "hello" {
		t.Errorf("RU flag maps RU to EN, latin is untouched: %q", h.lines[0])
	}
}

func TestMapVisualSelectionErrors(t *testing.T) {
	h, sw := setup(t, layout.EN, Options{})
	if _, err := sw.MapVisualSelection(); !errors.Is(err, ErrNoSelection) {
		t.Errorf("expected ErrNoSelection, got %v", err)
	}

	h.lines = []string{"ab", "cd"}
	h.hasMarks = true
	h.markEnd = Position{Row: 1, Col: 1}
	if _, err := sw.MapVisualSelection(); !errors.Is(err, ErrMultilineSelection) {
		t.Errorf("expected ErrMultilineSelection, got %v", err)
	}
	if h.lines[0] != "ab" || h.lines[1] != "cd" {
		t.Error("nothing should be rewritten")
	}
}

func TestUTF16Host(t *testing.T) {
	h, sw := setup(t, layout.RU, Options{Encoding: coord.UTF16})
	typeInsert(h, sw, "😀 №")

	if h.cursor.Col != 4 {
		t.Fatalf("UTF-16 cursor = %d, want 4", h.cursor.Col)
	}
	if _, err := sw.MapLastInputWord(); err != nil {
		t.Fatal(err)
	}
	if h.lines[0] != "😀 #" || h.cursor.Col != 4 {
		t.Errorf("got %q at %d", h.lines[0], h.cursor.Col)
	}
}

func TestOutOfRangeCursorIsClamped(t *testing.T) {
	h, sw := setup(t, layout.EN, Options{})
	typeInsert(h, sw, "ab")
	h.cursor.Col = 40

	if _, err := sw.MapLastInput(); err != nil {
		t.Fatal(err)
	}
	if h.lines[0] != "фи" {
		t.Errorf("line = %q", h.lines[0])
	}
}

func TestRetypeStrategy(t *testing.T) {
	base := newFakeHost(coord.UTF8)
	h := &retypeHost{fakeHost: base}
	sw := New(h, base, Options{Strategy: StrategyRetype})
	base.onChange = sw.OnTextChanged

	typeInsert(base, sw, "ok ghbdtn")
	if _, err := sw.MapLastInputWord(); err != nil {
		t.Fatal(err)
	}
	if h.calls != 1 {
		t.Errorf("Retype called %d times", h.calls)
	}
	if base.lines[0] != "ok привет" || base.cursor.Col != len("ok привет") {
		t.Errorf("got %q at %d", base.lines[0], base.cursor.Col)
	}

	// The retyped characters must not have reset the run.
	if run := sw.Run(); run.Start != 0 || run.End != 9 {
		t.Errorf("run disturbed by own edit: %+v", run)
	}
	if _, err := sw.MapLastInputWord(); err != nil {
		t.Fatal(err)
	}
	if base.lines[0] != "ok ghbdtn" {
		t.Errorf("second call: %q", base.lines[0])
	}
}

func TestRetypeUnsupported(t *testing.T) {
	h, sw := setup(t, layout.EN, Options{Strategy: StrategyRetype})
	typeInsert(h, sw, "a")
	if _, err := sw.MapLastInput(); !errors.Is(err, ErrRetypeUnsupported) {
		t.Errorf("expected ErrRetypeUnsupported, got %v", err)
	}
}

func TestHostWriteErrorIsWrapped(t *testing.T) {
	h, sw := setup(t, layout.EN, Options{})
	typeInsert(h, sw, "a")
	boom := errors.New("read-only buffer")
	h.setLineErr = boom

	if _, err := sw.MapLastInput(); !errors.Is(err, boom) {
		t.Errorf("expected wrapped host error, got %v", err)
	}
	if h.flag != layout.EN {
		t.Error("flag must not toggle when the write failed")
	}
}

func TestAttachToBus(t *testing.T) {
	bus := event.NewBus()
	h := newFakeHost(coord.UTF8)
	sw := New(h, h, Options{})
	if err := sw.Attach(bus); err != nil {
		t.Fatal(err)
	}

	var toggled []string
	var rewritten []event.Transliterated
	_, _ = bus.Subscribe(event.TopicLayoutToggled, func(_ context.Context, ev event.Event) error {
		toggled = append(toggled, ev.Payload.(event.Toggled).Layout)
		return nil
	})
	_, _ = bus.Subscribe(event.TopicTransliterated, func(_ context.Context, ev event.Event) error {
		rewritten = append(rewritten, ev.Payload.(event.Transliterated))
		return nil
	})

	ctx := context.Background()
	h.onChange = func(p Position) {
		_ = bus.Emit(ctx, event.TopicTextChanged, event.Position{Row: p.Row, Col: p.Col}, "test")
	}
	_ = bus.Emit(ctx, event.TopicInsertEntered, event.Position{}, "test")
	h.insert("ghbdtn")

	if _, err := sw.MapLastInput(); err != nil {
		t.Fatal(err)
	}
	if h.lines[0] != "привет" {
		t.Errorf("line = %q", h.lines[0])
	}
	if len(toggled) != 1 || toggled[0] != "ru" {
		t.Errorf("toggled = %v", toggled)
	}
	if len(rewritten) != 1 || rewritten[0].Replacement != "привет" || rewritten[0].Direction != "en-ru" {
		t.Errorf("rewritten = %+v", rewritten)
	}

	if err := sw.Detach(); err != nil {
		t.Fatal(err)
	}
	if bus.Len() != 2 {
		t.Errorf("expected only the test subscriptions to remain, have %d", bus.Len())
	}
}

func TestReconfigure(t *testing.T) {
	h, sw := setup(t, layout.RU, Options{})
	typeInsert(h, sw, "Мама мыла раму \\куа")

	sw.Reconfigure(Options{WordBoundary: span.BoundaryAlpha, HistoryDepth: 3})
	if _, err := sw.MapLastInputWord(); err != nil {
		t.Fatal(err)
	}
	if h.lines[0] != "Мама мыла раму \\ref" {
		t.Errorf("alpha boundary should stop at the backslash: %q", h.lines[0])
	}
	if sw.Options().HistoryDepth != 3 {
		t.Error("history depth not applied")
	}
}

func TestParseOptions(t *testing.T) {
	if p, err := ParseVisualPolicy("flag"); err != nil || p != PolicyFlag {
		t.Errorf("ParseVisualPolicy(flag) = %v, %v", p, err)
	}
	if _, err := ParseVisualPolicy("auto"); err == nil {
		t.Error("expected error")
	}
	if s, err := ParseStrategy("retype"); err != nil || s != StrategyRetype {
		t.Errorf("ParseStrategy(retype) = %v, %v", s, err)
	}
	if _, err := ParseStrategy("paste"); err == nil {
		t.Error("expected error")
	}
}
