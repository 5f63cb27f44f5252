package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/layoutswitch/internal/editor"
	"github.com/dshills/layoutswitch/internal/event"
	"github.com/dshills/layoutswitch/internal/input/key"
	"github.com/dshills/layoutswitch/internal/switcher"
)

func newTestUI(t *testing.T, lines ...string) (*UI, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(30, 4)

	bus := event.NewBus()
	ed := editor.New(editor.Options{Bus: bus}, lines...)
	sw := switcher.New(ed, ed, switcher.Options{})
	if err := sw.Attach(bus); err != nil {
		t.Fatal(err)
	}
	cmd := func() error {
		_, err := sw.MapLastInputWord()
		return err
	}
	ed.Bind(editor.ModeInsert, key.MustParse("<C-l>"), cmd)

	u, err := New(Options{Screen: screen, Editor: ed, Bus: bus})
	if err != nil {
		t.Fatal(err)
	}
	return u, screen
}

func runeKey(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func (u *UI) typeKeys(t *testing.T, text string) {
	t.Helper()
	for _, r := range text {
		if _, err := u.handle(runeKey(r)); err != nil {
			t.Fatalf("handle(%q): %v", r, err)
		}
	}
}

// rowText reads screen row y.
func rowText(s tcell.SimulationScreen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		mainc, combc, _, width := s.GetContent(x, y) //nolint:staticcheck // GetContent is the simulation read API
		b.WriteRune(mainc)
		for _, c := range combc {
			b.WriteRune(c)
		}
		if width > 1 {
			x += width - 1
		}
	}
	return b.String()
}

func TestConvertKey(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
		ok   bool
	}{
		{"rune", runeKey('a'), "a", true},
		{"cyrillic", runeKey('ж'), "ж", true},
		{"ctrl letter", tcell.NewEventKey(tcell.KeyCtrlL, 0, tcell.ModCtrl), "<C-l>", true},
		{"ctrl rune", tcell.NewEventKey(tcell.KeyRune, 'G', tcell.ModCtrl), "<C-g>", true},
		{"ctrl caret", tcell.NewEventKey(tcell.KeyCtrlCarat, 0, tcell.ModCtrl), "<C-^>", true},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "<Esc>", true},
		{"backspace", tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone), "<BS>", true},
		{"ctrl left", tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModCtrl), "<C-Left>", true},
		{"function key", tcell.NewEventKey(tcell.KeyF1, 0, tcell.ModNone), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := convertKey(tt.ev)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got.VimString() != tt.want {
				t.Errorf("convertKey() = %s, want %s", got.VimString(), tt.want)
			}
		})
	}
}

func TestHandleMapsLastWord(t *testing.T) {
	u, screen := newTestUI(t)

	u.typeKeys(t, "ighbdtn")
	if _, err := u.handle(tcell.NewEventKey(tcell.KeyCtrlL, 0, tcell.ModCtrl)); err != nil {
		t.Fatal(err)
	}

	if got := u.ed.Lines()[0]; got != "привет" {
		t.Fatalf("line = %q", got)
	}
	if !strings.Contains(u.status, "ghbdtn → привет") {
		t.Errorf("status = %q", u.status)
	}

	u.draw()
	if got := rowText(screen, 0); !strings.HasPrefix(got, "привет") {
		t.Errorf("row 0 = %q", got)
	}
	status := rowText(screen, 3)
	if !strings.Contains(status, "INSERT") || !strings.Contains(status, "RU") {
		t.Errorf("status row = %q", status)
	}
	if x, y, visible := screen.GetCursor(); !visible || x != 6 || y != 0 {
		t.Errorf("cursor = %d,%d visible=%v", x, y, visible)
	}
}

func TestDrawWideAndScroll(t *testing.T) {
	u, screen := newTestUI(t, "a", "b", "c", "日本")
	if err := u.ed.Feed("3jl"); err != nil {
		t.Fatal(err)
	}
	u.draw()

	// Three text rows; the cursor row scrolls into view.
	if got := rowText(screen, 2); !strings.HasPrefix(got, "日本") {
		t.Errorf("row 2 = %q", got)
	}
	if x, y, _ := screen.GetCursor(); x != 2 || y != 2 {
		t.Errorf("cursor = %d,%d", x, y)
	}
}

func TestLoopQuitAndPost(t *testing.T) {
	u, screen := newTestUI(t)

	ran := false
	if err := u.Post(func() { ran = true }); err != nil {
		t.Fatal(err)
	}
	for _, ev := range []tcell.Event{
		runeKey('i'), runeKey('x'),
		tcell.NewEventKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl),
	} {
		if err := screen.PostEvent(ev); err != nil {
			t.Fatal(err)
		}
	}

	if err := u.Loop(context.Background()); err != nil {
		t.Fatalf("Loop() = %v", err)
	}
	if !ran {
		t.Error("posted function did not run")
	}
	if got := u.ed.Lines()[0]; got != "x" {
		t.Errorf("line = %q", got)
	}
}

func TestLoopStopsOnCancel(t *testing.T) {
	u, _ := newTestUI(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := u.Loop(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Loop() = %v", err)
	}
}

func TestNewRequiresEditor(t *testing.T) {
	if _, err := New(Options{Screen: tcell.NewSimulationScreen("UTF-8")}); err == nil {
		t.Error("expected an error")
	}
}
