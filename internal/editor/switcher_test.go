package editor_test

import (
	"testing"
	"unicode/utf8"

	"github.com/dshills/layoutswitch/internal/editor"
	"github.com/dshills/layoutswitch/internal/event"
	"github.com/dshills/layoutswitch/internal/input/key"
	"github.com/dshills/layoutswitch/internal/layout"
	"github.com/dshills/layoutswitch/internal/switcher"
)

// session wires an editor and a switcher through an event bus, the way the
// application does.
type session struct {
	t  *testing.T
	ed *editor.Editor
	sw *switcher.Switcher
}

func newSession(t *testing.T, flag layout.Flag, opts switcher.Options) *session {
	t.Helper()
	bus := event.NewBus()
	ed := editor.New(editor.Options{Bus: bus, Layout: flag})
	sw := switcher.New(ed, ed, opts)
	if err := sw.Attach(bus); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	return &session{t: t, ed: ed, sw: sw}
}

func (s *session) feed(seq string) {
	s.t.Helper()
	if err := s.ed.Feed(seq); err != nil {
		s.t.Fatalf("Feed(%q): %v", seq, err)
	}
}

func (s *session) typeText(text string) {
	s.t.Helper()
	if err := s.ed.Type(text); err != nil {
		s.t.Fatalf("Type(%q): %v", text, err)
	}
}

func (s *session) call(op func() (switcher.Edit, error)) {
	s.t.Helper()
	err := s.ed.Execute(func() error {
		_, err := op()
		return err
	})
	if err != nil {
		s.t.Fatalf("command: %v", err)
	}
}

func (s *session) expect(line string, cursorChars int) {
	s.t.Helper()
	lines := s.ed.Lines()
	if len(lines) != 1 {
		s.t.Fatalf("buffer has %d lines", len(lines))
	}
	if lines[0] != line {
		s.t.Errorf("line = %q, want %q", lines[0], line)
	}
	if got, want := s.ed.Cursor(), byteLen(line, cursorChars); got.Row != 0 || got.Col != want {
		s.t.Errorf("cursor = %+v, want col %d", got, want)
	}
}

// byteLen is the UTF-8 length of the first n characters of s.
func byteLen(s string, n int) int {
	i := 0
	for ; n > 0 && i < len(s); n-- {
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

func TestMapLastInputInEditor(t *testing.T) {
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
			s := newSession(t, tt.flag, switcher.Options{})
			s.feed("i")
			s.typeText(tt.typed)
			s.expect(tt.typed, utf8.RuneCountInString(tt.typed))

			s.call(s.sw.MapLastInput)

			s.expect(tt.want, utf8.RuneCountInString(tt.want))
			if s.ed.Layout() != tt.flag.Toggle() {
				t.Errorf("layout = %s, want %s", s.ed.Layout(), tt.flag.Toggle())
			}
		})
	}
}

func TestMapVisualWord(t *testing.T) {
	tests := []struct {
		typed string
		want  string
		flag  layout.Flag
	}{
		{"hello", "руддщ", layout.EN},
		{"руддщ", "hello", layout.RU},
		{"руддщ руддщ", "руддщ hello", layout.RU},
	}

	for _, tt := range tests {
		t.Run(tt.typed, func(t *testing.T) {
			s := newSession(t, tt.flag, switcher.Options{})
			s.feed("i")
			s.typeText(tt.typed)
			s.feed("<Esc>")
			s.expect(tt.typed, utf8.RuneCountInString(tt.typed)-1)

			s.feed("viw<Esc>")
			s.call(s.sw.MapVisualSelection)

			s.expect(tt.want, utf8.RuneCountInString(tt.want)-1)
			if s.ed.Layout() != tt.flag {
				t.Error("visual mapping must not toggle the layout")
			}
		})
	}
}

func TestMapVisualMiddleOfWord(t *testing.T) {
	tests := []struct {
		typed string
		want  string
		flag  layout.Flag
		move  string
		targ  int
	}{
		{"hellopal", "heддщpal", layout.EN, "02lv2l<esc>", 4},
		{"руддщзфд", "руlloзфд", layout.RU, "02lv2l<esc>", 4},
	}

	for _, tt := range tests {
		t.Run(tt.typed, func(t *testing.T) {
			s := newSession(t, tt.flag, switcher.Options{})
			s.feed("i" + tt.typed + "<Esc>")
			s.feed(tt.move)
			s.call(s.sw.MapVisualSelection)
			s.expect(tt.want, tt.targ)
		})
	}
}

func TestMapLastInputWordInEditor(t *testing.T) {
	tests := []struct {
		name  string
		typed string
		want  string
		flag  layout.Flag
		move  string
		targ  int
	}{
		{"backslash command", "Научный текст \\куа", "Научный текст \\ref", layout.RU, "", 18},
		{"cursor moved left", "Мама мыла раму \\куа", "Мама мыла раму \\reа", layout.RU, "<Left>", 18},
		{"last word", "Quick brown pfqxbr", "Quick brown зайчик", layout.EN, "", 18},
		{"word before cursor", "Quick cbybq bunny", "Quick синий bunny", layout.EN, "<C-Left><Left>", 11},
		{"re-entered mid-line", "Something", "Something", layout.EN, "<esc>0lla", 3},
		{"cursor past run", "Smth", "elseSmth", layout.EN, "<esc>Ielse<Right><Right>", 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, tt.flag, switcher.Options{})
			s.feed("i")
			s.typeText(tt.typed)
			s.feed(tt.move)

			s.call(s.sw.MapLastInputWord)
			s.expect(tt.want, tt.targ)
		})
	}
}

func TestMapLastInputWordTwice(t *testing.T) {
	s := newSession(t, layout.EN, switcher.Options{})
	s.feed("i")
	s.typeText("Something")

	s.call(s.sw.MapLastInputWord)
	s.expect("Ыщьуерштп", 9)

	s.call(s.sw.MapLastInputWord)
	s.expect("Something", 9)
	if s.ed.Layout() != layout.EN {
		t.Errorf("layout = %s", s.ed.Layout())
	}
}

func TestKeyBindingsWithRetype(t *testing.T) {
	s := newSession(t, layout.EN, switcher.Options{Strategy: switcher.StrategyRetype})
	s.ed.Bind(editor.ModeInsert, key.MustParse("<C-l>"), func() error {
		_, err := s.sw.MapLastInputWord()
		return err
	})

	s.feed("iok ghbdtn<C-l>")
	s.expect("ok привет", 9)

	// The restored run lets a second press map the word back.
	s.feed("<C-l>")
	s.expect("ok ghbdtn", 9)
}
