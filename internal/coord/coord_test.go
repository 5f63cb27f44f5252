package coord

import (
	"testing"
	"unicode/utf8"
)

func TestCharIndexUTF8(t *testing.T) {
	line := "a№бc" // 1 + 3 + 2 + 1 bytes

	tests := []struct {
		off  int
		want int
	}{
		{0, 0},
		{1, 1},
		{2, 1}, // inside №
		{3, 1},
		{4, 2},
		{5, 2}, // inside б
		{6, 3},
		{7, 4},
	}

	for _, tt := range tests {
		if got := UTF8.CharIndex(line, tt.off); got != tt.want {
			t.Errorf("CharIndex(%d) = %d, want %d", tt.off, got, tt.want)
		}
	}
}

func TestOffsetUTF8(t *testing.T) {
	line := "a№бc"
	want := []int{0, 1, 4, 6, 7}
	for idx, w := range want {
		if got := UTF8.Offset(line, idx); got != w {
			t.Errorf("Offset(%d) = %d, want %d", idx, got, w)
		}
	}
}

func TestUTF16(t *testing.T) {
	line := "x😀№y" // 1 + 2 + 1 + 1 code units

	if got := UTF16.Len(line); got != 5 {
		t.Fatalf("Len = %d, want 5", got)
	}
	if got := UTF16.Offset(line, 2); got != 3 {
		t.Errorf("Offset(2) = %d, want 3", got)
	}
	if got := UTF16.CharIndex(line, 2); got != 1 {
		t.Errorf("CharIndex(2) = %d, want 1 (inside surrogate pair)", got)
	}
	if got := UTF16.CharIndex(line, 4); got != 3 {
		t.Errorf("CharIndex(4) = %d, want 3", got)
	}
}

func TestRunesEncoding(t *testing.T) {
	line := "руддщ"
	if Runes.Len(line) != 5 {
		t.Errorf("Len = %d, want 5", Runes.Len(line))
	}
	for k := 0; k <= 5; k++ {
		if Runes.Offset(line, k) != k || Runes.CharIndex(line, k) != k {
			t.Errorf("rune offsets should equal indices at %d", k)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	lines := []string{
		"",
		"hello",
		"руддщ",
		"  №",
		"Мама мыла раму \\куа",
		"mixed ёЁ № # 😀 é",
	}

	for _, enc := range []Encoding{UTF8, UTF16, Runes} {
		for _, line := range lines {
			n := utf8.RuneCountInString(line)
			for k := 0; k <= n; k++ {
				if got := enc.CharIndex(line, enc.Offset(line, k)); got != k {
					t.Errorf("%s %q: round trip of %d gave %d", enc, line, k, got)
				}
			}
			if enc.Offset(line, n) != enc.Len(line) {
				t.Errorf("%s %q: offset of end should equal Len", enc, line)
			}
		}
	}
}

func TestOutOfRangePanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"offset past end", func() { UTF8.CharIndex("ab", 3) }},
		{"negative offset", func() { UTF8.CharIndex("ab", -1) }},
		{"index past end", func() { UTF8.Offset("ab", 3) }},
		{"negative index", func() { UTF16.Offset("ab", -1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}

func TestClamp(t *testing.T) {
	line := "№№"
	if got := UTF8.Clamp(line, -4); got != 0 {
		t.Errorf("Clamp(-4) = %d", got)
	}
	if got := UTF8.Clamp(line, 100); got != 6 {
		t.Errorf("Clamp(100) = %d", got)
	}
	if got := UTF8.Clamp(line, 3); got != 3 {
		t.Errorf("Clamp(3) = %d", got)
	}
}

func TestParseEncoding(t *testing.T) {
	for in, want := range map[string]Encoding{"utf8": UTF8, "UTF-16": UTF16, "runes": Runes, "": UTF8} {
		got, err := ParseEncoding(in)
		if err != nil || got != want {
			t.Errorf("ParseEncoding(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseEncoding("latin1"); err == nil {
		t.Error("expected error for unknown encoding")
	}
}

func TestClusterEnd(t *testing.T) {
	tests := []struct {
		name string
		line string
		idx  int
		want int
	}{
		{"plain", "hellopal", 4, 5},
		{"last char", "hello", 4, 5},
		{"end of line", "hello", 5, 5},
		{"empty line", "", 0, 0},
		{"combining mark", "eи\u0306x", 1, 3},
		{"cyrillic", "руддщ", 2, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClusterEnd(tt.line, tt.idx); got != tt.want {
				t.Errorf("ClusterEnd(%q, %d) = %d, want %d", tt.line, tt.idx, got, tt.want)
			}
		})
	}
}
