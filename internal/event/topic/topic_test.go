package topic

import "testing"

func TestTopic_Segments(t *testing.T) {
	tests := []struct {
		topic    Topic
		expected []string
	}{
		{Topic("editor.text.changed"), []string{"editor", "text", "changed"}},
		{Topic("layout.toggled"), []string{"layout", "toggled"}},
		{Topic("single"), []string{"single"}},
		{Topic(""), nil},
	}

	for _, tt := range tests {
		t.Run(tt.topic.String(), func(t *testing.T) {
			got := tt.topic.Segments()
			if len(got) != len(tt.expected) {
				t.Fatalf("Segments() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("Segments()[%d] = %v, want %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestTopic_ParentBase(t *testing.T) {
	tests := []struct {
		topic  Topic
		parent Topic
		base   string
	}{
		{"editor.text.changed", "editor.text", "changed"},
		{"layout.toggled", "layout", "toggled"},
		{"single", "", "single"},
	}

	for _, tt := range tests {
		if got := tt.topic.Parent(); got != tt.parent {
			t.Errorf("%q.Parent() = %q, want %q", tt.topic, got, tt.parent)
		}
		if got := tt.topic.Base(); got != tt.base {
			t.Errorf("%q.Base() = %q, want %q", tt.topic, got, tt.base)
		}
	}
}

func TestTopic_IsValid(t *testing.T) {
	tests := []struct {
		topic Topic
		valid bool
	}{
		{"editor.insert.entered", true},
		{"layout", true},
		{"", false},
		{".layout", false},
		{"layout.", false},
		{"layout..toggled", false},
	}

	for _, tt := range tests {
		if got := tt.topic.IsValid(); got != tt.valid {
			t.Errorf("%q.IsValid() = %v, want %v", tt.topic, got, tt.valid)
		}
	}
}

func TestTopic_Matches(t *testing.T) {
	tests := []struct {
		topic   Topic
		pattern Topic
		matches bool
	}{
		{"editor.text.changed", "editor.text.changed", true},
		{"editor.text.changed", "editor.*.changed", true},
		{"editor.insert.entered", "editor.*.changed", false},
		{"editor.text.changed", "editor.**", true},
		{"editor", "editor.**", true},
		{"layout.toggled", "editor.**", false},
		{"layout.toggled", "**", true},
		{"editor.text.changed", "editor.*", false},
		{"editor.text.changed", "**.changed", true},
		{"layout", "layout.toggled", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.topic)+"~"+string(tt.pattern), func(t *testing.T) {
			if got := tt.topic.Matches(tt.pattern); got != tt.matches {
				t.Errorf("Matches() = %v, want %v", got, tt.matches)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	if got := Join("layout", "toggled"); got != "layout.toggled" {
		t.Errorf("Join() = %q", got)
	}
	if !Topic("editor.*").IsWildcard() || Topic("editor.text").IsWildcard() {
		t.Error("unexpected IsWildcard")
	}
}
