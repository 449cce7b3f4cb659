package tui

import (
	"strings"
	"testing"
)

func TestEditRune(t *testing.T) {
	tests := []struct {
		name string
		text string
		key  string
		want string
	}{
		{"append letter", "ab", "c", "abc"},
		{"space key", "ab", "space", "ab "},
		{"literal space", "ab", " ", "ab "},
		{"backspace", "abc", "backspace", "ab"},
		{"backspace multibyte", "café", "backspace", "caf"},
		{"backspace empty", "", "backspace", ""},
		{"ignore named key", "ab", "enter", "ab"},
		{"ignore ctrl combo", "ab", "ctrl+a", "ab"},
		{"unicode rune", "", "é", "é"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := editRune(tt.text, tt.key); got != tt.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tt.text, tt.key, got, tt.want)
			}
		})
	}
}

func TestEditRune_MaxLen(t *testing.T) {
	full := strings.Repeat("x", maxInputLen)
	if got := editRune(full, "y"); got != full {
		t.Errorf("input grew past maxInputLen to %d runes", len(got))
	}
}

func TestTruncateToHeight(t *testing.T) {
	tests := []struct {
		s        string
		maxLines int
		want     string
	}{
		{"a\nb\nc\n", 2, "a\nb\n"},
		{"a\nb\n", 5, "a\nb\n"},
		{"a\nb\nc", 0, "a\nb\nc"},
	}
	for _, tt := range tests {
		if got := truncateToHeight(tt.s, tt.maxLines); got != tt.want {
			t.Errorf("truncateToHeight(%q, %d) = %q, want %q", tt.s, tt.maxLines, got, tt.want)
		}
	}
}

func TestFormFieldCycle(t *testing.T) {
	f := formField{label: "kind", choices: []string{"a", "b", "c"}, value: "a"}
	f.cycle(-1)
	if f.value != "c" {
		t.Errorf("cycle(-1) from first = %q, want c", f.value)
	}
	f.cycle(1)
	if f.value != "a" {
		t.Errorf("cycle(1) from last = %q, want a", f.value)
	}

	plain := formField{label: "name", value: "x"}
	plain.cycle(1)
	if plain.value != "x" {
		t.Error("cycle should not touch a text field")
	}
}

func TestEditField(t *testing.T) {
	f := formField{label: "kind", choices: []string{"a", "b"}, value: "a"}
	editField(&f, "z")
	if f.value != "a" {
		t.Errorf("typing into a choice field changed it to %q", f.value)
	}
	editField(&f, "right")
	if f.value != "b" {
		t.Errorf("right = %q, want b", f.value)
	}

	text := formField{label: "name"}
	editField(&text, "h")
	editField(&text, "i")
	if text.value != "hi" {
		t.Errorf("value = %q, want hi", text.value)
	}
}

func TestRenderForm(t *testing.T) {
	fields := []formField{
		{label: "email", value: "ada@example.com"},
		{label: "password", value: "hunter2", secret: true},
		{label: "bio", hint: "optional"},
		{label: "type", choices: []string{"retail"}, value: "retail"},
	}
	out := renderForm(fields, 0)

	if strings.Contains(out, "hunter2") {
		t.Error("secret field rendered in clear text")
	}
	for _, want := range []string{"ada@example.com", "*******", "optional", "retail", "(←/→)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in form:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "\n"); n != len(fields) {
		t.Errorf("form has %d lines, want %d", n, len(fields))
	}
}
