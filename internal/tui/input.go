package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 2000

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case "space":
		key = " "
	}
	if utf8.RuneCountInString(key) == 1 {
		if utf8.RuneCountInString(text) >= maxInputLen {
			return text
		}
		return text + key
	}
	return text
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// formField is one labelled text input of a form.
type formField struct {
	label  string
	hint   string
	value  string
	secret bool
	// choices turns the field into a selector cycled with left/right.
	choices []string
}

// cycle moves a choice field by delta, wrapping around.
func (f *formField) cycle(delta int) {
	if len(f.choices) == 0 {
		return
	}
	idx := 0
	for i, c := range f.choices {
		if c == f.value {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(f.choices)) % len(f.choices)
	f.value = f.choices[idx]
}

// renderForm renders fields one per line with a cursor on the focused one.
func renderForm(fields []formField, focus int) string {
	width := 0
	for _, f := range fields {
		width = max(width, utf8.RuneCountInString(f.label))
	}

	var b strings.Builder
	for i, f := range fields {
		cursor := " "
		style := metaStyle
		if i == focus {
			cursor = accentStyle.Render(">")
			style = selectedStyle
		}
		label := style.Render(fmt.Sprintf("%-*s", width, f.label))

		value := f.value
		if f.secret {
			value = strings.Repeat("*", utf8.RuneCountInString(value))
		}
		switch {
		case len(f.choices) > 0:
			shown := value
			if shown == "" {
				shown = "(none)"
			}
			value = normalStyle.Render(shown) + dimStyle.Render("  (←/→)")
		case i == focus:
			value += "█"
		case value == "" && f.hint != "":
			value = inputPlaceholderStyle.Render(f.hint)
		}
		fmt.Fprintf(&b, "%s %s  %s\n", cursor, label, value)
	}
	return b.String()
}

// editField applies a key press to a form field.
func editField(f *formField, key string) {
	if len(f.choices) > 0 {
		switch key {
		case "left":
			f.cycle(-1)
		case "right":
			f.cycle(1)
		}
		return
	}
	f.value = editRune(f.value, key)
}
