package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/naveenspark/findbuddy/pkg/domain"
)

// formatTime renders a relative timestamp for comments.
func formatTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// formatWhen renders an activity date in loc, e.g. "Sat Jun 7, 10:00".
func formatWhen(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format("Mon Jan 2, 15:04")
}

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// oneLine collapses newlines and runs of whitespace.
func oneLine(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// capacityLabel renders "3/6 going" or "3 going" for uncapped activities.
func capacityLabel(a domain.Activity) string {
	if a.MaxParticipants == nil {
		return fmt.Sprintf("%d going", len(a.Participants))
	}
	label := fmt.Sprintf("%d/%d going", len(a.Participants), *a.MaxParticipants)
	if left := a.SpotsLeft(); left > 0 {
		return fmt.Sprintf("%s, %d left", label, left)
	}
	return label + ", full"
}

// shareLine is the text copied to the clipboard for an activity.
func shareLine(a domain.Activity, loc *time.Location) string {
	return fmt.Sprintf("Join me for %q on %s at %s, %s (FindBuddy)",
		a.Title, formatWhen(a.Date, loc), a.Location, a.City)
}
