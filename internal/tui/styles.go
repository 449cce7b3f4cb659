package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the header logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "FINDBUDDY" with two pulses of light that start
// at either end and meet in the middle, then drift apart again.
func renderShimmerLogo(frame int) string {
	const text = "FINDBUDDY"
	const cycle = 48.0
	n := len(text)
	mid := float64(n-1) / 2

	// meet runs 0 -> 1 -> 0 over one cycle.
	meet := 1 - math.Abs(math.Mod(float64(frame), cycle)/cycle*2-1)

	var b strings.Builder
	for i := 0; i < n; i++ {
		// Both pulses sit the same distance from the centre.
		pulse := mid * (1 - meet)
		d := math.Abs(math.Abs(float64(i)-mid) - pulse)
		glow := math.Exp(-d * d / 2.5)
		level := 0.25 + 0.75*glow

		r := clampByte(90 + level*(251-90))
		g := clampByte(52 + level*(146-52))
		bl := clampByte(16 + level*(60-16))

		letter := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		b.WriteString(letter.Render(string(text[i])))
		if i == 3 {
			b.WriteString("  ")
		} else if i < n-1 {
			b.WriteString(" ")
		}
	}
	return b.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c4d0"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505868"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#fb923c"))

	// Status line
	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	// Offer badge, e.g. "25% OFF"
	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111118")).
			Background(lipgloss.Color("#facc15")).
			Bold(true).
			Padding(0, 1)

	likedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f87171"))

	sectionHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#606878"))

	commentTextStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a0a4b0"))

	commentTimeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#505868"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#fb923c")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4a"))

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#1e1e2a"))

	categoryColors = map[string]lipgloss.Color{
		"Professional": lipgloss.Color("#60a0e0"),
		"Business":     lipgloss.Color("#d4a844"),
		"Technology":   lipgloss.Color("#3ecce4"),
		"Education":    lipgloss.Color("#c084e0"),
		"Leadership":   lipgloss.Color("#b080d0"),
		"Sales":        lipgloss.Color("#f0944a"),
		"Design":       lipgloss.Color("#e06090"),
		"Finance":      lipgloss.Color("#4ade80"),
		// Categories used by existing activities
		"Sports":       lipgloss.Color("#f0944a"),
		"Festival":     lipgloss.Color("#facc15"),
		"Food & Drink": lipgloss.Color("#e06060"),
		"Social":       lipgloss.Color("#c084e0"),
		"Wellness":     lipgloss.Color("#4ade80"),
		"Photography":  lipgloss.Color("#60a0e0"),
	}

	businessTypeColors = map[string]lipgloss.Color{
		"restaurant":    lipgloss.Color("#e06060"),
		"entertainment": lipgloss.Color("#c084e0"),
		"sports":        lipgloss.Color("#f0944a"),
		"events":        lipgloss.Color("#facc15"),
		"retail":        lipgloss.Color("#3ecce4"),
		"services":      lipgloss.Color("#4ade80"),
	}
)

// CategoryStyle returns a bold style colored for an activity category.
func CategoryStyle(category string) lipgloss.Style {
	if c, ok := categoryColors[category]; ok {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#606878")).Bold(true)
}

// BusinessTypeStyle returns a style colored for a merchant business type.
func BusinessTypeStyle(businessType string) lipgloss.Style {
	if c, ok := businessTypeColors[businessType]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#8890a0"))
}

// statusLine renders a transient message under the body.
func statusLine(msg string, isErr bool) string {
	if msg == "" {
		return ""
	}
	if isErr {
		return errorStyle.Render(msg)
	}
	return okStyle.Render(msg)
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins key/label pairs into a help line.
func helpBar(pairs ...string) string {
	parts := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}

// helpView renders the help overlay.
func helpView() string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fb923c")).
		Bold(true).
		Render("F I N D B U D D Y")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Find people to do things with, and the places that reward you for it.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	commands := []struct{ cmd, desc string }{
		{"findbuddy", "Open the dashboard (interactive TUI)"},
		{"findbuddy whoami", "Show the logged in account"},
		{"findbuddy logout", "Clear your session"},
		{"findbuddy dev-server", "Run the local development backend"},
		{"findbuddy version", "Show version"},
	}
	keys := []struct{ key, desc string }{
		{"1-4", "switch dashboard tab"},
		{"f", "cycle location filter"},
		{"enter", "join the selected activity"},
		{"l", "like or unlike"},
		{"c", "open comments"},
		{"y", "copy a share line"},
		{"n", "create an activity"},
		{"L", "log out"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), descStyle.Render(c.desc))
	}
	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Keys"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", k.key)), descStyle.Render(k.desc))
	}
	return b.String()
}
