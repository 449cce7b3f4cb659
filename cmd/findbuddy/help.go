package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

func printHelp(w io.Writer) {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fb923c")).
		Bold(true).
		Render("F I N D B U D D Y")

	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Find people to do things with.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	commands := []struct{ cmd, desc string }{
		{"findbuddy", "Open the dashboard (interactive TUI)"},
		{"findbuddy whoami", "Show the logged in account"},
		{"findbuddy logout", "Clear your session"},
		{"findbuddy dev-server", "Run the local development backend"},
		{"findbuddy --version", "Show version"},
		{"findbuddy help", "You are here"},
	}

	fmt.Fprintf(w, "\n  %s\n\n  %s\n\n  Commands:\n", title, tagline)
	for _, c := range commands {
		fmt.Fprintf(w, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-22s", c.cmd)), descStyle.Render(c.desc))
	}

	envStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	fmt.Fprintf(w, "\n  %s\n\n", envStyle.Render("Settings come from FINDBUDDY_* variables, e.g. FINDBUDDY_API_URL."))
}
