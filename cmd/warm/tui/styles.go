// Package tui renders the live progress bar shown while warm estimates and
// reads files. It uses Bubble Tea for the event loop, Bubbles for the
// spinner and bar, and Lip Gloss for styling.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#7D56F4")
	successColor = lipgloss.Color("#28A745")
	warningColor = lipgloss.Color("#FFC107")
	mutedColor   = lipgloss.Color("#666666")
)

var (
	prefixStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	mutedTextStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	successTextStyle = lipgloss.NewStyle().
				Foreground(successColor)

	warningTextStyle = lipgloss.NewStyle().
				Foreground(warningColor)
)
