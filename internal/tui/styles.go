// Package tui implements the Bubble Tea TUI for basket.
package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/basket/internal/styles"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.ColorBlue).
			PaddingLeft(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(styles.ColorWhite).
			PaddingLeft(1)

	dimStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray)

	successStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGreen).
			PaddingLeft(1)

	warnStyle = lipgloss.NewStyle().
			Foreground(styles.ColorYellow)

	errorStyle = lipgloss.NewStyle().
			Foreground(styles.ColorRed).
			PaddingLeft(1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray).
			Italic(true).
			PaddingLeft(2)

	helpStyle = lipgloss.NewStyle().
			PaddingLeft(1)
)

var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.ColorBlue).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.ColorWhite)

	modalHelpStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray).
			MarginTop(1)

	modalButtonStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(lipgloss.Color("#3b4261")).
				Foreground(lipgloss.Color("#a9b1d6"))

	modalButtonSelectedStyle = lipgloss.NewStyle().
					Padding(0, 1).
					Background(styles.ColorBlue).
					Foreground(lipgloss.Color("#1a1b26")).
					Bold(true)
)

// Icons and symbols.
const (
	iconDot = "•" // Unicode bullet separator
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.ColorGray).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.ColorBlue).
		Bold(true)
	return s
}
