package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Modal is a yes/no confirmation dialog.
type Modal struct {
	title           string
	message         string
	confirmSelected bool
}

// NewModal creates a modal with the confirm button selected.
func NewModal(title, message string) Modal {
	return Modal{
		title:           title,
		message:         message,
		confirmSelected: true,
	}
}

// ToggleSelection switches the selected button.
func (m *Modal) ToggleSelection() {
	m.confirmSelected = !m.confirmSelected
}

// ConfirmSelected returns true if the confirm button is selected.
func (m Modal) ConfirmSelected() bool {
	return m.confirmSelected
}

// View renders the dialog centered in a width x height area. A zero size
// renders the dialog alone.
func (m Modal) View(width, height int) string {
	confirmBtn := modalButtonStyle.Render("Confirm")
	cancelBtn := modalButtonStyle.Render("Cancel")
	if m.confirmSelected {
		confirmBtn = modalButtonSelectedStyle.Render("Confirm")
	} else {
		cancelBtn = modalButtonSelectedStyle.Render("Cancel")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, confirmBtn, "  ", cancelBtn)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		modalTitleStyle.Render(m.title),
		"",
		m.message,
		lipgloss.NewStyle().MarginTop(1).Render(buttons),
		modalHelpStyle.Render("←/→ select  enter confirm  esc cancel"),
	)

	box := modalStyle.Render(content)
	if width == 0 || height == 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
