package tui

import (
	"fmt"
	"strings"
)

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("basket"))
	b.WriteString("\n\n")

	if m.state == stateAdding && m.addForm != nil {
		b.WriteString(m.addForm.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render(dimStyle.Render("enter next field " + iconDot + " esc cancel")))
		return b.String()
	}

	if m.state == stateConfirming {
		b.WriteString(m.modal.View(m.width, max(m.height-2, 0)))
		return b.String()
	}

	if len(m.items) == 0 {
		b.WriteString(emptyStyle.Render("cart is empty, press a to add an item"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.table.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.messageLine())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.ShortHelpView(m.handler.KeyBindings())))

	return b.String()
}

func (m Model) statusLine() string {
	totals := m.service.Totals()
	status := m.service.Status()

	parts := []string{
		fmt.Sprintf("%d lines", totals.Lines),
		fmt.Sprintf("%d items", totals.Items),
		"total " + m.cfg.Currency + totals.Total.String(),
	}

	history := dimStyle.Render(fmt.Sprintf("undo %d %s redo %d", status.UndoDepth-1, iconDot, status.RedoDepth))
	if status.Evicted > 0 {
		history += dimStyle.Render(" "+iconDot+" ") + warnStyle.Render(fmt.Sprintf("%d dropped", status.Evicted))
	}

	return statusStyle.Render(strings.Join(parts, " "+iconDot+" ")) + "   " + history
}

func (m Model) messageLine() string {
	switch {
	case m.err != nil:
		return errorStyle.Render(m.err.Error())
	case m.message != "":
		return successStyle.Render(m.message)
	default:
		return ""
	}
}
