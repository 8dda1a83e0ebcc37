package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/sqlstudio/internal/ui/icons"
)

func (m Model) renderStatusBar() string {
	var parts []string

	// 1. Connection
	if m.driver != nil {
		conn := icons.ForDriver(m.driver.Type()) + " " + limitString(m.serverInfo.Name(), 30)
		if m.database != "" {
			conn += " / " + m.database
		}
		parts = append(parts, ConnectionStyle.Render(conn))
	} else {
		parts = append(parts, ConnectionStyle.Render("NOT CONNECTED"))
	}

	// 2. Focus
	parts = append(parts, lipgloss.NewStyle().
		Foreground(TextSecondary()).
		Background(BgSecondary()).
		Padding(0, 1).
		Render(m.focus.String()))

	// 3. Loading indicator
	if m.busy != "" {
		parts = append(parts, lipgloss.NewStyle().
			Foreground(AccentColor()).
			Background(BgSecondary()).
			Padding(0, 1).
			Render(m.spinner.View()+" "+m.busy))
	}

	// 4. Status message
	if m.statusMsg != "" {
		parts = append(parts, SuccessStyle.Render(icons.IconSuccess+" "+m.statusMsg))
	}

	// 5. Error indicator
	if m.errorMsg != "" {
		parts = append(parts, ErrorStyle.Render(icons.IconError+" "+limitString(m.errorMsg, 60)))
	}

	content := lipgloss.JoinHorizontal(lipgloss.Left, parts...)
	return StatusBarStyle.Width(m.width).MaxHeight(1).Render(content)
}
