// internal/ui/model_render.go
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	serverRows  = 3
	minEditorH  = 6
	gridChromeH = 6 // table borders, header rule and footer
)

// layout holds pane sizes derived from the window
type layout struct {
	sidebarW  int
	mainW     int
	bodyH     int
	serverH   int
	databaseH int
	tablesH   int
	editorH   int
	resultsH  int
}

func (m Model) layout() layout {
	var l layout
	l.sidebarW = max(24, min(40, m.width/4))
	l.mainW = max(20, m.width-l.sidebarW)
	l.bodyH = max(12, m.height-2)

	// Server pane: title, input, saved servers
	l.serverH = 2 + 2 + serverRows
	rest := max(8, l.bodyH-l.serverH)
	l.databaseH = max(4, rest/3)
	l.tablesH = max(5, rest-l.databaseH)

	l.editorH = max(minEditorH, l.bodyH/3)
	l.resultsH = max(gridChromeH+1, l.bodyH-l.editorH)
	return l
}

// resize applies the layout to the sized components
func (m Model) resize() Model {
	if m.width == 0 {
		return m
	}
	l := m.layout()
	inner := l.sidebarW - 2

	m.serverInput.Width = inner - 3
	m.servers = m.servers.SetSize(inner, serverRows)
	m.databases = m.databases.SetSize(inner, l.databaseH-3)
	m.filterInput.Width = inner - 3
	m.tables = m.tables.SetSize(inner, l.tablesH-4)

	m.editor.SetWidth(l.mainW - 2)
	m.editor.SetHeight(l.editorH - 2)

	m.grid = m.grid.
		WithMaxTotalWidth(l.mainW - 2).
		WithPageSize(m.gridPageSize(l))
	m.popup = m.popup.SetScreenSize(m.width, m.height)
	return m
}

func (m Model) gridPageSize(l layout) int {
	rows := l.resultsH - 2 - gridChromeH
	return max(1, min(m.config.PageSize, rows))
}

// View renders the workbench
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	l := m.layout()

	sidebar := lipgloss.JoinVertical(lipgloss.Left,
		m.renderServerPane(l),
		m.pane(m.focus == FocusDatabases, l.sidebarW, l.databaseH, m.databases.View()),
		m.renderTablesPane(l),
	)

	editor := m.highlighter.RenderPreserveANSI(m.editor.View())
	main := lipgloss.JoinVertical(lipgloss.Left,
		m.pane(m.focus == FocusEditor, l.mainW, l.editorH, editor),
		m.pane(m.focus == FocusResults, l.mainW, l.resultsH, m.renderGrid()),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, main)
	screen := lipgloss.JoinVertical(lipgloss.Left, body, m.renderInfoLine(), m.renderStatusBar())
	return m.popup.RenderOverlay(screen)
}

// pane draws a bordered box whose outer size is w x h
func (m Model) pane(focused bool, w, h int, content string) string {
	style := PaneStyle
	if focused {
		style = FocusedPaneStyle
	}
	return style.
		Width(w - 2).
		Height(h - 2).
		MaxHeight(h).
		Render(content)
}

func (m Model) renderServerPane(l layout) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		PaneTitleStyle.Render("Server"),
		m.serverInput.View(),
		m.servers.View(),
	)
	return m.pane(m.focus == FocusServer, l.sidebarW, l.serverH, content)
}

func (m Model) renderTablesPane(l layout) string {
	filter := m.filterInput.View()
	if m.focus != FocusFilter && m.filterInput.Value() == "" {
		filter = HelpStyle.Render("/ to filter")
	}
	list := m.tables.View()
	title, rest, _ := strings.Cut(list, "\n")
	content := lipgloss.JoinVertical(lipgloss.Left, title, filter, rest)
	return m.pane(m.focus == FocusTables || m.focus == FocusFilter, l.sidebarW, l.tablesH, content)
}

func (m Model) renderGrid() string {
	if m.gridMode == GridEmpty {
		return HelpStyle.Render("Results appear here")
	}
	return m.grid.View()
}

func (m Model) renderInfoLine() string {
	if m.info != "" {
		return InfoLineStyle.Width(m.width).MaxHeight(1).Render(m.info)
	}
	return HelpStyle.Width(m.width).MaxHeight(1).Render(m.helpLine())
}

func (m Model) helpLine() string {
	keys := m.config.Keys
	pairs := []struct {
		keys []string
		desc string
	}{
		{keys.NextFocus, "focus"},
		{keys.Connect, "connect"},
		{keys.Execute, "run"},
		{keys.Save, "save"},
		{keys.Schema, "schema"},
		{keys.Capitalize, "capitalize"},
		{keys.Filter, "filter"},
		{keys.Quit, "quit"},
	}
	var parts []string
	for _, p := range pairs {
		if len(p.keys) > 0 {
			parts = append(parts, p.keys[0]+" "+p.desc)
		}
	}
	return strings.Join(parts, " • ")
}
