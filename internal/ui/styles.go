// internal/ui/styles.go
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/sqlstudio/internal/config"
	"github.com/nhath/sqlstudio/internal/ui/components/picklist"
	"github.com/nhath/sqlstudio/internal/ui/components/popup"
	"github.com/nhath/sqlstudio/internal/ui/components/table"
)

var (
	// Colors (exported via getter functions below)
	textPrimary   lipgloss.Color
	textSecondary lipgloss.Color
	textFaint     lipgloss.Color

	accentColor    lipgloss.Color
	successColor   lipgloss.Color
	errorColor     lipgloss.Color
	highlightColor lipgloss.Color
	warningColor   lipgloss.Color

	bgPrimary   lipgloss.Color
	bgSecondary lipgloss.Color
	borderColor lipgloss.Color

	// Styles
	StatusBarStyle    lipgloss.Style
	ConnectionStyle   lipgloss.Style
	InfoLineStyle     lipgloss.Style
	PaneStyle         lipgloss.Style
	FocusedPaneStyle  lipgloss.Style
	PaneTitleStyle    lipgloss.Style
	PromptStyle       lipgloss.Style
	SuccessStyle      lipgloss.Style
	ErrorStyle        lipgloss.Style
	WarningStyle      lipgloss.Style
	HelpStyle         lipgloss.Style
)

// Color getter functions for use in components
func TextPrimary() lipgloss.Color    { return textPrimary }
func TextSecondary() lipgloss.Color  { return textSecondary }
func TextFaint() lipgloss.Color      { return textFaint }
func AccentColor() lipgloss.Color    { return accentColor }
func SuccessColor() lipgloss.Color   { return successColor }
func ErrorColor() lipgloss.Color     { return errorColor }
func HighlightColor() lipgloss.Color { return highlightColor }
func WarningColor() lipgloss.Color   { return warningColor }
func BgPrimary() lipgloss.Color      { return bgPrimary }
func BgSecondary() lipgloss.Color    { return bgSecondary }
func BorderColor() lipgloss.Color    { return borderColor }

// InitStyles initializes the global styles based on the provided configuration theme
func InitStyles(theme config.Theme) {
	textPrimary = lipgloss.Color(theme.TextPrimary)
	textSecondary = lipgloss.Color(theme.TextSecondary)
	textFaint = lipgloss.Color(theme.TextFaint)

	accentColor = lipgloss.Color(theme.Accent)
	successColor = lipgloss.Color(theme.Success)
	errorColor = lipgloss.Color(theme.Error)
	highlightColor = lipgloss.Color(theme.Highlight)
	warningColor = lipgloss.Color(theme.Warning)

	bgPrimary = lipgloss.Color(theme.BgPrimary)
	bgSecondary = lipgloss.Color(theme.BgSecondary)
	borderColor = lipgloss.Color(theme.BorderColor)

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(textPrimary).
		Background(bgSecondary)

	ConnectionStyle = lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(accentColor).
		Foreground(bgPrimary)

	InfoLineStyle = lipgloss.NewStyle().
		Foreground(textSecondary).
		Padding(0, 1)

	PaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor)

	FocusedPaneStyle = PaneStyle.
		BorderForeground(accentColor)

	PaneTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(highlightColor)

	PromptStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor)

	SuccessStyle = lipgloss.NewStyle().
		Background(successColor).
		Foreground(bgPrimary).
		Padding(0, 1)

	ErrorStyle = lipgloss.NewStyle().
		Background(errorColor).
		Foreground(textPrimary).
		Padding(0, 1)

	WarningStyle = lipgloss.NewStyle().
		Background(warningColor).
		Foreground(bgPrimary).
		Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
		Foreground(textFaint).
		Padding(0, 1)

	table.SetColors(theme.TextPrimary, theme.TextFaint, theme.Highlight, theme.Success)
}

// listStyles derives picklist styles from the theme
func listStyles() picklist.Styles {
	return picklist.Styles{
		Title:    PaneTitleStyle,
		Item:     lipgloss.NewStyle().Foreground(textPrimary),
		Selected: lipgloss.NewStyle().Foreground(bgPrimary).Background(highlightColor).Bold(true),
		Empty:    lipgloss.NewStyle().Foreground(textFaint).Italic(true),
	}
}

// popupStyles derives popup styles from the theme
func popupStyles() popup.Styles {
	s := popup.DefaultStyles()
	s.Body = s.Body.Foreground(textPrimary)
	s.Footer = s.Footer.Foreground(textFaint)
	s.Accent = map[popup.Kind]lipgloss.Color{
		popup.Info:    accentColor,
		popup.Warning: warningColor,
		popup.Error:   errorColor,
	}
	return s
}
