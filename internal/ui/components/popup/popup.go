// Package popup provides the modal used for warnings and errors.
package popup

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// Kind selects the popup's accent color and title
type Kind int

const (
	Info Kind = iota
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case Warning:
		return "Warning"
	case Error:
		return "Error"
	default:
		return "Info"
	}
}

// Styles for the popup
type Styles struct {
	Box    lipgloss.Style
	Header lipgloss.Style
	Body   lipgloss.Style
	Footer lipgloss.Style
	Accent map[Kind]lipgloss.Color
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(1, 2),
		Header: lipgloss.NewStyle().Bold(true),
		Body: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D8DEE9")),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4C566A")).
			Italic(true),
		Accent: map[Kind]lipgloss.Color{
			Info:    lipgloss.Color("#88C0D0"),
			Warning: lipgloss.Color("#D08770"),
			Error:   lipgloss.Color("#BF616A"),
		},
	}
}

// Model represents the popup state
type Model struct {
	visible  bool
	kind     Kind
	title    string
	content  string
	maxWidth int
	styles   Styles
}

// New creates a new popup model
func New() Model {
	return Model{
		maxWidth: 60,
		styles:   DefaultStyles(),
	}
}

// SetStyles sets custom styles
func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	return m
}

// SetScreenSize limits the popup width to the screen
func (m Model) SetScreenSize(w, _ int) Model {
	m.maxWidth = max(20, min(60, w-4))
	return m
}

// Show makes the popup visible with content. An empty title uses the kind.
func (m Model) Show(kind Kind, title, content string) Model {
	if title == "" {
		title = kind.String()
	}
	m.visible = true
	m.kind = kind
	m.title = title
	m.content = content
	return m
}

// Hide hides the popup
func (m Model) Hide() Model {
	m.visible = false
	return m
}

// Visible returns visibility state
func (m Model) Visible() bool {
	return m.visible
}

// Kind returns the kind of the last popup shown
func (m Model) Kind() Kind {
	return m.kind
}

// Content returns the message body
func (m Model) Content() string {
	return m.content
}

// Update closes the popup on enter, esc or q
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter", "esc", "q", " ":
			m.visible = false
		}
	}
	return m, nil
}

// View renders the popup box
func (m Model) View() string {
	if !m.visible {
		return ""
	}

	accent := m.styles.Accent[m.kind]
	var b strings.Builder
	b.WriteString(m.styles.Header.Foreground(accent).Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Body.Render(m.content))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("enter/esc to close"))

	return m.styles.Box.
		BorderForeground(accent).
		Width(m.maxWidth).
		Render(b.String())
}

// RenderOverlay composites the popup over the main content
func (m Model) RenderOverlay(main string) string {
	if !m.visible {
		return main
	}
	return overlay.Composite(m.View(), main, overlay.Center, overlay.Center, 0, 0)
}
