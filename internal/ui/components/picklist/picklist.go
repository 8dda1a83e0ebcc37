// Package picklist provides a filterable, scrollable selection list used for
// saved servers, databases and tables in the sidebar.
package picklist

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles for the list
type Styles struct {
	Title    lipgloss.Style
	Item     lipgloss.Style
	Selected lipgloss.Style
	Empty    lipgloss.Style
}

// DefaultStyles returns default styling
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#88C0D0")),
		Item: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D8DEE9")),
		Selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#2E3440")).
			Background(lipgloss.Color("#88C0D0")),
		Empty: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4C566A")).
			Italic(true),
	}
}

// Model represents the list state
type Model struct {
	title    string
	items    []string
	visible  []int // indexes into items matching the filter
	filter   string
	selected int   // index into visible
	height   int
	width    int
	focused  bool
	empty    string
	styles   Styles
}

// New creates a list with a title shown above the items
func New(title string) Model {
	return Model{
		title:  title,
		height: 5,
		width:  24,
		empty:  "(none)",
		styles: DefaultStyles(),
	}
}

// SetStyles sets custom styles
func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	return m
}

// SetEmptyText sets the placeholder shown when nothing matches
func (m Model) SetEmptyText(s string) Model {
	m.empty = s
	return m
}

// SetSize sets the number of visible rows and the render width
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = max(1, height)
	return m
}

// Focus marks the list as receiving keys
func (m Model) Focus() Model {
	m.focused = true
	return m
}

// Blur marks the list as not receiving keys
func (m Model) Blur() Model {
	m.focused = false
	return m
}

// Focused returns focus state
func (m Model) Focused() bool {
	return m.focused
}

// SetItems replaces the items, keeping the filter and resetting selection
func (m Model) SetItems(items []string) Model {
	m.items = items
	m.selected = 0
	return m.applyFilter()
}

// Append adds an item unless it is already present
func (m Model) Append(item string) Model {
	for _, it := range m.items {
		if it == item {
			return m
		}
	}
	m.items = append(m.items, item)
	return m.applyFilter()
}

// Remove drops an item
func (m Model) Remove(item string) Model {
	kept := m.items[:0:0]
	for _, it := range m.items {
		if it != item {
			kept = append(kept, it)
		}
	}
	m.items = kept
	return m.applyFilter()
}

// SetFilter shows only items containing s, ignoring case
func (m Model) SetFilter(s string) Model {
	m.filter = s
	m.selected = 0
	return m.applyFilter()
}

// Filter returns the current filter text
func (m Model) Filter() string {
	return m.filter
}

func (m Model) applyFilter() Model {
	needle := strings.ToLower(m.filter)
	m.visible = m.visible[:0:0]
	for i, it := range m.items {
		if needle == "" || strings.Contains(strings.ToLower(it), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(0, len(m.visible)-1)
	}
	return m
}

// Items returns all items, ignoring the filter
func (m Model) Items() []string {
	return m.items
}

// VisibleItems returns items matching the filter
func (m Model) VisibleItems() []string {
	out := make([]string, len(m.visible))
	for i, idx := range m.visible {
		out[i] = m.items[idx]
	}
	return out
}

// Len returns number of items matching the filter
func (m Model) Len() int {
	return len(m.visible)
}

// Index returns the selected item's index in Items, or -1
func (m Model) Index() int {
	if m.selected >= 0 && m.selected < len(m.visible) {
		return m.visible[m.selected]
	}
	return -1
}

// SelectedItem returns the selected item string
func (m Model) SelectedItem() (string, bool) {
	if idx := m.Index(); idx >= 0 {
		return m.items[idx], true
	}
	return "", false
}

// Select moves the selection to item if it is visible
func (m Model) Select(item string) Model {
	for i, idx := range m.visible {
		if m.items[idx] == item {
			m.selected = i
			break
		}
	}
	return m
}

// MoveUp moves selection up
func (m Model) MoveUp() Model {
	if m.selected > 0 {
		m.selected--
	}
	return m
}

// MoveDown moves selection down
func (m Model) MoveDown() Model {
	if m.selected < len(m.visible)-1 {
		m.selected++
	}
	return m
}

// View renders the title and the visible window of items
func (m Model) View() string {
	var lines []string
	if m.title != "" {
		lines = append(lines, m.styles.Title.Render(m.title))
	}

	want := m.height
	if m.title != "" {
		want++
	}

	if len(m.visible) == 0 {
		lines = append(lines, m.styles.Empty.Render(truncate(m.empty, m.width)))
		for len(lines) < want {
			lines = append(lines, "")
		}
		return strings.Join(lines, "\n")
	}

	// Calculate visible window
	start := 0
	if m.selected > m.height/2 {
		start = m.selected - m.height/2
	}
	end := start + m.height
	if end > len(m.visible) {
		end = len(m.visible)
		start = max(0, end-m.height)
	}

	for i := start; i < end; i++ {
		item := truncate(m.items[m.visible[i]], m.width-2)
		style := m.styles.Item
		prefix := "  "
		if i == m.selected {
			prefix = "> "
			if m.focused {
				style = m.styles.Selected
			}
		}
		lines = append(lines, style.Render(prefix+item))
	}
	for len(lines) < want {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func truncate(s string, width int) string {
	if width <= 0 || lipgloss.Width(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > width {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
