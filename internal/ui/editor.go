// internal/ui/editor.go
package ui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"

	"github.com/nhath/sqlstudio/internal/sqlfmt"
)

// editorBuffer adapts a textarea to sqlfmt.Buffer. Offsets are runes
// counted over the whole value with newlines included.
type editorBuffer struct {
	ta *textarea.Model
}

var _ sqlfmt.Buffer = editorBuffer{}

func (b editorBuffer) Text() string {
	return b.ta.Value()
}

// SetText replaces the content. The textarea leaves the cursor at the end.
func (b editorBuffer) SetText(text string) {
	b.ta.SetValue(text)
}

func (b editorBuffer) Cursor() int {
	lines := strings.Split(b.ta.Value(), "\n")
	row := min(b.ta.Line(), len(lines)-1)

	offset := 0
	for _, l := range lines[:row] {
		offset += utf8.RuneCountInString(l) + 1
	}
	info := b.ta.LineInfo()
	col := min(info.StartColumn+info.ColumnOffset, utf8.RuneCountInString(lines[row]))
	return offset + col
}

// SetCursor moves to a rune offset, clamped to the content
func (b editorBuffer) SetCursor(offset int) {
	lines := strings.Split(b.ta.Value(), "\n")
	row, col := 0, max(0, offset)
	for row < len(lines)-1 {
		n := utf8.RuneCountInString(lines[row])
		if col <= n {
			break
		}
		col -= n + 1
		row++
	}
	col = min(col, utf8.RuneCountInString(lines[row]))

	// CursorUp/Down move by visual row; bound the walk by the value size
	// so soft-wrapped lines cannot loop forever.
	for guard := len(b.ta.Value()) + 1; b.ta.Line() > row && guard > 0; guard-- {
		b.ta.CursorUp()
	}
	for guard := len(b.ta.Value()) + 1; b.ta.Line() < row && guard > 0; guard-- {
		b.ta.CursorDown()
	}
	b.ta.SetCursor(col)
}

// newEditor creates the SQL editor textarea
func newEditor() textarea.Model {
	ta := textarea.New()
	ta.Placeholder = "Select a table or type a query, then ctrl+r to run"
	ta.ShowLineNumbers = true
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.Prompt = ""
	ta.SetWidth(80)
	ta.SetHeight(8)
	return ta
}
