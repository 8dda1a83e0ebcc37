package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/nhath/sqlstudio/internal/sqlfmt"
)

func newTestBuffer(text string) editorBuffer {
	ta := newEditor()
	ta.SetWidth(200)
	ta.SetValue(text)
	return editorBuffer{ta: &ta}
}

func TestEditorBuffer_CursorRoundTrip(t *testing.T) {
	buf := newTestBuffer("select a\nfrom t\nwhere x = 1")

	assert.Equal(t, 27, buf.Cursor(), "cursor starts at the end")

	for _, offset := range []int{0, 3, 8, 9, 11, 15, 16, 20, 26, 27} {
		buf.SetCursor(offset)
		assert.Equal(t, offset, buf.Cursor(), "offset %d", offset)
	}
}

func TestEditorBuffer_SetCursorClamps(t *testing.T) {
	buf := newTestBuffer("ab\ncd")
	buf.SetCursor(100)
	assert.Equal(t, 5, buf.Cursor())
	buf.SetCursor(-3)
	assert.Equal(t, 0, buf.Cursor())
}

func TestEditorBuffer_Multibyte(t *testing.T) {
	buf := newTestBuffer("select 'héllo'\nfrom t")
	buf.SetCursor(12)
	assert.Equal(t, 12, buf.Cursor())
	assert.Equal(t, 0, buf.ta.Line())
}

func TestEditorBuffer_Reformat(t *testing.T) {
	buf := newTestBuffer("select a\nfrom t")
	buf.SetCursor(4)

	r := sqlfmt.NewReformatter(nil)
	require.True(t, r.OnTextChanged(buf))

	assert.Equal(t, "SELECT a\nFROM t", buf.Text())
	assert.Equal(t, 4, buf.Cursor())
	assert.Equal(t, 0, buf.ta.Line())
}

func TestEditorBuffer_Property_CursorRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		lines := rapid.SliceOfN(rapid.StringMatching(`[a-z ']{0,12}`), 1, 5).Draw(t, "lines")
		text := ""
		for i, l := range lines {
			if i > 0 {
				text += "\n"
			}
			text += l
		}
		buf := newTestBuffer(text)
		offset := rapid.IntRange(0, len([]rune(text))).Draw(t, "offset")

		buf.SetCursor(offset)
		require.Equal(t, offset, buf.Cursor())
	})
}
