package sqlfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// recordingBuffer counts writes so tests can assert the no-op guard.
type recordingBuffer struct {
	*TextBuffer
	setTextCalls   int
	setCursorCalls int
}

func (b *recordingBuffer) SetText(text string) {
	b.setTextCalls++
	b.TextBuffer.SetText(text)
}

func (b *recordingBuffer) SetCursor(offset int) {
	b.setCursorCalls++
	b.TextBuffer.SetCursor(offset)
}

func newRecording(text string, cursor int) *recordingBuffer {
	b := &recordingBuffer{TextBuffer: NewTextBuffer(text)}
	b.TextBuffer.SetCursor(cursor)
	return b
}

func TestReformatter_KeepsCursor(t *testing.T) {
	r := NewReformatter(NewKeywordSet("select"))
	buf := newRecording("select * from t", 6)

	changed := r.OnTextChanged(buf)

	require.True(t, changed)
	assert.Equal(t, "SELECT * from t", buf.Text())
	assert.Equal(t, 6, buf.Cursor())
	assert.Equal(t, Idle, r.State())
}

func TestReformatter_NoOpWhenAlreadyFormatted(t *testing.T) {
	r := NewReformatter(nil)
	buf := newRecording("SELECT * FROM t", 3)

	assert.False(t, r.OnTextChanged(buf))
	assert.Equal(t, 0, buf.setTextCalls)
	assert.Equal(t, 0, buf.setCursorCalls)
	assert.Equal(t, 3, buf.Cursor())
}

func TestReformatter_EmptyBuffer(t *testing.T) {
	r := NewReformatter(nil)
	buf := newRecording("", 0)
	assert.False(t, r.OnTextChanged(buf))
	assert.Equal(t, "", buf.Text())
}

func TestReformatter_IgnoresOwnNotifications(t *testing.T) {
	r := NewReformatter(nil)
	buf := NewTextBuffer("")
	calls := 0
	rewrites := 0
	buf.OnChange = func(b *TextBuffer) {
		calls++
		if r.OnTextChanged(b) {
			rewrites++
		}
	}

	buf.Insert("select")

	// one notification for the keystroke, one re-entrant one from SetText
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, rewrites)
	assert.Equal(t, "SELECT", buf.Text())
	assert.Equal(t, 6, buf.Cursor())
	assert.Equal(t, Idle, r.State())
}

func TestReformatter_TypingSession(t *testing.T) {
	r := NewReformatter(nil)
	buf := NewTextBuffer("")
	buf.OnChange = func(b *TextBuffer) { r.OnTextChanged(b) }

	for _, ch := range "select a from t where b in (1)" {
		buf.Insert(string(ch))
	}
	assert.Equal(t, "SELECT a FROM t WHERE b IN (1)", buf.Text())
	assert.Equal(t, 30, buf.Cursor())

	// edit in the middle keeps the caret where the user typed
	buf.SetCursor(8)
	buf.OnChange = nil
	buf.Insert(", c")
	buf.OnChange = func(b *TextBuffer) { r.OnTextChanged(b) }
	buf.Insert(" from")
	assert.Equal(t, "SELECT a, c FROM FROM t WHERE b IN (1)", buf.Text())
	assert.Equal(t, 16, buf.Cursor())
}

func TestReformatter_ClampsCursor(t *testing.T) {
	r := NewReformatter(nil)
	buf := &clampless{text: "select", cursor: 40}
	require.True(t, r.OnTextChanged(buf))
	assert.Equal(t, 6, buf.cursor)
}

// clampless reports whatever cursor it was given, like a stale widget.
type clampless struct {
	text   string
	cursor int
}

func (c *clampless) Text() string         { return c.text }
func (c *clampless) SetText(text string)  { c.text = text }
func (c *clampless) Cursor() int          { return c.cursor }
func (c *clampless) SetCursor(offset int) { c.cursor = offset }

func TestReformatter_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := sqlish().Draw(t, "text")
		runes := []rune(text)
		cursor := rapid.IntRange(0, len(runes)).Draw(t, "cursor")

		r := NewReformatter(nil)
		buf := newRecording(text, cursor)
		changed := r.OnTextChanged(buf)

		require.Equal(t, Capitalize(text), buf.Text())
		require.Equal(t, cursor, buf.Cursor())
		if Capitalize(text) == text {
			require.False(t, changed)
			require.Zero(t, buf.setTextCalls)
			require.Zero(t, buf.setCursorCalls)
		} else {
			require.True(t, changed)
		}

		// second notification is always a no-op
		require.False(t, r.OnTextChanged(buf))
	})
}
