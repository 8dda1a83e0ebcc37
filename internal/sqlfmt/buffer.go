package sqlfmt

import "unicode/utf8"

// TextBuffer is an in-memory Buffer that notifies a listener after every
// mutation, the way an editor widget fires change events.
type TextBuffer struct {
	text     string
	cursor   int
	OnChange func(*TextBuffer)
}

// NewTextBuffer creates a buffer with the cursor at the end of text
func NewTextBuffer(text string) *TextBuffer {
	return &TextBuffer{text: text, cursor: utf8.RuneCountInString(text)}
}

func (b *TextBuffer) Text() string { return b.text }
func (b *TextBuffer) Cursor() int  { return b.cursor }

// SetText replaces the contents, moves the cursor to the end and notifies.
func (b *TextBuffer) SetText(text string) {
	b.text = text
	b.cursor = utf8.RuneCountInString(text)
	b.notify()
}

// SetCursor moves the cursor, clamped to the text
func (b *TextBuffer) SetCursor(offset int) {
	n := utf8.RuneCountInString(b.text)
	switch {
	case offset < 0:
		offset = 0
	case offset > n:
		offset = n
	}
	b.cursor = offset
}

// Insert types s at the cursor and notifies.
func (b *TextBuffer) Insert(s string) {
	runes := []rune(b.text)
	head := string(runes[:b.cursor])
	tail := string(runes[b.cursor:])
	b.text = head + s + tail
	b.cursor += utf8.RuneCountInString(s)
	b.notify()
}

func (b *TextBuffer) notify() {
	if b.OnChange != nil {
		b.OnChange(b)
	}
}
