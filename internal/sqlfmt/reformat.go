package sqlfmt

import "unicode/utf8"

// Buffer is an editable document with a cursor measured in runes
type Buffer interface {
	Text() string
	SetText(text string)
	Cursor() int
	SetCursor(offset int)
}

// State of a Reformatter
type State int

const (
	Idle State = iota
	Reformatting
)

// Reformatter keeps a live-edited buffer capitalized. It must only be driven
// from the goroutine that owns the buffer.
type Reformatter struct {
	keywords *KeywordSet
	state    State
}

// NewReformatter creates a reformatter; a nil set means the default keywords.
func NewReformatter(ks *KeywordSet) *Reformatter {
	if ks == nil {
		ks = defaultSet
	}
	return &Reformatter{keywords: ks}
}

// State reports whether a rewrite is in progress
func (r *Reformatter) State() State {
	return r.state
}

// OnTextChanged handles one change notification from buf. Notifications
// raised by its own SetText are ignored. It reports whether buf was
// rewritten.
func (r *Reformatter) OnTextChanged(buf Buffer) bool {
	if r.state == Reformatting {
		return false
	}

	cursor := buf.Cursor()
	text := buf.Text()
	formatted := r.keywords.Capitalize(text)
	if formatted == text {
		return false
	}

	r.state = Reformatting
	defer func() { r.state = Idle }()

	buf.SetText(formatted)
	if n := utf8.RuneCountInString(formatted); cursor > n {
		cursor = n
	}
	if cursor < 0 {
		cursor = 0
	}
	buf.SetCursor(cursor)
	return true
}
