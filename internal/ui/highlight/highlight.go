// Package highlight renders sqlfmt spans as terminal colour.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/muesli/termenv"

	"github.com/nhath/sqlstudio/internal/sqlfmt"
)

const (
	fgReset  = termenv.CSI + "39m" // Reset foreground only (not all attributes)
	kindNone = sqlfmt.Kind(-1)
)

// Fallback colours when a chroma style leaves a token class unset
const (
	defaultKeyword = "#81A1C1"
	defaultString  = "#A3BE8C"
	defaultComment = "#616E88"
)

// Palette holds the foreground sequence for each span kind
type Palette struct {
	Keyword string
	String  string
	Comment string
}

// PaletteFromStyle builds a palette from a chroma style name ("nord",
// "monokai", ...), encoding colours for the given terminal profile.
// Unknown names fall back to chroma's default style.
func PaletteFromStyle(name string, profile termenv.Profile) Palette {
	style := styles.Get(name)
	return Palette{
		Keyword: sequence(profile, colour(style, chroma.Keyword, defaultKeyword)),
		String:  sequence(profile, colour(style, chroma.LiteralString, defaultString)),
		Comment: sequence(profile, colour(style, chroma.Comment, defaultComment)),
	}
}

func colour(style *chroma.Style, tt chroma.TokenType, fallback string) string {
	if c := style.Get(tt).Colour; c.IsSet() {
		return c.String()
	}
	return fallback
}

func sequence(profile termenv.Profile, hex string) string {
	c := profile.Color(hex)
	if c == nil {
		return ""
	}
	if _, ok := c.(termenv.NoColor); ok {
		return ""
	}
	return termenv.CSI + c.Sequence(false) + "m"
}

func (p Palette) empty() bool {
	return p.Keyword == "" && p.String == "" && p.Comment == ""
}

func (p Palette) forKind(k sqlfmt.Kind) string {
	switch k {
	case sqlfmt.KindKeyword:
		return p.Keyword
	case sqlfmt.KindString:
		return p.String
	case sqlfmt.KindComment:
		return p.Comment
	}
	return ""
}

// Highlighter colours SQL text using a keyword set and palette
type Highlighter struct {
	keywords *sqlfmt.KeywordSet
	palette  Palette
}

// New creates a highlighter; a nil keyword set means the default keywords
func New(keywords *sqlfmt.KeywordSet, palette Palette) *Highlighter {
	if keywords == nil {
		keywords = sqlfmt.Default()
	}
	return &Highlighter{keywords: keywords, palette: palette}
}

// kinds assigns a kind to every byte of text. Each line is highlighted on
// its own, so an unterminated quote stops at the line end. Spans are applied
// in the order the highlighter emits them so later rules win.
func (h *Highlighter) kinds(text string) []sqlfmt.Kind {
	out := make([]sqlfmt.Kind, len(text))
	for i := range out {
		out[i] = kindNone
	}
	start := 0
	for start <= len(text) {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += start
		}
		for _, s := range h.keywords.Highlight(text[start:end]) {
			for i := start + s.Start; i < start+s.End(); i++ {
				out[i] = s.Kind
			}
		}
		start = end + 1
	}
	return out
}

// Render returns text with keyword, string and comment colours applied
func (h *Highlighter) Render(text string) string {
	if text == "" || h.palette.empty() {
		return text
	}
	kinds := h.kinds(text)

	var b strings.Builder
	b.Grow(len(text) * 2)
	current := kindNone
	for i := 0; i < len(text); i++ {
		if kinds[i] != current {
			current = kinds[i]
			h.switchTo(&b, current)
		}
		b.WriteByte(text[i])
	}
	if current != kindNone {
		b.WriteString(fgReset)
	}
	return b.String()
}

// RenderPreserveANSI highlights a view that already contains escape
// sequences (cursor, line numbers, selection). Spans are computed on the
// visible text; the original sequences are copied through unchanged and the
// active colour is re-applied after each of them.
func (h *Highlighter) RenderPreserveANSI(view string) string {
	if view == "" || h.palette.empty() {
		return view
	}
	plain, ok := stripANSI(view)
	if !ok {
		return h.Render(view)
	}
	kinds := h.kinds(plain)

	var b strings.Builder
	b.Grow(len(view) * 2)
	current := kindNone
	p := 0
	for i := 0; i < len(view); {
		if n := escapeLen(view, i); n > 0 {
			b.WriteString(view[i : i+n])
			i += n
			if current != kindNone {
				b.WriteString(h.palette.forKind(current))
			}
			continue
		}
		if kinds[p] != current {
			current = kinds[p]
			h.switchTo(&b, current)
		}
		b.WriteByte(view[i])
		i++
		p++
	}
	if current != kindNone {
		b.WriteString(fgReset)
	}
	return b.String()
}

func (h *Highlighter) switchTo(b *strings.Builder, k sqlfmt.Kind) {
	if k == kindNone {
		b.WriteString(fgReset)
		return
	}
	if seq := h.palette.forKind(k); seq != "" {
		b.WriteString(seq)
	} else {
		b.WriteString(fgReset)
	}
}

// stripANSI removes escape sequences; ok is false when there were none
func stripANSI(s string) (string, bool) {
	if !strings.Contains(s, "\x1b") {
		return s, false
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if n := escapeLen(s, i); n > 0 {
			i += n
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String(), true
}

// escapeLen returns the length of the escape sequence starting at i, or 0.
// CSI sequences end at the first byte in 0x40-0x7E; OSC sequences end at
// BEL or ST.
func escapeLen(s string, i int) int {
	if s[i] != '\x1b' || i+1 >= len(s) {
		if s[i] == '\x1b' {
			return 1
		}
		return 0
	}
	switch s[i+1] {
	case '[':
		j := i + 2
		for j < len(s) && (s[j] < 0x40 || s[j] > 0x7e) {
			j++
		}
		if j < len(s) {
			j++
		}
		return j - i
	case ']':
		j := i + 2
		for j < len(s) {
			if s[j] == '\a' {
				return j + 1 - i
			}
			if s[j] == '\x1b' && j+1 < len(s) && s[j+1] == '\\' {
				return j + 2 - i
			}
			j++
		}
		return j - i
	default:
		return 2
	}
}
