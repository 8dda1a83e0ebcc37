package highlight

import (
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/nhath/sqlstudio/internal/sqlfmt"
)

var markers = Palette{Keyword: "<K>", String: "<S>", Comment: "<C>"}

func TestRender(t *testing.T) {
	h := New(nil, markers)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "all kinds",
			input: "select 'a' -- c",
			want:  "<K>select" + fgReset + " <S>'a'" + fgReset + " <C>-- c" + fgReset,
		},
		{
			name:  "comment wins over keyword",
			input: "-- select",
			want:  "<C>-- select" + fgReset,
		},
		{
			name:  "string wins over keyword",
			input: "'from'",
			want:  "<S>'from'" + fgReset,
		},
		{
			name:  "plain",
			input: "a + b",
			want:  "a + b",
		},
		{
			name:  "multibyte text keeps runes intact",
			input: "sélect from ü",
			want:  "sélect <K>from" + fgReset + " ü",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, h.Render(tt.input))
		})
	}
}

func TestRenderPreserveANSI(t *testing.T) {
	h := New(nil, markers)

	view := "\x1b[7ms\x1b[0melect x"
	got := h.RenderPreserveANSI(view)
	assert.Equal(t, "\x1b[7m<K>s\x1b[0m<K>elect"+fgReset+" x", got)
}

func TestRenderPreserveANSI_NoEscapes(t *testing.T) {
	h := New(nil, markers)
	assert.Equal(t, h.Render("select 1"), h.RenderPreserveANSI("select 1"))
}

func TestRenderPreserveANSI_LineNumbers(t *testing.T) {
	h := New(nil, markers)
	view := "\x1b[38;5;240m 1 \x1b[0mselect\n\x1b[38;5;240m 2 \x1b[0mfrom t"
	got := h.RenderPreserveANSI(view)

	plain, _ := stripANSI(got)
	// resets are escapes too and are stripped with the rest
	assert.Equal(t, " 1 <K>select\n 2 <K>from t", plain)
}

func TestRender_UnterminatedQuoteStopsAtLineEnd(t *testing.T) {
	h := New(nil, markers)
	assert.Equal(t, "<K>select"+fgReset+" <S>'abc"+fgReset+"\n<K>from"+fgReset+" t", h.Render("select 'abc\nfrom t"))

	view := "\x1b[38;5;240m 1 \x1b[0mselect 'a\n\x1b[38;5;240m 2 \x1b[0mfrom t"
	plain, _ := stripANSI(h.RenderPreserveANSI(view))
	assert.Equal(t, " 1 <K>select <S>'a\n 2 <K>from t", plain)
}

func TestRender_CustomKeywords(t *testing.T) {
	h := New(sqlfmt.NewKeywordSet("limit"), markers)
	assert.Equal(t, "select x <K>limit"+fgReset+" 1", h.Render("select x limit 1"))
}

func TestRender_AsciiProfileIsPlain(t *testing.T) {
	h := New(nil, PaletteFromStyle("nord", termenv.Ascii))
	assert.Equal(t, "select 'a'", h.Render("select 'a'"))
	assert.Equal(t, "\x1b[7mselect", h.RenderPreserveANSI("\x1b[7mselect"))
}

func TestPaletteFromStyle(t *testing.T) {
	p := PaletteFromStyle("nord", termenv.TrueColor)
	assert.True(t, strings.HasPrefix(p.Keyword, "\x1b[38;2;"))
	assert.True(t, strings.HasPrefix(p.String, "\x1b[38;2;"))
	assert.True(t, strings.HasPrefix(p.Comment, "\x1b[38;2;"))
	assert.True(t, strings.HasSuffix(p.Keyword, "m"))

	// unknown styles fall back instead of failing
	p = PaletteFromStyle("no-such-style", termenv.ANSI256)
	assert.True(t, strings.HasPrefix(p.Keyword, "\x1b[38;5;"))
}

func TestStripANSI(t *testing.T) {
	plain, ok := stripANSI("a\x1b[1;31mb\x1b]8;;http://x\x1b\\c\x1b[0m")
	require.True(t, ok)
	assert.Equal(t, "abc", plain)

	plain, ok = stripANSI("abc")
	assert.False(t, ok)
	assert.Equal(t, "abc", plain)
}

func TestRender_Property_VisibleTextUnchanged(t *testing.T) {
	h := New(nil, PaletteFromStyle("monokai", termenv.TrueColor))
	rapid.Check(t, func(t *rapid.T) {
		words := rapid.SliceOf(rapid.SampledFrom([]string{
			"select", "FROM", "x", "'s'", `"d"`, "--", "\n", " ", "é", "group by", "'", "''",
		})).Draw(t, "words")
		text := strings.Join(words, " ")

		plain, _ := stripANSI(h.Render(text))
		require.Equal(t, text, plain)

		view := "\x1b[7m" + text + "\x1b[0m"
		plain, _ = stripANSI(h.RenderPreserveANSI(view))
		require.Equal(t, text, plain)
	})
}
