package sqlfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func spansOf(spans []Span, kind Kind) []Span {
	var out []Span
	for _, s := range spans {
		if s.Kind == kind {
			out = append(out, s)
		}
	}
	return out
}

func TestHighlight_StringHidesCommentMarker(t *testing.T) {
	text := "select 'a--b' from t -- c"
	spans := Highlight(text)

	assert.Equal(t, []Span{
		{Start: 0, Length: 6, Kind: KindKeyword},
		{Start: 14, Length: 4, Kind: KindKeyword},
	}, spansOf(spans, KindKeyword))
	assert.Equal(t, []Span{{Start: 7, Length: 6, Kind: KindString}}, spansOf(spans, KindString))
	assert.Equal(t, []Span{{Start: 21, Length: 4, Kind: KindComment}}, spansOf(spans, KindComment))
	assert.Equal(t, "'a--b'", text[7:13])
	assert.Equal(t, "-- c", text[21:25])
}

func TestHighlight_RuleOrder(t *testing.T) {
	spans := Highlight(`where "b" = 'a' -- x`)
	require.Len(t, spans, 4)
	assert.Equal(t, []Kind{KindKeyword, KindString, KindString, KindComment},
		[]Kind{spans[0].Kind, spans[1].Kind, spans[2].Kind, spans[3].Kind})
	// double-quoted before single-quoted
	assert.Equal(t, 6, spans[1].Start)
	assert.Equal(t, 12, spans[2].Start)
}

func TestHighlight_Literals(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Span
	}{
		{
			name:  "two literals on one line stay separate",
			input: "'a' or 'b'",
			want:  []Span{{0, 3, KindString}, {7, 3, KindString}},
		},
		{
			name:  "doubled quote escape",
			input: "'it''s'",
			want:  []Span{{0, 7, KindString}},
		},
		{
			name:  "backslash escape",
			input: `'a\'b' x`,
			want:  []Span{{0, 6, KindString}},
		},
		{
			name:  "quote of other kind inside",
			input: `"it's" 'say "hi"'`,
			want:  []Span{{0, 6, KindString}, {7, 10, KindString}},
		},
		{
			name:  "unterminated runs to end",
			input: "'abc def",
			want:  []Span{{0, 8, KindString}},
		},
		{
			name:  "quote inside comment is ignored",
			input: "-- don't\n'x'",
			want:  []Span{{9, 3, KindString}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, spansOf(Highlight(tt.input), KindString))
		})
	}
}

func TestHighlight_Comments(t *testing.T) {
	text := "-- one\nselect 1 -- two\n--"
	got := spansOf(Highlight(text), KindComment)
	assert.Equal(t, []Span{{0, 6, KindComment}, {16, 6, KindComment}, {23, 2, KindComment}}, got)
}

func TestHighlight_KeywordsInsideOtherRulesStillReported(t *testing.T) {
	spans := Highlight("-- select")
	assert.Equal(t, []Span{{3, 6, KindKeyword}}, spansOf(spans, KindKeyword))
	assert.Len(t, spansOf(spans, KindComment), 1)
}

func TestHighlight_OverlappingKeywords(t *testing.T) {
	spans := spansOf(Highlight("left join x"), KindKeyword)
	// both "join" and "left join" match
	assert.ElementsMatch(t, []Span{{5, 4, KindKeyword}, {0, 9, KindKeyword}}, spans)
}

func TestHighlight_KeywordGluedToNonASCII(t *testing.T) {
	assert.Equal(t, []Span{{0, 6, KindKeyword}}, spansOf(Highlight("select éfrom cafédelete"), KindKeyword))
}

func TestHighlight_Empty(t *testing.T) {
	assert.Empty(t, Highlight(""))
	assert.Empty(t, Highlight("hello, world"))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "keyword", KindKeyword.String())
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "comment", KindComment.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestHighlight_Property_SpansInBounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := sqlish().Draw(t, "text")
		for _, s := range Highlight(text) {
			require.GreaterOrEqual(t, s.Start, 0)
			require.Greater(t, s.Length, 0)
			require.LessOrEqual(t, s.End(), len(text))
		}
	})
}

func TestHighlight_Property_CommentsOutsideLiterals(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := sqlish().Draw(t, "text")
		spans := Highlight(text)
		literals := spansOf(spans, KindString)
		for _, c := range spansOf(spans, KindComment) {
			require.Equal(t, "--", text[c.Start:c.Start+2])
			for _, l := range literals {
				require.False(t, c.Start >= l.Start && c.Start < l.End(), "comment at %d inside literal %v", c.Start, l)
			}
		}
	})
}

func TestHighlight_Property_CaseInsensitive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := sqlish().Draw(t, "text")
		require.Equal(t, Highlight(text), Highlight(Capitalize(text)))
	})
}
