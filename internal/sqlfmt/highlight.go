package sqlfmt

import "strings"

// Kind is the lexical category of a span
type Kind int

const (
	KindKeyword Kind = iota
	KindString
	KindComment
)

func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindString:
		return "string"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Span marks Length bytes starting at byte offset Start
type Span struct {
	Start  int
	Length int
	Kind   Kind
}

// End returns the offset just past the span
func (s Span) End() int {
	return s.Start + s.Length
}

// Highlight returns the spans to style in block, in rule order: keywords
// (one pass per keyword), double-quoted literals, single-quoted literals,
// then line comments. Spans of different rules may overlap; later rules win.
func (ks *KeywordSet) Highlight(block string) []Span {
	if block == "" {
		return nil
	}

	var spans []Span
	for _, re := range ks.perWord {
		for _, loc := range matchesIn(re, block) {
			spans = append(spans, Span{Start: loc[0], Length: loc[1] - loc[0], Kind: KindKeyword})
		}
	}

	doubles, singles := scanLiterals(block)
	spans = append(spans, doubles...)
	spans = append(spans, singles...)
	spans = append(spans, scanComments(block, doubles, singles)...)
	return spans
}

// Highlight applies the default keyword set.
func Highlight(block string) []Span {
	return defaultSet.Highlight(block)
}

// scanLiterals walks the block once so a quote inside one kind of literal
// never opens the other kind. Literals end at the first unescaped matching
// quote; doubled quotes and backslash escapes stay inside. An unterminated
// literal runs to the end of the block.
func scanLiterals(block string) (doubles, singles []Span) {
	i := 0
	for i < len(block) {
		q := block[i]
		if q == '-' && i+1 < len(block) && block[i+1] == '-' {
			// Quotes inside a comment are not literals.
			nl := strings.IndexByte(block[i:], '\n')
			if nl < 0 {
				return doubles, singles
			}
			i += nl + 1
			continue
		}
		if q != '\'' && q != '"' {
			i++
			continue
		}

		j := i + 1
		for j < len(block) {
			c := block[j]
			if c == '\\' && j+1 < len(block) {
				j += 2
				continue
			}
			if c == q {
				if j+1 < len(block) && block[j+1] == q {
					j += 2
					continue
				}
				j++
				break
			}
			j++
		}

		span := Span{Start: i, Length: j - i, Kind: KindString}
		if q == '"' {
			doubles = append(doubles, span)
		} else {
			singles = append(singles, span)
		}
		i = j
	}
	return doubles, singles
}

// scanComments finds "--" to end of line outside of literals.
func scanComments(block string, literals ...[]Span) []Span {
	inside := func(pos int) (int, bool) {
		for _, group := range literals {
			for _, s := range group {
				if pos >= s.Start && pos < s.End() {
					return s.End(), true
				}
			}
		}
		return 0, false
	}

	var comments []Span
	i := 0
	for i+1 < len(block) {
		if end, ok := inside(i); ok {
			i = end
			continue
		}
		if block[i] == '-' && block[i+1] == '-' {
			end := strings.IndexByte(block[i:], '\n')
			if end < 0 {
				end = len(block) - i
			}
			comments = append(comments, Span{Start: i, Length: end, Kind: KindComment})
			i += end
			continue
		}
		i++
	}
	return comments
}
