// Package sqlfmt classifies and capitalizes SQL keywords in editor text.
package sqlfmt

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultKeywords is the built-in keyword table
var DefaultKeywords = []string{
	"select", "update", "from", "where", "insert", "delete", "create", "drop", "table", "alter", "in",
	"order by", "group by", "having", "insert into", "truncate", "create index", "drop index",
	"join", "union", "exists", "between", "like", "is null", "distinct", "left join", "inner join", "merge",
}

// KeywordSet is an ordered, case-insensitive set of keyword phrases
type KeywordSet struct {
	words   []string
	perWord []*regexp.Regexp
	// ranked holds the same patterns longest phrase first
	ranked []*regexp.Regexp
}

// NewKeywordSet builds a set from phrases. Phrases are lower-cased and
// de-duplicated; the first occurrence keeps its position.
func NewKeywordSet(phrases ...string) *KeywordSet {
	seen := make(map[string]bool, len(phrases))
	ks := &KeywordSet{}
	for _, p := range phrases {
		p = strings.ToLower(strings.Join(strings.Fields(p), " "))
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		ks.words = append(ks.words, p)
	}

	ks.perWord = make([]*regexp.Regexp, len(ks.words))
	for i, w := range ks.words {
		ks.perWord[i] = regexp.MustCompile(`(?i)\b` + phrasePattern(w) + `\b`)
	}

	// At one position the longer phrase wins, so "group by" is never split.
	order := make([]int, len(ks.words))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		a, b := ks.words[order[i]], ks.words[order[j]]
		wa, wb := strings.Count(a, " "), strings.Count(b, " ")
		if wa != wb {
			return wa > wb
		}
		return len(a) > len(b)
	})
	ks.ranked = make([]*regexp.Regexp, len(order))
	for i, idx := range order {
		ks.ranked[i] = ks.perWord[idx]
	}
	return ks
}

// Default returns the built-in keyword set extended with extra phrases.
func Default(extra ...string) *KeywordSet {
	return NewKeywordSet(append(append([]string(nil), DefaultKeywords...), extra...)...)
}

// Words returns the phrases in set order
func (ks *KeywordSet) Words() []string {
	return append([]string(nil), ks.words...)
}

// Len returns the number of phrases
func (ks *KeywordSet) Len() int {
	return len(ks.words)
}

// Contains reports whether phrase is in the set, ignoring case and spacing
func (ks *KeywordSet) Contains(phrase string) bool {
	p := strings.ToLower(strings.Join(strings.Fields(phrase), " "))
	for _, w := range ks.words {
		if w == p {
			return true
		}
	}
	return false
}

// matchesIn returns the word-bounded matches of re in text. RE2's \b only
// knows ASCII word bytes, so a match touching a non-ASCII letter or digit
// is part of a longer identifier and is dropped.
func matchesIn(re *regexp.Regexp, text string) [][]int {
	locs := re.FindAllStringIndex(text, -1)
	out := locs[:0]
	for _, loc := range locs {
		if bounded(text, loc[0], loc[1]) {
			out = append(out, loc)
		}
	}
	return out
}

func bounded(text string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// phrasePattern quotes each word and lets any run of blanks separate them.
func phrasePattern(phrase string) string {
	parts := strings.Split(phrase, " ")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return strings.Join(parts, `[ \t]+`)
}
