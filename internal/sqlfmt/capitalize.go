package sqlfmt

import (
	"sort"
	"strings"
)

// Capitalize upper-cases every keyword occurrence in text and leaves all
// other bytes untouched. The result never changes length.
func (ks *KeywordSet) Capitalize(text string) string {
	if len(ks.ranked) == 0 || text == "" {
		return text
	}

	type match struct{ start, end, rank int }
	var found []match
	for rank, re := range ks.ranked {
		for _, loc := range matchesIn(re, text) {
			found = append(found, match{loc[0], loc[1], rank})
		}
	}
	if len(found) == 0 {
		return text
	}
	// leftmost match first; at the same start the longer phrase
	sort.Slice(found, func(i, j int) bool {
		if found[i].start != found[j].start {
			return found[i].start < found[j].start
		}
		return found[i].rank < found[j].rank
	})

	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, m := range found {
		if m.start < last {
			continue
		}
		b.WriteString(text[last:m.start])
		b.WriteString(asciiUpper(text[m.start:m.end]))
		last = m.end
	}
	b.WriteString(text[last:])
	return b.String()
}

// Capitalize applies the default keyword set.
func Capitalize(text string) string {
	return defaultSet.Capitalize(text)
}

var defaultSet = Default()

// asciiUpper only folds a-z. Case-insensitive matching also accepts a few
// non-ASCII folds (ſ, K) whose upper forms differ in byte length.
func asciiUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
