package index

import (
	"strings"
	"unicode/utf8"
)

// Token is a folded contiguous substring of a display name.
type Token struct {
	Text   string
	Offset int // rune offset into the folded name
}

// Fold normalizes text for comparison. Indexed names and query keywords are
// folded the same way.
func Fold(s string) string {
	return strings.ToLower(s)
}

// Tokenize returns every window of width 1..maxWidth over the folded name,
// ordered by offset and then width. Duplicates are kept.
func Tokenize(name string, maxWidth int) []Token {
	runes := []rune(Fold(name))
	if len(runes) == 0 || maxWidth < 1 {
		return nil
	}

	tokens := make([]Token, 0, tokenCount(len(runes), maxWidth))
	for start := range runes {
		for width := 1; width <= maxWidth && start+width <= len(runes); width++ {
			tokens = append(tokens, Token{
				Text:   string(runes[start : start+width]),
				Offset: start,
			})
		}
	}
	return tokens
}

// tokenCount is sum_{k=1..min(w,n)} (n-k+1).
func tokenCount(n, w int) int {
	if w > n {
		w = n
	}
	return w*(n+1) - w*(w+1)/2
}

// Occurrences returns the rune offsets at which the folded keyword appears in
// the folded name, overlapping matches included. A keyword that is empty or
// wider than maxWidth has no occurrences, mirroring what the index can find.
func Occurrences(name, keyword string, maxWidth int) []int {
	term := []rune(Fold(keyword))
	if len(term) == 0 || len(term) > maxWidth {
		return nil
	}
	runes := []rune(Fold(name))

	var positions []int
	for start := 0; start+len(term) <= len(runes); start++ {
		if runesEqual(runes[start:start+len(term)], term) {
			positions = append(positions, start)
		}
	}
	return positions
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// termWidth reports the rune length of an already folded term.
func termWidth(term string) int {
	return utf8.RuneCountInString(term)
}
