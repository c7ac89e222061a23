package domain

import (
	"strings"
	"unicode"
)

// TokenizeWords lowercases s and splits it into words, trimming
// surrounding punctuation from each token. Empty tokens are dropped.
func TokenizeWords(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}
