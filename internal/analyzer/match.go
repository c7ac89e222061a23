package analyzer

import (
	"strings"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// normalizeText lowercases and strips punctuation, returning a
// space-padded token string so phrase lookups match whole words only.
func normalizeText(text string) string {
	tokens := domain.TokenizeWords(text)
	if len(tokens) == 0 {
		return " "
	}
	return " " + strings.Join(tokens, " ") + " "
}

// hasPhrase reports whether the normalized text contains the phrase as a
// whole-word sequence.
func hasPhrase(normalized, phrase string) bool {
	p := domain.TokenizeWords(phrase)
	if len(p) == 0 {
		return false
	}
	return strings.Contains(normalized, " "+strings.Join(p, " ")+" ")
}

// findPhrases returns the subset of phrases present in the text, in
// lexicon order.
func findPhrases(normalized string, phrases []string) []string {
	var found []string
	for _, p := range phrases {
		if hasPhrase(normalized, p) {
			found = append(found, p)
		}
	}
	return found
}
