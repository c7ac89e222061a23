package analyzer

import (
	"strings"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// Lexical scores vocabulary accuracy: word error rate against the
// expected text, regional-expression usage, and keyword coverage.
type Lexical struct{}

func NewLexical() *Lexical { return &Lexical{} }

func (a *Lexical) Metric() domain.Metric { return domain.MetricLexical }

func (a *Lexical) Analyze(in Input) (domain.AnalysisResult, error) {
	normalized := normalizeText(in.Transcript.Text)

	details := domain.LexicalDetails{}
	if in.ExpectedText != "" {
		details.WER = WordErrorRate(in.Transcript.Text, in.ExpectedText)
	}

	details.ExpressionsFound = findPhrases(normalized, allRegionalExpressions())
	details.SlangFound = findSlang(normalized)

	score := 100.0
	score -= details.WER * 50

	if expected := regionalExpressions[in.Scenario]; len(expected) > 0 {
		used := 0
		for _, e := range details.ExpressionsFound {
			for _, exp := range expected {
				if e == exp {
					used++
					break
				}
			}
		}
		details.ExpressionBonus = float64(used) / float64(len(expected)) * 15
		score += details.ExpressionBonus
	}

	if in.ExpectedText != "" {
		hit, total := keywordCoverage(in.Transcript.Text, in.ExpectedText)
		if total > 0 {
			details.CompletenessBonus = float64(hit) / float64(total) * 10
			score += details.CompletenessBonus
		}
	}

	details.VocabularyLevel = assessVocabulary(normalized, details.ExpressionsFound, details.SlangFound)

	return domain.AnalysisResult{Score: clampScore(score), Details: details}, nil
}

// WordErrorRate is the word-level edit distance between hypothesis and
// reference, normalized by reference length and capped at 1.
func WordErrorRate(hypothesis, reference string) float64 {
	hyp := domain.TokenizeWords(hypothesis)
	ref := domain.TokenizeWords(reference)
	if len(ref) == 0 {
		return 0
	}

	m, n := len(hyp), len(ref)
	prev := make([]int, n+1)
	curr := make([]int, n+1)
	for j := 0; j <= n; j++ {
		prev[j] = j
	}
	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			if hyp[i-1] == ref[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = 1 + min3(prev[j], curr[j-1], prev[j-1])
			}
		}
		prev, curr = curr, prev
	}

	wer := float64(prev[n]) / float64(n)
	if wer > 1 {
		return 1
	}
	return wer
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// keywordCoverage counts how many content words of the expected text
// (length >= 4, non-numeric) appear in the response.
func keywordCoverage(text, expected string) (hit, total int) {
	keywords := map[string]bool{}
	for _, w := range domain.TokenizeWords(expected) {
		if len([]rune(w)) >= 4 && !isNumeric(w) {
			keywords[w] = true
		}
	}
	if len(keywords) == 0 {
		return 0, 0
	}

	present := map[string]bool{}
	for _, w := range domain.TokenizeWords(text) {
		present[w] = true
	}
	for kw := range keywords {
		if present[kw] {
			hit++
		}
	}
	return hit, len(keywords)
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func findSlang(normalized string) []string {
	var found []string
	seen := map[string]bool{}
	for _, group := range []string{"common", "intensifiers", "fillers"} {
		for _, s := range spanishSlang[group] {
			if !seen[s] && hasPhrase(normalized, s) {
				seen[s] = true
				found = append(found, s)
			}
		}
	}
	return found
}

// assessVocabulary grades vocabulary richness from regional and slang
// usage plus complex verb forms.
func assessVocabulary(normalized string, expressions, slang []string) domain.Level {
	advanced := len(expressions) + len(slang)
	for _, marker := range []string{"hubiera", "pudiera", "quisiera"} {
		if hasPhrase(normalized, marker) {
			advanced++
		}
	}
	if strings.Contains(normalized, "subj") {
		advanced++
	}

	switch {
	case advanced >= 3:
		return domain.LevelC1
	case advanced >= 1:
		return domain.LevelB1
	default:
		return domain.LevelA1
	}
}
