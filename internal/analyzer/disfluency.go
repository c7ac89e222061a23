package analyzer

import (
	"math"
	"regexp"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// Disfluency counts filled pauses, repetitions, self-corrections and
// false starts, mapping the per-minute rate to a score. Lower raw rate
// means a higher score; the composite scorer inverts it.
type Disfluency struct{}

func NewDisfluency() *Disfluency { return &Disfluency{} }

func (a *Disfluency) Metric() domain.Metric { return domain.MetricDisfluency }

var (
	filledPausePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(eh+|uh+|um+|ah+|mm+)\b`),
		regexp.MustCompile(`(?i)\b(este|esto|pues|bueno)\b`),
		regexp.MustCompile(`(?i)\b(doncs|o sigui)\b`),
		regexp.MustCompile(`(?i)\b(eee+|aaa+|ooo+)\b`),
	}
	correctionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(\w+)\s*[-–]\s*(\w+)\b`),
		regexp.MustCompile(`(?i)\bno,?\s+(no\s+)?quiero\s+decir\b`),
		regexp.MustCompile(`(?i)\bo sea\b`),
		regexp.MustCompile(`(?i)\bdigo\b`),
	}
)

func (a *Disfluency) Analyze(in Input) (domain.AnalysisResult, error) {
	text := in.Transcript.Text
	normalized := normalizeText(text)

	details := domain.DisfluencyDetails{
		FilledPauses: countFilledPauses(text, normalized),
		Repetitions:  countRepetitions(domain.TokenizeWords(text)),
		FalseStarts:  countFalseStarts(in.Transcript.Words),
	}
	corrections := countMatches(text, correctionPatterns)

	total := details.FilledPauses + details.Repetitions + corrections + details.FalseStarts

	minutes := in.Features.DurationSec / 60.0
	if minutes <= 0 {
		minutes = 1
	}
	rate := float64(total) / minutes
	details.RatePerMinute = rate

	return domain.AnalysisResult{Score: DisfluencyRateScore(rate), Details: details}, nil
}

func countFilledPauses(text, normalized string) int {
	seen := map[string]bool{}
	count := 0
	for _, p := range filledPausePatterns {
		for _, m := range p.FindAllString(text, -1) {
			if !seen[m] {
				seen[m] = true
			}
			count++
		}
	}
	for _, group := range []string{"spanish", "catalan"} {
		for _, w := range filledPauseWords[group] {
			if !seen[w] && hasPhrase(normalized, w) {
				seen[w] = true
				count++
			}
		}
	}
	return count
}

// countRepetitions finds immediate word repeats ("la la casa") and
// repeated bigrams ("es que es que").
func countRepetitions(tokens []string) int {
	count := 0
	for i := 0; i < len(tokens)-1; i++ {
		if tokens[i] == tokens[i+1] {
			count++
		}
	}
	for i := 0; i < len(tokens)-3; i++ {
		if tokens[i] == tokens[i+2] && tokens[i+1] == tokens[i+3] && tokens[i] != tokens[i+1] {
			count++
		}
	}
	return count
}

func countMatches(text string, patterns []*regexp.Regexp) int {
	count := 0
	for _, p := range patterns {
		count += len(p.FindAllStringIndex(text, -1))
	}
	return count
}

// countFalseStarts flags very short words (<100 ms, <=2 chars) followed
// by a gap longer than 300 ms.
func countFalseStarts(words []domain.Word) int {
	count := 0
	for i := 0; i < len(words)-1; i++ {
		w := words[i]
		duration := w.EndSec - w.StartSec
		if duration < 0.1 && len([]rune(w.Text)) <= 2 {
			if words[i+1].StartSec-w.EndSec > 0.3 {
				count++
			}
		}
	}
	return count
}

// DisfluencyRateScore maps disfluencies-per-minute to a score. The
// mapping is piecewise linear and monotonically non-increasing.
func DisfluencyRateScore(rate float64) float64 {
	switch {
	case rate <= 1:
		return 100.0
	case rate <= 3:
		return 100 - (rate-1)*5
	case rate <= 5:
		return 90 - (rate-3)*10
	case rate <= 10:
		return 70 - (rate-5)*4
	default:
		return math.Max(0, 50-(rate-10)*5)
	}
}
