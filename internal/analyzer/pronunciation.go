package analyzer

import (
	"math"
	"regexp"
	"strings"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// Pronunciation scores articulation quality from recognizer confidence,
// regional-expression pronunciation, intonation contour and word stress.
type Pronunciation struct{}

func NewPronunciation() *Pronunciation { return &Pronunciation{} }

func (a *Pronunciation) Metric() domain.Metric { return domain.MetricPronunciation }

const neutralScore = 75.0

var thetaPattern = regexp.MustCompile(`[zc][ei]`)

// phonemeHints maps a challenging sound class to a practice suggestion.
var phonemeHints = map[string]string{
	"rolled_r": "Practice the rolled 'rr' with tongue trills",
	"jota":     "The 'j' is a strong guttural sound from the throat",
	"ene":      "The 'ñ' is like 'ny' in canyon",
	"ll_sound": "In Catalan Spanish, 'll' is often pronounced like 'y'",
	"theta":    "In Castilian Spanish, 'z' and 'ce/ci' are pronounced like 'th'",
}

func (a *Pronunciation) Analyze(in Input) (domain.AnalysisResult, error) {
	normalized := normalizeText(in.Transcript.Text)

	details := domain.PronunciationDetails{
		ConfidenceScore: neutralScore,
		IntonationScore: neutralScore,
		StressScore:     neutralScore,
	}

	if len(in.Transcript.Words) > 0 {
		details.ConfidenceScore = confidenceScore(in.Transcript.Words)
	}
	details.PhonemeErrors = detectPhonemeErrors(in.Transcript.Words)
	details.ExpressionsFound, details.ExpressionScore = scoreExpressions(normalized, in.Transcript.Words)
	details.IntonationScore = scoreIntonation(in.Features.PitchSeries, in.ExpectedText)
	details.StressScore = scoreStress(in.Transcript.Words)

	// An empty expression score means none were expected; treat as neutral.
	expression := details.ExpressionScore
	if expression == 0 {
		expression = neutralScore
	}
	score := 0.40*details.ConfidenceScore +
		0.20*expression +
		0.20*details.IntonationScore +
		0.20*details.StressScore

	return domain.AnalysisResult{Score: clampScore(score), Details: details}, nil
}

func confidenceScore(words []domain.Word) float64 {
	var sum float64
	for _, w := range words {
		sum += w.Confidence
	}
	avg := sum / float64(len(words))
	return math.Min(100, avg*100)
}

// detectPhonemeErrors flags low-confidence words containing sounds that
// commonly trip learners, at most five.
func detectPhonemeErrors(words []domain.Word) []domain.PhonemeError {
	var errs []domain.PhonemeError
	for _, w := range words {
		if w.Confidence >= 0.8 {
			continue
		}
		kind := challengingSound(strings.ToLower(w.Text))
		if kind == "" {
			continue
		}
		errs = append(errs, domain.PhonemeError{
			Word:       w.Text,
			Type:       kind,
			Confidence: w.Confidence,
			Suggestion: phonemeHints[kind],
		})
		if len(errs) == 5 {
			break
		}
	}
	return errs
}

func challengingSound(word string) string {
	switch {
	case strings.Contains(word, "rr"):
		return "rolled_r"
	case strings.Contains(word, "j"):
		return "jota"
	case strings.Contains(word, "ñ"):
		return "ene"
	case strings.Contains(word, "ll"):
		return "ll_sound"
	case thetaPattern.MatchString(word):
		return "theta"
	}
	return ""
}

// scoreExpressions returns the regional expressions found in the text
// and the mean recognizer confidence over them, scaled to 0-100. Zero
// means no expression was present.
func scoreExpressions(normalized string, words []domain.Word) ([]string, float64) {
	found := findPhrases(normalized, allRegionalExpressions())
	if len(found) == 0 {
		return nil, 0
	}

	var sum float64
	for _, expr := range found {
		conf := 1.0
		for _, w := range words {
			if strings.Contains(strings.ToLower(w.Text), expr) {
				conf = w.Confidence
				break
			}
		}
		sum += conf * 100
	}
	return found, sum / float64(len(found))
}

// scoreIntonation compares the pitch contour at utterance start and end
// against the shape the expected sentence calls for: rising for a
// question, falling or flat for a statement.
func scoreIntonation(pitch []float64, expectedText string) float64 {
	if len(pitch) <= 10 || expectedText == "" {
		return neutralScore
	}

	startAvg := meanOf(pitch[:5])
	endAvg := meanOf(pitch[len(pitch)-5:])

	if strings.HasSuffix(strings.TrimSpace(expectedText), "?") {
		if endAvg > startAvg {
			return 100.0
		}
		return 60.0
	}

	switch {
	case endAvg < startAvg:
		return 100.0
	case math.Abs(endAvg-startAvg) < startAvg*0.1:
		return 80.0
	default:
		return 70.0
	}
}

// scoreStress uses the coefficient of variation of word durations as a
// proxy for stress placement. Moderate variation reads as natural;
// uniform timing sounds robotic and extreme variation sounds choppy.
func scoreStress(words []domain.Word) float64 {
	if len(words) < 3 {
		return neutralScore
	}

	var durations []float64
	for _, w := range words {
		if d := w.EndSec - w.StartSec; d > 0 {
			durations = append(durations, d)
		}
	}
	if len(durations) == 0 {
		return neutralScore
	}

	avg := meanOf(durations)
	if avg == 0 {
		return neutralScore
	}
	var variance float64
	for _, d := range durations {
		variance += (d - avg) * (d - avg)
	}
	variance /= float64(len(durations))
	cv := math.Sqrt(variance) / avg

	switch {
	case cv >= 0.2 && cv <= 0.5:
		return 100.0
	case cv < 0.2:
		return 70.0
	default:
		return 60.0
	}
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
