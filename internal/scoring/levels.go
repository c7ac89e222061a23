package scoring

import (
	"strings"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// complexityMarkers weight grammatical structures that signal text
// complexity: subjunctive and conditional forms, past tenses, and
// connectives.
var complexityMarkers = map[string]int{
	"hubiera": 3, "pudiera": 3, "quisiera": 3,
	"sea": 2, "este": 2, "tenga": 2,
	"sería": 2, "estaría": 2, "tendría": 2,
	"había": 1, "era": 1, "estaba": 1,
	"sin embargo": 3, "no obstante": 3, "por lo tanto": 2,
	"aunque": 2, "porque": 1, "pero": 1,
}

// ClassifyTextLevel estimates the proficiency level of the transcript
// text from its grammatical complexity markers.
func ClassifyTextLevel(text string) domain.Level {
	lower := strings.ToLower(text)
	score := 0
	for marker, weight := range complexityMarkers {
		if strings.Contains(lower, marker) {
			score += weight
		}
	}
	switch {
	case score >= 6:
		return domain.LevelC1
	case score >= 4:
		return domain.LevelB2
	case score >= 2:
		return domain.LevelB1
	case score >= 1:
		return domain.LevelA2
	default:
		return domain.LevelA1
	}
}

// EstimateLevel reconciles the transcript's text complexity, the
// numeric fluency score and the user's claimed level into one estimate.
// Strong performance can raise the estimate toward the text level; weak
// performance lowers it below the claimed level.
func EstimateLevel(text string, score float64, claimed domain.Level) domain.Level {
	textLevel := ClassifyTextLevel(text)
	if !claimed.Valid() {
		claimed = domain.LevelB1
	}

	switch {
	case score >= 90:
		return domain.MaxLevel(textLevel, claimed)
	case score >= 75:
		return claimed
	case score >= 60:
		return domain.MidLevel(textLevel, claimed)
	default:
		return domain.MinLevel(textLevel, claimed.Below())
	}
}
