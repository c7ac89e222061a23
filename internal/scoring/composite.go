// Package scoring turns the six analyzer results into the final score,
// band, estimated level and feedback.
package scoring

import (
	"fmt"
	"math"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// Weights holds the contribution of each analyzer to the composite
// score. Disfluency is inverted before weighting.
type Weights struct {
	Pronunciation float64 `mapstructure:"pronunciation"`
	Temporal      float64 `mapstructure:"temporal"`
	Lexical       float64 `mapstructure:"lexical"`
	Disfluency    float64 `mapstructure:"disfluency"`
	Prosodic      float64 `mapstructure:"prosodic"`
	Communicative float64 `mapstructure:"communicative"`
}

// DefaultWeights returns the standard weighting.
func DefaultWeights() Weights {
	return Weights{
		Pronunciation: 0.25,
		Temporal:      0.20,
		Lexical:       0.15,
		Disfluency:    0.20,
		Prosodic:      0.10,
		Communicative: 0.10,
	}
}

// Validate ensures the weights sum to 1.0 within tolerance.
func (w Weights) Validate() error {
	total := w.Pronunciation + w.Temporal + w.Lexical + w.Disfluency + w.Prosodic + w.Communicative
	if math.Abs(total-1.0) >= 0.001 {
		return fmt.Errorf("analyzer weights sum to %.4f, want 1.0", total)
	}
	return nil
}

// Composite calculates the weighted fluency score from the breakdown,
// clamped to [0,100].
func Composite(b domain.MetricsBreakdown, w Weights) float64 {
	disfluencyInverted := 100 - b.Disfluency.Score

	score := w.Pronunciation*b.Pronunciation.Score +
		w.Temporal*b.Temporal.Score +
		w.Lexical*b.Lexical.Score +
		w.Disfluency*disfluencyInverted +
		w.Prosodic*b.Prosodic.Score +
		w.Communicative*b.Communicative.Score

	return clamp(score)
}

// levelAdjustments makes the same raw performance read leniently for
// beginners and strictly toward mastery.
var levelAdjustments = map[domain.Level]float64{
	domain.LevelA1: 10,
	domain.LevelA2: 5,
	domain.LevelB1: 0,
	domain.LevelB2: -5,
	domain.LevelC1: -10,
	domain.LevelC2: -15,
}

// LevelAdjusted applies the claimed-level offset and clamps.
func LevelAdjusted(raw float64, level domain.Level) float64 {
	return clamp(raw + levelAdjustments[level])
}

// DetailedBreakdown reports each analyzer's weighted contribution.
func DetailedBreakdown(b domain.MetricsBreakdown, w Weights) map[domain.Metric]domain.Contribution {
	disfluencyInverted := 100 - b.Disfluency.Score
	return map[domain.Metric]domain.Contribution{
		domain.MetricPronunciation: {
			RawScore: b.Pronunciation.Score, Weight: w.Pronunciation,
			Contribution: b.Pronunciation.Score * w.Pronunciation,
		},
		domain.MetricTemporal: {
			RawScore: b.Temporal.Score, Weight: w.Temporal,
			Contribution: b.Temporal.Score * w.Temporal,
		},
		domain.MetricLexical: {
			RawScore: b.Lexical.Score, Weight: w.Lexical,
			Contribution: b.Lexical.Score * w.Lexical,
		},
		domain.MetricDisfluency: {
			RawScore: b.Disfluency.Score, InvertedScore: disfluencyInverted,
			Weight: w.Disfluency, Contribution: disfluencyInverted * w.Disfluency,
		},
		domain.MetricProsodic: {
			RawScore: b.Prosodic.Score, Weight: w.Prosodic,
			Contribution: b.Prosodic.Score * w.Prosodic,
		},
		domain.MetricCommunicative: {
			RawScore: b.Communicative.Score, Weight: w.Communicative,
			Contribution: b.Communicative.Score * w.Communicative,
		},
	}
}

func clamp(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
