package analyzer

import (
	"math"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// Prosodic scores melody and rhythm: pitch placement and variation,
// rhythm regularity (nPVI), volume consistency, and a coarse
// emotional-congruence check against the scenario.
type Prosodic struct{}

func NewProsodic() *Prosodic { return &Prosodic{} }

func (a *Prosodic) Metric() domain.Metric { return domain.MetricProsodic }

// Spanish is syllable-timed; natural nPVI sits in a low band.
const (
	pviTargetLow  = 30.0
	pviTargetHigh = 50.0
)

func (a *Prosodic) Analyze(in Input) (domain.AnalysisResult, error) {
	f := in.Features

	details := domain.ProsodicDetails{
		PitchScore:      scorePitch(f.PitchMeanHz, f.PitchStdHz),
		RhythmScore:     scoreRhythm(f.NPVI),
		VolumeScore:     scoreVolume(f.IntensityMeanDB, f.IntensityStdDB),
		DetectedEmotion: detectEmotion(f),
	}
	details.EmotionScore = scoreEmotion(details.DetectedEmotion, in.Scenario)

	score := 0.35*details.PitchScore +
		0.25*details.RhythmScore +
		0.20*details.VolumeScore +
		0.20*details.EmotionScore
	return domain.AnalysisResult{Score: clampScore(score), Details: details}, nil
}

// scorePitch checks the mean against a plausible voice band and the
// variation against an ideal ratio of the mean. Exact thresholds are
// tunable constants, not calibrated claims.
func scorePitch(mean, std float64) float64 {
	if mean <= 0 {
		return 50.0
	}

	const minExpected, maxExpected = 100.0, 250.0
	rangeScore := 100.0
	if mean < minExpected {
		rangeScore -= (minExpected - mean) / minExpected * 30
	} else if mean > maxExpected {
		rangeScore -= (mean - maxExpected) / maxExpected * 30
	}

	ratio := std / mean
	var variationScore float64
	switch {
	case ratio < 0.05:
		variationScore = 60 + ratio/0.05*40
	case ratio > 0.30:
		variationScore = 100 - (ratio-0.30)/0.30*50
	default:
		variationScore = 100.0
	}

	return clampScore((rangeScore + variationScore) / 2)
}

func scoreRhythm(pvi float64) float64 {
	if pvi <= 0 {
		return 50.0
	}
	switch {
	case pvi >= pviTargetLow && pvi <= pviTargetHigh:
		return 100.0
	case pvi < pviTargetLow:
		deviation := (pviTargetLow - pvi) / pviTargetLow
		return math.Max(60, 100-deviation*40)
	default:
		deviation := (pvi - pviTargetHigh) / pviTargetHigh
		return math.Max(50, 100-deviation*50)
	}
}

// scoreVolume uses the coefficient of variation of intensity. Note the
// mean is in dB and negative for normalized speech, so the magnitude is
// used.
func scoreVolume(meanDB, stdDB float64) float64 {
	mean := math.Abs(meanDB)
	if mean == 0 {
		return 75.0
	}
	cv := stdDB / mean
	switch {
	case cv < 0.05:
		return 80.0
	case cv < 0.10:
		return 90.0
	case cv <= 0.30:
		return 100.0
	case cv <= 0.50:
		return 80.0
	default:
		return math.Max(50, 100-(cv-0.50)*100)
	}
}

// detectEmotion is a coarse heuristic over pitch variation and speech
// ratio. Thresholds are tunable constants.
func detectEmotion(f domain.AudioFeatures) string {
	if f.PitchMeanHz <= 0 {
		return "neutral"
	}
	variation := f.PitchStdHz / f.PitchMeanHz
	switch {
	case variation > 0.25 && f.SpeechRatio > 0.85:
		return "excited"
	case variation < 0.08:
		return "sad"
	case variation > 0.15:
		return "happy"
	default:
		return "neutral"
	}
}

func scoreEmotion(detected string, scenario domain.Scenario) float64 {
	expected, ok := scenarioEmotions[scenario]
	if !ok {
		return 75.0
	}
	for _, e := range expected {
		if e == "varied" {
			return 85.0
		}
	}
	neutralAllowed := false
	for _, e := range expected {
		if e == detected {
			return 100.0
		}
		if e == "neutral" {
			neutralAllowed = true
		}
	}
	if neutralAllowed {
		return 80.0
	}
	return 60.0
}
