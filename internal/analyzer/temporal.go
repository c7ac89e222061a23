package analyzer

import (
	"math"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// Temporal scores speaking rate against the claimed level's target band,
// pause placement, and response latency.
type Temporal struct{}

func NewTemporal() *Temporal { return &Temporal{} }

func (a *Temporal) Metric() domain.Metric { return domain.MetricTemporal }

func (a *Temporal) Analyze(in Input) (domain.AnalysisResult, error) {
	details := domain.TemporalDetails{ResponseLatencyMS: -1}

	if len(in.Transcript.Words) > 0 && in.Features.DurationSec > 0 {
		minutes := in.Features.DurationSec / 60.0
		details.WordsPerMinute = float64(len(in.Transcript.Words)) / minutes
		details.ResponseLatencyMS = in.Transcript.Words[0].StartSec * 1000
	}

	details.RateScore = scoreRate(details.WordsPerMinute, in.Level)
	details.PauseScore = scorePauses(in.Features.Pauses)
	details.LatencyScore = scoreLatency(details.ResponseLatencyMS)

	score := 0.5*details.RateScore + 0.3*details.PauseScore + 0.2*details.LatencyScore
	return domain.AnalysisResult{Score: clampScore(score), Details: details}, nil
}

// scoreRate compares words-per-minute against the level's target band.
// Fast speech is penalized at half the rate of slow speech.
func scoreRate(wpm float64, level domain.Level) float64 {
	band, ok := targetRates[level]
	if !ok {
		band = targetRates[domain.LevelB1]
	}
	low, high := band[0], band[1]

	switch {
	case wpm >= low && wpm <= high:
		return 100.0
	case wpm < low:
		deviation := (low - wpm) / low
		return math.Max(0, 100-deviation*100)
	default:
		deviation := (wpm - high) / high
		return math.Max(0, 100-deviation*50)
	}
}

// scorePauses rewards pauses that fall into natural duration buckets and
// penalizes very long hesitations.
func scorePauses(pauses []domain.Pause) float64 {
	if len(pauses) == 0 {
		return 100.0
	}

	acceptable, veryLong := 0, 0
	for _, p := range pauses {
		if p.DurationMS >= 2000 {
			veryLong++
		} else {
			acceptable++
		}
	}

	score := float64(acceptable) / float64(len(pauses)) * 100
	score -= float64(veryLong) * 10
	return math.Max(0, score)
}

// scoreLatency rewards first-word onsets in the conversational 200-800 ms
// window. A negative latency means no word timing was available.
func scoreLatency(latencyMS float64) float64 {
	if latencyMS < 0 {
		return 100.0
	}
	switch {
	case latencyMS >= 200 && latencyMS <= 800:
		return 100.0
	case latencyMS < 200:
		return 90.0
	default:
		excess := latencyMS - 800
		penalty := math.Min(excess/1000*30, 50)
		return math.Max(50, 100-penalty)
	}
}
