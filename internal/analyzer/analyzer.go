// Package analyzer holds the six scoring dimensions applied to every
// utterance. Each analyzer is a pure function of its input, deterministic,
// and clamps its score into [0,100]. Failures are isolated by the
// evaluation service, never propagated between analyzers.
package analyzer

import "github.com/speakeasy-labs/fluency-service/internal/domain"

// Input bundles the read-only material every analyzer works from.
type Input struct {
	Features     domain.AudioFeatures
	Transcript   domain.TranscriptResult
	ExpectedText string
	Scenario     domain.Scenario
	Level        domain.Level
}

// Analyzer scores one dimension of spoken fluency.
type Analyzer interface {
	Metric() domain.Metric
	Analyze(in Input) (domain.AnalysisResult, error)
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
