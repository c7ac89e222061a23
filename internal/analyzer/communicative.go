package analyzer

import (
	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// Communicative scores pragmatic competence: register fit for the
// scenario, discourse-marker usage, and turn-taking signals.
type Communicative struct{}

func NewCommunicative() *Communicative { return &Communicative{} }

func (a *Communicative) Metric() domain.Metric { return domain.MetricCommunicative }

func (a *Communicative) Analyze(in Input) (domain.AnalysisResult, error) {
	normalized := normalizeText(in.Transcript.Text)

	registerScore := scoreRegister(normalized, in.Scenario)

	details := domain.CommunicativeDetails{
		RegisterScore: registerScore,
		MarkersFound:  detectMarkers(normalized),
	}
	details.DiscourseScore = scoreMarkerCount(len(details.MarkersFound))
	details.TurnTakingScore = scoreTurnTaking(normalized, in.Transcript.Words)

	score := 0.40*details.RegisterScore +
		0.35*details.DiscourseScore +
		0.25*details.TurnTakingScore
	return domain.AnalysisResult{Score: clampScore(score), Details: details}, nil
}

// scoreRegister classifies the utterance as formal, informal, mixed or
// neutral from marker counts, then grades the fit for the scenario.
func scoreRegister(normalized string, scenario domain.Scenario) float64 {
	formal, informal := 0, 0
	for _, group := range formalMarkers {
		for _, m := range group {
			if hasPhrase(normalized, m) {
				formal++
			}
		}
	}
	for _, group := range informalMarkers {
		for _, m := range group {
			if hasPhrase(normalized, m) {
				informal++
			}
		}
	}

	var detected string
	switch {
	case formal > informal*2:
		detected = "formal"
	case informal > formal*2:
		detected = "informal"
	case formal > 0 && informal > 0:
		detected = "mixed"
	default:
		detected = "neutral"
	}

	expected, ok := scenarioRegister[scenario]
	if !ok {
		expected = registerFlexible
	}

	switch expected {
	case registerFlexible:
		return 100.0
	case registerPolite:
		switch detected {
		case "formal", "neutral":
			return 100.0
		case "mixed":
			return 80.0
		default:
			return 60.0
		}
	case registerInformal:
		switch detected {
		case "informal", "neutral":
			return 100.0
		case "mixed":
			return 85.0
		default:
			return 70.0
		}
	}
	return 80.0
}

func detectMarkers(normalized string) []string {
	seen := map[string]bool{}
	var found []string
	for _, group := range []string{"connectors", "hedges", "emphatics", "turn_taking"} {
		for _, m := range discourseMarkers[group] {
			if !seen[m] && hasPhrase(normalized, m) {
				seen[m] = true
				found = append(found, m)
			}
		}
	}
	return found
}

// scoreMarkerCount rewards discourse-marker density up to three.
func scoreMarkerCount(count int) float64 {
	switch {
	case count == 0:
		return 60.0
	case count == 1:
		return 70.0
	case count == 2:
		return 85.0
	default:
		return 100.0
	}
}

// scoreTurnTaking starts from a neutral base, rewards turn-taking
// markers and a prompt first word, and penalizes a slow start.
func scoreTurnTaking(normalized string, words []domain.Word) float64 {
	score := 75.0

	for _, m := range discourseMarkers["turn_taking"] {
		if hasPhrase(normalized, m) {
			score += 10
			break
		}
	}

	if len(words) > 0 {
		first := words[0].StartSec
		if first >= 0.2 && first <= 1.0 {
			score += 15
		} else if first > 2.0 {
			score -= 10
		}
	}

	return clampScore(score)
}
