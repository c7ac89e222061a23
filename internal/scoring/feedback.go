package scoring

import (
	"sort"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// GenerateFeedback derives the top strengths, improvement areas and
// practice suggestions from the breakdown. Each list holds at most
// three entries; suggestions are deduplicated preserving order.
func GenerateFeedback(b domain.MetricsBreakdown, score float64, scenario domain.Scenario) domain.FeedbackResult {
	return domain.FeedbackResult{
		Summary:      summaryFor(score),
		Strengths:    top3(identifyStrengths(b)),
		Improvements: top3(identifyImprovements(b)),
		Suggestions:  top3(practiceSuggestions(b, scenario)),
	}
}

func summaryFor(score float64) string {
	switch {
	case score >= 90:
		return "Excellent fluency! Your speech sounds natural and native-like."
	case score >= 75:
		return "Good conversational fluency with natural expression."
	case score >= 60:
		return "Developing fluency - keep practicing for more natural flow."
	default:
		return "Focus on the fundamentals to build stronger fluency."
	}
}

type candidate struct {
	text  string
	score float64
}

func identifyStrengths(b domain.MetricsBreakdown) []string {
	var cands []candidate

	if b.Pronunciation.Score >= 80 {
		cands = append(cands, candidate{"Clear pronunciation and articulation", b.Pronunciation.Score})
	}
	if d, ok := b.Pronunciation.Details.(domain.PronunciationDetails); ok && d.ExpressionScore >= 80 {
		cands = append(cands, candidate{"Excellent use of regional expressions", d.ExpressionScore})
	}

	if b.Temporal.Score >= 80 {
		cands = append(cands, candidate{"Natural speaking pace and rhythm", b.Temporal.Score})
	}
	if d, ok := b.Temporal.Details.(domain.TemporalDetails); ok {
		if d.WordsPerMinute >= 120 && d.WordsPerMinute <= 180 {
			cands = append(cands, candidate{"Appropriate speaking speed", b.Temporal.Score})
		}
	}

	if b.Lexical.Score >= 80 {
		cands = append(cands, candidate{"Accurate vocabulary usage", b.Lexical.Score})
	}
	if d, ok := b.Lexical.Details.(domain.LexicalDetails); ok && len(d.ExpressionsFound) > 0 {
		cands = append(cands, candidate{"Good integration of regional vocabulary", b.Lexical.Score})
	}

	// Disfluency: a high raw score means few disfluencies.
	if b.Disfluency.Score >= 80 {
		cands = append(cands, candidate{"Smooth speech with minimal hesitation", b.Disfluency.Score})
	}

	if b.Prosodic.Score >= 80 {
		cands = append(cands, candidate{"Expressive intonation and rhythm", b.Prosodic.Score})
	}

	if b.Communicative.Score >= 80 {
		cands = append(cands, candidate{"Appropriate register and discourse", b.Communicative.Score})
	}
	if d, ok := b.Communicative.Details.(domain.CommunicativeDetails); ok && len(d.MarkersFound) > 0 {
		cands = append(cands, candidate{"Natural use of discourse markers", b.Communicative.Score})
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })
	return texts(cands)
}

func identifyImprovements(b domain.MetricsBreakdown) []string {
	var cands []candidate

	if b.Pronunciation.Score < 70 {
		cands = append(cands, candidate{"Work on clearer pronunciation", b.Pronunciation.Score})
	}
	if d, ok := b.Pronunciation.Details.(domain.PronunciationDetails); ok {
		for _, e := range d.PhonemeErrors {
			switch e.Type {
			case "rolled_r":
				cands = append(cands, candidate{"Practice the rolled 'rr' sound", b.Pronunciation.Score})
			case "jota":
				cands = append(cands, candidate{"Work on the Spanish 'j' sound", b.Pronunciation.Score})
			}
		}
		// A zero sub-score means it was never measured, not that it is low.
		if d.IntonationScore > 0 && d.IntonationScore < 70 {
			cands = append(cands, candidate{"Pay attention to question and statement intonation", d.IntonationScore})
		}
	}

	if d, ok := b.Temporal.Details.(domain.TemporalDetails); ok {
		if d.WordsPerMinute > 0 && d.WordsPerMinute < 100 {
			cands = append(cands, candidate{"Try to speak at a more natural pace", b.Temporal.Score})
		} else if d.WordsPerMinute > 200 {
			cands = append(cands, candidate{"Slow down slightly for clarity", b.Temporal.Score})
		}
	}

	if d, ok := b.Lexical.Details.(domain.LexicalDetails); ok && d.WER > 0.3 {
		cands = append(cands, candidate{"Focus on vocabulary accuracy", b.Lexical.Score})
	}

	if d, ok := b.Disfluency.Details.(domain.DisfluencyDetails); ok {
		if d.FilledPauses > 3 {
			cands = append(cands, candidate{"Reduce filler words like 'um' and 'eh'", b.Disfluency.Score})
		}
		if d.Repetitions > 2 {
			cands = append(cands, candidate{"Work on avoiding word repetitions", b.Disfluency.Score})
		}
	}

	if b.Prosodic.Score < 70 {
		cands = append(cands, candidate{"Add more expression to avoid monotone speech", b.Prosodic.Score})
	}

	if d, ok := b.Communicative.Details.(domain.CommunicativeDetails); ok && d.RegisterScore > 0 && d.RegisterScore < 70 {
		cands = append(cands, candidate{"Match your language register to the context", b.Communicative.Score})
	}

	sort.SliceStable(cands, func(i, j int) bool { return cands[i].score < cands[j].score })
	return texts(cands)
}

var scenarioSuggestions = map[domain.Scenario]string{
	domain.ScenarioGreetings: "Practice common greeting exchanges with a partner",
	domain.ScenarioFarewells: "Learn different farewell phrases for various situations",
	domain.ScenarioFamily:    "Practice describing your family in detail",
	domain.ScenarioEmotions:  "Practice expressing different emotions with appropriate intonation",
	domain.ScenarioPlans:     "Practice using future tenses in conversation",
	domain.ScenarioRequests:  "Learn polite request formulas",
	domain.ScenarioApologies: "Practice apologizing in both formal and informal situations",
	domain.ScenarioOpinions:  "Practice stating and defending opinions with connectors",
	domain.ScenarioSmallTalk: "Practice casual conversation openers and follow-up questions",
}

var genericSuggestions = []string{
	"Practice speaking aloud daily for at least 10 minutes",
	"Watch Spanish films and repeat dialogue",
	"Find a conversation partner for regular practice",
}

func practiceSuggestions(b domain.MetricsBreakdown, scenario domain.Scenario) []string {
	var suggestions []string

	if b.Pronunciation.Score < 80 {
		suggestions = append(suggestions, "Record yourself and compare to native speakers")
	}
	if d, ok := b.Pronunciation.Details.(domain.PronunciationDetails); ok && len(d.PhonemeErrors) > 0 {
		suggestions = append(suggestions, "Practice minimal pairs for sounds you find difficult")
	}
	if b.Temporal.Score < 80 {
		suggestions = append(suggestions, "Practice with a metronome to develop consistent rhythm")
	}
	if b.Disfluency.Score < 70 {
		suggestions = append(suggestions,
			"Practice pausing silently instead of using filler words",
			"Prepare key phrases before speaking")
	}
	if d, ok := b.Prosodic.Details.(domain.ProsodicDetails); ok && d.RhythmScore < 70 {
		suggestions = append(suggestions, "Listen to Spanish podcasts and shadow the speakers")
	}

	if s, ok := scenarioSuggestions[scenario]; ok {
		suggestions = append(suggestions, s)
	}
	if len(suggestions) < 3 {
		suggestions = append(suggestions, genericSuggestions...)
	}

	return dedupe(suggestions)
}

func dedupe(items []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

func top3(items []string) []string {
	if len(items) > 3 {
		return items[:3]
	}
	return items
}

func texts(cands []candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.text)
	}
	return out
}
