package scoring

import (
	"testing"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

func TestGenerateFeedbackLimitsToThree(t *testing.T) {
	b := breakdownWith(95, 95, 95, 95, 95, 95)
	b.Lexical.Details = domain.LexicalDetails{ExpressionsFound: []string{"què tal"}}
	b.Communicative.Details = domain.CommunicativeDetails{MarkersFound: []string{"bueno"}}

	fb := GenerateFeedback(b, 95, domain.ScenarioGreetings)
	if len(fb.Strengths) != 3 {
		t.Errorf("strengths = %d entries, want 3", len(fb.Strengths))
	}
	if len(fb.Improvements) != 0 {
		t.Errorf("expected no improvements for a strong breakdown, got %v", fb.Improvements)
	}
	if len(fb.Suggestions) == 0 || len(fb.Suggestions) > 3 {
		t.Errorf("suggestions = %d entries, want 1..3", len(fb.Suggestions))
	}
}

func TestGenerateFeedbackIgnoresUnsetSubScores(t *testing.T) {
	// Partial detail structs leave sub-scores at zero; zero must read as
	// "not measured", not as a failing score.
	b := breakdownWith(85, 85, 85, 85, 85, 85)
	b.Pronunciation.Details = domain.PronunciationDetails{}
	b.Communicative.Details = domain.CommunicativeDetails{MarkersFound: []string{"pues"}}

	fb := GenerateFeedback(b, 85, domain.ScenarioOpinions)
	if len(fb.Improvements) != 0 {
		t.Errorf("expected no improvements for unset sub-scores, got %v", fb.Improvements)
	}
}

func TestGenerateFeedbackWeakSpeaker(t *testing.T) {
	b := breakdownWith(50, 55, 60, 40, 45, 50)
	b.Temporal.Details = domain.TemporalDetails{WordsPerMinute: 80}
	b.Disfluency.Details = domain.DisfluencyDetails{FilledPauses: 5, Repetitions: 3}

	fb := GenerateFeedback(b, 48, domain.ScenarioFamily)
	if len(fb.Strengths) != 0 {
		t.Errorf("expected no strengths, got %v", fb.Strengths)
	}
	if len(fb.Improvements) != 3 {
		t.Errorf("improvements = %d entries, want 3 (capped)", len(fb.Improvements))
	}
	if len(fb.Suggestions) != 3 {
		t.Errorf("suggestions = %d entries, want 3 (capped)", len(fb.Suggestions))
	}
	if fb.Summary != "Focus on the fundamentals to build stronger fluency." {
		t.Errorf("unexpected summary %q", fb.Summary)
	}
}

func TestSummaryBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{92, "Excellent fluency! Your speech sounds natural and native-like."},
		{80, "Good conversational fluency with natural expression."},
		{65, "Developing fluency - keep practicing for more natural flow."},
		{30, "Focus on the fundamentals to build stronger fluency."},
	}
	for _, tc := range cases {
		if got := summaryFor(tc.score); got != tc.want {
			t.Errorf("summaryFor(%.0f) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestPracticeSuggestionsDeduped(t *testing.T) {
	b := breakdownWith(50, 50, 50, 40, 50, 50)
	got := practiceSuggestions(b, domain.ScenarioGreetings)

	seen := map[string]bool{}
	for _, s := range got {
		if seen[s] {
			t.Errorf("duplicate suggestion %q", s)
		}
		seen[s] = true
	}
}

func TestImprovementsOrderedWorstFirst(t *testing.T) {
	b := breakdownWith(60, 80, 80, 80, 30, 80)
	fb := GenerateFeedback(b, 60, domain.ScenarioGreetings)

	if len(fb.Improvements) < 2 {
		t.Fatalf("expected at least 2 improvements, got %v", fb.Improvements)
	}
	if fb.Improvements[0] != "Add more expression to avoid monotone speech" {
		t.Errorf("worst metric should lead, got %q", fb.Improvements[0])
	}
}
