package analyzer

import (
	"testing"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

func TestScoreRegisterPoliteScenario(t *testing.T) {
	formal := normalizeText("disculpe usted podría ayudarme buenos días")
	informal := normalizeText("oye tío qué pasa mola mucho")

	if got := scoreRegister(formal, domain.ScenarioRequests); got != 100 {
		t.Errorf("formal speech in polite scenario = %f, want 100", got)
	}
	if got := scoreRegister(informal, domain.ScenarioRequests); got != 60 {
		t.Errorf("informal speech in polite scenario = %f, want 60", got)
	}
	// Flexible scenarios accept any register.
	if got := scoreRegister(informal, domain.ScenarioGreetings); got != 100 {
		t.Errorf("informal speech in flexible scenario = %f, want 100", got)
	}
	// Informal scenarios penalize formal speech mildly.
	if got := scoreRegister(formal, domain.ScenarioFamily); got != 70 {
		t.Errorf("formal speech in informal scenario = %f, want 70", got)
	}
}

func TestDetectMarkers(t *testing.T) {
	text := normalizeText("bueno pues creo que la verdad mira no sé")
	found := detectMarkers(text)
	if len(found) != 5 {
		t.Fatalf("markers found = %v, want 5 entries", found)
	}

	seen := map[string]bool{}
	for _, m := range found {
		if seen[m] {
			t.Errorf("duplicate marker %q", m)
		}
		seen[m] = true
	}
}

func TestScoreMarkerCount(t *testing.T) {
	cases := []struct {
		count int
		want  float64
	}{
		{0, 60}, {1, 70}, {2, 85}, {3, 100}, {7, 100},
	}
	for _, tc := range cases {
		if got := scoreMarkerCount(tc.count); got != tc.want {
			t.Errorf("scoreMarkerCount(%d) = %f, want %f", tc.count, got, tc.want)
		}
	}
}

func TestScoreTurnTaking(t *testing.T) {
	words := []domain.Word{{Text: "mira", StartSec: 0.5, EndSec: 0.8}}
	text := normalizeText("mira esto")

	// Base 75 + 10 marker + 15 prompt onset.
	if got := scoreTurnTaking(text, words); got != 100 {
		t.Errorf("prompt marked turn = %f, want 100", got)
	}

	slow := []domain.Word{{Text: "esto", StartSec: 3.0, EndSec: 3.4}}
	// Base 75 - 10 slow start.
	if got := scoreTurnTaking(normalizeText("esto"), slow); got != 65 {
		t.Errorf("slow turn = %f, want 65", got)
	}

	// No words at all keeps the base.
	if got := scoreTurnTaking("", nil); got != 75 {
		t.Errorf("empty turn = %f, want 75", got)
	}
}

func TestCommunicativeAnalyzeComposes(t *testing.T) {
	a := NewCommunicative()
	res, err := a.Analyze(Input{
		Transcript: domain.TranscriptResult{
			Text:  "bueno pues mira creo que está bien",
			Words: []domain.Word{{Text: "bueno", StartSec: 0.4, EndSec: 0.7}},
		},
		Scenario: domain.ScenarioSmallTalk,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	details := res.Details.(domain.CommunicativeDetails)
	if len(details.MarkersFound) == 0 {
		t.Error("expected discourse markers to be found")
	}
	want := 0.40*details.RegisterScore + 0.35*details.DiscourseScore + 0.25*details.TurnTakingScore
	if res.Score != want {
		t.Errorf("score = %f, want weighted %f", res.Score, want)
	}
}
