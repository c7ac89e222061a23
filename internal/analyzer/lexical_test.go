package analyzer

import (
	"math"
	"testing"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

func TestWordErrorRate(t *testing.T) {
	if got := WordErrorRate("hola como estas", "hola como estas"); got != 0 {
		t.Errorf("identical texts WER = %f, want 0", got)
	}
	if got := WordErrorRate("Hola, ¿cómo estás?", "hola cómo estás"); got != 0 {
		t.Errorf("punctuation-only difference WER = %f, want 0", got)
	}
	if got := WordErrorRate("", "hola como estas"); got != 1 {
		t.Errorf("empty hypothesis WER = %f, want 1", got)
	}
	if got := WordErrorRate("cualquier cosa", ""); got != 0 {
		t.Errorf("empty reference WER = %f, want 0", got)
	}

	// One substitution out of three reference words.
	got := WordErrorRate("hola como esta", "hola como estas")
	if math.Abs(got-1.0/3.0) > 1e-9 {
		t.Errorf("single substitution WER = %f, want 1/3", got)
	}

	// WER is capped even when the hypothesis is much longer.
	if got := WordErrorRate("a b c d e f g h", "x"); got != 1 {
		t.Errorf("capped WER = %f, want 1", got)
	}
}

func TestLexicalPerfectMatch(t *testing.T) {
	a := NewLexical()
	res, err := a.Analyze(Input{
		Transcript:   domain.TranscriptResult{Text: "buenos días quiero reservar una mesa"},
		ExpectedText: "buenos días quiero reservar una mesa",
		Scenario:     domain.ScenarioRequests,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	details := res.Details.(domain.LexicalDetails)
	if details.WER != 0 {
		t.Errorf("WER = %f, want 0", details.WER)
	}
	if details.CompletenessBonus != 10 {
		t.Errorf("completeness bonus = %f, want 10", details.CompletenessBonus)
	}
	if res.Score != 100 {
		t.Errorf("score = %f, want 100 (clamped)", res.Score)
	}
}

func TestLexicalExpressionBonus(t *testing.T) {
	a := NewLexical()
	res, err := a.Analyze(Input{
		Transcript: domain.TranscriptResult{Text: "si us plau escolta una cosa"},
		Scenario:   domain.ScenarioRequests,
	})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	details := res.Details.(domain.LexicalDetails)
	if len(details.ExpressionsFound) < 2 {
		t.Errorf("expressions found = %v, want si us plau and escolta", details.ExpressionsFound)
	}
	if details.ExpressionBonus <= 0 {
		t.Errorf("expression bonus = %f, want > 0", details.ExpressionBonus)
	}
}

func TestLexicalVocabularyLevel(t *testing.T) {
	if got := assessVocabulary(normalizeText("hola que tal"), nil, nil); got != domain.LevelA1 {
		t.Errorf("plain text vocabulary = %s, want A1", got)
	}
	if got := assessVocabulary(normalizeText("quisiera pedir algo"), nil, nil); got != domain.LevelB1 {
		t.Errorf("one marker vocabulary = %s, want B1", got)
	}
	got := assessVocabulary(normalizeText("quisiera que hubiera algo"), []string{"vinga"}, nil)
	if got != domain.LevelC1 {
		t.Errorf("rich vocabulary = %s, want C1", got)
	}
}

func TestKeywordCoverageIgnoresShortAndNumericWords(t *testing.T) {
	hit, total := keywordCoverage("tengo dos gatos", "yo tengo 2 gatos en casa")
	// Keywords: tengo, gatos, casa (>=4 chars, non-numeric).
	if total != 3 {
		t.Fatalf("total keywords = %d, want 3", total)
	}
	if hit != 2 {
		t.Errorf("hits = %d, want 2", hit)
	}
}
