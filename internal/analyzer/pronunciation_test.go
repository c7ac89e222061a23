package analyzer

import (
	"testing"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

func TestPronunciationEmptyTranscriptIsNeutral(t *testing.T) {
	a := NewPronunciation()
	res, err := a.Analyze(Input{})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	details := res.Details.(domain.PronunciationDetails)
	if details.ConfidenceScore != neutralScore {
		t.Errorf("confidence = %f, want neutral %f", details.ConfidenceScore, neutralScore)
	}
	if res.Score != neutralScore {
		t.Errorf("score = %f, want neutral %f", res.Score, neutralScore)
	}
}

func TestPronunciationConfidence(t *testing.T) {
	words := []domain.Word{
		{Text: "hola", Confidence: 0.9},
		{Text: "adios", Confidence: 0.7},
	}
	if got := confidenceScore(words); got != 80 {
		t.Errorf("confidence score = %f, want 80", got)
	}
}

func TestDetectPhonemeErrors(t *testing.T) {
	words := []domain.Word{
		{Text: "perro", Confidence: 0.5},
		{Text: "jamón", Confidence: 0.6},
		{Text: "niño", Confidence: 0.95}, // confident, skipped
		{Text: "cena", Confidence: 0.4},
	}
	errs := detectPhonemeErrors(words)
	if len(errs) != 3 {
		t.Fatalf("phoneme errors = %d, want 3", len(errs))
	}
	if errs[0].Type != "rolled_r" {
		t.Errorf("first error type = %s, want rolled_r", errs[0].Type)
	}
	if errs[1].Type != "jota" {
		t.Errorf("second error type = %s, want jota", errs[1].Type)
	}
	if errs[2].Type != "theta" {
		t.Errorf("third error type = %s, want theta", errs[2].Type)
	}
	if errs[0].Suggestion == "" {
		t.Error("phoneme error should carry a suggestion")
	}
}

func TestPronunciationExpressionBonus(t *testing.T) {
	a := NewPronunciation()

	rich, err := a.Analyze(Input{Transcript: domain.TranscriptResult{
		Text: "bon dia si us plau ho sento a reveure vinga",
	}})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	details := rich.Details.(domain.PronunciationDetails)
	if len(details.ExpressionsFound) < 4 {
		t.Fatalf("expressions found = %v, want at least 4", details.ExpressionsFound)
	}
	if details.ExpressionScore <= neutralScore {
		t.Errorf("expression score = %f, want above the neutral %f", details.ExpressionScore, neutralScore)
	}

	plain, err := a.Analyze(Input{Transcript: domain.TranscriptResult{
		Text: "hola amigo como estamos hoy",
	}})
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if rich.Score <= plain.Score {
		t.Errorf("expression-rich score %f should beat the plain %f", rich.Score, plain.Score)
	}
}

func TestScoreIntonationQuestion(t *testing.T) {
	rising := []float64{120, 120, 120, 120, 120, 130, 140, 150, 160, 170, 180}
	falling := []float64{180, 180, 180, 180, 180, 160, 150, 140, 120, 110, 100}

	if got := scoreIntonation(rising, "¿Cómo estás?"); got != 100 {
		t.Errorf("rising question intonation = %f, want 100", got)
	}
	if got := scoreIntonation(falling, "¿Cómo estás?"); got != 60 {
		t.Errorf("falling question intonation = %f, want 60", got)
	}
	if got := scoreIntonation(falling, "Estoy bien."); got != 100 {
		t.Errorf("falling statement intonation = %f, want 100", got)
	}
	if got := scoreIntonation(rising[:5], "¿Cómo estás?"); got != neutralScore {
		t.Errorf("short contour = %f, want neutral", got)
	}
	if got := scoreIntonation(rising, ""); got != neutralScore {
		t.Errorf("no expected text = %f, want neutral", got)
	}
}

func TestScoreStress(t *testing.T) {
	// Uniform durations read as robotic.
	uniform := []domain.Word{
		{StartSec: 0, EndSec: 0.3},
		{StartSec: 0.4, EndSec: 0.7},
		{StartSec: 0.8, EndSec: 1.1},
	}
	if got := scoreStress(uniform); got != 70 {
		t.Errorf("uniform stress = %f, want 70", got)
	}

	// Moderate variation is natural.
	natural := []domain.Word{
		{StartSec: 0, EndSec: 0.2},
		{StartSec: 0.3, EndSec: 0.7},
		{StartSec: 0.8, EndSec: 1.1},
	}
	if got := scoreStress(natural); got != 100 {
		t.Errorf("natural stress = %f, want 100", got)
	}

	if got := scoreStress(uniform[:2]); got != neutralScore {
		t.Errorf("too few words = %f, want neutral", got)
	}
}
