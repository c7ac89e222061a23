package scoring

import (
	"testing"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

func TestBandClassification(t *testing.T) {
	cases := []struct {
		score float64
		want  domain.Band
	}{
		{95, domain.BandNativeLike},
		{90, domain.BandNativeLike},
		{89.9, domain.BandProficient},
		{75, domain.BandProficient},
		{74.9, domain.BandDeveloping},
		{60, domain.BandDeveloping},
		{59.9, domain.BandNeedsWork},
		{0, domain.BandNeedsWork},
	}
	for _, tc := range cases {
		if got := DefaultThresholds.Band(tc.score); got != tc.want {
			t.Errorf("Band(%.1f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestThresholdsTightenWithLevel(t *testing.T) {
	// 86 is native-like for an A1 speaker but not for a C2 speaker.
	if got := ThresholdsFor(domain.LevelA1).Band(86); got != domain.BandNativeLike {
		t.Errorf("A1 band for 86 = %s, want native_like", got)
	}
	if got := ThresholdsFor(domain.LevelC2).Band(86); got != domain.BandProficient {
		t.Errorf("C2 band for 86 = %s, want proficient", got)
	}

	prev := ThresholdsFor(domain.LevelA1)
	for _, level := range domain.Levels[1:] {
		cur := ThresholdsFor(level)
		if cur.NativeLike < prev.NativeLike || cur.Proficient < prev.Proficient || cur.Developing < prev.Developing {
			t.Errorf("thresholds for %s are looser than the level below", level)
		}
		prev = cur
	}
}

func TestThresholdsForUnknownLevelDefaultsToB1(t *testing.T) {
	if got := ThresholdsFor(domain.Level("X9")); got != levelThresholds[domain.LevelB1] {
		t.Errorf("unknown level thresholds = %+v, want B1 table", got)
	}
}

func TestProgressToNextBand(t *testing.T) {
	p := ProgressToNextBand(67.5, domain.LevelB1)
	if p.CurrentBand != domain.BandDeveloping {
		t.Fatalf("current band = %s, want developing", p.CurrentBand)
	}
	if p.NextBand != domain.BandProficient {
		t.Errorf("next band = %s, want proficient", p.NextBand)
	}
	// Developing spans 60..75 for B1; 67.5 is halfway.
	if p.Percent != 50 {
		t.Errorf("percent = %f, want 50", p.Percent)
	}
	if p.PointsNeeded != 7.5 {
		t.Errorf("points needed = %f, want 7.5", p.PointsNeeded)
	}
}

func TestProgressAtTopBand(t *testing.T) {
	p := ProgressToNextBand(98, domain.LevelB1)
	if p.CurrentBand != domain.BandNativeLike {
		t.Fatalf("current band = %s, want native_like", p.CurrentBand)
	}
	if p.NextBand != "" {
		t.Errorf("next band = %s, want empty", p.NextBand)
	}
	if p.Percent != 100 {
		t.Errorf("percent = %f, want 100", p.Percent)
	}
}

func TestSuggestTargetLevel(t *testing.T) {
	if got := SuggestTargetLevel(96, domain.LevelB1); got != domain.LevelB2 {
		t.Errorf("excellent B1 speaker should target B2, got %s", got)
	}
	if got := SuggestTargetLevel(30, domain.LevelB1); got != domain.LevelA2 {
		t.Errorf("struggling B1 speaker should target A2, got %s", got)
	}
	if got := SuggestTargetLevel(80, domain.LevelB1); got != domain.LevelB1 {
		t.Errorf("solid B1 speaker should stay at B1, got %s", got)
	}
	if got := SuggestTargetLevel(99, domain.LevelC2); got != domain.LevelC2 {
		t.Errorf("C2 has no level above, got %s", got)
	}
	if got := SuggestTargetLevel(10, domain.LevelA1); got != domain.LevelA1 {
		t.Errorf("A1 has no level below, got %s", got)
	}
}
