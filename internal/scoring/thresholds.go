package scoring

import (
	"math"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// Thresholds are the minimum scores for each band. Higher claimed
// levels carry stricter thresholds.
type Thresholds struct {
	NativeLike float64
	Proficient float64
	Developing float64
}

// DefaultThresholds is the level-independent band table.
var DefaultThresholds = Thresholds{NativeLike: 90, Proficient: 75, Developing: 60}

var levelThresholds = map[domain.Level]Thresholds{
	domain.LevelA1: {NativeLike: 85, Proficient: 70, Developing: 50},
	domain.LevelA2: {NativeLike: 88, Proficient: 72, Developing: 55},
	domain.LevelB1: {NativeLike: 90, Proficient: 75, Developing: 60},
	domain.LevelB2: {NativeLike: 92, Proficient: 78, Developing: 65},
	domain.LevelC1: {NativeLike: 94, Proficient: 82, Developing: 70},
	domain.LevelC2: {NativeLike: 96, Proficient: 85, Developing: 75},
}

// ThresholdsFor returns the band table for a claimed level, defaulting
// to the B1 table for unknown levels.
func ThresholdsFor(level domain.Level) Thresholds {
	if t, ok := levelThresholds[level]; ok {
		return t
	}
	return levelThresholds[domain.LevelB1]
}

// Band classifies a score against the threshold table.
func (t Thresholds) Band(score float64) domain.Band {
	switch {
	case score >= t.NativeLike:
		return domain.BandNativeLike
	case score >= t.Proficient:
		return domain.BandProficient
	case score >= t.Developing:
		return domain.BandDeveloping
	default:
		return domain.BandNeedsWork
	}
}

// floor returns the minimum score of a band under this table.
func (t Thresholds) floor(b domain.Band) float64 {
	switch b {
	case domain.BandNativeLike:
		return t.NativeLike
	case domain.BandProficient:
		return t.Proficient
	case domain.BandDeveloping:
		return t.Developing
	default:
		return 0
	}
}

var bandOrder = []domain.Band{
	domain.BandNeedsWork, domain.BandDeveloping,
	domain.BandProficient, domain.BandNativeLike,
}

// ProgressToNextBand reports the distance to the next band under the
// claimed level's thresholds.
func ProgressToNextBand(score float64, level domain.Level) domain.Progress {
	t := ThresholdsFor(level)
	current := t.Band(score)

	idx := 0
	for i, b := range bandOrder {
		if b == current {
			idx = i
			break
		}
	}
	if idx == len(bandOrder)-1 {
		return domain.Progress{CurrentBand: current, Percent: 100}
	}

	next := bandOrder[idx+1]
	nextFloor := t.floor(next)
	currentFloor := t.floor(current)
	width := nextFloor - currentFloor

	percent := 0.0
	if width > 0 {
		percent = (score - currentFloor) / width * 100
	}
	return domain.Progress{
		CurrentBand:  current,
		NextBand:     next,
		Percent:      math.Min(100, math.Max(0, percent)),
		PointsNeeded: math.Max(0, nextFloor-score),
	}
}

// SuggestTargetLevel moves a consistently excellent speaker up one
// level and a struggling one down one, otherwise keeps the current.
func SuggestTargetLevel(score float64, current domain.Level) domain.Level {
	band := ThresholdsFor(current).Band(score)
	switch {
	case band == domain.BandNativeLike && score >= 95:
		return current.Above()
	case band == domain.BandNeedsWork && score < 40:
		return current.Below()
	default:
		return current
	}
}
