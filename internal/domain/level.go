package domain

// Level is a CEFR proficiency level.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
	LevelC2 Level = "C2"
)

// Levels lists every level in ascending order.
var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1, LevelC2}

var levelIndex = map[Level]int{
	LevelA1: 0, LevelA2: 1, LevelB1: 2, LevelB2: 3, LevelC1: 4, LevelC2: 5,
}

// Valid reports whether l is one of the six CEFR levels.
func (l Level) Valid() bool {
	_, ok := levelIndex[l]
	return ok
}

// Index returns the 0-based position of l in the CEFR ladder, or -1.
func (l Level) Index() int {
	i, ok := levelIndex[l]
	if !ok {
		return -1
	}
	return i
}

// Below returns the level one step down, clamped at A1.
func (l Level) Below() Level {
	i := l.Index()
	if i <= 0 {
		return LevelA1
	}
	return Levels[i-1]
}

// Above returns the level one step up, clamped at C2.
func (l Level) Above() Level {
	i := l.Index()
	if i < 0 {
		return LevelA1
	}
	if i >= len(Levels)-1 {
		return LevelC2
	}
	return Levels[i+1]
}

// MaxLevel returns the higher of two levels.
func MaxLevel(a, b Level) Level {
	if a.Index() >= b.Index() {
		return a
	}
	return b
}

// MinLevel returns the lower of two levels.
func MinLevel(a, b Level) Level {
	if a.Index() <= b.Index() {
		return a
	}
	return b
}

// MidLevel returns the level halfway between a and b, rounding down.
func MidLevel(a, b Level) Level {
	ai, bi := a.Index(), b.Index()
	if ai < 0 || bi < 0 {
		return LevelA1
	}
	return Levels[(ai+bi)/2]
}
