package domain

import "time"

// Band is the qualitative fluency band a score falls into.
type Band string

const (
	BandNativeLike Band = "native_like"
	BandProficient Band = "proficient"
	BandDeveloping Band = "developing"
	BandNeedsWork  Band = "needs_work"
)

// Metric names the six dimensions every evaluation reports on.
type Metric string

const (
	MetricPronunciation Metric = "pronunciation"
	MetricTemporal      Metric = "temporal"
	MetricLexical       Metric = "lexical"
	MetricDisfluency    Metric = "disfluency"
	MetricProsodic      Metric = "prosodic"
	MetricCommunicative Metric = "communicative"
)

// Metrics lists the six dimensions in report order.
var Metrics = []Metric{
	MetricPronunciation, MetricTemporal, MetricLexical,
	MetricDisfluency, MetricProsodic, MetricCommunicative,
}

// AnalysisResult is one analyzer's verdict. Score is always in [0,100];
// a failed analyzer reports the neutral 50 with the failure in Errors.
type AnalysisResult struct {
	Score   float64  `json:"score"`
	Details any      `json:"details,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

// MetricsBreakdown always carries all six dimensions.
type MetricsBreakdown struct {
	Pronunciation AnalysisResult `json:"pronunciation"`
	Temporal      AnalysisResult `json:"temporal"`
	Lexical       AnalysisResult `json:"lexical"`
	Disfluency    AnalysisResult `json:"disfluency"`
	Prosodic      AnalysisResult `json:"prosodic"`
	Communicative AnalysisResult `json:"communicative"`
}

// Get returns the result for a metric by name.
func (b MetricsBreakdown) Get(m Metric) AnalysisResult {
	switch m {
	case MetricPronunciation:
		return b.Pronunciation
	case MetricTemporal:
		return b.Temporal
	case MetricLexical:
		return b.Lexical
	case MetricDisfluency:
		return b.Disfluency
	case MetricProsodic:
		return b.Prosodic
	case MetricCommunicative:
		return b.Communicative
	}
	return AnalysisResult{}
}

// Set stores the result for a metric by name.
func (b *MetricsBreakdown) Set(m Metric, r AnalysisResult) {
	switch m {
	case MetricPronunciation:
		b.Pronunciation = r
	case MetricTemporal:
		b.Temporal = r
	case MetricLexical:
		b.Lexical = r
	case MetricDisfluency:
		b.Disfluency = r
	case MetricProsodic:
		b.Prosodic = r
	case MetricCommunicative:
		b.Communicative = r
	}
}

// FeedbackResult carries at most three entries per list.
type FeedbackResult struct {
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Suggestions  []string `json:"suggestions"`
	Summary      string   `json:"summary"`
}

// Contribution is one analyzer's share of the composite score.
type Contribution struct {
	RawScore      float64 `json:"raw_score"`
	InvertedScore float64 `json:"inverted_score,omitempty"`
	Weight        float64 `json:"weight"`
	Contribution  float64 `json:"contribution"`
}

// Progress describes how far a score is through its band.
type Progress struct {
	CurrentBand  Band    `json:"current_band"`
	NextBand     Band    `json:"next_band,omitempty"`
	Percent      float64 `json:"percent"`
	PointsNeeded float64 `json:"points_needed"`
}

// FluencyReport is the full outcome of one evaluation. The Features,
// Weighted, Progress and SuggestedLevel fields are only populated for
// detailed requests.
type FluencyReport struct {
	ID             string                  `json:"id" gorm:"primaryKey"`
	Scenario       Scenario                `json:"scenario"`
	ClaimedLevel   Level                   `json:"claimed_level"`
	EstimatedLevel Level                   `json:"estimated_level"`
	Score          float64                 `json:"score"`
	Band           Band                    `json:"band"`
	Breakdown      MetricsBreakdown        `json:"breakdown" gorm:"serializer:json"`
	Feedback       FeedbackResult          `json:"feedback" gorm:"serializer:json"`
	Transcript     TranscriptResult        `json:"transcript" gorm:"serializer:json"`
	Features       *AudioFeatures          `json:"features,omitempty" gorm:"serializer:json"`
	Weighted       map[Metric]Contribution `json:"weighted_breakdown,omitempty" gorm:"serializer:json"`
	Progress       *Progress               `json:"progress,omitempty" gorm:"serializer:json"`
	SuggestedLevel Level                   `json:"suggested_level,omitempty"`
	ProcessingMS   int64                   `json:"processing_ms"`
	CreatedAt      time.Time               `json:"created_at"`
}

// PhonemeError flags a low-confidence word containing a sound that is
// hard for learners, with a practice hint.
type PhonemeError struct {
	Word       string  `json:"word"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Suggestion string  `json:"suggestion"`
}

// PronunciationDetails breaks the pronunciation score into sub-scores.
type PronunciationDetails struct {
	ConfidenceScore  float64        `json:"confidence_score"`
	ExpressionScore  float64        `json:"expression_score"`
	IntonationScore  float64        `json:"intonation_score"`
	StressScore      float64        `json:"stress_score"`
	ExpressionsFound []string       `json:"expressions_found,omitempty"`
	PhonemeErrors    []PhonemeError `json:"phoneme_errors,omitempty"`
}

// TemporalDetails breaks the temporal score into sub-scores.
type TemporalDetails struct {
	WordsPerMinute    float64 `json:"words_per_minute"`
	RateScore         float64 `json:"rate_score"`
	PauseScore        float64 `json:"pause_score"`
	LatencyScore      float64 `json:"latency_score"`
	ResponseLatencyMS float64 `json:"response_latency_ms"`
}

// LexicalDetails breaks the lexical score into its components.
type LexicalDetails struct {
	WER               float64  `json:"wer"`
	ExpressionBonus   float64  `json:"expression_bonus"`
	CompletenessBonus float64  `json:"completeness_bonus"`
	VocabularyLevel   Level    `json:"vocabulary_level"`
	ExpressionsFound  []string `json:"expressions_found,omitempty"`
	SlangFound        []string `json:"slang_found,omitempty"`
}

// DisfluencyDetails counts disfluency events in the utterance.
type DisfluencyDetails struct {
	FilledPauses  int     `json:"filled_pauses"`
	Repetitions   int     `json:"repetitions"`
	FalseStarts   int     `json:"false_starts"`
	RatePerMinute float64 `json:"rate_per_minute"`
}

// ProsodicDetails breaks the prosodic score into sub-scores.
type ProsodicDetails struct {
	PitchScore      float64 `json:"pitch_score"`
	RhythmScore     float64 `json:"rhythm_score"`
	VolumeScore     float64 `json:"volume_score"`
	EmotionScore    float64 `json:"emotion_score"`
	DetectedEmotion string  `json:"detected_emotion"`
}

// CommunicativeDetails breaks the communicative score into sub-scores.
type CommunicativeDetails struct {
	RegisterScore   float64  `json:"register_score"`
	DiscourseScore  float64  `json:"discourse_score"`
	TurnTakingScore float64  `json:"turn_taking_score"`
	MarkersFound    []string `json:"markers_found,omitempty"`
}
