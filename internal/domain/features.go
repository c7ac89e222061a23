package domain

// Pause is a silent stretch inside the utterance, in milliseconds.
type Pause struct {
	StartMS    float64 `json:"start_ms"`
	EndMS      float64 `json:"end_ms"`
	DurationMS float64 `json:"duration_ms"`
}

// AudioFeatures holds the acoustic measurements extracted from a clip.
// A sub-feature that could not be computed leaves its fields zeroed.
type AudioFeatures struct {
	DurationSec float64 `json:"duration_sec"`
	SampleRate  int     `json:"sample_rate"`

	// PitchSeries holds voiced-frame F0 estimates in temporal order.
	PitchSeries  []float64 `json:"pitch_series,omitempty"`
	PitchMeanHz  float64   `json:"pitch_mean_hz"`
	PitchStdHz   float64   `json:"pitch_std_hz"`
	PitchMinHz   float64   `json:"pitch_min_hz"`
	PitchMaxHz   float64   `json:"pitch_max_hz"`
	PitchRangeHz float64   `json:"pitch_range_hz"`

	IntensitySeries []float64 `json:"intensity_series,omitempty"`
	IntensityMeanDB float64 `json:"intensity_mean_db"`
	IntensityStdDB  float64 `json:"intensity_std_db"`
	IntensityMaxDB  float64 `json:"intensity_max_db"`

	Pauses       []Pause `json:"pauses"`
	TotalPauseMS float64 `json:"total_pause_ms"`
	SpeechRatio  float64 `json:"speech_ratio"`

	// Voiced-segment inventory from the activity detector.
	VoiceSegmentCount int     `json:"voice_segment_count"`
	TotalVoiceSec     float64 `json:"total_voice_sec"`

	// NPVI is the normalized pairwise variability index of the speech
	// intervals between pauses. Zero when fewer than two intervals exist.
	NPVI float64 `json:"npvi"`
}
