package domain

import "errors"

// Client-facing failures; anything else is an internal error.
var (
	ErrEmptyAudio        = errors.New("audio payload is empty")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrInvalidLevel      = errors.New("invalid CEFR level")
	ErrInvalidScenario   = errors.New("invalid scenario")
	ErrAudioTooLong      = errors.New("audio exceeds maximum duration")
	ErrTranscription     = errors.New("transcription failed")
)

// EvaluationRequest is one utterance to score.
type EvaluationRequest struct {
	Audio        []byte   `json:"-"`
	AudioURL     string   `json:"audio_url,omitempty"`
	Format       string   `json:"format"`
	ExpectedText string   `json:"expected_text"`
	Scenario     Scenario `json:"scenario"`
	Level        Level    `json:"level"`
	Language     string   `json:"language"`
	Detailed     bool     `json:"detailed"`
}

// Validate checks the request fields that do not require decoding audio.
func (r EvaluationRequest) Validate() error {
	if len(r.Audio) == 0 && r.AudioURL == "" {
		return ErrEmptyAudio
	}
	if !r.Level.Valid() {
		return ErrInvalidLevel
	}
	if !r.Scenario.Valid() {
		return ErrInvalidScenario
	}
	return nil
}
