package domain

// Word is a recognized word with its timing and recognizer confidence.
type Word struct {
	Text       string  `json:"text"`
	StartSec   float64 `json:"start_sec"`
	EndSec     float64 `json:"end_sec"`
	Confidence float64 `json:"confidence"`
}

// TranscriptResult is the output of the speech recognizer. Silence is a
// valid result: empty text, no words, no error.
type TranscriptResult struct {
	Text       string  `json:"text"`
	Words      []Word  `json:"words"`
	Language   string  `json:"language"`
	Confidence float64 `json:"confidence"`
}

// WordCount returns the number of words in the transcript text.
func (t TranscriptResult) WordCount() int {
	return len(TokenizeWords(t.Text))
}
