// Package asr talks to a whisper-compatible transcription API.
package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// Client transcribes audio through a whisper-compatible HTTP endpoint
// (verbose JSON with word timestamps). Calls go through a circuit
// breaker so a failing ASR backend sheds load quickly.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *zap.Logger
}

// NewClient creates a transcription client. baseURL points at the API
// root, e.g. "https://api.openai.com/v1" or a self-hosted equivalent.
func NewClient(baseURL, apiKey, model string, timeout time.Duration, log *zap.Logger) *Client {
	if model == "" {
		model = "whisper-1"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "whisper-asr",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("transcriber circuit breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    cb,
		log:        log,
	}
}

type verboseResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Words    []struct {
		Word        string  `json:"word"`
		Start       float64 `json:"start"`
		End         float64 `json:"end"`
		Probability float64 `json:"probability"`
	} `json:"words"`
}

// Transcribe uploads a WAV payload and returns the transcript with word
// timings. Silence produces an empty transcript, not an error.
func (c *Client) Transcribe(ctx context.Context, wav []byte, language string) (domain.TranscriptResult, error) {
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.transcribe(ctx, wav, language)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return domain.TranscriptResult{}, fmt.Errorf("asr: transcription service unavailable: %w", err)
		}
		return domain.TranscriptResult{}, err
	}
	return out.(domain.TranscriptResult), nil
}

func (c *Client) transcribe(ctx context.Context, wav []byte, language string) (domain.TranscriptResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return domain.TranscriptResult{}, fmt.Errorf("asr: build form: %w", err)
	}
	if _, err := part.Write(wav); err != nil {
		return domain.TranscriptResult{}, fmt.Errorf("asr: write audio: %w", err)
	}
	mw.WriteField("model", c.model)
	mw.WriteField("response_format", "verbose_json")
	mw.WriteField("timestamp_granularities[]", "word")
	if language != "" {
		mw.WriteField("language", language)
	}
	if err := mw.Close(); err != nil {
		return domain.TranscriptResult{}, fmt.Errorf("asr: close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return domain.TranscriptResult{}, fmt.Errorf("asr: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.TranscriptResult{}, fmt.Errorf("asr: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.TranscriptResult{}, fmt.Errorf("asr: API error status %d: %s", resp.StatusCode, snippet)
	}

	var parsed verboseResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return domain.TranscriptResult{}, fmt.Errorf("asr: decode response: %w", err)
	}

	result := domain.TranscriptResult{
		Text:     parsed.Text,
		Language: parsed.Language,
	}
	var confSum float64
	for _, w := range parsed.Words {
		result.Words = append(result.Words, domain.Word{
			Text:       w.Word,
			StartSec:   w.Start,
			EndSec:     w.End,
			Confidence: w.Probability,
		})
		confSum += w.Probability
	}
	if len(result.Words) > 0 {
		result.Confidence = confSum / float64(len(result.Words))
	}
	return result, nil
}
