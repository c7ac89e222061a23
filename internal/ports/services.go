package ports

import (
	"context"
	"time"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// Transcriber converts speech to text with word-level timings. Silence
// is a valid result: empty text and no words, not an error.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, language string) (domain.TranscriptResult, error)
}

// EvaluationService runs the full fluency pipeline for one request.
type EvaluationService interface {
	Evaluate(ctx context.Context, req domain.EvaluationRequest) (*domain.FluencyReport, error)
}

// Cache abstracts the report cache. Implementations: Redis, local map.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}

// SecretManager resolves credentials from an external secret store.
type SecretManager interface {
	GetSecret(path, key string) (string, error)
}
