package mocks

import (
	"context"

	"github.com/speakeasy-labs/fluency-service/internal/domain"
)

// MockTranscriber returns a fixed transcript unless TranscribeFunc is set.
type MockTranscriber struct {
	Result         domain.TranscriptResult
	Err            error
	Calls          int
	TranscribeFunc func(ctx context.Context, audio []byte, language string) (domain.TranscriptResult, error)
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte, language string) (domain.TranscriptResult, error) {
	m.Calls++
	if m.TranscribeFunc != nil {
		return m.TranscribeFunc(ctx, audio, language)
	}
	return m.Result, m.Err
}

// MockSecretManager resolves secrets from a static map.
type MockSecretManager struct {
	Secrets       map[string]string
	GetSecretFunc func(path, key string) (string, error)
}

func (m *MockSecretManager) GetSecret(path, key string) (string, error) {
	if m.GetSecretFunc != nil {
		return m.GetSecretFunc(path, key)
	}
	return m.Secrets[path+"/"+key], nil
}
