package integration

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/speakeasy-labs/fluency-service/internal/adapter/cache"
	"github.com/speakeasy-labs/fluency-service/internal/domain"
	"github.com/speakeasy-labs/fluency-service/internal/service/evaluation"
)

// TestRedisCache_BasicOperations exercises the cache adapter end to end.
func TestRedisCache_BasicOperations(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Redis == nil {
		t.Skip("Redis not available")
	}
	FlushRedis(t, env.Redis)

	c, err := cache.NewRedisCache(env.RedisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to create redis cache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	t.Run("SetGet", func(t *testing.T) {
		if err := c.Set(ctx, "test:key", "test-value", time.Minute); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}
		val, err := c.Get(ctx, "test:key")
		if err != nil {
			t.Fatalf("Failed to get key: %v", err)
		}
		if val != "test-value" {
			t.Errorf("Got %q, want test-value", val)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		if _, err := c.Get(ctx, "test:missing"); err == nil {
			t.Error("Expected an error for a missing key")
		}
	})

	t.Run("Expiration", func(t *testing.T) {
		if err := c.Set(ctx, "test:expiring", "value", 100*time.Millisecond); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}
		if _, err := c.Get(ctx, "test:expiring"); err != nil {
			t.Fatalf("Key should exist: %v", err)
		}
		time.Sleep(150 * time.Millisecond)
		if _, err := c.Get(ctx, "test:expiring"); err == nil {
			t.Error("Key should have expired")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := c.Set(ctx, "test:delete", "value", time.Minute); err != nil {
			t.Fatalf("Failed to set key: %v", err)
		}
		if err := c.Delete(ctx, "test:delete"); err != nil {
			t.Fatalf("Failed to delete key: %v", err)
		}
		if _, err := c.Get(ctx, "test:delete"); err == nil {
			t.Error("Key should have been deleted")
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := c.Ping(); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})
}

// TestRedisCache_ReportRoundTrip stores a report the way the evaluation
// service does and reads it back intact.
func TestRedisCache_ReportRoundTrip(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Redis == nil {
		t.Skip("Redis not available")
	}
	FlushRedis(t, env.Redis)

	c, err := cache.NewRedisCache(env.RedisURL, env.Logger)
	if err != nil {
		t.Fatalf("Failed to create redis cache: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	req := domain.EvaluationRequest{
		Audio:        []byte("fake-audio-bytes"),
		ExpectedText: "hola buenos días",
		Scenario:     domain.ScenarioGreetings,
		Level:        domain.LevelB1,
		Language:     "es",
	}
	key := evaluation.ReportCacheKey(req)

	report := sampleReport("rep-cache-1", domain.ScenarioGreetings, 77.5)
	data, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if err := c.Set(ctx, key, string(data), time.Minute); err != nil {
		t.Fatalf("Failed to cache report: %v", err)
	}

	raw, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Failed to read cached report: %v", err)
	}
	var got domain.FluencyReport
	if err := json.Unmarshal([]byte(raw), &got); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got.ID != "rep-cache-1" || got.Score != 77.5 {
		t.Errorf("Cached report = %s %f", got.ID, got.Score)
	}
	if got.Breakdown.Disfluency.Score != 77.5 {
		t.Errorf("Breakdown lost in cache: %+v", got.Breakdown)
	}
}

// TestRedisCache_KeyIsolation different requests never share a cache entry.
func TestRedisCache_KeyIsolation(t *testing.T) {
	env := SetupTestEnvironment(t)
	if env == nil || env.Redis == nil {
		t.Skip("Redis not available")
	}

	base := domain.EvaluationRequest{
		Audio:    []byte("same-audio"),
		Scenario: domain.ScenarioGreetings,
		Level:    domain.LevelB1,
		Language: "es",
	}

	other := base
	other.Level = domain.LevelC1
	if evaluation.ReportCacheKey(base) == evaluation.ReportCacheKey(other) {
		t.Error("Different levels share a cache key")
	}

	other = base
	other.ExpectedText = "changed"
	if evaluation.ReportCacheKey(base) == evaluation.ReportCacheKey(other) {
		t.Error("Different expected text shares a cache key")
	}

	other = base
	other.Audio = []byte("different-audio")
	if evaluation.ReportCacheKey(base) == evaluation.ReportCacheKey(other) {
		t.Error("Different audio shares a cache key")
	}
}
