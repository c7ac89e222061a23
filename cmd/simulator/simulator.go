package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/speakeasy-labs/fluency-service/internal/audio"
)

// SimulatorConfig describes one load run against the evaluate endpoint.
type SimulatorConfig struct {
	ServerURL   string
	Scenario    string
	Level       string
	Language    string
	Requests    int
	Concurrency int
	AudioDir    string
	Token       string
}

// Stats aggregates the outcome of a run.
type Stats struct {
	Succeeded    int
	Failed       int
	TotalLatency time.Duration
	MaxLatency   time.Duration
	TotalScore   float64
}

func (s Stats) MeanLatency() time.Duration {
	if s.Succeeded == 0 {
		return 0
	}
	return s.TotalLatency / time.Duration(s.Succeeded)
}

func (s Stats) MeanScore() float64 {
	if s.Succeeded == 0 {
		return 0
	}
	return s.TotalScore / float64(s.Succeeded)
}

// Simulator drives concurrent evaluation requests with synthetic or
// recorded utterances.
type Simulator struct {
	cfg     SimulatorConfig
	client  *http.Client
	log     *zap.Logger
	clips   [][]byte
	stopped atomic.Bool
}

func NewSimulator(cfg SimulatorConfig, log *zap.Logger) *Simulator {
	if cfg.Requests <= 0 {
		cfg.Requests = 1
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Simulator{
		cfg:    cfg,
		client: &http.Client{Timeout: 60 * time.Second},
		log:    log,
	}
}

// Stop aborts the run after in-flight requests finish.
func (s *Simulator) Stop() {
	s.stopped.Store(true)
}

// Run fires the configured number of requests and returns the stats.
func (s *Simulator) Run() Stats {
	if err := s.loadClips(); err != nil {
		s.log.Fatal("could not prepare audio clips", zap.Error(err))
	}

	jobs := make(chan int)
	results := make(chan result, s.cfg.Concurrency)

	var wg sync.WaitGroup
	for w := 0; w < s.cfg.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- s.evaluateOnce(i)
			}
		}()
	}

	go func() {
		for i := 0; i < s.cfg.Requests; i++ {
			if s.stopped.Load() {
				break
			}
			jobs <- i
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var stats Stats
	for r := range results {
		if r.err != nil {
			stats.Failed++
			s.log.Warn("evaluation request failed", zap.Error(r.err))
			continue
		}
		stats.Succeeded++
		stats.TotalLatency += r.latency
		if r.latency > stats.MaxLatency {
			stats.MaxLatency = r.latency
		}
		stats.TotalScore += r.score
	}
	return stats
}

type result struct {
	latency time.Duration
	score   float64
	err     error
}

func (s *Simulator) evaluateOnce(i int) result {
	clip := s.clips[i%len(s.clips)]

	payload, err := json.Marshal(map[string]interface{}{
		"audio":    base64.StdEncoding.EncodeToString(clip),
		"format":   "wav",
		"scenario": s.cfg.Scenario,
		"level":    s.cfg.Level,
		"language": s.cfg.Language,
	})
	if err != nil {
		return result{err: err}
	}

	req, err := http.NewRequest(http.MethodPost, s.cfg.ServerURL+"/api/v1/fluency/evaluate", bytes.NewReader(payload))
	if err != nil {
		return result{err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if s.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.Token)
	}

	started := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return result{err: err}
	}
	defer resp.Body.Close()
	latency := time.Since(started)

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return result{err: fmt.Errorf("status %d: %s", resp.StatusCode, snippet)}
	}

	var report struct {
		Score float64 `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return result{err: err}
	}
	return result{latency: latency, score: report.Score}
}

// loadClips reads WAV files from the configured directory, or builds a
// handful of synthetic utterances when none is given.
func (s *Simulator) loadClips() error {
	if s.cfg.AudioDir == "" {
		for i := 0; i < 5; i++ {
			s.clips = append(s.clips, syntheticUtterance(2+float64(i)*0.5))
		}
		return nil
	}

	entries, err := os.ReadDir(s.cfg.AudioDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".wav") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.cfg.AudioDir, e.Name()))
		if err != nil {
			return err
		}
		s.clips = append(s.clips, data)
	}
	if len(s.clips) == 0 {
		return fmt.Errorf("no wav files in %s", s.cfg.AudioDir)
	}
	s.log.Info("loaded audio clips", zap.Int("count", len(s.clips)))
	return nil
}

// syntheticUtterance builds tone bursts separated by short pauses so
// the pipeline sees something speech-shaped.
func syntheticUtterance(durationSec float64) []byte {
	rate := audio.TargetRate
	n := int(durationSec * float64(rate))
	samples := make([]float64, n)

	pos := 0
	for pos < n {
		burst := int((0.3 + rand.Float64()*0.4) * float64(rate))
		freq := 120 + rand.Float64()*180
		for i := 0; i < burst && pos < n; i, pos = i+1, pos+1 {
			samples[pos] = 0.4 * math.Sin(2*math.Pi*freq*float64(pos)/float64(rate))
		}
		pos += int((0.1 + rand.Float64()*0.2) * float64(rate))
	}

	return audio.EncodeWAV(audio.Clip{Samples: samples, Rate: rate})
}
