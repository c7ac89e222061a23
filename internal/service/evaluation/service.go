// Package evaluation orchestrates the fluency pipeline: preprocessing,
// feature extraction and transcription in parallel, the six analyzers
// fanned out concurrently, then scoring, level mapping and feedback.
package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/speakeasy-labs/fluency-service/internal/analyzer"
	"github.com/speakeasy-labs/fluency-service/internal/audio"
	"github.com/speakeasy-labs/fluency-service/internal/domain"
	"github.com/speakeasy-labs/fluency-service/internal/features"
	"github.com/speakeasy-labs/fluency-service/internal/observability/telemetry"
	"github.com/speakeasy-labs/fluency-service/internal/ports"
	"github.com/speakeasy-labs/fluency-service/internal/scoring"
)

// defaultScore replaces a failed analyzer's result.
const defaultScore = 50.0

// EventSubject is where completed evaluations are published.
const EventSubject = "fluency.evaluated"

// Publisher is the slice of the message queue the service needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// Options tune the pipeline without touching its wiring.
type Options struct {
	Timeout       time.Duration
	CacheTTL      time.Duration
	MaxClipSec    int
	AdjustByLevel bool
	PerLevelBands bool
	Weights       scoring.Weights
}

// Service implements ports.EvaluationService.
type Service struct {
	preprocessor *audio.Preprocessor
	extractor    *features.Extractor
	converter    audio.Converter
	transcriber  ports.Transcriber
	analyzers    []analyzer.Analyzer
	cache        ports.Cache
	publisher    Publisher
	repo         ports.ReportRepository
	opts         Options
	log          *zap.Logger
}

// New wires the pipeline. Cache, publisher and repo may be nil; the
// corresponding step is skipped.
func New(
	preprocessor *audio.Preprocessor,
	extractor *features.Extractor,
	converter audio.Converter,
	transcriber ports.Transcriber,
	analyzers []analyzer.Analyzer,
	cache ports.Cache,
	publisher Publisher,
	repo ports.ReportRepository,
	opts Options,
	log *zap.Logger,
) (*Service, error) {
	if err := opts.Weights.Validate(); err != nil {
		return nil, fmt.Errorf("evaluation: %w", err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Service{
		preprocessor: preprocessor,
		extractor:    extractor,
		converter:    converter,
		transcriber:  transcriber,
		analyzers:    analyzers,
		cache:        cache,
		publisher:    publisher,
		repo:         repo,
		opts:         opts,
		log:          log,
	}, nil
}

// Evaluate runs the full pipeline for one utterance. The whole request
// is bounded by the configured timeout; hitting it fails the request
// rather than returning a partial report.
func (s *Service) Evaluate(ctx context.Context, req domain.EvaluationRequest) (*domain.FluencyReport, error) {
	started := time.Now()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	cacheKey := s.cacheKey(req)
	if cached := s.cachedReport(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	clip, err := s.decode(ctx, req)
	if err != nil {
		return nil, err
	}
	if max := float64(s.opts.MaxClipSec); max > 0 && clip.DurationSec() > max {
		return nil, fmt.Errorf("%w: %.1fs exceeds the %.0fs limit",
			domain.ErrAudioTooLong, clip.DurationSec(), max)
	}
	clip, segments := s.preprocessor.Process(clip)

	feats, transcript, err := s.featuresAndTranscript(ctx, clip, req.Language)
	if err != nil {
		return nil, err
	}
	feats.VoiceSegmentCount = len(segments)
	for _, seg := range segments {
		feats.TotalVoiceSec += seg.EndSec - seg.StartSec
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation timed out: %w", err)
	}

	breakdown := s.runAnalyzers(feats, transcript, req)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluation timed out: %w", err)
	}

	raw := scoring.Composite(breakdown, s.opts.Weights)
	score := raw
	if s.opts.AdjustByLevel {
		score = scoring.LevelAdjusted(raw, req.Level)
	}

	var band domain.Band
	if s.opts.PerLevelBands {
		band = scoring.ThresholdsFor(req.Level).Band(score)
	} else {
		band = scoring.DefaultThresholds.Band(score)
	}

	report := &domain.FluencyReport{
		ID:             uuid.NewString(),
		Scenario:       req.Scenario,
		ClaimedLevel:   req.Level,
		EstimatedLevel: scoring.EstimateLevel(transcript.Text, score, req.Level),
		Score:          math.Round(score*10) / 10,
		Band:           band,
		Breakdown:      breakdown,
		Feedback:       scoring.GenerateFeedback(breakdown, score, req.Scenario),
		Transcript:     transcript,
		ProcessingMS:   time.Since(started).Milliseconds(),
		CreatedAt:      time.Now().UTC(),
	}
	if req.Detailed {
		f := feats
		report.Features = &f
		report.Weighted = scoring.DetailedBreakdown(breakdown, s.opts.Weights)
		progress := scoring.ProgressToNextBand(score, req.Level)
		report.Progress = &progress
		report.SuggestedLevel = scoring.SuggestTargetLevel(score, req.Level)
	}

	telemetry.EvaluationsTotal.WithLabelValues(string(req.Scenario), string(band)).Inc()
	telemetry.EvaluationLatency.Observe(time.Since(started).Seconds())

	s.storeReport(ctx, cacheKey, report)
	s.publishEvent(report)

	s.log.Info("evaluation complete",
		zap.String("id", report.ID),
		zap.String("scenario", string(req.Scenario)),
		zap.Float64("score", report.Score),
		zap.String("band", string(report.Band)),
		zap.Int64("processing_ms", report.ProcessingMS),
	)
	return report, nil
}

// decode converts the payload into a mono 16 kHz clip, shelling out to
// the converter for formats the decoder does not handle natively.
func (s *Service) decode(ctx context.Context, req domain.EvaluationRequest) (audio.Clip, error) {
	format := audio.SniffFormat(req.Audio, req.Format)
	data := req.Audio

	switch format {
	case "wav", "wave", "flac":
	default:
		if s.converter == nil {
			return audio.Clip{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
		}
		converted, err := s.converter.ToWAV(ctx, data, format)
		if err != nil {
			return audio.Clip{}, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, format)
		}
		data = converted
		format = "wav"
	}
	return audio.Decode(data, format)
}

// featuresAndTranscript runs extraction and transcription concurrently;
// both are inputs to every analyzer. A transcription failure fails the
// request: there is no fluency evaluation without a transcript.
func (s *Service) featuresAndTranscript(ctx context.Context, clip audio.Clip, language string) (domain.AudioFeatures, domain.TranscriptResult, error) {
	var (
		feats      domain.AudioFeatures
		transcript domain.TranscriptResult
		trErr      error
		wg         sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		feats = s.extractor.Extract(clip)
	}()
	go func() {
		defer wg.Done()
		trStart := time.Now()
		transcript, trErr = s.transcriber.Transcribe(ctx, audio.EncodeWAV(clip), language)
		telemetry.TranscriberLatency.Observe(time.Since(trStart).Seconds())
	}()
	wg.Wait()

	if trErr != nil {
		return feats, transcript, fmt.Errorf("%w: %v", domain.ErrTranscription, trErr)
	}
	return feats, transcript, nil
}

// runAnalyzers fans the six analyzers out on goroutines and joins them.
// A panic or error inside one analyzer becomes a default-scored result;
// siblings are never cancelled.
func (s *Service) runAnalyzers(feats domain.AudioFeatures, transcript domain.TranscriptResult, req domain.EvaluationRequest) domain.MetricsBreakdown {
	in := analyzer.Input{
		Features:     feats,
		Transcript:   transcript,
		ExpectedText: req.ExpectedText,
		Scenario:     req.Scenario,
		Level:        req.Level,
	}

	type outcome struct {
		metric domain.Metric
		result domain.AnalysisResult
	}
	results := make(chan outcome, len(s.analyzers))

	var wg sync.WaitGroup
	for _, a := range s.analyzers {
		wg.Add(1)
		go func(a analyzer.Analyzer) {
			defer wg.Done()
			results <- outcome{a.Metric(), s.runOne(a, in)}
		}(a)
	}
	wg.Wait()
	close(results)

	var breakdown domain.MetricsBreakdown
	for o := range results {
		breakdown.Set(o.metric, o.result)
	}
	return breakdown
}

func (s *Service) runOne(a analyzer.Analyzer, in analyzer.Input) (result domain.AnalysisResult) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("analyzer panicked",
				zap.String("metric", string(a.Metric())),
				zap.Any("panic", r),
			)
			telemetry.AnalyzerFailuresTotal.WithLabelValues(string(a.Metric())).Inc()
			result = domain.AnalysisResult{
				Score:  defaultScore,
				Errors: []string{fmt.Sprintf("panic: %v", r)},
			}
		}
	}()

	result, err := a.Analyze(in)
	if err != nil {
		s.log.Warn("analyzer failed",
			zap.String("metric", string(a.Metric())),
			zap.Error(err),
		)
		telemetry.AnalyzerFailuresTotal.WithLabelValues(string(a.Metric())).Inc()
		return domain.AnalysisResult{Score: defaultScore, Errors: []string{err.Error()}}
	}
	return result
}

func (s *Service) cacheKey(req domain.EvaluationRequest) string {
	if s.cache == nil || len(req.Audio) == 0 {
		return ""
	}
	return ReportCacheKey(req)
}

func (s *Service) cachedReport(ctx context.Context, key string) *domain.FluencyReport {
	if key == "" {
		return nil
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil || raw == "" {
		telemetry.CacheHitsTotal.WithLabelValues("miss").Inc()
		return nil
	}
	var report domain.FluencyReport
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		telemetry.CacheHitsTotal.WithLabelValues("miss").Inc()
		return nil
	}
	telemetry.CacheHitsTotal.WithLabelValues("hit").Inc()
	return &report
}

// storeReport caches and persists the report best-effort; neither
// failure affects the response.
func (s *Service) storeReport(ctx context.Context, cacheKey string, report *domain.FluencyReport) {
	if cacheKey != "" {
		if data, err := json.Marshal(report); err == nil {
			if err := s.cache.Set(ctx, cacheKey, string(data), s.opts.CacheTTL); err != nil {
				s.log.Warn("report cache write failed", zap.Error(err))
			}
		}
	}
	if s.repo != nil {
		dbStart := time.Now()
		if err := s.repo.Save(ctx, report); err != nil {
			s.log.Warn("report persistence failed", zap.String("id", report.ID), zap.Error(err))
		}
		telemetry.DatabaseLatency.Observe(time.Since(dbStart).Seconds())
	}
}

func (s *Service) publishEvent(report *domain.FluencyReport) {
	if s.publisher == nil {
		return
	}
	event := struct {
		ID       string          `json:"id"`
		Scenario domain.Scenario `json:"scenario"`
		Level    domain.Level    `json:"level"`
		Score    float64         `json:"score"`
		Band     domain.Band     `json:"band"`
	}{report.ID, report.Scenario, report.ClaimedLevel, report.Score, report.Band}

	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	if err := s.publisher.Publish(EventSubject, data); err != nil {
		s.log.Warn("event publish failed", zap.Error(err))
	}
}

// Report fetches a single persisted report by id. A nil report with a
// nil error means the id is unknown.
func (s *Service) Report(ctx context.Context, id string) (*domain.FluencyReport, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.FindByID(ctx, id)
}

// History returns recent persisted reports, newest first.
func (s *Service) History(ctx context.Context, scenario domain.Scenario, limit, offset int) ([]domain.FluencyReport, error) {
	if s.repo == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.FindRecent(ctx, scenario, limit, offset)
}
