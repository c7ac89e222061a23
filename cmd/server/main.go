package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"go.uber.org/zap"

	"github.com/speakeasy-labs/fluency-service/internal/adapter/asr"
	"github.com/speakeasy-labs/fluency-service/internal/adapter/cache"
	"github.com/speakeasy-labs/fluency-service/internal/adapter/http/fiber/handlers"
	"github.com/speakeasy-labs/fluency-service/internal/adapter/http/fiber/middleware"
	"github.com/speakeasy-labs/fluency-service/internal/adapter/queue"
	"github.com/speakeasy-labs/fluency-service/internal/adapter/storage/postgres"
	"github.com/speakeasy-labs/fluency-service/internal/adapter/vault"
	wsAdapter "github.com/speakeasy-labs/fluency-service/internal/adapter/websocket"
	"github.com/speakeasy-labs/fluency-service/internal/analyzer"
	"github.com/speakeasy-labs/fluency-service/internal/audio"
	"github.com/speakeasy-labs/fluency-service/internal/features"
	"github.com/speakeasy-labs/fluency-service/internal/observability/telemetry"
	"github.com/speakeasy-labs/fluency-service/internal/ports"
	"github.com/speakeasy-labs/fluency-service/internal/service/evaluation"
	"github.com/speakeasy-labs/fluency-service/pkg/config"
)

const (
	serviceName    = "fluency-service"
	serviceVersion = "v1.0.0"
)

func main() {
	// 1. Initialize Logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("failed to initialize logger:", err)
	}
	defer logger.Sync()

	logger.Info("starting fluency service",
		zap.String("service", serviceName),
		zap.String("version", serviceVersion),
	)

	// 2. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	// 3. Initialize OpenTelemetry (Distributed Tracing)
	if cfg.OpenTelemetry.Enabled {
		tracerProvider, err := telemetry.InitTracer(serviceName, cfg.OpenTelemetry.Jaeger.Endpoint)
		if err != nil {
			logger.Fatal("failed to initialize tracer", zap.Error(err))
		}
		defer func() {
			if err := tracerProvider.Shutdown(context.Background()); err != nil {
				logger.Error("error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	// 4. Resolve Secrets (optional Vault overlay)
	if cfg.Vault.Enabled {
		secrets, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token)
		if err != nil {
			logger.Fatal("failed to connect to vault", zap.Error(err))
		}
		if key, err := secrets.GetASRAPIKey(); err == nil && key != "" {
			cfg.ASR.APIKey = key
		}
		if url, err := secrets.GetDatabaseURL(); err == nil && url != "" {
			cfg.Database.URL = url
		}
	}

	// 5. Initialize Report Cache (Redis with local fallback)
	var reportCache ports.Cache
	if cfg.Redis.URL != "" {
		reportCache, err = cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Warn("redis unavailable, using local cache", zap.Error(err))
			reportCache = cache.NewLocalCache(5*time.Minute, logger)
		}
	} else {
		reportCache = cache.NewLocalCache(5*time.Minute, logger)
	}
	defer reportCache.Close()

	// 6. Initialize Message Queue
	var messageQueue queue.MessageQueue
	if cfg.Queue.Driver != "none" {
		var qErr error
		switch cfg.Queue.Driver {
		case "rabbitmq":
			messageQueue, qErr = queue.NewRabbitMQQueue(cfg.Queue.RabbitMQURL, logger)
		default:
			messageQueue, qErr = queue.NewNATSQueue(cfg.Queue.NATSURL, logger)
		}
		if qErr != nil {
			logger.Fatal("failed to connect to message queue", zap.Error(qErr))
		}
		defer messageQueue.Close()
	}

	// 7. Initialize PostgreSQL (optional, service runs without persistence)
	var reportRepo ports.ReportRepository
	healthChecks := map[string]handlers.HealthCheck{
		"cache": reportCache.Ping,
	}
	if cfg.Database.URL != "" {
		db, err := postgres.NewConnection(cfg.Database.URL, logger)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer postgres.Close(db)

		if cfg.Database.AutoMigrate {
			if err := postgres.RunMigrations(db); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		reportRepo = postgres.NewReportRepository(db, logger)

		sqlDB, err := db.DB()
		if err == nil {
			healthChecks["database"] = sqlDB.Ping
		}
	}

	// 8. Build the Audio Pipeline
	var detector audio.VoiceDetector = audio.NewEnergyDetector()
	if cfg.Audio.FullClipVAD {
		detector = audio.NewFullClipDetector()
	}
	preprocessor := audio.NewPreprocessor(detector, logger)
	extractor := features.NewExtractor(logger)
	converter := audio.NewFFmpegConverter(cfg.Audio.FFmpegPath, logger)

	// 9. Initialize ASR Client
	transcriber := asr.NewClient(cfg.ASR.BaseURL, cfg.ASR.APIKey, cfg.ASR.Model, cfg.ASR.Timeout, logger)

	// 10. Assemble the Evaluation Service
	analyzers := []analyzer.Analyzer{
		analyzer.NewPronunciation(),
		analyzer.NewTemporal(),
		analyzer.NewLexical(),
		analyzer.NewDisfluency(),
		analyzer.NewProsodic(),
		analyzer.NewCommunicative(),
	}

	var publisher evaluation.Publisher
	if messageQueue != nil {
		publisher = messageQueue
	}

	evalService, err := evaluation.New(
		preprocessor,
		extractor,
		converter,
		transcriber,
		analyzers,
		reportCache,
		publisher,
		reportRepo,
		evaluation.Options{
			Timeout:       cfg.Evaluation.Timeout,
			CacheTTL:      cfg.Evaluation.CacheTTL,
			MaxClipSec:    cfg.Audio.MaxDurationSec,
			AdjustByLevel: cfg.Evaluation.AdjustByLevel,
			PerLevelBands: cfg.Evaluation.PerLevelBands,
			Weights:       cfg.Evaluation.Weights,
		},
		logger,
	)
	if err != nil {
		logger.Fatal("failed to build evaluation service", zap.Error(err))
	}

	// 11. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		ServerHeader:          serviceName,
		DisableStartupMessage: true,
		BodyLimit:             cfg.Limits.MaxUploadBytes,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(middleware.NewCORS(cfg.CORS))
	if cfg.RateLimiting.Enabled {
		app.Use(middleware.RateLimit(cfg.RateLimiting))
	}
	if cfg.CircuitBreaker.Enabled {
		app.Use(middleware.CircuitBreaker(logger))
	}

	// Health and Metrics Endpoints
	healthHandler := handlers.NewHealthHandler(serviceVersion, healthChecks, logger)
	app.Get("/health", healthHandler.Health)
	app.Get("/health/live", healthHandler.Live)
	app.Get("/health/ready", healthHandler.Ready)

	app.Get("/metrics", func(c *fiber.Ctx) error {
		handler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
		handler(c.Context())
		return nil
	})

	// API v1 Routes
	v1 := app.Group("/api/v1")
	if cfg.JWT.Secret != "" {
		v1.Use(middleware.JWTAuth(cfg.JWT.Secret))
	}

	fluencyHandler := handlers.NewFluencyHandler(evalService, logger)
	v1.Post("/fluency/evaluate", fluencyHandler.Evaluate)
	v1.Post("/fluency/evaluate/upload", fluencyHandler.EvaluateUpload)
	v1.Get("/fluency/reports/:id", fluencyHandler.GetReport)
	v1.Get("/fluency/history", fluencyHandler.GetHistory)

	// WebSocket streaming and live event feed
	streamHandler := wsAdapter.NewEvaluateStreamHandler(evalService, logger)
	var eventHub *wsAdapter.EventHub
	if messageQueue != nil {
		eventHub = wsAdapter.NewEventHub()
		go eventHub.Run()
	}
	wsAdapter.SetupRoutes(app, streamHandler, eventHub)

	// 12. Start Background Workers
	if messageQueue != nil {
		go startBackgroundWorkers(messageQueue, eventHub, logger)
	}

	// 13. Start HTTP Server
	go func() {
		logger.Info("starting http server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 14. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}

// startBackgroundWorkers consumes evaluation events, keeps rolling
// per-scenario statistics for the logs and relays each event to the
// websocket feed.
func startBackgroundWorkers(mq queue.MessageQueue, hub *wsAdapter.EventHub, logger *zap.Logger) {
	logger.Info("starting background workers")

	var mu sync.Mutex
	counts := make(map[string]int)
	sums := make(map[string]float64)

	err := mq.Subscribe(evaluation.EventSubject, func(msg []byte) error {
		var event struct {
			Scenario string  `json:"scenario"`
			Score    float64 `json:"score"`
		}
		if err := json.Unmarshal(msg, &event); err != nil {
			return err
		}
		mu.Lock()
		counts[event.Scenario]++
		sums[event.Scenario] += event.Score
		mu.Unlock()
		if hub != nil {
			hub.Broadcast(msg)
		}
		return nil
	})
	if err != nil {
		logger.Error("failed to subscribe to evaluation events", zap.Error(err))
		return
	}

	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		mu.Lock()
		for scenario, n := range counts {
			logger.Info("scenario statistics",
				zap.String("scenario", scenario),
				zap.Int("evaluations", n),
				zap.Float64("mean_score", sums[scenario]/float64(n)),
			)
		}
		mu.Unlock()
	}
}
