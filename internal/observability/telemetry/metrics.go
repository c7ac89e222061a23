package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	EvaluationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluency_evaluations_total",
		Help: "Total fluency evaluations by scenario and band",
	}, []string{"scenario", "band"})

	EvaluationLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fluency_evaluation_latency_seconds",
		Help:    "End-to-end evaluation pipeline latency",
		Buckets: prometheus.DefBuckets,
	})

	AnalyzerFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluency_analyzer_failures_total",
		Help: "Analyzer failures substituted with the default score",
	}, []string{"metric"})

	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fluency_report_cache_total",
		Help: "Report cache lookups by outcome",
	}, []string{"outcome"})

	// Infrastructure metrics
	TranscriberLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fluency_transcriber_latency_seconds",
		Help:    "Latency of transcription service calls",
		Buckets: prometheus.DefBuckets,
	})

	DatabaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fluency_database_latency_seconds",
		Help:    "Latency of report store queries",
		Buckets: prometheus.DefBuckets,
	})
)
