package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	EmbeddingFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_fallbacks_total",
			Help: "Total number of embedding requests served by the deterministic fallback",
		},
		[]string{"reason"},
	)

	ContentItemsScored = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_items_scored_total",
			Help: "Total number of content items scored, by outcome",
		},
		[]string{"outcome"},
	)
)
