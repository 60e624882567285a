// internal/common/metrics/metrics.go
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

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// ProviderRequests counts outbound calls to a randomness provider by outcome
	// (ok, transport_error, format_error).
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "random_provider_requests_total",
			Help: "Total number of requests sent to the randomness provider",
		},
		[]string{"provider", "outcome"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "random_provider_request_duration_seconds",
			Help:    "Latency of randomness provider requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	RandomValuesDrawn = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "random_values_drawn_total",
			Help: "Total number of random values emitted",
		},
		[]string{"task_type"},
	)

	DrawJournalWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "draw_journal_writes_total",
			Help: "Draw journal append attempts by outcome",
		},
		[]string{"outcome"},
	)
)
