package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsCreated counts accepted public submissions per project slug.
	SubmissionsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "centerstage_submissions_created_total",
		Help: "Total number of public submissions accepted",
	}, []string{"project"})

	// RateLimitDenials counts requests rejected by the submission rate limiter.
	RateLimitDenials = promauto.NewCounter(prometheus.CounterOpts{
		Name: "centerstage_rate_limit_denials_total",
		Help: "Total number of public submissions rejected by the rate limiter",
	})

	// StatusTransitions counts review decisions by target status.
	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "centerstage_status_transitions_total",
		Help: "Total number of submission status transitions by new status",
	}, []string{"status"})

	// PresentationConnections is the gauge of live presentation displays.
	PresentationConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "centerstage_presentation_connections",
		Help: "Number of connected presentation displays",
	})

	// PresentationFrames counts frames pushed to displays by frame type.
	PresentationFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "centerstage_presentation_frames_total",
		Help: "Total presentation frames pushed to displays",
	}, []string{"type"})

	// PollerRefreshFailures counts failed approved-set refreshes.
	PollerRefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "centerstage_poller_refresh_failures_total",
		Help: "Total failed presentation poll refreshes (previous list retained)",
	})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "centerstage_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)
