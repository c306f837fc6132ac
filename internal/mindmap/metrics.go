package mindmap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	PathModel    = "model"
	PathFallback = "fallback"
)

// Fallback reasons.
const (
	reasonNone      = "none"
	reasonNoBackend = "no_backend"
	reasonBackend   = "backend_error"
	reasonParse     = "parse_error"
	reasonEmpty     = "empty_result"
)

var (
	generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mindgest_generations_total",
		Help: "Mind map generations by path and fallback reason",
	}, []string{"path", "reason"})

	backendDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "mindgest_backend_duration_seconds",
		Help:    "Generation backend call duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.25, 2, 9), // 0.25s to ~64s
	})

	truncatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mindgest_context_truncated_total",
		Help: "Documents cut to the maximum context length before generation",
	})
)
