package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ChatList Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatlist",
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatlist",
			Subsystem: "server",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "endpoint"},
	)

	// Dispatch counters
	DispatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chatlist",
			Subsystem: "server",
			Name:      "dispatches_total",
			Help:      "Total prompt dispatches started",
		},
	)

	// Per-model outcome counters
	OutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatlist",
			Subsystem: "server",
			Name:      "outcomes_total",
			Help:      "Total model outcomes by provider and result",
		},
		[]string{"provider", "result"},
	)

	// Model call duration
	ModelCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chatlist",
			Subsystem: "server",
			Name:      "model_call_duration_seconds",
			Help:      "Model call duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)

	// Token usage counter
	TokensUsedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatlist",
			Subsystem: "server",
			Name:      "tokens_used_total",
			Help:      "Total tokens reported by providers",
		},
		[]string{"provider"},
	)

	// Enhancement counters
	EnhancementsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chatlist",
			Subsystem: "server",
			Name:      "enhancements_total",
			Help:      "Total prompt enhancements by type and status",
		},
		[]string{"type", "status"},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// RecordOutcome records one finished model call
func RecordOutcome(provider, result string, durationSec float64, tokens int) {
	OutcomesTotal.WithLabelValues(provider, result).Inc()
	ModelCallDuration.WithLabelValues(provider).Observe(durationSec)
	if tokens > 0 {
		TokensUsedTotal.WithLabelValues(provider).Add(float64(tokens))
	}
}

// RecordEnhancement records one prompt enhancement attempt
func RecordEnhancement(enhanceType, status string) {
	EnhancementsTotal.WithLabelValues(enhanceType, status).Inc()
}
