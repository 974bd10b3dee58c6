// ABOUTME: Prometheus metrics for completions, persona turns, fallbacks and HTTP traffic
// ABOUTME: Registered on the default registry and exposed by the HTTP server at /metrics
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Turn sources
const (
	SourceGenerated = "generated"
	SourceFallback  = "fallback"
	SourceCached    = "cached"
)

var (
	Completions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "museum_guide_completions_total",
			Help: "Total number of completion gateway calls by outcome",
		},
		[]string{"outcome"},
	)

	CompletionLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "museum_guide_completion_latency_seconds",
			Help:    "Completion gateway latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
	)

	PersonaTurns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "museum_guide_persona_turns_total",
			Help: "Persona turns produced, by persona and source (generated, fallback, cached)",
		},
		[]string{"persona", "source"},
	)

	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "museum_guide_fallbacks_total",
			Help: "Times a component degraded to its fallback value",
		},
		[]string{"component"},
	)

	SelectionSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "museum_guide_selection_size",
			Help:    "Number of personas selected per user message",
			Buckets: []float64{1, 2, 3, 4, 5},
		},
	)

	RequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "museum_guide_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "museum_guide_http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		},
		[]string{"method", "route"},
	)
)
