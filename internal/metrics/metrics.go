// Package metrics provides Prometheus collectors for the HTTP surface and
// the content workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "seox"

var (
	// HTTP metrics - track request volume and latency
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// WorkflowTransitionsTotal 记录每种流程动作的结果分布
	WorkflowTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "transitions_total",
			Help:      "Total number of workflow transition attempts by action and outcome",
		},
		[]string{"action", "outcome"},
	)
)

// Transition outcomes recorded on WorkflowTransitionsTotal.
const (
	OutcomeApplied  = "applied"
	OutcomeDenied   = "denied"
	OutcomeInvalid  = "invalid_transition"
	OutcomeConflict = "conflict"
	OutcomeRejected = "validation_failed"
	OutcomeErrored  = "error"
)

// RecordTransition increments the workflow transition counter.
func RecordTransition(action, outcome string) {
	WorkflowTransitionsTotal.WithLabelValues(action, outcome).Inc()
}
