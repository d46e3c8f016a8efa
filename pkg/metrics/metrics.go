// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// OperationDuration tracks gateway operation duration per transport.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_operation_duration_seconds",
			Help:    "Gateway operation duration per transport",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"operation", "source", "status"},
	)

	// FallbacksTotal tracks operations served via cloud fallback.
	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_fallbacks_total",
			Help: "Operations served via cloud fallback",
		},
		[]string{"operation"},
	)

	// BackendHealthStatus reflects the monitor's current backend reading.
	// 1 = online, 0 = offline, -1 = checking.
	BackendHealthStatus = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gateway_backend_health_status",
			Help: "Local backend health (1 online, 0 offline, -1 checking)",
		},
	)

	// LLMRequestDuration tracks cloud inference call duration.
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_llm_request_duration_seconds",
			Help:    "Cloud inference request duration",
			Buckets: []float64{1, 2, 5, 10, 20, 30, 45, 60, 90, 120},
		},
		[]string{"provider", "operation", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"provider", "direction"},
	)

	// ResumeChunksProcessed tracks chunks indexed per resume upload.
	ResumeChunksProcessed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gateway_resume_chunks_processed",
			Help:    "Chunks indexed per resume upload",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
		},
	)

	// MessagesTotal tracks committed conversation messages.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_messages_total",
			Help: "Committed conversation messages",
		},
		[]string{"role"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordOperation records metrics for a gateway operation.
func RecordOperation(operation, source, status string, duration float64) {
	OperationDuration.WithLabelValues(operation, source, status).Observe(duration)
}

// RecordLLMRequest records metrics for a cloud inference call.
func RecordLLMRequest(provider, operation, status string, duration float64, tokensIn, tokensOut int) {
	LLMRequestDuration.WithLabelValues(provider, operation, status).Observe(duration)
	LLMTokensTotal.WithLabelValues(provider, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(provider, "out").Add(float64(tokensOut))
}

// SetBackendHealth updates the backend health gauge.
func SetBackendHealth(v float64) {
	BackendHealthStatus.Set(v)
}
