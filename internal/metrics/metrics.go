// VideoMark - Video Playback Quality Measurement
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/videomark

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Storage Port Metrics
	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storage_operation_duration_seconds",
			Help:    "Duration of storage operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"backend", "operation"},
	)

	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storage_operations_total",
			Help: "Total number of storage operations by result",
		},
		[]string{"backend", "operation", "result"}, // result: "success", "not_found", "error"
	)

	// Remote Enrichment Port Metrics
	EnrichmentRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "enrichment_requests_total",
			Help: "Total number of remote enrichment requests",
		},
		[]string{"endpoint", "result"}, // result: "success", "status_error", "transport_error"
	)

	EnrichmentRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "enrichment_request_duration_seconds",
			Help:    "Remote enrichment request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)

	EnrichmentOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "enrichment_online",
			Help: "Last connectivity probe result (1 = online, 0 = offline)",
		},
	)

	// Viewing Record Metrics
	FieldResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viewing_field_resolutions_total",
			Help: "Resolutions of enrichable viewing fields by source",
		},
		[]string{"field", "source"}, // source: "cache", "remote", "offline", "unmatched", "failed"
	)

	RecordCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "record_cache_hits_total",
			Help: "Total number of viewing record repository hits",
		},
	)

	RecordCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "record_cache_misses_total",
			Help: "Total number of viewing record repository misses",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// RecordStorageOperation records a storage operation. A nil error with
// found == false counts as "not_found".
func RecordStorageOperation(backend, operation string, duration time.Duration, found bool, err error) {
	StorageOperationDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	result := "success"
	switch {
	case err != nil:
		result = "error"
	case !found:
		result = "not_found"
	}
	StorageOperationsTotal.WithLabelValues(backend, operation, result).Inc()
}

// RecordEnrichmentRequest records a remote enrichment request.
func RecordEnrichmentRequest(endpoint, result string, duration time.Duration) {
	EnrichmentRequestsTotal.WithLabelValues(endpoint, result).Inc()
	EnrichmentRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordFieldResolution records how an enrichable field was resolved.
func RecordFieldResolution(field, source string) {
	FieldResolutions.WithLabelValues(field, source).Inc()
}

// SetOnline records the latest connectivity probe result.
func SetOnline(online bool) {
	if online {
		EnrichmentOnline.Set(1)
		return
	}
	EnrichmentOnline.Set(0)
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
