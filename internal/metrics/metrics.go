// Package metrics exposes Prometheus metrics for the admin client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CallAttempts tracks submitted attempts per method
	CallAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btadmin_call_attempts_total",
			Help: "Total number of call attempts submitted",
		},
		[]string{"method"},
	)

	// CallRetries tracks scheduled retries per method and status code
	CallRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btadmin_call_retries_total",
			Help: "Total number of retries scheduled after a retryable failure",
		},
		[]string{"method", "status"},
	)

	// CallOutcomes tracks terminal call outcomes per method
	CallOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btadmin_call_outcomes_total",
			Help: "Total number of terminal call outcomes",
		},
		[]string{"method", "outcome"},
	)

	// CallLatency tracks end-to-end logical call latency
	CallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "btadmin_call_latency_seconds",
			Help:    "End-to-end call latency across all attempts in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	// CacheHits tracks read-result cache hits per method
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btadmin_cache_hits_total",
			Help: "Total number of read-result cache hits",
		},
		[]string{"method"},
	)

	// CacheMisses tracks read-result cache misses per method
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "btadmin_cache_misses_total",
			Help: "Total number of read-result cache misses",
		},
		[]string{"method"},
	)

	// AuditErrors tracks failed audit-log writes
	AuditErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "btadmin_audit_errors_total",
			Help: "Total number of failed audit log writes",
		},
	)
)
