// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts handled HTTP requests by route and status.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slicingpie_http_requests_total",
			Help: "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration observes HTTP request latency by route.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slicingpie_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// SyncTasksEnqueuedTotal counts sync tasks enqueued by resource.
	SyncTasksEnqueuedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slicingpie_sync_tasks_enqueued_total",
			Help: "Total number of sync tasks enqueued.",
		},
		[]string{"resource"},
	)
)
