// Package metrics declares the process-wide prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	PublishSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "publish_submissions_total",
			Help: "Total number of publish submissions by type and outcome",
		},
		[]string{"type", "status"},
	)

	PublishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "publish_duration_seconds",
			Help:    "Duration of publisher calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"type"},
	)

	PublishInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "publish_in_flight",
			Help: "Number of publish submissions currently running",
		},
	)

	// BreakerState is 0 closed, 1 half-open, 2 open.
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "publish_breaker_state",
			Help: "State of the publish webhook circuit breaker",
		},
		[]string{"breaker"},
	)
)
