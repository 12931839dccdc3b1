// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Click workflow outcomes used as the "outcome" label of ClicksTotal.
const (
	OutcomeClicked  = "clicked"
	OutcomeGone     = "gone"
	OutcomeNotFound = "not_found"
	OutcomeFailed   = "failed"
)

var (
	// Total HTTP requests partitioned by method, route, and status code
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// Request duration in seconds partitioned by method, route, and status code
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// ClicksTotal counts click workflow results
	ClicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advert_clicks_total",
			Help: "Advertisement click requests partitioned by outcome",
		},
		[]string{"outcome"},
	)

	// PublishedTotal counts advertisements created by the publish workflow
	PublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "adverts_published_total",
			Help: "Number of advertisements published",
		},
	)

	// Ready is 1 while the readiness artifact is present
	Ready = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "readiness_artifact_present",
			Help: "Whether the readiness artifact is present (1) or missing (0)",
		},
	)
)
