// Package metrics holds the process wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyberfeast_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cyberfeast_http_request_duration_ms",
			Help:    "Duration of HTTP requests in ms",
			Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600},
		},
		[]string{"method", "path"},
	)

	WebhookEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyberfeast_webhook_events_total",
			Help: "Payment webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)

	OrdersMaterialized = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyberfeast_orders_materialized_total",
			Help: "Orders written, by status",
		},
		[]string{"status"},
	)

	LoyaltyCreditFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cyberfeast_loyalty_credit_failures_total",
			Help: "Orders persisted whose loyalty credit could not be applied",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cyberfeast_catalog_cache_lookups_total",
			Help: "Catalog cache lookups by result",
		},
		[]string{"result"},
	)
)

// Webhook outcomes.
const (
	OutcomeCreated    = "created"
	OutcomeDuplicate  = "duplicate"
	OutcomeIgnored    = "ignored"
	OutcomeRejected   = "rejected"
	OutcomeFailed     = "failed"
	OutcomeInProgress = "in_progress"
)
