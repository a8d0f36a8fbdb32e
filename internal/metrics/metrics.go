// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solsearch_queries_resolved_total",
			Help: "Total number of queries resolved, by intent and source",
		},
		[]string{"intent", "source"},
	)

	FallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solsearch_fallbacks_total",
			Help: "Total number of queries answered by the rule-based extractor",
		},
		[]string{"reason"},
	)

	ModelRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solsearch_model_requests_total",
			Help: "Total number of model classifier calls by outcome",
		},
		[]string{"outcome"},
	)

	ModelLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "solsearch_model_latency_seconds",
			Help:    "Latency of model classifier calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	Dispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "solsearch_dispatched_total",
			Help: "Total number of envelopes produced, by action type",
		},
		[]string{"action_type"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "solsearch_http_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"route", "status"},
	)
)
