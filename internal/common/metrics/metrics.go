// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_http_requests_total",
			Help: "Total number of admin API requests",
		},
		[]string{"route", "method", "status"},
	)

	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "admin_query_duration_seconds",
			Help: "Duration of listing page fetches by backend",
		},
		[]string{"backend"},
	)

	PagerFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_pager_fetches_total",
			Help: "Pagination controller fetches by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	StaleResponsesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "admin_pager_stale_responses_dropped_total",
			Help: "Late fetch responses discarded because the filter changed",
		},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_status_transitions_total",
			Help: "Listing status transitions by target status",
		},
		[]string{"to", "outcome"},
	)

	CountsCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "admin_counts_cache_total",
			Help: "Badge-count cache lookups by result",
		},
		[]string{"result"},
	)
)
