// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ActivityRosterSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activity_roster_size",
			Help: "Current number of participants per activity",
		},
		[]string{"activity"},
	)

	ActivityCapacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "activity_capacity",
			Help: "Maximum number of participants per activity",
		},
		[]string{"activity"},
	)

	RosterEventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_events_failed_total",
			Help: "Total number of roster events a sink failed to accept",
		},
		[]string{"sink"},
	)
)
