// Package metrics holds the Prometheus collectors shared by the API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "HTTP requests served, by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// TokenValidations counts recruiter token checks by outcome
	// (valid, expired, revoked, unknown).
	TokenValidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_token_validations_total",
			Help: "Recruiter token validations by outcome",
		},
		[]string{"outcome"},
	)

	TokensIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_tokens_issued_total",
		Help: "Recruiter tokens issued",
	})

	SnapshotImports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_snapshot_imports_total",
			Help: "Snapshot imports by mode and result",
		},
		[]string{"mode", "result"},
	)

	SnapshotExports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_snapshot_exports_total",
			Help: "Snapshot exports by format",
		},
		[]string{"format"},
	)
)
