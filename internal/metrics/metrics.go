// Package metrics holds the Prometheus collectors shared across the service.
// Register must be called once from main before the first request.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// HTTPRequestsTotal counts requests by route pattern, method and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loyalty_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by route pattern and method.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "loyalty_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// LedgerTransactionsTotal counts committed ledger entries by type.
	LedgerTransactionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loyalty_ledger_transactions_total",
			Help: "Total number of committed points transactions",
		},
		[]string{"type"},
	)

	// PointsExpiredTotal accumulates points retired by the expiry sweeper.
	PointsExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "loyalty_points_expired_total",
			Help: "Total points removed by expiry",
		},
	)

	// SweepDuration observes how long a full sweep pass takes.
	SweepDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "loyalty_sweep_duration_seconds",
			Help:    "Duration of expiry sweep passes",
			Buckets: prometheus.DefBuckets,
		},
	)

	// SweepRunning is 1 while a sweep pass is in progress.
	SweepRunning = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "loyalty_sweep_running",
			Help: "Whether an expiry sweep pass is currently running",
		},
	)

	// AuthRejectionsTotal counts rejected requests by reason.
	AuthRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loyalty_auth_rejections_total",
			Help: "Total number of unauthorized or forbidden requests",
		},
		[]string{"reason"},
	)
)

// Register adds all collectors to the default registry. Call once from main.
func Register() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		LedgerTransactionsTotal,
		PointsExpiredTotal,
		SweepDuration,
		SweepRunning,
		AuthRejectionsTotal,
	)
}
