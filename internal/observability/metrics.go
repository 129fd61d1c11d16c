package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Gateway HTTP surface
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_http_request_duration_seconds",
			Help:    "Gateway HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_http_requests_total",
			Help: "Total number of gateway HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// Marketplace backend calls
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_request_duration_seconds",
			Help:    "Marketplace backend request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint", "result"},
	)

	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backend_requests_total",
			Help: "Total number of marketplace backend requests",
		},
		[]string{"endpoint", "result"},
	)

	// Session lifecycle
	TokenRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_token_refreshes_total",
			Help: "Total number of silent token refresh attempts",
		},
		[]string{"result"},
	)

	SessionAuthenticated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "session_authenticated",
			Help: "1 while the session holds an authenticated user, 0 otherwise",
		},
	)

	// Listing query manager
	ListingFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_fetches_total",
			Help: "Total number of listing fetches by outcome",
		},
		[]string{"result"},
	)

	// State feed
	StateSubscribersActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "state_subscribers_active",
			Help: "Number of active WebSocket state-feed subscribers",
		},
		[]string{"topic"},
	)
)

// ObserveBackendRequest records one marketplace backend call
func ObserveBackendRequest(endpoint string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	BackendRequestDuration.WithLabelValues(endpoint, result).Observe(time.Since(start).Seconds())
	BackendRequestsTotal.WithLabelValues(endpoint, result).Inc()
}
