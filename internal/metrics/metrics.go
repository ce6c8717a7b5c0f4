package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sandbox HTTP metrics
var (
	// HTTPRequestsTotal tracks sandbox requests by method, route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandbox_http_requests_total",
			Help: "Total sandbox HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration tracks sandbox request latency in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sandbox_http_request_duration_seconds",
			Help:    "Sandbox HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "route"},
	)
)

// Auth metrics
var (
	// LoginsTotal tracks login attempts by outcome
	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandbox_logins_total",
			Help: "Login attempts by outcome (success/invalid)",
		},
		[]string{"outcome"},
	)

	// TokenRefreshesTotal tracks refresh attempts by outcome
	TokenRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandbox_token_refreshes_total",
			Help: "Silent re-authentication attempts by outcome (success/rejected)",
		},
		[]string{"outcome"},
	)
)

// Realtime metrics
var (
	// RealtimeClientsCurrent tracks currently connected realtime clients
	RealtimeClientsCurrent = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sandbox_realtime_clients_current",
			Help: "Currently connected realtime clients",
		},
	)

	// OrderEventsTotal tracks order events pushed by room
	OrderEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sandbox_order_events_total",
			Help: "Order events pushed to realtime rooms",
		},
		[]string{"room"},
	)
)
