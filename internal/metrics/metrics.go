package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)
)

// Cosmetics business metrics
var (
	EquipChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loadout_changes_total",
			Help: "Total loadout mutations, by kind (set, clear_category, clear_all)",
		},
		[]string{"kind"},
	)

	ActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gadget_activations_total",
			Help: "Gadget activation requests by outcome",
		},
		[]string{"outcome"},
	)

	SnapshotsSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "loadout_snapshots_sent_total",
			Help: "Loadout snapshots queued for delivery",
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sessions_active",
			Help: "Currently live account sessions",
		},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_items",
			Help: "Item definitions currently in the catalog",
		},
	)
)

// Label values for ActivationsTotal outcome
const (
	OutcomeAccepted = "accepted"
	OutcomeDenied   = "denied"
	OutcomeCooldown = "cooldown"
	OutcomeIgnored  = "ignored"
)

// Label values for EquipChanges kind
const (
	EquipKindSet           = "set"
	EquipKindClearCategory = "clear_category"
	EquipKindClearAll      = "clear_all"
)
