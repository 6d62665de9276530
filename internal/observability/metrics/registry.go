// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Price monitoring metrics track the fetch→extract→persist pipeline.
var (
	// PriceChecksTotal counts monitor runs by outcome
	// (success, fetch_failed, extraction_failed, persist_failed, product_missing).
	PriceChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_checks_total",
			Help: "Total number of product price checks by outcome",
		},
		[]string{"status"},
	)

	// PriceCheckDuration measures the duration of one monitor run in seconds
	PriceCheckDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "price_check_duration_seconds",
			Help:    "Duration of a single product price check in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// PriceExtractionFailures counts extraction failures by reason
	PriceExtractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_extraction_failures_total",
			Help: "Total number of failed price extractions by reason",
		},
		[]string{"reason"},
	)

	// ObservationsTotal tracks the current number of price history rows
	ObservationsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "price_observations_total",
			Help: "Current number of price observations in the database",
		},
	)

	// ProductsTotal tracks the current number of tracked products
	ProductsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "products_total",
			Help: "Current number of tracked products",
		},
	)
)

// Alert metrics track threshold hits and sink delivery.
var (
	// AlertsTriggeredTotal counts alerts whose condition was met
	AlertsTriggeredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "alerts_triggered_total",
			Help: "Total number of triggered price alerts",
		},
	)

	// AlertSinkFailures counts sink delivery failures by sink name
	AlertSinkFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alert_sink_failures_total",
			Help: "Total number of notification sink failures",
		},
		[]string{"sink"},
	)
)

// Database metrics track query performance across the repositories.
var (
	// DBQueryDuration measures repository query duration by operation name
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)
)
