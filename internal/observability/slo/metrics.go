// Package slo tracks the service level objectives of the API surface:
// availability and error rate, derived from the stream of handled requests.
package slo

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SLO targets define the service level objectives for the application.
const (
	// AvailabilitySLO defines the target uptime percentage (99.9% = 43 minutes downtime per month)
	AvailabilitySLO = 99.9

	// ErrorRateSLO defines the maximum acceptable error rate as a ratio (0.1% = 0.001)
	ErrorRateSLO = 0.001
)

var (
	// SLOAvailability tracks the current availability ratio (0-1)
	// calculated as: (total_requests - 5xx_errors) / total_requests
	SLOAvailability = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_availability_ratio",
			Help: "Current availability ratio (0-1), target: 0.999",
		},
	)

	// SLOErrorRate tracks the current error rate ratio (0-1)
	// calculated as: 5xx_errors / total_requests
	SLOErrorRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "slo_error_rate_ratio",
			Help: "Current error rate ratio (0-1), target: 0.001",
		},
	)
)

var (
	totalRequests atomic.Int64
	errorRequests atomic.Int64
)

// RecordRequest feeds one handled request into the SLO window and refreshes
// the ratio gauges. A status of 500 or above counts against availability.
//
// The ratios cover the process lifetime. Rate windows (e.g. error rate over
// the last 5 minutes) are left to Prometheus queries over these series.
func RecordRequest(statusCode int) {
	total := totalRequests.Add(1)
	errs := errorRequests.Load()
	if statusCode >= 500 {
		errs = errorRequests.Add(1)
	}

	ratio := float64(total-errs) / float64(total)
	SLOAvailability.Set(ratio)
	SLOErrorRate.Set(1 - ratio)
}

// Reset clears the request window. Test use only.
func Reset() {
	totalRequests.Store(0)
	errorRequests.Store(0)
	SLOAvailability.Set(0)
	SLOErrorRate.Set(0)
}
