package metrics

import "time"

// RecordPriceCheck records the outcome and duration of one monitor run.
// Status should be one of "success", "fetch_failed", "extraction_failed",
// "persist_failed", "product_missing".
func RecordPriceCheck(status string, duration time.Duration) {
	PriceChecksTotal.WithLabelValues(status).Inc()
	PriceCheckDuration.Observe(duration.Seconds())
}

// RecordExtractionFailure records a failed extraction with its reason
// ("fetch", "no_selector_matched", "normalize").
func RecordExtractionFailure(reason string) {
	PriceExtractionFailures.WithLabelValues(reason).Inc()
}

// RecordAlertTriggered records one triggered price alert.
func RecordAlertTriggered() {
	AlertsTriggeredTotal.Inc()
}

// RecordAlertSinkFailure records a delivery failure for the named sink.
func RecordAlertSinkFailure(sink string) {
	AlertSinkFailures.WithLabelValues(sink).Inc()
}

// UpdateProductsTotal updates the tracked-product gauge.
// The gauge is refreshed after CRUD operations and at worker job start.
func UpdateProductsTotal(count int) {
	ProductsTotal.Set(float64(count))
}

// UpdateObservationsTotal updates the history-row gauge.
func UpdateObservationsTotal(count int64) {
	ObservationsTotal.Set(float64(count))
}

// RecordDBQuery records the duration of one repository query.
// Operation names follow "entity.Method", e.g. "product.List".
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
