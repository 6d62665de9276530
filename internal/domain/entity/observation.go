package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceObservation is one timestamped price sample for a product.
// Observations form an append-only time series: rows are never updated or
// deduplicated once written, and history queries return them newest first.
type PriceObservation struct {
	ID         int64
	ProductID  int64
	Price      decimal.Decimal
	ObservedAt time.Time
}
