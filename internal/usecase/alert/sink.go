// Package alert implements target-price evaluation and notification fan-out.
// The dispatcher owns an ordered registry of notification sinks and invokes
// them with a fixed payload; it knows nothing about transports (webhook,
// email, log file), which live under internal/infra/notifier.
package alert

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Alert is the fixed payload handed to every sink when a target price is met.
type Alert struct {
	ProductName  string
	CurrentPrice decimal.Decimal
	TargetPrice  decimal.Decimal
	ProductID    *int64 // optional; nil when evaluation happens outside a stored product
	TriggeredAt  time.Time
}

// Savings returns how far below target the current price is.
func (a Alert) Savings() decimal.Decimal {
	return a.TargetPrice.Sub(a.CurrentPrice)
}

// Sink is a registered side-effecting notification handler.
//
// Implementations must be safe for sequential reuse and should handle their
// own transport errors where possible; the dispatcher additionally guards
// every invocation against returned errors and panics, so one failing sink
// never blocks the others.
type Sink interface {
	// Name identifies the sink in logs and metrics (lowercase, alphanumeric).
	Name() string

	// Notify performs the sink's side effect for one triggered alert.
	Notify(ctx context.Context, a Alert) error
}
