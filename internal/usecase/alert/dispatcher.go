package alert

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"price-tracker/internal/observability/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Dispatcher evaluates the alert condition and fans out to registered sinks.
//
// By default sinks run sequentially in registration order. SetMaxConcurrent
// raises the fan-out bound for deployments with slow sinks. In both modes
// every sink is attempted even when another fails, and EvaluateAndNotify
// returns only after all sinks have finished.
type Dispatcher struct {
	sinks         []Sink
	maxConcurrent int
}

// NewDispatcher creates a Dispatcher with the given sinks, preserving order.
func NewDispatcher(sinks ...Sink) *Dispatcher {
	return &Dispatcher{sinks: sinks, maxConcurrent: 1}
}

// SetMaxConcurrent bounds how many sinks may deliver at the same time.
// Values below 1 are treated as 1 (sequential delivery).
func (d *Dispatcher) SetMaxConcurrent(n int) {
	if n < 1 {
		n = 1
	}
	d.maxConcurrent = n
}

// Register appends a sink to the dispatch list.
func (d *Dispatcher) Register(s Sink) {
	d.sinks = append(d.sinks, s)
}

// EvaluateAndNotify checks the alert condition and, when it holds, emits a
// log alert and invokes every registered sink.
//
// The condition is inclusive: currentPrice <= targetPrice triggers. Meeting
// the target exactly counts as a hit.
//
// A sink failure (returned error or panic) is logged and does not prevent the
// remaining sinks from running, nor does it change the returned trigger
// result. On a non-trigger the method performs no side effects.
func (d *Dispatcher) EvaluateAndNotify(ctx context.Context, productName string, currentPrice, targetPrice decimal.Decimal, productID *int64) bool {
	if currentPrice.GreaterThan(targetPrice) {
		return false
	}

	a := Alert{
		ProductName:  productName,
		CurrentPrice: currentPrice,
		TargetPrice:  targetPrice,
		ProductID:    productID,
		TriggeredAt:  time.Now(),
	}

	// Request ID correlates the sink logs of one alert.
	requestID := uuid.New().String()

	// The console alert always fires, before any sink runs.
	logger := slog.Default()
	logger.Warn("price alert triggered",
		slog.String("request_id", requestID),
		slog.String("product", a.ProductName),
		slog.String("current_price", a.CurrentPrice.StringFixed(2)),
		slog.String("target_price", a.TargetPrice.StringFixed(2)),
		slog.String("savings", a.Savings().StringFixed(2)))
	metrics.RecordAlertTriggered()

	if d.maxConcurrent <= 1 {
		for _, sink := range d.sinks {
			d.notifySink(ctx, requestID, sink, a)
		}
		return true
	}

	g := &errgroup.Group{}
	g.SetLimit(d.maxConcurrent)
	for _, sink := range d.sinks {
		sink := sink
		g.Go(func() error {
			d.notifySink(ctx, requestID, sink, a)
			return nil
		})
	}
	// notifySink swallows sink errors, so Wait only synchronizes.
	_ = g.Wait()

	return true
}

// notifySink runs one sink with error and panic isolation.
func (d *Dispatcher) notifySink(ctx context.Context, requestID string, sink Sink, a Alert) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in notification sink",
				slog.String("request_id", requestID),
				slog.String("sink", sink.Name()),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			metrics.RecordAlertSinkFailure(sink.Name())
		}
	}()

	start := time.Now()
	if err := sink.Notify(ctx, a); err != nil {
		slog.Error("notification sink failed",
			slog.String("request_id", requestID),
			slog.String("sink", sink.Name()),
			slog.String("product", a.ProductName),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
		metrics.RecordAlertSinkFailure(sink.Name())
		return
	}

	slog.Info("notification sink delivered",
		slog.String("request_id", requestID),
		slog.String("sink", sink.Name()),
		slog.String("product", a.ProductName),
		slog.Duration("duration", time.Since(start)))
}
