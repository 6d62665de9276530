package notifier

import (
	"context"

	"price-tracker/internal/usecase/alert"
)

// NoopSink is a no-operation implementation of the alert.Sink interface.
// It is used when alerting channels are disabled to avoid nil checks in the
// dispatcher. This follows the Null Object pattern.
type NoopSink struct{}

// NewNoopSink creates a new NoopSink instance.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

// Name implements the alert.Sink interface.
func (n *NoopSink) Name() string { return "noop" }

// Notify does nothing and returns nil immediately.
func (n *NoopSink) Notify(_ context.Context, _ alert.Alert) error {
	return nil
}
