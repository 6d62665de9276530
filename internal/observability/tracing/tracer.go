package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the price-tracker application.
var tracer = otel.Tracer("price-tracker")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "monitor-product")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
