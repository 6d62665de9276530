// Package tracing provides OpenTelemetry tracing integration.
//
// The HTTP middleware extracts W3C trace context from incoming requests and
// exposes the trace ID via the X-Trace-Id response header. The monitor
// pipeline creates a span per product check so slow fetches and extraction
// failures can be attributed to a specific product page.
package tracing
