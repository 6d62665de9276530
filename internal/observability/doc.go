// Package observability provides the observability infrastructure for the
// price tracker: Prometheus metrics, OpenTelemetry tracing and SLO tracking.
//
// Subpackages:
//   - metrics: business metrics for price checks, extraction and alerts
//   - tracing: OpenTelemetry tracing integration and HTTP middleware
//   - slo: availability and error rate tracking against service targets
package observability
