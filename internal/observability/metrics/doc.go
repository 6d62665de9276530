// Package metrics defines all Prometheus collectors in one place so that
// metric names stay consistent between the API and the worker, and exposes
// small record helpers so call sites never touch label plumbing directly.
package metrics
