// Package metrics exposes the daemon's Prometheus instrumentation: the
// collector set for the frame loop and the logging registry, and a small
// HTTP server that serves them on /metrics.
package metrics
