// Package batch analyzes many types concurrently on a worker pool.
//
// Each analysis runs in its own tracing span, its diagnostics are published
// to a diagnostic.Sink and its outcome is counted in Stats and, when
// configured, in Prometheus metrics. Results keep the request order.
//
// Key types:
//   - Runner: owns the analyzer and the pool settings
//   - Result: outcome of one analysis
//   - Stats: outcome counters of a Runner
package batch
