// Package metrics publishes planner counters and latencies to Prometheus.
//
// Key types:
//   - Metrics: the collectors of one planner instance
package metrics
