// Package diagnostic provides structured errors and warnings produced while
// planning how a type is serialized.
//
// Key capabilities:
//   - A closed taxonomy of rule violations (Kind)
//   - Accumulation of every independent problem found in one analysis
//   - Per-type and per-member attribution with "did you mean" suggestions
//   - A concurrency-safe Collector acting as the shared diagnostics sink
package diagnostic
