// Package report renders batch results as YAML, JSON, text or a debug dump.
//
// Key types:
//   - Report: the rendered document, built from batch results
//   - Entry: one analyzed type
package report
