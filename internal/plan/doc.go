// Package plan analyzes a declared type and produces its serialization plan:
// how instances are constructed, which members carry which properties,
// which converters apply and which lifecycle hooks run.
//
// Analysis pipeline:
//  1. Collect the ancestor levels inside the analysis boundary, substituting
//     generic arguments along each inheritance edge
//  2. Resolve property claims per level (field, bean or value mode) by
//     annotation precedence and report duplicates
//  3. Select the construction strategy and bind its parameters
//  4. Validate converters and report collisions
//  5. Emit field and method pairs, check their types and serializability
//  6. Collect lifecycle hooks
//
// Every rule violation is recorded in the Analysis diagnostics and the
// analysis continues; only failures of the type source are returned as errors.
//
// Key types:
//   - Analyzer: entry point, holds immutable configuration
//   - Plan: the result consumed by code generators
//   - PropertyPair, Construction, Callback: plan parts
package plan
