// Package match provides type compatibility scoring, accessor naming
// conventions, and fuzzy name matching for the planner.
//
// Key functions:
//   - Checker.ScoreTypeCompatibility: scores assignment compatibility of TypeRefs
//   - Checker.AsSuper: finds the parameterization of a supertype along the hierarchy
//   - AccessorStyle.Classify: recognizes getters and setters and their property names
//   - Decapitalize: derives a property name from an accessor suffix
//   - Suggest: ranks near-miss names for "did you mean" diagnostics
package match
