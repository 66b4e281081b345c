// Package analyze holds the declaration model the planner reads and the Go
// package loader that produces it.
//
// Declarations are language neutral: Java sources are loaded by the javasrc
// package, Go packages by LoadPackages, which uses golang.org/x/tools/go/packages
// with go/types. Struct embedding becomes inheritance, struct tags and
// //parcel: directives become annotations.
//
// Key types:
//   - TypeID: package path + type name
//   - TypeDecl: a class, interface, enum or annotation with its members
//   - TypeRef: a possibly parameterized type reference
//   - Annotation: a parsed annotation with typed element values
//   - TypeGraph: all loaded declarations; implements TypeSource
package analyze
