// Package javasrc builds an analyze.TypeGraph from Java source files.
//
// Files are parsed with tree-sitter, one parser per goroutine. A second pass
// resolves the simple type names written in the source against nested
// types, explicit imports, the file's own package, on-demand imports and
// java.lang, in that order.
//
// Key types:
//   - Loader: parses sources in parallel and resolves them into a graph
//   - File: the declarations of one compilation unit before resolution
//   - Source: a file path with its content
package javasrc
