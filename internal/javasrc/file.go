package javasrc

import (
	"strings"

	"parcel-planner/internal/analyze"
)

// Source is one Java compilation unit.
type Source struct {
	Path    string
	Content []byte
}

// Import is one import declaration.
type Import struct {
	Path     string // "java.util.List", or "java.util" for on-demand imports
	Static   bool
	Wildcard bool
}

// Name returns the simple name a single-type import makes visible.
func (i Import) Name() string {
	if i.Wildcard {
		return ""
	}

	return i.Path[strings.LastIndexByte(i.Path, '.')+1:]
}

// File holds the declarations of one compilation unit. Type references and
// annotation names are kept as written until the graph is resolved:
// unresolved declared references carry the written name in ID.Name and an
// empty package path.
type File struct {
	Path    string
	Package string
	Imports []Import
	Types   []*analyze.TypeDecl
	// HasErrors is set when the parse tree contains syntax errors.
	HasErrors bool
}
