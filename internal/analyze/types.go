package analyze

import (
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"

	"parcel-planner/internal/common"
)

// ErrTypeNotFound is returned by a TypeSource that has no declaration for the
// requested type.
var ErrTypeNotFound = errors.New("type not found")

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "com.example.model" or "parcel-planner/examples/beans"
	Name    string // e.g., "Order" or "Outer.Inner" for nested types
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// IsZero returns true if the id names nothing.
func (t TypeID) IsZero() bool {
	return t.Name == ""
}

// DeclKind represents the kind of a type declaration.
type DeclKind int

const (
	DeclUnknown    DeclKind = iota
	DeclClass               // class or Go struct
	DeclInterface           // interface
	DeclEnum                // enum
	DeclAnnotation          // annotation type
)

// String returns a human-readable representation of the DeclKind.
func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "class"
	case DeclInterface:
		return "interface"
	case DeclEnum:
		return "enum"
	case DeclAnnotation:
		return "annotation"
	default:
		return common.UnknownStr
	}
}

// Visibility is the access level of a declaration.
type Visibility int

const (
	VisibilityPackage Visibility = iota
	VisibilityPrivate
	VisibilityProtected
	VisibilityPublic
)

// String returns a human-readable representation of the Visibility.
func (v Visibility) String() string {
	switch v {
	case VisibilityPackage:
		return "package"
	case VisibilityPrivate:
		return "private"
	case VisibilityProtected:
		return "protected"
	case VisibilityPublic:
		return "public"
	default:
		return common.UnknownStr
	}
}

// Modifiers holds the declaration modifiers shared by types and members.
type Modifiers struct {
	Visibility Visibility
	Static     bool
	Abstract   bool
	Final      bool
	Transient  bool // fields only
}

// Position locates a declaration in its source.
type Position struct {
	File string
	Line int // 1-based, 0 when unknown
}

// String returns "file:line", or an empty string when the position is unknown.
func (p Position) String() string {
	if p.File == "" {
		return ""
	}

	if p.Line == 0 {
		return p.File
	}

	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// TypeDecl describes a declared type as seen by the introspection layer.
type TypeDecl struct {
	ID           TypeID       // Unique identifier
	Kind         DeclKind     // Class, interface, enum or annotation
	Modifiers    Modifiers    // Declaration modifiers
	Enclosing    *TypeID      // Declaring type for nested types, nil for top-level
	TypeParams   []string     // Generic type parameter names in order
	Superclass   *TypeRef     // Direct superclass with type arguments, nil when absent
	Interfaces   []TypeRef    // Directly implemented interfaces
	Annotations  Annotations  // Type-level annotations
	Fields       []FieldDecl  // Declared fields in source order
	Methods      []MethodDecl // Declared methods in source order, static ones included
	Constructors []MethodDecl // Declared constructors; empty means an implicit default
	Position     Position     // Declaration site
}

// IsAbstract returns true for interfaces, annotation types and abstract classes.
func (d *TypeDecl) IsAbstract() bool {
	return d.Kind == DeclInterface || d.Kind == DeclAnnotation || d.Modifiers.Abstract
}

// IsInner returns true for nested classes that need an enclosing instance.
func (d *TypeDecl) IsInner() bool {
	return d.Enclosing != nil && d.Kind == DeclClass && !d.Modifiers.Static
}

// Ref returns a reference to the declaration parameterized by its own type variables.
func (d *TypeDecl) Ref() TypeRef {
	args := make([]TypeRef, 0, len(d.TypeParams))
	for _, p := range d.TypeParams {
		args = append(args, Variable(p))
	}

	return Named(d.ID, args...)
}

// HasNoArgConstructor returns true if the type can be created without arguments,
// either through an explicit no-arg constructor or an implicit default one.
func (d *TypeDecl) HasNoArgConstructor() bool {
	if len(d.Constructors) == 0 {
		return true
	}

	for i := range d.Constructors {
		if len(d.Constructors[i].Params) == 0 {
			return true
		}
	}

	return false
}

// Supertypes returns the superclass (if any) followed by the interfaces.
func (d *TypeDecl) Supertypes() []TypeRef {
	var out []TypeRef
	if d.Superclass != nil {
		out = append(out, *d.Superclass)
	}

	return append(out, d.Interfaces...)
}

// FieldDecl describes a declared field.
type FieldDecl struct {
	Name        string      // Field name
	Type        TypeRef     // Declared type, type variables unresolved
	Modifiers   Modifiers   // Field modifiers
	Annotations Annotations // Field annotations
	Position    Position    // Declaration site
}

// MethodDecl describes a declared method or constructor.
type MethodDecl struct {
	Name        string      // Method name; the type's simple name for constructors
	TypeParams  []string    // Method-level type parameters
	Params      []ParamDecl // Formal parameters in order
	Result      TypeRef     // Return type; Void() for void methods and constructors
	Modifiers   Modifiers   // Method modifiers
	Annotations Annotations // Method annotations
	Position    Position    // Declaration site
}

// IsVoid returns true if the method returns nothing.
func (m *MethodDecl) IsVoid() bool {
	return m.Result.Kind == RefVoid
}

// ParamDecl describes a formal parameter.
type ParamDecl struct {
	Name        string      // Source name, empty when the source did not retain it
	Type        TypeRef     // Declared type
	Annotations Annotations // Parameter annotations
}

// TypeSource is the introspection capability the planner consumes.
type TypeSource interface {
	// Lookup returns the declaration for id. Implementations return an error
	// wrapping ErrTypeNotFound when the type is unknown; any other error is
	// treated as a failure of the source itself.
	Lookup(id TypeID) (*TypeDecl, error)
	// ParameterName returns the source name of the index-th parameter of m
	// declared on owner, when it is known.
	ParameterName(owner TypeID, m *MethodDecl, index int) (string, bool)
}

// TypeGraph holds all declarations produced by a loader. It implements TypeSource.
type TypeGraph struct {
	// Types maps TypeID to the declaration.
	Types map[TypeID]*TypeDecl
	// Packages maps package paths to their package info.
	Packages map[string]*PackageInfo
}

var _ TypeSource = (*TypeGraph)(nil)

// NewTypeGraph creates a new empty TypeGraph.
func NewTypeGraph() *TypeGraph {
	return &TypeGraph{
		Types:    make(map[TypeID]*TypeDecl),
		Packages: make(map[string]*PackageInfo),
	}
}

// Add registers a declaration and indexes it under its package.
func (g *TypeGraph) Add(decl *TypeDecl) {
	if _, exists := g.Types[decl.ID]; !exists {
		pkg, ok := g.Packages[decl.ID.PkgPath]
		if !ok {
			pkg = &PackageInfo{Path: decl.ID.PkgPath, Name: common.PkgAlias(decl.ID.PkgPath)}
			g.Packages[decl.ID.PkgPath] = pkg
		}

		pkg.Types = append(pkg.Types, decl.ID)
	}

	g.Types[decl.ID] = decl
}

// GetType returns the declaration for a given TypeID, or nil if not found.
func (g *TypeGraph) GetType(id TypeID) *TypeDecl {
	return g.Types[id]
}

// Lookup implements TypeSource.
func (g *TypeGraph) Lookup(id TypeID) (*TypeDecl, error) {
	decl, ok := g.Types[id]
	if !ok {
		return nil, errors.Wrapf(ErrTypeNotFound, "%s", id)
	}

	return decl, nil
}

// ParameterName implements TypeSource using the names retained by the loader.
func (g *TypeGraph) ParameterName(_ TypeID, m *MethodDecl, index int) (string, bool) {
	if m == nil || index < 0 || index >= len(m.Params) {
		return "", false
	}

	name := m.Params[index].Name

	return name, name != ""
}

// IDs returns all type ids in a stable order.
func (g *TypeGraph) IDs() []TypeID {
	ids := make([]TypeID, 0, len(g.Types))
	for id := range g.Types {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool {
		if ids[i].PkgPath != ids[j].PkgPath {
			return ids[i].PkgPath < ids[j].PkgPath
		}

		return ids[i].Name < ids[j].Name
	})

	return ids
}

// Annotated returns, in stable order, the ids of all types carrying the annotation.
func (g *TypeGraph) Annotated(annotation string) []TypeID {
	var out []TypeID
	for _, id := range g.IDs() {
		if g.Types[id].Annotations.Has(annotation) {
			out = append(out, id)
		}
	}

	return out
}

// PackageInfo holds information about a loaded package.
type PackageInfo struct {
	Path  string   // Import path or Java package name
	Name  string   // Short package name
	Types []TypeID // Types declared in this package
}
