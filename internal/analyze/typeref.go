package analyze

import (
	"strings"

	"parcel-planner/internal/common"
)

// RefKind represents the shape of a type reference.
type RefKind int

const (
	RefUnknown   RefKind = iota
	RefPrimitive         // int, boolean, Go basic types
	RefDeclared          // class, interface or enum, possibly parameterized
	RefVariable          // generic type variable
	RefArray             // array or Go slice
	RefPointer           // Go pointer
	RefWildcard          // "?" or "? extends X"
	RefVoid              // absent result
)

// String returns a human-readable representation of the RefKind.
func (k RefKind) String() string {
	switch k {
	case RefPrimitive:
		return "primitive"
	case RefDeclared:
		return "declared"
	case RefVariable:
		return "variable"
	case RefArray:
		return "array"
	case RefPointer:
		return "pointer"
	case RefWildcard:
		return "wildcard"
	case RefVoid:
		return "void"
	default:
		return common.UnknownStr
	}
}

// TypeRef is a substitution-aware reference to a type: a base type plus the
// generic arguments bound along a specific inheritance edge.
type TypeRef struct {
	Kind RefKind
	ID   TypeID    // Declared types; primitives use ID.Name only
	Args []TypeRef // Type arguments of a declared type
	Elem *TypeRef  // Element of arrays and pointers, upper bound of wildcards
	Var  string    // Type variable name
}

// Primitive returns a reference to a primitive or Go basic type.
func Primitive(name string) TypeRef {
	return TypeRef{Kind: RefPrimitive, ID: TypeID{Name: name}}
}

// Declared returns a reference to pkg.name with the given type arguments.
func Declared(pkg, name string, args ...TypeRef) TypeRef {
	return Named(TypeID{PkgPath: pkg, Name: name}, args...)
}

// Named returns a reference to id with the given type arguments.
func Named(id TypeID, args ...TypeRef) TypeRef {
	return TypeRef{Kind: RefDeclared, ID: id, Args: args}
}

// Variable returns a reference to a type variable.
func Variable(name string) TypeRef {
	return TypeRef{Kind: RefVariable, Var: name}
}

// ArrayOf returns an array of elem.
func ArrayOf(elem TypeRef) TypeRef {
	return TypeRef{Kind: RefArray, Elem: &elem}
}

// PointerTo returns a pointer to elem.
func PointerTo(elem TypeRef) TypeRef {
	return TypeRef{Kind: RefPointer, Elem: &elem}
}

// Wildcard returns "?" when bound is nil, "? extends bound" otherwise.
func Wildcard(bound *TypeRef) TypeRef {
	return TypeRef{Kind: RefWildcard, Elem: bound}
}

// Void returns the void result type.
func Void() TypeRef {
	return TypeRef{Kind: RefVoid}
}

// IsVoid returns true for the void result type.
func (r TypeRef) IsVoid() bool {
	return r.Kind == RefVoid
}

// IsRaw returns true for a declared reference without type arguments.
func (r TypeRef) IsRaw() bool {
	return r.Kind == RefDeclared && len(r.Args) == 0
}

// String renders the reference with qualified declared names, e.g.
// "java.util.List<java.lang.String>", "int[]", "*time.Time" or "T".
func (r TypeRef) String() string {
	var sb strings.Builder
	r.write(&sb, TypeID.String)

	return sb.String()
}

// ShortString renders the reference with simple names, e.g. "List<String>".
func (r TypeRef) ShortString() string {
	var sb strings.Builder
	r.write(&sb, func(id TypeID) string { return id.Name })

	return sb.String()
}

func (r TypeRef) write(sb *strings.Builder, name func(TypeID) string) {
	switch r.Kind {
	case RefPrimitive:
		sb.WriteString(r.ID.Name)
	case RefDeclared:
		sb.WriteString(name(r.ID))
		if len(r.Args) > 0 {
			sb.WriteByte('<')
			for i, a := range r.Args {
				if i > 0 {
					sb.WriteString(", ")
				}
				a.write(sb, name)
			}
			sb.WriteByte('>')
		}
	case RefVariable:
		sb.WriteString(r.Var)
	case RefArray:
		r.Elem.write(sb, name)
		sb.WriteString("[]")
	case RefPointer:
		sb.WriteByte('*')
		r.Elem.write(sb, name)
	case RefWildcard:
		sb.WriteByte('?')
		if r.Elem != nil {
			sb.WriteString(" extends ")
			r.Elem.write(sb, name)
		}
	case RefVoid:
		sb.WriteString("void")
	default:
		sb.WriteString("<" + common.UnknownStr + ">")
	}
}

// Equal reports structural equality.
func (r TypeRef) Equal(o TypeRef) bool {
	if r.Kind != o.Kind || r.ID != o.ID || r.Var != o.Var || len(r.Args) != len(o.Args) {
		return false
	}

	for i := range r.Args {
		if !r.Args[i].Equal(o.Args[i]) {
			return false
		}
	}

	switch {
	case r.Elem == nil && o.Elem == nil:
		return true
	case r.Elem == nil || o.Elem == nil:
		return false
	default:
		return r.Elem.Equal(*o.Elem)
	}
}

// Substitution maps type variable names to the references bound to them.
type Substitution map[string]TypeRef

// Bind pairs declared type parameters with the arguments used on an
// inheritance edge. A raw edge (no arguments) binds nothing.
func Bind(params []string, args []TypeRef) Substitution {
	if len(params) == 0 || len(params) != len(args) {
		return nil
	}

	sub := make(Substitution, len(params))
	for i, p := range params {
		sub[p] = args[i]
	}

	return sub
}

// Substitute replaces bound type variables throughout the reference.
func (r TypeRef) Substitute(sub Substitution) TypeRef {
	if len(sub) == 0 {
		return r
	}

	switch r.Kind {
	case RefVariable:
		if bound, ok := sub[r.Var]; ok {
			return bound
		}

		return r
	case RefDeclared:
		if len(r.Args) == 0 {
			return r
		}

		args := make([]TypeRef, len(r.Args))
		for i, a := range r.Args {
			args[i] = a.Substitute(sub)
		}

		return TypeRef{Kind: RefDeclared, ID: r.ID, Args: args}
	case RefArray, RefPointer, RefWildcard:
		if r.Elem == nil {
			return r
		}

		elem := r.Elem.Substitute(sub)

		return TypeRef{Kind: r.Kind, Elem: &elem}
	default:
		return r
	}
}
