package analyze

import (
	"strings"
)

// MemberPath builds a readable path string for a declaration.
// Examples:
//   - "Order" for a type
//   - "Order.total" for a field
//   - "Order.setTotal(int)" for a method
//   - "Order.<init>(String).value" for a constructor parameter
type MemberPath struct {
	parts []string
}

// NewMemberPath creates a new MemberPath from a root type name.
func NewMemberPath(root string) *MemberPath {
	return &MemberPath{
		parts: []string{root},
	}
}

// Field appends a field name to the path.
func (p *MemberPath) Field(name string) *MemberPath {
	return &MemberPath{
		parts: append(append([]string{}, p.parts...), name),
	}
}

// Method appends a method name with its parameter types to the path.
func (p *MemberPath) Method(m *MethodDecl) *MemberPath {
	return p.Field(m.Name + "(" + ParamList(m.Params) + ")")
}

// Constructor appends a constructor marker with its parameter types to the path.
func (p *MemberPath) Constructor(m *MethodDecl) *MemberPath {
	return p.Field("<init>(" + ParamList(m.Params) + ")")
}

// String returns the full path string.
func (p *MemberPath) String() string {
	return strings.Join(p.parts, ".")
}

// ParamList renders parameter types with simple names, comma separated.
func ParamList(params []ParamDecl) string {
	parts := make([]string, len(params))
	for i := range params {
		parts[i] = params[i].Type.ShortString()
	}

	return strings.Join(parts, ", ")
}

// TypeStringer provides methods for creating readable declaration strings.
type TypeStringer struct{}

// NewTypeStringer creates a new TypeStringer.
func NewTypeStringer() *TypeStringer {
	return &TypeStringer{}
}

// DeclString returns a one-line summary such as "abstract class Base<T> extends Object".
func (s *TypeStringer) DeclString(d *TypeDecl) string {
	if d == nil {
		return "<nil>"
	}

	var sb strings.Builder
	if d.Modifiers.Abstract && d.Kind == DeclClass {
		sb.WriteString("abstract ")
	}
	if d.Modifiers.Static {
		sb.WriteString("static ")
	}

	sb.WriteString(d.Kind.String())
	sb.WriteByte(' ')
	sb.WriteString(d.Ref().ShortString())

	if d.Superclass != nil {
		sb.WriteString(" extends ")
		sb.WriteString(d.Superclass.ShortString())
	}

	if len(d.Interfaces) > 0 {
		names := make([]string, len(d.Interfaces))
		for i, r := range d.Interfaces {
			names[i] = r.ShortString()
		}

		sb.WriteString(" implements ")
		sb.WriteString(strings.Join(names, ", "))
	}

	return sb.String()
}

// MethodString renders a method signature such as "String getValue()".
func (s *TypeStringer) MethodString(m *MethodDecl) string {
	if m == nil {
		return "<nil>"
	}

	return m.Result.ShortString() + " " + m.Name + "(" + ParamList(m.Params) + ")"
}
