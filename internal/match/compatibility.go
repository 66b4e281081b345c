package match

import (
	"github.com/cockroachdb/errors"

	"parcel-planner/internal/analyze"
	"parcel-planner/internal/common"
)

// TypeCompatibility represents the level of compatibility between two types.
type TypeCompatibility int

const (
	// TypeIncompatible means a source value cannot be stored in the target.
	TypeIncompatible TypeCompatibility = iota
	// TypeUnboxing means a boxed source feeds a primitive target and may be null.
	TypeUnboxing
	// TypeBoxing means a primitive source feeds its boxed target.
	TypeBoxing
	// TypeAssignable means the source is a subtype of the target.
	TypeAssignable
	// TypeIdentical means the types are exactly the same.
	TypeIdentical
)

const (
	VerdictIdentical    = "identical"
	VerdictAssignable   = "assignable"
	VerdictBoxing       = "boxing"
	VerdictUnboxing     = "unboxing"
	VerdictIncompatible = "incompatible"
)

// String returns a human-readable name for the compatibility level.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeBoxing:
		return VerdictBoxing
	case TypeUnboxing:
		return VerdictUnboxing
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return common.UnknownStr
	}
}

// Score returns a numeric score for sorting (higher is better).
func (c TypeCompatibility) Score() int {
	return int(c)
}

// TypeCompatibilityResult contains detailed information about type compatibility.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Reason        string // Human-readable explanation
	SourceType    string // String representation of source type
	TargetType    string // String representation of target type
}

// Accepted reports whether the result allows the assignment. Unboxing is
// accepted unless strictUnboxing is set.
func (r TypeCompatibilityResult) Accepted(strictUnboxing bool) bool {
	if r.Compatibility == TypeUnboxing {
		return !strictUnboxing
	}

	return r.Compatibility >= TypeBoxing
}

// Well-known top types; every reference type is assignable to them.
var topTypes = []analyze.TypeID{
	{PkgPath: javaLang, Name: "Object"},
	{Name: "any"},
}

// Checker scores compatibility of references using the type hierarchy of a TypeSource.
type Checker struct {
	source analyze.TypeSource
}

// NewChecker creates a Checker backed by source.
func NewChecker(source analyze.TypeSource) *Checker {
	return &Checker{source: source}
}

// ScoreTypeCompatibility determines whether a value of type source can be
// stored in a location of type target.
func (c *Checker) ScoreTypeCompatibility(source, target analyze.TypeRef) TypeCompatibilityResult {
	result := func(compat TypeCompatibility, reason string) TypeCompatibilityResult {
		return TypeCompatibilityResult{
			Compatibility: compat,
			Reason:        reason,
			SourceType:    source.String(),
			TargetType:    target.String(),
		}
	}

	if source.Equal(target) {
		return result(TypeIdentical, "types are identical")
	}

	for _, boxed := range BoxedForms(source) {
		if boxed.Equal(target) {
			return result(TypeBoxing, "source is boxed into target")
		}
	}

	if unboxed, ok := Unboxed(source); ok && unboxed.Equal(target) {
		return result(TypeUnboxing, "source is unboxed into target and may be null")
	}

	if c.assignable(source, target) {
		return result(TypeAssignable, "source is assignable to target")
	}

	return result(TypeIncompatible, "types are not compatible")
}

func (c *Checker) assignable(source, target analyze.TypeRef) bool {
	switch target.Kind {
	case analyze.RefVariable:
		// An unresolved target variable accepts anything but primitives.
		return source.Kind != analyze.RefPrimitive
	case analyze.RefWildcard:
		if target.Elem == nil {
			return true
		}

		return c.assignable(source, *target.Elem) || source.Equal(*target.Elem)
	case analyze.RefArray:
		if source.Kind != analyze.RefArray {
			return false
		}

		if source.Elem.Kind == analyze.RefPrimitive || target.Elem.Kind == analyze.RefPrimitive {
			return source.Elem.Equal(*target.Elem)
		}

		return source.Elem.Equal(*target.Elem) || c.assignable(*source.Elem, *target.Elem)
	case analyze.RefDeclared:
		if source.Kind == analyze.RefPrimitive || source.Kind == analyze.RefVoid {
			return false
		}

		for _, top := range topTypes {
			if target.ID == top {
				return true
			}
		}

		if source.Kind != analyze.RefDeclared {
			return false
		}

		super, ok := c.AsSuper(source, target.ID)
		if !ok {
			return false
		}

		return argsContain(target.Args, super.Args)
	default:
		return false
	}
}

// argsContain reports whether declared target arguments accept the source
// arguments. Raw targets accept any parameterization; wildcards accept
// their bound or anything when unbounded.
func argsContain(target, source []analyze.TypeRef) bool {
	if len(target) == 0 {
		return true
	}

	if len(target) != len(source) {
		return false
	}

	for i := range target {
		t := target[i]
		switch {
		case t.Kind == analyze.RefWildcard && t.Elem == nil:
		case t.Kind == analyze.RefWildcard:
			if !source[i].Equal(*t.Elem) {
				return false
			}
		case !t.Equal(source[i]):
			return false
		}
	}

	return true
}

// AsSuper walks the hierarchy of ref and returns the parameterization of the
// supertype named target, with type arguments substituted along the path.
func (c *Checker) AsSuper(ref analyze.TypeRef, target analyze.TypeID) (analyze.TypeRef, bool) {
	if ref.Kind != analyze.RefDeclared {
		return analyze.TypeRef{}, false
	}

	visited := map[analyze.TypeID]bool{}
	queue := []analyze.TypeRef{ref}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.ID == target {
			return current, true
		}

		if visited[current.ID] {
			continue
		}
		visited[current.ID] = true

		decl, err := c.source.Lookup(current.ID)
		if err != nil {
			continue
		}

		sub := analyze.Bind(decl.TypeParams, current.Args)
		for _, super := range decl.Supertypes() {
			queue = append(queue, super.Substitute(sub))
		}
	}

	return analyze.TypeRef{}, false
}

// Implements reports whether the declaration identified by ref has any of
// the given supertypes; it returns the matched parameterization.
func (c *Checker) Implements(ref analyze.TypeRef, supertypes []analyze.TypeID) (analyze.TypeRef, bool) {
	for _, s := range supertypes {
		if found, ok := c.AsSuper(ref, s); ok {
			return found, true
		}
	}

	return analyze.TypeRef{}, false
}

// Lookup returns the declaration behind a declared reference. Absent types
// return (nil, nil); any other failure of the source is returned.
func (c *Checker) Lookup(ref analyze.TypeRef) (*analyze.TypeDecl, error) {
	if ref.Kind != analyze.RefDeclared {
		return nil, nil
	}

	decl, err := c.source.Lookup(ref.ID)
	if errors.Is(err, analyze.ErrTypeNotFound) {
		return nil, nil
	}

	return decl, err
}
