package match

import "parcel-planner/internal/analyze"

const javaLang = "java.lang"

// javaBoxes maps Java primitive names to their wrapper classes.
var javaBoxes = map[string]string{
	"boolean": "Boolean",
	"byte":    "Byte",
	"short":   "Short",
	"char":    "Character",
	"int":     "Integer",
	"long":    "Long",
	"float":   "Float",
	"double":  "Double",
}

// javaUnboxes is the inverse of javaBoxes.
var javaUnboxes = func() map[string]string {
	out := make(map[string]string, len(javaBoxes))
	for prim, box := range javaBoxes {
		out[box] = prim
	}

	return out
}()

// BoxedForms returns the reference types a value of t may be boxed into:
// the Java wrapper class for Java primitives, and a pointer for any
// non-pointer type (the Go boxed form).
func BoxedForms(t analyze.TypeRef) []analyze.TypeRef {
	var out []analyze.TypeRef
	if t.Kind == analyze.RefPrimitive {
		if box, ok := javaBoxes[t.ID.Name]; ok {
			out = append(out, analyze.Declared(javaLang, box))
		}
	}

	switch t.Kind {
	case analyze.RefPrimitive, analyze.RefDeclared, analyze.RefArray:
		out = append(out, analyze.PointerTo(t))
	default:
	}

	return out
}

// Unboxed returns the unboxed form of a wrapper class or pointer.
func Unboxed(t analyze.TypeRef) (analyze.TypeRef, bool) {
	switch t.Kind {
	case analyze.RefPointer:
		return *t.Elem, true
	case analyze.RefDeclared:
		if t.ID.PkgPath != javaLang {
			return analyze.TypeRef{}, false
		}

		if prim, ok := javaUnboxes[t.ID.Name]; ok {
			return analyze.Primitive(prim), true
		}
	default:
	}

	return analyze.TypeRef{}, false
}

// IsJavaBoolean returns true for boolean and java.lang.Boolean.
func IsJavaBoolean(t analyze.TypeRef) bool {
	switch t.Kind {
	case analyze.RefPrimitive:
		return t.ID.Name == "boolean" || t.ID.Name == "bool"
	case analyze.RefDeclared:
		return t.ID == analyze.TypeID{PkgPath: javaLang, Name: "Boolean"}
	default:
		return false
	}
}
