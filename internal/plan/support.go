package plan

import (
	"parcel-planner/internal/analyze"
	"parcel-planner/internal/diagnostic"
)

// builtinTypes serialize without further analysis.
var builtinTypes = []analyze.TypeID{
	{PkgPath: "java.lang", Name: "Boolean"},
	{PkgPath: "java.lang", Name: "Byte"},
	{PkgPath: "java.lang", Name: "Short"},
	{PkgPath: "java.lang", Name: "Character"},
	{PkgPath: "java.lang", Name: "Integer"},
	{PkgPath: "java.lang", Name: "Long"},
	{PkgPath: "java.lang", Name: "Float"},
	{PkgPath: "java.lang", Name: "Double"},
	{PkgPath: "java.lang", Name: "String"},
	{PkgPath: "java.lang", Name: "CharSequence"},
	{PkgPath: "java.math", Name: "BigInteger"},
	{PkgPath: "java.math", Name: "BigDecimal"},
	{PkgPath: "java.util", Name: "Date"},
	{PkgPath: "android.os", Name: "Bundle"},
	{PkgPath: "android.os", Name: "IBinder"},
	{PkgPath: "android.os", Name: "Parcelable"},
	{PkgPath: "android.util", Name: "SparseBooleanArray"},
	{PkgPath: "time", Name: "Time"},
	{PkgPath: "time", Name: "Duration"},
}

// collectionArity maps container types to the number of type arguments they
// need; raw containers are not serializable.
var collectionArity = map[analyze.TypeID]int{
	{PkgPath: "java.util", Name: "Collection"}:     1,
	{PkgPath: "java.util", Name: "List"}:           1,
	{PkgPath: "java.util", Name: "ArrayList"}:      1,
	{PkgPath: "java.util", Name: "LinkedList"}:     1,
	{PkgPath: "java.util", Name: "Set"}:            1,
	{PkgPath: "java.util", Name: "HashSet"}:        1,
	{PkgPath: "java.util", Name: "LinkedHashSet"}:  1,
	{PkgPath: "java.util", Name: "SortedSet"}:      1,
	{PkgPath: "java.util", Name: "TreeSet"}:        1,
	{PkgPath: "java.util", Name: "Map"}:            2,
	{PkgPath: "java.util", Name: "HashMap"}:        2,
	{PkgPath: "java.util", Name: "LinkedHashMap"}:  2,
	{PkgPath: "java.util", Name: "SortedMap"}:      2,
	{PkgPath: "java.util", Name: "TreeMap"}:        2,
	{PkgPath: "android.util", Name: "SparseArray"}: 1,
	{Name: "map"}: 2,
}

// supported reports whether values of t can be written to a parcel.
func (a *analysis) supported(t analyze.TypeRef) bool {
	switch t.Kind {
	case analyze.RefPrimitive:
		return true
	case analyze.RefArray, analyze.RefPointer:
		return a.supported(*t.Elem)
	case analyze.RefWildcard:
		return t.Elem != nil && a.supported(*t.Elem)
	case analyze.RefDeclared:
		return a.supportedDeclared(t)
	default:
		return false
	}
}

func (a *analysis) supportedDeclared(t analyze.TypeRef) bool {
	if arity, ok := collectionArity[t.ID]; ok {
		if len(t.Args) != arity {
			return false
		}

		for _, arg := range t.Args {
			if !a.supported(arg) {
				return false
			}
		}

		return true
	}

	for _, id := range builtinTypes {
		if t.ID == id {
			return true
		}
	}

	for _, id := range a.config.SupportedTypes {
		if t.ID == id {
			return true
		}
	}

	decl, err := a.checker.Lookup(t)
	if err != nil {
		a.fail(err)
		return false
	}

	if decl == nil {
		return false
	}

	if decl.Kind == analyze.DeclEnum || decl.Annotations.Has(a.config.Vocabulary.Parcel) {
		return true
	}

	_, ok := a.checker.Implements(t, a.config.ParcelableInterfaces)

	return ok
}

// checkSupported reports UnresolvedPropertyType when t cannot be written.
func (a *analysis) checkSupported(t analyze.TypeRef, at site, what string) {
	if a.supported(t) {
		return
	}

	a.report(diagnostic.UnresolvedPropertyType, at,
		"%s has type %s, which cannot be serialized; declare a converter or a supported type", what, t.ShortString())
}
