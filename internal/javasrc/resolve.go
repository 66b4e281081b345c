package javasrc

import (
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"parcel-planner/internal/analyze"
)

// platformTypes are the library types visible through on-demand imports.
// Their sources are normally not part of the input.
var platformTypes = map[string][]string{
	"java.lang": {
		"Object", "String", "CharSequence", "Number", "Enum", "Class", "Void",
		"Boolean", "Byte", "Short", "Character", "Integer", "Long", "Float", "Double",
		"Iterable", "Comparable", "Runnable", "Cloneable",
	},
	"java.util": {
		"Collection", "List", "ArrayList", "LinkedList", "Set", "HashSet", "LinkedHashSet",
		"SortedSet", "TreeSet", "Map", "HashMap", "LinkedHashMap", "SortedMap", "TreeMap",
		"Date", "UUID", "Optional", "Calendar",
	},
	"java.math":    {"BigInteger", "BigDecimal"},
	"android.os":   {"Bundle", "IBinder", "Parcel", "Parcelable"},
	"android.util": {"SparseArray", "SparseBooleanArray"},
	"org.parceler": {
		"Parcel", "ParcelProperty", "ParcelPropertyConverter", "ParcelConstructor", "ParcelFactory",
		"Transient", "OnWrap", "OnUnwrap", "ParcelConverter", "TypeRangeParcelConverter",
	},
}

var primitiveNames = sets.New("boolean", "byte", "short", "char", "int", "long", "float", "double")

// Resolve resolves the written names of every file and returns the graph of
// all declarations. When two files declare the same type, the later wins.
func Resolve(files []*File) *analyze.TypeGraph {
	known := sets.New[analyze.TypeID]()
	for pkg, names := range platformTypes {
		for _, name := range names {
			known.Insert(analyze.TypeID{PkgPath: pkg, Name: name})
		}
	}

	for _, f := range files {
		for _, d := range f.Types {
			known.Insert(d.ID)
		}
	}

	graph := analyze.NewTypeGraph()
	for _, f := range files {
		s := &fileScope{known: known, file: f}
		for _, d := range f.Types {
			s.decl(d)
			graph.Add(d)
		}
	}

	return graph
}

// fileScope resolves names as seen from one compilation unit.
type fileScope struct {
	known sets.Set[analyze.TypeID]
	file  *File
}

func (s *fileScope) decl(d *analyze.TypeDecl) {
	scope := d.ID.Name

	s.annotations(d.Annotations, scope)
	if d.Superclass != nil {
		super := s.ref(*d.Superclass, scope)
		d.Superclass = &super
	}

	for i := range d.Interfaces {
		d.Interfaces[i] = s.ref(d.Interfaces[i], scope)
	}

	for i := range d.Fields {
		f := &d.Fields[i]
		f.Type = s.ref(f.Type, scope)
		s.annotations(f.Annotations, scope)
	}

	for _, methods := range [][]analyze.MethodDecl{d.Methods, d.Constructors} {
		for i := range methods {
			s.method(&methods[i], scope)
		}
	}
}

func (s *fileScope) method(m *analyze.MethodDecl, scope string) {
	m.Result = s.ref(m.Result, scope)
	s.annotations(m.Annotations, scope)

	for i := range m.Params {
		p := &m.Params[i]
		p.Type = s.ref(p.Type, scope)
		s.annotations(p.Annotations, scope)
	}
}

// annotations qualifies annotation names that resolve and resolves class
// literals. Names that do not resolve are kept as written.
func (s *fileScope) annotations(anns analyze.Annotations, scope string) {
	for i := range anns {
		a := &anns[i]
		if id, ok := s.typeID(a.Name, scope); ok {
			a.Name = id.String()
		}

		a.ResolveTypes(func(raw string) analyze.TypeRef {
			switch {
			case raw == "void":
				return analyze.Void()
			case primitiveNames.Has(raw):
				return analyze.Primitive(raw)
			default:
				id, _ := s.typeID(raw, scope)
				return analyze.Named(id)
			}
		})
	}
}

func (s *fileScope) ref(t analyze.TypeRef, scope string) analyze.TypeRef {
	switch t.Kind {
	case analyze.RefDeclared:
		if t.ID.PkgPath == "" {
			t.ID, _ = s.typeID(t.ID.Name, scope)
		}

		if len(t.Args) > 0 {
			args := make([]analyze.TypeRef, len(t.Args))
			for i, a := range t.Args {
				args[i] = s.ref(a, scope)
			}
			t.Args = args
		}
	case analyze.RefArray, analyze.RefPointer, analyze.RefWildcard:
		if t.Elem != nil {
			elem := s.ref(*t.Elem, scope)
			t.Elem = &elem
		}
	default:
	}

	return t
}

// typeID resolves a written, possibly dotted, type name seen inside the
// declaration named scope. Unresolved names fall back to the file's package.
func (s *fileScope) typeID(written, scope string) (analyze.TypeID, bool) {
	head, rest, dotted := strings.Cut(written, ".")

	if id, ok := s.simple(head, scope); ok {
		if dotted {
			id.Name += "." + rest
		}

		return id, true
	}

	if dotted {
		return s.qualified(written), true
	}

	return analyze.TypeID{PkgPath: s.file.Package, Name: written}, false
}

// simple resolves a simple name: member types of the enclosing declarations,
// single-type imports, the file's package, on-demand imports, java.lang.
func (s *fileScope) simple(name, scope string) (analyze.TypeID, bool) {
	pkg := s.file.Package

	for outer := scope; outer != ""; outer = parentScope(outer) {
		if id := (analyze.TypeID{PkgPath: pkg, Name: outer + "." + name}); s.known.Has(id) {
			return id, true
		}
	}

	for _, imp := range s.file.Imports {
		if !imp.Static && imp.Name() == name {
			return s.qualified(imp.Path), true
		}
	}

	if id := (analyze.TypeID{PkgPath: pkg, Name: name}); s.known.Has(id) {
		return id, true
	}

	for _, imp := range s.file.Imports {
		if imp.Wildcard && !imp.Static {
			if id := (analyze.TypeID{PkgPath: imp.Path, Name: name}); s.known.Has(id) {
				return id, true
			}
		}
	}

	if id := (analyze.TypeID{PkgPath: "java.lang", Name: name}); s.known.Has(id) {
		return id, true
	}

	return analyze.TypeID{}, false
}

// qualified splits a fully qualified name at the longest package prefix
// that declares a known type, or at the last dot.
func (s *fileScope) qualified(name string) analyze.TypeID {
	for i := len(name) - 1; i > 0; i-- {
		if name[i] != '.' {
			continue
		}

		pkg, rest := name[:i], name[i+1:]
		top, _, _ := strings.Cut(rest, ".")
		if s.known.Has(analyze.TypeID{PkgPath: pkg, Name: top}) {
			return analyze.TypeID{PkgPath: pkg, Name: rest}
		}
	}

	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return analyze.TypeID{Name: name}
	}

	return analyze.TypeID{PkgPath: name[:i], Name: name[i+1:]}
}

func parentScope(scope string) string {
	i := strings.LastIndexByte(scope, '.')
	if i < 0 {
		return ""
	}

	return scope[:i]
}
