package plan

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"parcel-planner/internal/analyze"
	"parcel-planner/internal/diagnostic"
)

const testPkg = "com.example"

var (
	intType     = analyze.Primitive("int")
	booleanType = analyze.Primitive("boolean")
	stringType  = analyze.Declared("java.lang", "String")
	integerType = analyze.Declared("java.lang", "Integer")
)

func typeID(name string) analyze.TypeID {
	return analyze.TypeID{PkgPath: testPkg, Name: name}
}

// named resolves simple names the way a Java source would: java.lang and
// java.util first, then the test package.
func named(name string, args ...analyze.TypeRef) analyze.TypeRef {
	if strings.Contains(name, ".") {
		return analyze.Named(ParseTypeID(name), args...)
	}

	switch name {
	case "String", "Integer", "Object":
		return analyze.Declared("java.lang", name, args...)
	case "List", "ArrayList", "Map", "HashMap":
		return analyze.Declared("java.util", name, args...)
	default:
		return analyze.Named(typeID(name), args...)
	}
}

func annotations(srcs ...string) analyze.Annotations {
	out := make(analyze.Annotations, 0, len(srcs))
	for _, src := range srcs {
		a, err := analyze.ParseAnnotation(src)
		if err != nil {
			panic(err)
		}

		a.ResolveTypes(func(raw string) analyze.TypeRef {
			if raw == "void" {
				return analyze.Void()
			}

			return named(raw)
		})
		out = append(out, a)
	}

	return out
}

var public = analyze.Modifiers{Visibility: analyze.VisibilityPublic}

type declOption func(*analyze.TypeDecl)

func class(name string, opts ...declOption) *analyze.TypeDecl {
	d := &analyze.TypeDecl{ID: typeID(name), Kind: analyze.DeclClass, Modifiers: public}
	for _, opt := range opts {
		opt(d)
	}

	return d
}

func annotated(srcs ...string) declOption {
	return func(d *analyze.TypeDecl) {
		d.Annotations = append(d.Annotations, annotations(srcs...)...)
	}
}

func extends(super analyze.TypeRef) declOption {
	return func(d *analyze.TypeDecl) { d.Superclass = &super }
}

func implements(ifaces ...analyze.TypeRef) declOption {
	return func(d *analyze.TypeDecl) { d.Interfaces = append(d.Interfaces, ifaces...) }
}

func typeParams(names ...string) declOption {
	return func(d *analyze.TypeDecl) { d.TypeParams = names }
}

func abstract() declOption {
	return func(d *analyze.TypeDecl) { d.Modifiers.Abstract = true }
}

func kind(k analyze.DeclKind) declOption {
	return func(d *analyze.TypeDecl) { d.Kind = k }
}

func nestedIn(outer string, static bool) declOption {
	return func(d *analyze.TypeDecl) {
		enclosing := typeID(outer)
		d.Enclosing = &enclosing
		d.Modifiers.Static = static
	}
}

func hasField(name string, typ analyze.TypeRef, anns ...string) declOption {
	return hasFieldDecl(analyze.FieldDecl{
		Name:        name,
		Type:        typ,
		Modifiers:   analyze.Modifiers{Visibility: analyze.VisibilityPrivate},
		Annotations: annotations(anns...),
	})
}

func hasFieldDecl(f analyze.FieldDecl) declOption {
	return func(d *analyze.TypeDecl) { d.Fields = append(d.Fields, f) }
}

func hasMethods(ms ...analyze.MethodDecl) declOption {
	return func(d *analyze.TypeDecl) { d.Methods = append(d.Methods, ms...) }
}

func hasCtor(params ...analyze.ParamDecl) declOption {
	return hasCtorDecl(analyze.MethodDecl{Params: params})
}

func hasDesignatedCtor(params ...analyze.ParamDecl) declOption {
	return hasCtorDecl(analyze.MethodDecl{Params: params, Annotations: annotations("ParcelConstructor")})
}

func hasCtorDecl(m analyze.MethodDecl) declOption {
	return func(d *analyze.TypeDecl) {
		m.Name = d.ID.Name
		m.Result = analyze.Void()
		if m.Modifiers == (analyze.Modifiers{}) {
			m.Modifiers = public
		}
		d.Constructors = append(d.Constructors, m)
	}
}

func methodDecl(name string, result analyze.TypeRef, params ...analyze.ParamDecl) analyze.MethodDecl {
	return analyze.MethodDecl{Name: name, Result: result, Params: params, Modifiers: public}
}

func getterDecl(name string, typ analyze.TypeRef) analyze.MethodDecl {
	return methodDecl(name, typ)
}

func setterDecl(name string, typ analyze.TypeRef) analyze.MethodDecl {
	return methodDecl(name, analyze.Void(), param("value", typ))
}

func factoryDecl(name string, result analyze.TypeRef, params ...analyze.ParamDecl) analyze.MethodDecl {
	m := methodDecl(name, result, params...)
	m.Modifiers.Static = true
	m.Annotations = annotations("ParcelFactory")

	return m
}

func annotate(m analyze.MethodDecl, srcs ...string) analyze.MethodDecl {
	m.Annotations = append(m.Annotations, annotations(srcs...)...)
	return m
}

func param(name string, typ analyze.TypeRef, anns ...string) analyze.ParamDecl {
	return analyze.ParamDecl{Name: name, Type: typ, Annotations: annotations(anns...)}
}

// newGraph registers decls next to the converter interfaces and a
// String converter.
func newGraph(decls ...*analyze.TypeDecl) *analyze.TypeGraph {
	g := analyze.NewTypeGraph()
	g.Add(&analyze.TypeDecl{
		ID:         analyze.TypeID{PkgPath: "org.parceler", Name: "ParcelConverter"},
		Kind:       analyze.DeclInterface,
		Modifiers:  public,
		TypeParams: []string{"T"},
	})
	g.Add(&analyze.TypeDecl{
		ID:         analyze.TypeID{PkgPath: "org.parceler", Name: "TypeRangeParcelConverter"},
		Kind:       analyze.DeclInterface,
		Modifiers:  public,
		TypeParams: []string{"L", "T"},
	})
	g.Add(class("StringConverter", implements(named("org.parceler.ParcelConverter", stringType))))
	g.Add(class("IntegerConverter", implements(named("org.parceler.ParcelConverter", integerType))))

	for _, d := range decls {
		g.Add(d)
	}

	return g
}

func analyzeWith(t *testing.T, cfg Config, name string, decls ...*analyze.TypeDecl) *Analysis {
	t.Helper()

	analyzer := NewAnalyzer(newGraph(decls...), cfg, WithLogger(zaptest.NewLogger(t)))
	res, err := analyzer.Analyze(typeID(name))
	require.NoError(t, err)
	require.NotNil(t, res.Plan)

	return res
}

func analyzeType(t *testing.T, name string, decls ...*analyze.TypeDecl) *Analysis {
	t.Helper()
	return analyzeWith(t, DefaultConfig(), name, decls...)
}

func pairNames(pairs []PropertyPair) []string {
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, p.Name)
	}

	return out
}

func countKind(diags []diagnostic.Diagnostic, k diagnostic.Kind) int {
	n := 0
	for _, d := range diags {
		if d.Kind == k {
			n++
		}
	}

	return n
}
