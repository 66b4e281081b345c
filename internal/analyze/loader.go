package analyze

import (
	"go/ast"
	"go/types"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"
	"golang.org/x/tools/go/packages"
)

// LoadMode specifies what information to load from packages.
const LoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports

const (
	// DirectivePrefix marks doc comment lines carrying an annotation,
	// e.g. "//parcel:Parcel(BEAN)".
	DirectivePrefix = "//parcel:"
	// TagKey is the struct tag key read for field annotations.
	TagKey = "parcel"
)

// Annotation names emitted for struct tags and constructor functions.
const (
	goPropertyAnnotation    = "ParcelProperty"
	goConverterAnnotation   = "ParcelPropertyConverter"
	goTransientAnnotation   = "Transient"
	goFactoryAnnotation     = "ParcelFactory"
	goConstructorAnnotation = "ParcelConstructor"
)

// Analyzer loads Go packages and builds a type graph of declarations.
//
// Go sources map onto the declaration model as follows: named structs are
// classes, the first embedded struct is the superclass, struct tags and
// "//parcel:" directives are annotations, pointers are the boxed form of
// their element, and package functions marked ParcelFactory or
// ParcelConstructor belong to the type they return.
type Analyzer struct {
	graph *TypeGraph
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		graph: NewTypeGraph(),
	}
}

// LoadPackages loads the specified packages and builds the type graph.
// Patterns are standard Go package patterns (e.g., "./examples/beans").
func (a *Analyzer) LoadPackages(patterns ...string) (*TypeGraph, error) {
	cfg := &packages.Config{
		Mode: LoadMode,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}

	var errs []error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Newf("package errors: %v", errs)
	}

	for _, pkg := range pkgs {
		if err := a.processPackage(pkg); err != nil {
			return nil, errors.Wrapf(err, "failed to process package %s", pkg.PkgPath)
		}
	}

	return a.graph, nil
}

// Graph returns the current type graph.
func (a *Analyzer) Graph() *TypeGraph {
	return a.graph
}

// packageScan holds per-package lookups built from the syntax trees.
type packageScan struct {
	pkg        *packages.Package
	directives map[types.Object]Annotations
	funcs      []*types.Func // package-level functions carrying directives
}

// processPackage extracts declarations from a loaded package.
func (a *Analyzer) processPackage(pkg *packages.Package) error {
	scan := &packageScan{
		pkg:        pkg,
		directives: make(map[types.Object]Annotations),
	}
	if err := scan.collectDirectives(); err != nil {
		return err
	}

	enumTypes := scan.enumTypes()
	structs := make(map[*TypeDecl]*types.Named)

	scope := pkg.Types.Scope()
	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || typeName.IsAlias() {
			continue
		}

		named, ok := typeName.Type().(*types.Named)
		if !ok {
			continue
		}

		decl := &TypeDecl{
			ID:          TypeID{PkgPath: pkg.PkgPath, Name: name},
			Modifiers:   Modifiers{Visibility: goVisibility(typeName.Exported())},
			Annotations: scan.annotations(typeName),
			Position:    scan.position(typeName),
		}

		for i := 0; i < named.TypeParams().Len(); i++ {
			decl.TypeParams = append(decl.TypeParams, named.TypeParams().At(i).Obj().Name())
		}

		switch ut := named.Underlying().(type) {
		case *types.Struct:
			decl.Kind = DeclClass
			a.processStruct(scan, ut, decl)
			structs[decl] = named
		case *types.Interface:
			decl.Kind = DeclInterface
		case *types.Basic:
			if !enumTypes[typeName] {
				continue
			}
			decl.Kind = DeclEnum
		default:
			continue
		}

		a.processMethods(scan, named, decl)
		a.graph.Add(decl)
	}

	ifaces := scan.interfaces()
	for decl, named := range structs {
		for _, iface := range ifaces {
			it := iface.Type().Underlying().(*types.Interface)
			if types.Implements(named, it) || types.Implements(types.NewPointer(named), it) {
				decl.Interfaces = append(decl.Interfaces, goTypeRef(iface.Type()))
			}
		}
	}

	return scan.attachFunctions(a.graph)
}

// processStruct maps struct fields; the first embedded named struct becomes the superclass.
func (a *Analyzer) processStruct(scan *packageScan, st *types.Struct, decl *TypeDecl) {
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		tag := reflect.StructTag(st.Tag(i)).Get(TagKey)

		if field.Embedded() && decl.Superclass == nil {
			if ref := goTypeRef(field.Type()); ref.Kind == RefDeclared {
				decl.Superclass = &ref
				continue
			}
		}

		decl.Fields = append(decl.Fields, FieldDecl{
			Name:        field.Name(),
			Type:        goTypeRef(field.Type()),
			Modifiers:   Modifiers{Visibility: goVisibility(field.Exported())},
			Annotations: scan.tagAnnotations(tag),
			Position:    scan.position(field),
		})
	}
}

// processMethods maps the methods declared on the named type.
func (a *Analyzer) processMethods(scan *packageScan, named *types.Named, decl *TypeDecl) {
	for i := 0; i < named.NumMethods(); i++ {
		fn := named.Method(i)
		decl.Methods = append(decl.Methods, scan.methodDecl(fn, false))
	}
}

// collectDirectives indexes "//parcel:" doc comment lines by declared object.
func (s *packageScan) collectDirectives() error {
	for _, file := range s.pkg.Syntax {
		for _, d := range file.Decls {
			switch decl := d.(type) {
			case *ast.GenDecl:
				for _, spec := range decl.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}

					doc := ts.Doc
					if doc == nil && len(decl.Specs) == 1 {
						doc = decl.Doc
					}

					if err := s.addDirectives(s.pkg.TypesInfo.Defs[ts.Name], doc); err != nil {
						return err
					}
				}
			case *ast.FuncDecl:
				obj := s.pkg.TypesInfo.Defs[decl.Name]
				if err := s.addDirectives(obj, decl.Doc); err != nil {
					return err
				}

				if fn, ok := obj.(*types.Func); ok && decl.Recv == nil && len(s.directives[obj]) > 0 {
					s.funcs = append(s.funcs, fn)
				}
			}
		}
	}

	return nil
}

func (s *packageScan) addDirectives(obj types.Object, doc *ast.CommentGroup) error {
	if obj == nil || doc == nil {
		return nil
	}

	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, DirectivePrefix) {
			continue
		}

		ann, err := ParseAnnotation(strings.TrimPrefix(c.Text, DirectivePrefix))
		if err != nil {
			return errors.Wrapf(err, "%s", s.pkg.Fset.Position(c.Pos()))
		}

		ann.ResolveTypes(s.resolveName)
		s.directives[obj] = append(s.directives[obj], ann)
	}

	return nil
}

// enumTypes returns the named basic types that have constants declared in the package.
func (s *packageScan) enumTypes() map[*types.TypeName]bool {
	out := make(map[*types.TypeName]bool)

	scope := s.pkg.Types.Scope()
	for _, name := range scope.Names() {
		c, ok := scope.Lookup(name).(*types.Const)
		if !ok {
			continue
		}

		if named, ok := c.Type().(*types.Named); ok && named.Obj().Pkg() == s.pkg.Types {
			out[named.Obj()] = true
		}
	}

	return out
}

// interfaces returns the non-empty, non-generic interfaces declared in the
// package and its direct imports, sorted by package then name.
func (s *packageScan) interfaces() []*types.TypeName {
	var out []*types.TypeName

	pkgs := append([]*types.Package{s.pkg.Types}, s.pkg.Types.Imports()...)
	for _, p := range pkgs {
		for _, name := range p.Scope().Names() {
			tn, ok := p.Scope().Lookup(name).(*types.TypeName)
			if !ok || tn.IsAlias() || (!tn.Exported() && p != s.pkg.Types) {
				continue
			}

			named, ok := tn.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}

			if it, ok := named.Underlying().(*types.Interface); ok && it.NumMethods() > 0 {
				out = append(out, tn)
			}
		}
	}

	return out
}

func (s *packageScan) annotations(obj types.Object) Annotations {
	return append(Annotations(nil), s.directives[obj]...)
}

func (s *packageScan) position(obj types.Object) Position {
	pos := s.pkg.Fset.Position(obj.Pos())
	return Position{File: pos.Filename, Line: pos.Line}
}

// tagAnnotations maps `parcel:"name,converter=Type"` and `parcel:"-"`.
func (s *packageScan) tagAnnotations(tag string) Annotations {
	if tag == "" {
		return nil
	}

	parts := strings.Split(tag, ",")

	var out Annotations
	switch name := strings.TrimSpace(parts[0]); name {
	case "-":
		out = append(out, Annotation{Name: goTransientAnnotation})
	case "":
	default:
		out = append(out, Annotation{
			Name:   goPropertyAnnotation,
			Values: map[string]Value{"value": {Kind: ValueString, Text: name}},
		})
	}

	for _, opt := range parts[1:] {
		key, val, _ := strings.Cut(strings.TrimSpace(opt), "=")
		switch key {
		case "converter":
			out = append(out, Annotation{
				Name:   goConverterAnnotation,
				Values: map[string]Value{"value": {Kind: ValueClass, Text: val, Type: s.resolveName(val)}},
			})
		case "transient":
			out = append(out, Annotation{Name: goTransientAnnotation})
		}
	}

	return out
}

// resolveName resolves "Name" against the package scope and "pkg.Name"
// against the package imports.
func (s *packageScan) resolveName(raw string) TypeRef {
	qualifier, name, qualified := strings.Cut(raw, ".")
	if !qualified {
		if obj, ok := s.pkg.Types.Scope().Lookup(raw).(*types.TypeName); ok {
			return goTypeRef(obj.Type())
		}

		return Declared(s.pkg.PkgPath, raw)
	}

	for _, imp := range s.pkg.Types.Imports() {
		if imp.Name() != qualifier {
			continue
		}

		if obj, ok := imp.Scope().Lookup(name).(*types.TypeName); ok {
			return goTypeRef(obj.Type())
		}

		return Declared(imp.Path(), name)
	}

	return Declared("", raw)
}

func (s *packageScan) methodDecl(fn *types.Func, static bool) MethodDecl {
	sig := fn.Type().(*types.Signature)

	m := MethodDecl{
		Name:        fn.Name(),
		Modifiers:   Modifiers{Visibility: goVisibility(fn.Exported()), Static: static},
		Annotations: s.annotations(fn),
		Position:    s.position(fn),
	}

	for i := 0; i < sig.TypeParams().Len(); i++ {
		m.TypeParams = append(m.TypeParams, sig.TypeParams().At(i).Obj().Name())
	}

	for i := 0; i < sig.Params().Len(); i++ {
		p := sig.Params().At(i)
		m.Params = append(m.Params, ParamDecl{Name: p.Name(), Type: goTypeRef(p.Type())})
	}

	switch sig.Results().Len() {
	case 0:
		m.Result = Void()
	case 1:
		m.Result = goTypeRef(sig.Results().At(0).Type())
	default:
		m.Result = TypeRef{Kind: RefUnknown}
	}

	return m
}

// attachFunctions registers marked package functions as factories or
// constructors of the type they return.
func (s *packageScan) attachFunctions(graph *TypeGraph) error {
	for _, fn := range s.funcs {
		sig := fn.Type().(*types.Signature)
		if sig.Results().Len() == 0 {
			return errors.Newf("%s: %s returns nothing", s.position(fn), fn.Name())
		}

		result := sig.Results().At(0).Type()
		if ptr, ok := result.(*types.Pointer); ok {
			result = ptr.Elem()
		}

		named, ok := result.(*types.Named)
		if !ok {
			continue
		}

		decl := graph.GetType(TypeID{PkgPath: s.pkg.PkgPath, Name: named.Obj().Name()})
		if decl == nil {
			continue
		}

		anns := s.directives[fn]
		switch {
		case anns.Has(goConstructorAnnotation):
			ctor := s.methodDecl(fn, false)
			ctor.Result = Void()
			decl.Constructors = append(decl.Constructors, ctor)
		case anns.Has(goFactoryAnnotation):
			decl.Methods = append(decl.Methods, s.methodDecl(fn, true))
		default:
		}
	}

	return nil
}

func goVisibility(exported bool) Visibility {
	if exported {
		return VisibilityPublic
	}

	return VisibilityPackage
}

// goTypeRef maps a go/types type onto a TypeRef.
func goTypeRef(t types.Type) TypeRef {
	switch tt := t.(type) {
	case *types.Basic:
		return Primitive(tt.Name())
	case *types.Pointer:
		return PointerTo(goTypeRef(tt.Elem()))
	case *types.Slice:
		return ArrayOf(goTypeRef(tt.Elem()))
	case *types.Array:
		return ArrayOf(goTypeRef(tt.Elem()))
	case *types.Map:
		return Declared("", "map", goTypeRef(tt.Key()), goTypeRef(tt.Elem()))
	case *types.Named:
		obj := tt.Obj()
		if obj.Pkg() == nil {
			return Declared("", obj.Name())
		}

		var args []TypeRef
		for i := 0; i < tt.TypeArgs().Len(); i++ {
			args = append(args, goTypeRef(tt.TypeArgs().At(i)))
		}

		return Named(TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}, args...)
	case *types.TypeParam:
		return Variable(tt.Obj().Name())
	case *types.Alias:
		return goTypeRef(types.Unalias(tt))
	case *types.Interface:
		return Declared("", "any")
	default:
		return TypeRef{Kind: RefUnknown}
	}
}
