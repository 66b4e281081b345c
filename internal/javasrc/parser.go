package javasrc

import (
	"strings"

	"github.com/cockroachdb/errors"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"

	"parcel-planner/internal/analyze"
)

var javaLanguage = sitter.NewLanguage(tree_sitter_java.Language())

// ParseFile parses one compilation unit. A parser is created per call since
// tree-sitter parsers must not be shared between goroutines.
func ParseFile(src Source) (*File, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(javaLanguage); err != nil {
		return nil, errors.Wrap(err, "set java language")
	}

	tree := parser.Parse(src.Content, nil)
	if tree == nil {
		return nil, errors.Newf("parse %s: no syntax tree", src.Path)
	}
	defer tree.Close()

	root := tree.RootNode()
	w := &walker{
		src:  src.Content,
		file: &File{Path: src.Path, HasErrors: root.HasError()},
	}

	if err := w.program(root); err != nil {
		return nil, errors.Wrapf(err, "parse %s", src.Path)
	}

	return w.file, nil
}

// walker converts a syntax tree into declarations.
type walker struct {
	src  []byte
	file *File
	// vars is the stack of type parameter scopes currently open.
	vars [][]string
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}

	return n.Utf8Text(w.src)
}

func (w *walker) position(n *sitter.Node) analyze.Position {
	return analyze.Position{File: w.file.Path, Line: int(n.StartPosition().Row) + 1}
}

func (w *walker) pushVars(names []string) {
	w.vars = append(w.vars, names)
}

func (w *walker) popVars() {
	w.vars = w.vars[:len(w.vars)-1]
}

func (w *walker) isTypeVar(name string) bool {
	for i := len(w.vars) - 1; i >= 0; i-- {
		for _, v := range w.vars[i] {
			if v == name {
				return true
			}
		}
	}

	return false
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}

	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		out = append(out, n.NamedChild(i))
	}

	return out
}

func allChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}

	out := make([]*sitter.Node, 0, n.ChildCount())
	for i := uint(0); i < n.ChildCount(); i++ {
		out = append(out, n.Child(i))
	}

	return out
}

func childOfKind(n *sitter.Node, kind string) *sitter.Node {
	for _, c := range allChildren(n) {
		if c.Kind() == kind {
			return c
		}
	}

	return nil
}

func (w *walker) program(root *sitter.Node) error {
	for _, n := range namedChildren(root) {
		switch n.Kind() {
		case "package_declaration":
			for _, c := range namedChildren(n) {
				if c.Kind() == "scoped_identifier" || c.Kind() == "identifier" {
					w.file.Package = w.text(c)
				}
			}
		case "import_declaration":
			w.file.Imports = append(w.file.Imports, w.importDecl(n))
		case "class_declaration", "interface_declaration", "enum_declaration", "annotation_type_declaration":
			if err := w.typeDecl(n, nil); err != nil {
				return err
			}
		default:
		}
	}

	return nil
}

func (w *walker) importDecl(n *sitter.Node) Import {
	var imp Import
	for _, c := range allChildren(n) {
		switch c.Kind() {
		case "static":
			imp.Static = true
		case "scoped_identifier", "identifier":
			imp.Path = w.text(c)
		case "asterisk":
			imp.Wildcard = true
		default:
		}
	}

	return imp
}

func (w *walker) typeDecl(n *sitter.Node, outer *analyze.TypeDecl) error {
	decl := &analyze.TypeDecl{
		ID:       analyze.TypeID{PkgPath: w.file.Package, Name: w.text(n.ChildByFieldName("name"))},
		Position: w.position(n),
	}

	switch n.Kind() {
	case "interface_declaration":
		decl.Kind = analyze.DeclInterface
	case "enum_declaration":
		decl.Kind = analyze.DeclEnum
	case "annotation_type_declaration":
		decl.Kind = analyze.DeclAnnotation
	default:
		decl.Kind = analyze.DeclClass
	}

	var err error
	if decl.Modifiers, decl.Annotations, err = w.modifiers(n); err != nil {
		return err
	}

	if outer != nil {
		decl.ID.Name = outer.ID.Name + "." + decl.ID.Name
		enclosing := outer.ID
		decl.Enclosing = &enclosing

		// Member interfaces, enums and annotations, and every member of an
		// interface, are implicitly static.
		if decl.Kind != analyze.DeclClass || outer.Kind == analyze.DeclInterface || outer.Kind == analyze.DeclAnnotation {
			decl.Modifiers.Static = true
		}

		if outer.Kind == analyze.DeclInterface && decl.Modifiers.Visibility == analyze.VisibilityPackage {
			decl.Modifiers.Visibility = analyze.VisibilityPublic
		}
	}

	decl.TypeParams = w.typeParams(n.ChildByFieldName("type_parameters"))
	w.pushVars(decl.TypeParams)
	defer w.popVars()

	if sc := n.ChildByFieldName("superclass"); sc != nil && sc.NamedChildCount() > 0 {
		super := w.typeRef(sc.NamedChild(0))
		decl.Superclass = &super
	}

	decl.Interfaces = append(decl.Interfaces, w.typeList(n.ChildByFieldName("interfaces"))...)
	decl.Interfaces = append(decl.Interfaces, w.typeList(childOfKind(n, "extends_interfaces"))...)

	w.file.Types = append(w.file.Types, decl)

	return w.body(n.ChildByFieldName("body"), decl)
}

// typeList reads the types of an implements or extends clause.
func (w *walker) typeList(n *sitter.Node) []analyze.TypeRef {
	list := childOfKind(n, "type_list")
	if list == nil {
		return nil
	}

	var out []analyze.TypeRef
	for _, t := range namedChildren(list) {
		out = append(out, w.typeRef(t))
	}

	return out
}

func (w *walker) body(body *sitter.Node, decl *analyze.TypeDecl) error {
	for _, m := range namedChildren(body) {
		var err error

		switch m.Kind() {
		case "field_declaration", "constant_declaration":
			err = w.fieldDecl(m, decl)
		case "method_declaration":
			err = w.methodDecl(m, decl, false)
		case "constructor_declaration":
			err = w.methodDecl(m, decl, true)
		case "class_declaration", "interface_declaration", "enum_declaration", "annotation_type_declaration":
			err = w.typeDecl(m, decl)
		case "enum_body_declarations":
			err = w.body(m, decl)
		default:
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (w *walker) fieldDecl(n *sitter.Node, decl *analyze.TypeDecl) error {
	mods, anns, err := w.modifiers(n)
	if err != nil {
		return err
	}

	if decl.Kind == analyze.DeclInterface {
		mods.Static = true
		mods.Final = true
		mods.Visibility = analyze.VisibilityPublic
	}

	typ := w.typeRef(n.ChildByFieldName("type"))
	for _, d := range namedChildren(n) {
		if d.Kind() != "variable_declarator" {
			continue
		}

		decl.Fields = append(decl.Fields, analyze.FieldDecl{
			Name:        w.text(d.ChildByFieldName("name")),
			Type:        arrayDims(typ, w.text(d.ChildByFieldName("dimensions"))),
			Modifiers:   mods,
			Annotations: append(analyze.Annotations(nil), anns...),
			Position:    w.position(d),
		})
	}

	return nil
}

func (w *walker) methodDecl(n *sitter.Node, decl *analyze.TypeDecl, ctor bool) error {
	mods, anns, err := w.modifiers(n)
	if err != nil {
		return err
	}

	if decl.Kind == analyze.DeclInterface {
		if mods.Visibility == analyze.VisibilityPackage {
			mods.Visibility = analyze.VisibilityPublic
		}

		if !mods.Static && n.ChildByFieldName("body") == nil {
			mods.Abstract = true
		}
	}

	m := analyze.MethodDecl{
		Name:        w.text(n.ChildByFieldName("name")),
		Modifiers:   mods,
		Annotations: anns,
		Position:    w.position(n),
		TypeParams:  w.typeParams(n.ChildByFieldName("type_parameters")),
	}

	w.pushVars(m.TypeParams)
	defer w.popVars()

	if ctor {
		m.Result = analyze.Void()
	} else {
		m.Result = arrayDims(w.typeRef(n.ChildByFieldName("type")), w.text(n.ChildByFieldName("dimensions")))
	}

	if m.Params, err = w.params(n.ChildByFieldName("parameters")); err != nil {
		return err
	}

	if ctor {
		decl.Constructors = append(decl.Constructors, m)
	} else {
		decl.Methods = append(decl.Methods, m)
	}

	return nil
}

func (w *walker) params(n *sitter.Node) ([]analyze.ParamDecl, error) {
	var out []analyze.ParamDecl
	for _, p := range namedChildren(n) {
		_, anns, err := w.modifiers(p)
		if err != nil {
			return nil, err
		}

		switch p.Kind() {
		case "formal_parameter":
			out = append(out, analyze.ParamDecl{
				Name:        w.text(p.ChildByFieldName("name")),
				Type:        arrayDims(w.typeRef(p.ChildByFieldName("type")), w.text(p.ChildByFieldName("dimensions"))),
				Annotations: anns,
			})
		case "spread_parameter":
			param := analyze.ParamDecl{Annotations: anns}
			for _, c := range namedChildren(p) {
				switch c.Kind() {
				case "modifiers":
				case "variable_declarator":
					param.Name = w.text(c.ChildByFieldName("name"))
				default:
					param.Type = analyze.ArrayOf(w.typeRef(c))
				}
			}

			out = append(out, param)
		default:
		}
	}

	return out, nil
}

// modifiers reads the modifier keywords and annotations of a declaration.
func (w *walker) modifiers(n *sitter.Node) (analyze.Modifiers, analyze.Annotations, error) {
	var (
		mods analyze.Modifiers
		anns analyze.Annotations
	)

	for _, c := range allChildren(childOfKind(n, "modifiers")) {
		switch c.Kind() {
		case "public":
			mods.Visibility = analyze.VisibilityPublic
		case "protected":
			mods.Visibility = analyze.VisibilityProtected
		case "private":
			mods.Visibility = analyze.VisibilityPrivate
		case "static":
			mods.Static = true
		case "abstract":
			mods.Abstract = true
		case "final":
			mods.Final = true
		case "transient":
			mods.Transient = true
		case "annotation", "marker_annotation":
			a, err := analyze.ParseAnnotation(w.text(c))
			if err != nil {
				return mods, nil, errors.Wrapf(err, "line %d", w.position(c).Line)
			}

			anns = append(anns, a)
		default:
		}
	}

	return mods, anns, nil
}

func (w *walker) typeParams(n *sitter.Node) []string {
	var out []string
	for _, p := range namedChildren(n) {
		if p.Kind() != "type_parameter" {
			continue
		}

		for _, c := range namedChildren(p) {
			if c.Kind() == "type_identifier" || c.Kind() == "identifier" {
				out = append(out, w.text(c))
				break
			}
		}
	}

	return out
}

// typeRef converts a type node. Declared names stay unresolved.
func (w *walker) typeRef(n *sitter.Node) analyze.TypeRef {
	if n == nil {
		return analyze.TypeRef{Kind: analyze.RefUnknown}
	}

	switch n.Kind() {
	case "void_type":
		return analyze.Void()
	case "integral_type", "floating_point_type", "boolean_type":
		return analyze.Primitive(w.text(n))
	case "type_identifier", "scoped_type_identifier":
		name := strings.Join(strings.Fields(w.text(n)), "")
		if w.isTypeVar(name) {
			return analyze.Variable(name)
		}

		return unresolved(name)
	case "generic_type":
		var (
			base analyze.TypeRef
			args []analyze.TypeRef
		)

		for _, c := range namedChildren(n) {
			if c.Kind() != "type_arguments" {
				base = w.typeRef(c)
				continue
			}

			for _, a := range namedChildren(c) {
				args = append(args, w.typeRef(a))
			}
		}

		base.Args = args

		return base
	case "array_type":
		return arrayDims(w.typeRef(n.ChildByFieldName("element")), w.text(n.ChildByFieldName("dimensions")))
	case "wildcard":
		return w.wildcard(n)
	case "annotated_type":
		children := namedChildren(n)
		if len(children) == 0 {
			return analyze.TypeRef{Kind: analyze.RefUnknown}
		}

		return w.typeRef(children[len(children)-1])
	default:
		return analyze.TypeRef{Kind: analyze.RefUnknown}
	}
}

// wildcard keeps upper bounds only; "? super T" is treated as "?".
func (w *walker) wildcard(n *sitter.Node) analyze.TypeRef {
	extends := false
	for _, c := range allChildren(n) {
		switch c.Kind() {
		case "extends":
			extends = true
		case "super", "?", "annotation", "marker_annotation":
		default:
			if extends && c.IsNamed() {
				bound := w.typeRef(c)
				return analyze.Wildcard(&bound)
			}
		}
	}

	return analyze.Wildcard(nil)
}

func unresolved(name string) analyze.TypeRef {
	return analyze.TypeRef{Kind: analyze.RefDeclared, ID: analyze.TypeID{Name: name}}
}

// arrayDims wraps t once per "[]" in dims.
func arrayDims(t analyze.TypeRef, dims string) analyze.TypeRef {
	for range strings.Count(dims, "[") {
		t = analyze.ArrayOf(t)
	}

	return t
}
