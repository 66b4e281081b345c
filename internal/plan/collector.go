package plan

import (
	"github.com/cockroachdb/errors"
	"k8s.io/apimachinery/pkg/util/sets"

	"parcel-planner/internal/analyze"
	"parcel-planner/internal/diagnostic"
)

var objectID = analyze.TypeID{PkgPath: "java.lang", Name: "Object"}

// level is one visited type of the ancestor walk with its members
// substituted along the inheritance edge that reached it. hooks holds the
// lifecycle methods, static ones included.
type level struct {
	index   int
	decl    *analyze.TypeDecl
	ref     analyze.TypeRef
	fields  []field
	methods []method
	hooks   []method
	props   *properties
}

type field struct {
	decl *analyze.FieldDecl
	typ  analyze.TypeRef
}

type method struct {
	decl   *analyze.MethodDecl
	result analyze.TypeRef
	params []analyze.TypeRef
}

// signature renders the method with substituted parameter types, so that
// an override and the generic method it overrides compare equal.
func (m method) signature() string {
	out := m.decl.Name + "("
	for i, p := range m.params {
		if i > 0 {
			out += ", "
		}
		out += p.String()
	}

	return out + ")"
}

// boundary returns the allow-list from the analyze element, or nil when
// every ancestor is analyzed.
func (a *analysis) boundary() sets.Set[analyze.TypeID] {
	refs := a.ann.Types("analyze")
	if len(refs) == 0 {
		return nil
	}

	allow := sets.New[analyze.TypeID]()
	for _, r := range refs {
		allow.Insert(r.ID)
	}

	return allow
}

// collect walks from the target upward. Types outside the boundary are
// skipped, but their ancestors are still visited.
func (a *analysis) collect() error {
	allow := a.boundary()
	visited := sets.New[analyze.TypeID]()

	decl, ref := a.target, a.target.Ref()
	for decl != nil && !visited.Has(decl.ID) {
		visited.Insert(decl.ID)

		sub := analyze.Bind(decl.TypeParams, ref.Args)
		if allow == nil || allow.Has(decl.ID) {
			a.levels = append(a.levels, a.newLevel(len(a.levels), decl, ref, sub))
		}

		if decl.Superclass == nil {
			break
		}

		next := decl.Superclass.Substitute(sub)
		if next.Kind != analyze.RefDeclared || next.ID == objectID {
			break
		}

		parent, err := a.source.Lookup(next.ID)
		if errors.Is(err, analyze.ErrTypeNotFound) {
			a.report(diagnostic.MissingSupertype, site{member: decl.ID.Name, position: decl.Position},
				"supertype %s is not available; analysis stops at %s", next.ShortString(), decl.ID.Name)

			break
		}

		if err != nil {
			return errors.Wrapf(err, "look up supertype %s of %s", next.ID, decl.ID)
		}

		decl, ref = parent, next
	}

	return nil
}

// newLevel applies the exclusion rules and substitutes member types.
func (a *analysis) newLevel(index int, decl *analyze.TypeDecl, ref analyze.TypeRef, sub analyze.Substitution) *level {
	lvl := &level{index: index, decl: decl, ref: ref}
	vocab := a.config.Vocabulary

	for i := range decl.Fields {
		f := &decl.Fields[i]
		if f.Modifiers.Static || f.Modifiers.Transient || f.Annotations.Has(vocab.Transient) {
			continue
		}

		lvl.fields = append(lvl.fields, field{decl: f, typ: f.Type.Substitute(sub)})
	}

	for i := range decl.Methods {
		m := &decl.Methods[i]

		msub := shadow(sub, m.TypeParams)
		params := make([]analyze.TypeRef, len(m.Params))
		for j := range m.Params {
			params[j] = m.Params[j].Type.Substitute(msub)
		}

		entry := method{decl: m, result: m.Result.Substitute(msub), params: params}
		if m.Annotations.Has(vocab.OnWrap) || m.Annotations.Has(vocab.OnUnwrap) {
			lvl.hooks = append(lvl.hooks, entry)
		}

		if m.Modifiers.Static || m.Annotations.Has(vocab.Transient) {
			continue
		}

		lvl.methods = append(lvl.methods, entry)
	}

	return lvl
}

// shadow drops the bindings hidden by method-level type parameters.
func shadow(sub analyze.Substitution, params []string) analyze.Substitution {
	if len(params) == 0 || len(sub) == 0 {
		return sub
	}

	out := make(analyze.Substitution, len(sub))
	for k, v := range sub {
		out[k] = v
	}

	for _, p := range params {
		delete(out, p)
	}

	return out
}
