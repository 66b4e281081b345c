package plan

import (
	"fmt"

	"github.com/samber/lo"
	"k8s.io/apimachinery/pkg/util/sets"

	"parcel-planner/internal/analyze"
	"parcel-planner/internal/common"
	"parcel-planner/internal/diagnostic"
	"parcel-planner/internal/match"
)

// properties holds every claim on a property name at one level, grouped by
// member family.
type properties struct {
	names      []string
	fields     map[string][]*Reference
	getters    map[string][]*Reference
	setters    map[string][]*Reference
	converters map[string][]converterDecl
	// signatures holds the substituted signature of every method reference.
	signatures map[*Reference]string
}

func newProperties() *properties {
	return &properties{
		fields:     make(map[string][]*Reference),
		getters:    make(map[string][]*Reference),
		setters:    make(map[string][]*Reference),
		converters: make(map[string][]converterDecl),
		signatures: make(map[*Reference]string),
	}
}

func (p *properties) seen(name string) {
	_, f := p.fields[name]
	_, g := p.getters[name]
	_, s := p.setters[name]
	_, c := p.converters[name]

	if !f && !g && !s && !c {
		p.names = append(p.names, name)
	}
}

func (p *properties) family(kind ReferenceKind) map[string][]*Reference {
	switch kind {
	case ReferenceField:
		return p.fields
	case ReferenceGetter:
		return p.getters
	default:
		return p.setters
	}
}

// add records ref under its family and reports whether it was kept. An
// annotated member replaces the convention members of its family that
// carry the same name, and a convention member never joins annotated ones.
func (p *properties) add(ref *Reference) bool {
	bucket := p.family(ref.Kind)
	refs := bucket[ref.Property]

	if first, ok := common.First(refs); ok && first.Source.IsAnnotated() != ref.Source.IsAnnotated() {
		if !ref.Source.IsAnnotated() {
			return false
		}

		p.drop(refs)
		refs = nil
	}

	p.seen(ref.Property)
	bucket[ref.Property] = append(refs, ref)

	return true
}

// drop forgets refs together with the converters they declared.
func (p *properties) drop(refs []*Reference) {
	gone := sets.New(refs...)
	for _, r := range refs {
		delete(p.signatures, r)

		p.converters[r.Property] = lo.Reject(p.converters[r.Property], func(d converterDecl, _ int) bool {
			return gone.Has(d.ref)
		})
		if common.IsEmpty(p.converters[r.Property]) {
			delete(p.converters, r.Property)
		}
	}
}

// read returns the readable member with the highest precedence.
func (p *properties) read(name string) *Reference {
	var best *Reference
	for _, candidates := range [][]*Reference{p.fields[name], p.getters[name]} {
		for _, r := range candidates {
			if best == nil || r.Source > best.Source {
				best = r
			}
		}
	}

	return best
}

func (p *properties) fieldWrite(name string) *Reference {
	ref, _ := common.First(p.fields[name])
	return ref
}

func (p *properties) methodWrite(name string) *Reference {
	ref, _ := common.First(p.setters[name])
	return ref
}

// readNames returns the readable property names in first-seen order.
func (p *properties) readNames() []string {
	var out []string
	for _, n := range p.names {
		if p.read(n) != nil {
			out = append(out, n)
		}
	}

	return out
}

// propertyName returns the annotation value, or fallback when it is empty.
func propertyName(ann analyze.Annotation, fallback string) string {
	if name, ok := ann.String("value"); ok && name != "" {
		return name
	}

	return fallback
}

func (a *analysis) fieldRef(lvl *level, f field, name string, src PropertySource) *Reference {
	return &Reference{
		Kind:        ReferenceField,
		Member:      f.decl.Name,
		Property:    name,
		Owner:       lvl.decl.ID,
		Type:        f.typ,
		Visibility:  f.decl.Modifiers.Visibility,
		Annotations: f.decl.Annotations,
		Source:      src,
		Level:       lvl.index,
		Position:    f.decl.Position,
	}
}

func (a *analysis) methodRef(lvl *level, m method, role match.AccessorRole, name string, src PropertySource) *Reference {
	ref := &Reference{
		Kind:        ReferenceGetter,
		Member:      m.decl.Name + "(" + analyze.ParamList(m.decl.Params) + ")",
		Property:    name,
		Owner:       lvl.decl.ID,
		Type:        m.result,
		Visibility:  m.decl.Modifiers.Visibility,
		Annotations: m.decl.Annotations,
		Source:      src,
		Level:       lvl.index,
		Position:    m.decl.Position,
	}

	if role == match.RoleSetter {
		ref.Kind = ReferenceSetter
		ref.Type = m.params[0]
	}

	return ref
}

// resolveProperties computes the claims of every level and reports
// duplicates.
func (a *analysis) resolveProperties() {
	for _, lvl := range a.levels {
		lvl.props = newProperties()
		a.resolveFields(lvl)
		a.resolveMethods(lvl)
		a.checkDuplicates(lvl)
	}
}

func (a *analysis) resolveFields(lvl *level) {
	vocab := a.config.Vocabulary

	for _, f := range lvl.fields {
		var ref *Reference

		ann, annotated := f.decl.Annotations.Find(vocab.ParcelProperty)
		switch {
		case annotated:
			ref = a.fieldRef(lvl, f, propertyName(ann, f.decl.Name), SourceAnnotatedField)
		case a.mode == ModeField:
			ref = a.fieldRef(lvl, f, f.decl.Name, SourceConventionField)
		default:
			continue
		}

		if lvl.props.add(ref) {
			a.addConverterDecl(lvl, ref)
		}
	}
}

func (a *analysis) resolveMethods(lvl *level) {
	vocab := a.config.Vocabulary

	for _, m := range lvl.methods {
		var ref *Reference

		if ann, annotated := m.decl.Annotations.Find(vocab.ParcelProperty); annotated {
			role := match.Shape(m.decl)
			if role == match.RoleNone {
				a.report(diagnostic.InvalidPropertyAccessor, a.methodSite(lvl, m),
					"method annotated as property %q is neither a getter nor a setter and is ignored",
					propertyName(ann, m.decl.Name))

				continue
			}

			fallback, _ := a.config.AccessorStyle.Classify(m.decl)
			if fallback == "" {
				fallback = m.decl.Name
			}

			ref = a.methodRef(lvl, m, role, propertyName(ann, fallback), SourceAnnotatedMethod)
		} else {
			if m.decl.Modifiers.Visibility != analyze.VisibilityPublic {
				continue
			}

			name, role := a.conventionAccessor(lvl, m)
			if role == match.RoleNone {
				continue
			}

			ref = a.methodRef(lvl, m, role, name, SourceConventionMethod)
		}

		if lvl.props.add(ref) {
			lvl.props.signatures[ref] = m.signature()
			a.addConverterDecl(lvl, ref)
		}
	}
}

// conventionAccessor classifies an unannotated public method under the
// current mode.
func (a *analysis) conventionAccessor(lvl *level, m method) (string, match.AccessorRole) {
	switch a.mode {
	case ModeBean:
		return a.config.AccessorStyle.Classify(m.decl)
	case ModeValue:
		return a.valueAccessor(lvl, m)
	default:
		return "", match.RoleNone
	}
}

// valueAccessor accepts x() and x(v) only when both are declared.
func (a *analysis) valueAccessor(lvl *level, m method) (string, match.AccessorRole) {
	role := match.Shape(m.decl)

	var want match.AccessorRole
	switch role {
	case match.RoleGetter:
		want = match.RoleSetter
	case match.RoleSetter:
		want = match.RoleGetter
	default:
		return "", match.RoleNone
	}

	for _, other := range lvl.methods {
		if other.decl.Name == m.decl.Name &&
			other.decl.Modifiers.Visibility == analyze.VisibilityPublic &&
			match.Shape(other.decl) == want &&
			!other.decl.Annotations.Has(a.config.Vocabulary.ParcelProperty) {
			return m.decl.Name, role
		}
	}

	return "", match.RoleNone
}

// checkDuplicates reports every member of a family that shares its
// property name with another member of the same family and source class.
func (a *analysis) checkDuplicates(lvl *level) {
	p := lvl.props
	for _, name := range p.names {
		for _, refs := range [][]*Reference{p.fields[name], p.getters[name], p.setters[name]} {
			if len(refs) < 2 {
				continue
			}

			for _, r := range refs {
				a.report(diagnostic.DuplicateProperty, refSite(r),
					"property %q is declared by %d %ss", name, len(refs), r.Kind)
			}
		}
	}
}

// emitPairs builds the field and method pairs. Names claimed by
// construction parameters never form pairs.
func (a *analysis) emitPairs(claimed sets.Set[string]) {
	emitted := sets.New[string]()

	for _, lvl := range a.levels {
		p := lvl.props
		for _, name := range p.names {
			if claimed.Has(name) {
				continue
			}

			read := p.read(name)

			if write := p.methodWrite(name); write != nil {
				sig := p.signatures[write]
				if read != nil && !emitted.Has(sig) {
					a.plan.MethodPairs = append(a.plan.MethodPairs, a.pair(lvl, name, read, write))
				}
				emitted.Insert(sig)

				continue
			}

			if write := p.fieldWrite(name); write != nil && read != nil {
				a.plan.FieldPairs = append(a.plan.FieldPairs, a.pair(lvl, name, read, write))
			}
		}
	}
}

func (a *analysis) pair(lvl *level, name string, read, write *Reference) PropertyPair {
	return PropertyPair{
		Name:      name,
		Read:      read,
		Write:     write,
		Converter: lvl.props.converter(name),
	}
}

// checkPairs validates pair types and serializability.
func (a *analysis) checkPairs() {
	for _, pairs := range [][]PropertyPair{a.plan.FieldPairs, a.plan.MethodPairs} {
		for _, pair := range pairs {
			if pair.Read != pair.Write {
				result := a.checker.ScoreTypeCompatibility(pair.Read.Type, pair.Write.Type)
				if !result.Accepted(a.config.StrictUnboxing) {
					a.report(diagnostic.MismatchedTypes, refSite(pair.Write),
						"property %q is read as %s but written as %s (%s)",
						pair.Name, pair.Read.Type.ShortString(), pair.Write.Type.ShortString(), result.Compatibility)
				}
			}

			if pair.Converter == nil {
				a.checkSupported(pair.Write.Type, refSite(pair.Write), fmt.Sprintf("property %q", pair.Name))
			}
		}
	}
}
