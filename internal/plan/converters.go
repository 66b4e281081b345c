package plan

import (
	"parcel-planner/internal/analyze"
	"parcel-planner/internal/common"
	"parcel-planner/internal/diagnostic"
)

// converterDecl is one converter annotation found on a property member.
type converterDecl struct {
	converter analyze.TypeRef
	property  analyze.TypeRef
	at        site
	// ref is the member carrying the annotation; nil for parameters.
	ref *Reference
}

// converter returns the converter declared for name, if any.
func (p *properties) converter(name string) *analyze.TypeRef {
	if decl, ok := common.First(p.converters[name]); ok {
		return &decl.converter
	}

	return nil
}

// ownConverter returns the converter annotated directly on a member.
func (a *analysis) ownConverter(annotations analyze.Annotations) (analyze.TypeRef, bool) {
	ann, ok := annotations.Find(a.config.Vocabulary.ParcelPropertyConverter)
	if !ok {
		return analyze.TypeRef{}, false
	}

	conv, ok := ann.Type("value")

	return conv, ok
}

func (a *analysis) addConverterDecl(lvl *level, ref *Reference) {
	conv, ok := a.ownConverter(ref.Annotations)
	if !ok {
		return
	}

	lvl.props.seen(ref.Property)
	lvl.props.converters[ref.Property] = append(lvl.props.converters[ref.Property], converterDecl{
		converter: conv,
		property:  ref.Type,
		at:        refSite(ref),
		ref:       ref,
	})
}

// checkConverters reports collisions and validates every declaration.
func (a *analysis) checkConverters() {
	for _, lvl := range a.levels {
		for _, name := range lvl.props.names {
			decls := lvl.props.converters[name]
			for _, d := range decls {
				if len(decls) > 1 {
					a.report(diagnostic.CollidingConverter, d.at,
						"property %q declares %d converters; at most one is allowed", name, len(decls))
				}

				a.validateConverter(d.converter, d.property, d.at)
			}
		}
	}
}

// validateConverter checks that conv implements a converter interface whose
// converted type fits property.
func (a *analysis) validateConverter(conv, property analyze.TypeRef, at site) {
	if conv.Kind != analyze.RefDeclared {
		a.report(diagnostic.InvalidConverter, at, "converter %s is not a class", conv.ShortString())
		return
	}

	decl, err := a.checker.Lookup(conv)
	if err != nil {
		a.fail(err)
		return
	}

	if decl == nil {
		a.report(diagnostic.UnverifiedConverter, at,
			"converter %s is not available and cannot be verified", conv.ShortString())

		return
	}

	if decl.IsAbstract() {
		a.report(diagnostic.InvalidConverter, at, "converter %s cannot be instantiated", conv.ShortString())
		return
	}

	found, ok := a.checker.Implements(conv, a.config.ConverterInterfaces)
	if !ok {
		a.report(diagnostic.InvalidConverter, at,
			"converter %s does not implement a converter interface", conv.ShortString())

		return
	}

	if len(found.Args) == 0 {
		return
	}

	if converted := found.Args[0]; !a.converts(converted, property) {
		a.report(diagnostic.InvalidConverter, at,
			"converter %s converts %s, not %s", conv.ShortString(), converted.ShortString(), property.ShortString())
	}
}

// converts reports whether a converter of converted handles property.
func (a *analysis) converts(converted, property analyze.TypeRef) bool {
	switch converted.Kind {
	case analyze.RefVariable, analyze.RefWildcard:
		return true
	default:
	}

	return a.checker.ScoreTypeCompatibility(property, converted).Accepted(false) ||
		a.checker.ScoreTypeCompatibility(converted, property).Accepted(false)
}

// wholeTypeConverter returns the converter element of the type annotation.
func (a *analysis) wholeTypeConverter() (analyze.TypeRef, bool) {
	conv, ok := a.ann.Type("converter")
	if !ok || conv.Kind == analyze.RefVoid {
		return analyze.TypeRef{}, false
	}

	return conv, true
}

// ignoredMembers lists members that a whole-type converter makes inert.
func (a *analysis) ignoredMembers() []string {
	vocab := a.config.Vocabulary
	marked := func(as analyze.Annotations) bool {
		return as.Has(vocab.ParcelProperty) || as.Has(vocab.ParcelPropertyConverter) ||
			as.Has(vocab.ParcelConstructor) || as.Has(vocab.ParcelFactory)
	}

	var out []string
	for i := range a.target.Fields {
		if marked(a.target.Fields[i].Annotations) {
			out = append(out, a.target.Fields[i].Name)
		}
	}

	for i := range a.target.Methods {
		if marked(a.target.Methods[i].Annotations) {
			out = append(out, a.target.Methods[i].Name)
		}
	}

	for i := range a.target.Constructors {
		if marked(a.target.Constructors[i].Annotations) {
			out = append(out, "<init>")
		}
	}

	return out
}
