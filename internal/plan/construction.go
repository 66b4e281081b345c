package plan

import (
	"strconv"

	"github.com/samber/lo"
	"k8s.io/apimachinery/pkg/util/sets"

	"parcel-planner/internal/analyze"
	"parcel-planner/internal/common"
	"parcel-planner/internal/diagnostic"
	"parcel-planner/internal/match"
)

// executable is a constructor or factory selected for construction.
type executable struct {
	decl    *analyze.MethodDecl
	factory bool
}

func (e executable) path(owner analyze.TypeID) *analyze.MemberPath {
	if e.factory {
		return analyze.NewMemberPath(owner.Name).Method(e.decl)
	}

	return analyze.NewMemberPath(owner.Name).Constructor(e.decl)
}

func (e executable) signature() string {
	if e.factory {
		return e.decl.Name + "(" + analyze.ParamList(e.decl.Params) + ")"
	}

	return "<init>(" + analyze.ParamList(e.decl.Params) + ")"
}

// mismatchKind is the diagnostic for parameters that do not line up with
// the readable properties.
func (e executable) mismatchKind() diagnostic.Kind {
	if e.factory {
		return diagnostic.MismatchedFactoryParameters
	}

	return diagnostic.MismatchedTypes
}

// resolveConstruction selects the strategy and binds its parameters. It
// returns the property names consumed by the parameters.
func (a *analysis) resolveConstruction() sets.Set[string] {
	claimed := a.selectConstruction()

	// Only an accepted factory can build an abstract type.
	if decl := a.target; decl.IsAbstract() && a.plan.Construction.Strategy != StrategyFactory {
		a.report(diagnostic.AbstractTypeNotConstructible, site{member: decl.ID.Name, position: decl.Position},
			"%s %s cannot be instantiated without a designated factory", decl.Kind, decl.ID.Name)
	}

	return claimed
}

func (a *analysis) selectConstruction() sets.Set[string] {
	claimed := sets.New[string]()
	vocab := a.config.Vocabulary
	decl := a.target
	typeSite := site{member: decl.ID.Name, position: decl.Position}

	designated := lo.Filter(decl.Constructors, func(m analyze.MethodDecl, _ int) bool {
		return m.Annotations.Has(vocab.ParcelConstructor)
	})
	factories := lo.Filter(decl.Methods, func(m analyze.MethodDecl, _ int) bool {
		return m.Annotations.Has(vocab.ParcelFactory)
	})

	if decl.IsInner() {
		a.report(diagnostic.NonStaticInnerType, typeSite,
			"inner class %s needs an enclosing instance; declare it static", decl.ID.Name)
	}

	var exec executable

	switch {
	case !common.IsEmpty(factories) && !common.IsEmpty(designated):
		a.report(diagnostic.AmbiguousConstructionStrategy, typeSite,
			"both a designated constructor and a designated factory are declared; choose one")

		return claimed
	case common.IsMultiple(factories):
		for i := range factories {
			a.report(diagnostic.TooManyDesignatedFactories, a.execSite(executable{decl: &factories[i], factory: true}),
				"%d factory methods are designated; at most one is allowed", len(factories))
		}

		return claimed
	case common.IsSingle(factories):
		exec = executable{decl: &factories[0], factory: true}
		if !exec.decl.Modifiers.Static {
			a.report(diagnostic.NonStaticFactory, a.execSite(exec), "designated factory must be static")
			return claimed
		}

		if result := a.checker.ScoreTypeCompatibility(exec.decl.Result, decl.Ref()); !result.Accepted(false) {
			a.report(diagnostic.MismatchedTypes, a.execSite(exec),
				"factory returns %s, which is not assignable to %s",
				exec.decl.Result.ShortString(), decl.Ref().ShortString())
		}

		a.plan.Construction.Strategy = StrategyFactory
	case common.IsSingle(designated):
		exec = executable{decl: &designated[0]}
		a.plan.Construction.Strategy = StrategyConstructor
	case common.IsMultiple(designated):
		for i := range designated {
			a.report(diagnostic.TooManyDesignatedConstructors, a.execSite(executable{decl: &designated[i]}),
				"%d constructors are designated; at most one is allowed", len(designated))
		}

		return claimed
	case decl.HasNoArgConstructor():
		a.plan.Construction.Strategy = StrategyDefault
		a.plan.Construction.Executable = "<init>()"

		return claimed
	default:
		a.report(diagnostic.NoDesignatedConstructor, typeSite,
			"no no-argument constructor and no designated constructor or factory among %d constructors",
			len(decl.Constructors))

		return claimed
	}

	a.plan.Construction.Executable = exec.signature()
	for i := range exec.decl.Params {
		param := a.bindParameter(exec, i)
		if param.Name != "" {
			claimed.Insert(param.Name)
		}

		a.plan.Construction.Parameters = append(a.plan.Construction.Parameters, param)
	}

	return claimed
}

// bindParameter resolves the name of the index-th parameter and binds it to
// the readable member chosen for that name at the first level offering one.
func (a *analysis) bindParameter(exec executable, index int) Parameter {
	decl := &exec.decl.Params[index]
	param := Parameter{Index: index, Type: decl.Type}
	at := site{
		member:   exec.path(a.target.ID).Field(paramLabel(decl, index)).String(),
		position: exec.decl.Position,
	}

	if ann, ok := decl.Annotations.Find(a.config.Vocabulary.ParcelProperty); ok {
		param.Name = propertyName(ann, "")
	}

	if param.Name == "" {
		param.Name, _ = a.source.ParameterName(a.target.ID, exec.decl, index)
	}

	if param.Name == "" {
		a.report(exec.mismatchKind(), at,
			"cannot resolve the property name of parameter %d; annotate it with a property name", index)

		return param
	}

	var bound *level
	for _, lvl := range a.levels {
		read := lvl.props.read(param.Name)
		if read == nil {
			continue
		}

		if bound != nil {
			a.report(diagnostic.CollidingProperty, at,
				"parameter %q matches readable members on %s and %s",
				param.Name, bound.decl.ID.Name, lvl.decl.ID.Name)

			break
		}

		bound = lvl
		param.Read = read
	}

	own, hasOwn := a.ownConverter(decl.Annotations)
	if hasOwn {
		param.Converter = &own
	}

	if bound == nil {
		a.reportSuggest(exec.mismatchKind(), at, a.suggestReadable(param.Name),
			"no readable property %q for parameter of type %s", param.Name, decl.Type.ShortString())

		return param
	}

	if hasOwn {
		bound.props.seen(param.Name)
		bound.props.converters[param.Name] = append(bound.props.converters[param.Name], converterDecl{
			converter: own,
			property:  decl.Type,
			at:        at,
		})
	} else {
		param.Converter = bound.props.converter(param.Name)
	}

	result := a.checker.ScoreTypeCompatibility(param.Read.Type, decl.Type)
	if !result.Accepted(a.config.StrictUnboxing) {
		a.report(exec.mismatchKind(), at,
			"parameter %q has type %s but %s reads %s (%s)",
			param.Name, decl.Type.ShortString(), param.Read.Path(), param.Read.Type.ShortString(), result.Compatibility)
	}

	return param
}

// suggestReadable returns readable property names close to name.
func (a *analysis) suggestReadable(name string) []string {
	var names []string
	for _, lvl := range a.levels {
		names = append(names, lvl.props.readNames()...)
	}

	return match.Suggest(name, names, a.config.MaxSuggestions)
}

func paramLabel(p *analyze.ParamDecl, index int) string {
	if p.Name != "" {
		return p.Name
	}

	return "arg" + strconv.Itoa(index)
}

func (a *analysis) execSite(e executable) site {
	return site{member: e.path(a.target.ID).String(), position: e.decl.Position}
}
