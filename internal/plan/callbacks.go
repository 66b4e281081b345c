package plan

import (
	"parcel-planner/internal/analyze"
	"parcel-planner/internal/diagnostic"
)

// collectCallbacks gathers lifecycle hooks from the top-most level down to
// the target. Inherited hooks accumulate; an override does not replace them.
func (a *analysis) collectCallbacks() {
	vocab := a.config.Vocabulary

	for i := len(a.levels) - 1; i >= 0; i-- {
		lvl := a.levels[i]
		for _, m := range lvl.hooks {
			switch {
			case m.decl.Modifiers.Static:
				a.report(diagnostic.InvalidCallbackSignature, a.methodSite(lvl, m),
					"lifecycle hook must be an instance method, found static %s", a.hookString(m))

				continue
			case len(m.decl.Params) > 0 || !m.decl.IsVoid():
				a.report(diagnostic.InvalidCallbackSignature, a.methodSite(lvl, m),
					"lifecycle hook must take no parameters and return void, found %s", a.hookString(m))

				continue
			}

			cb := Callback{Owner: lvl.decl.ID, Method: m.decl.Name, Position: m.decl.Position}
			if m.decl.Annotations.Has(vocab.OnWrap) {
				a.plan.OnWrap = append(a.plan.OnWrap, cb)
			}

			if m.decl.Annotations.Has(vocab.OnUnwrap) {
				a.plan.OnUnwrap = append(a.plan.OnUnwrap, cb)
			}
		}
	}
}

// hookString renders m with the types substituted along the walk.
func (a *analysis) hookString(m method) string {
	decl := *m.decl
	decl.Result = m.result
	decl.Params = make([]analyze.ParamDecl, len(m.params))

	for i, t := range m.params {
		decl.Params[i] = analyze.ParamDecl{Name: m.decl.Params[i].Name, Type: t}
	}

	return a.stringer.MethodString(&decl)
}
