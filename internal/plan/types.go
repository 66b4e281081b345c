package plan

import (
	"parcel-planner/internal/analyze"
	"parcel-planner/internal/common"
	"parcel-planner/internal/diagnostic"
)

// Plan is the final output of one analysis. It contains everything a code
// generator needs to read and write instances of the target type.
type Plan struct {
	// Target is the analyzed type.
	Target analyze.TypeID
	// Mode is the serialization mode in effect.
	Mode Mode
	// Converter is the whole-type converter. When set, the plan is
	// converter-only: no pairs and no construction bindings.
	Converter *analyze.TypeRef
	// Construction describes how instances are created.
	Construction Construction
	// FieldPairs are properties written through fields, target level first.
	FieldPairs []PropertyPair
	// MethodPairs are properties written through setters, target level first.
	MethodPairs []PropertyPair
	// DescribeContents is the literal returned by describeContents().
	DescribeContents int
	// OnWrap hooks run before serialization, top-most ancestor first.
	OnWrap []Callback
	// OnUnwrap hooks run after deserialization, top-most ancestor first.
	OnUnwrap []Callback
	// Implementations are additional types the generated wrapper accepts.
	Implementations []analyze.TypeRef
}

// PropertyNames returns the names of all pairs and construction bindings.
func (p *Plan) PropertyNames() []string {
	var out []string
	for _, pair := range p.FieldPairs {
		out = append(out, pair.Name)
	}

	for _, pair := range p.MethodPairs {
		out = append(out, pair.Name)
	}

	for _, param := range p.Construction.Bindings() {
		out = append(out, param.Name)
	}

	return out
}

// Mode is the serialization mode of a type.
type Mode int

const (
	// ModeField serializes fields directly.
	ModeField Mode = iota
	// ModeBean serializes through getX/setX accessor pairs.
	ModeBean
	// ModeValue serializes through x()/x(v) accessor pairs.
	ModeValue
)

// String returns the annotation constant of the mode.
func (m Mode) String() string {
	switch m {
	case ModeField:
		return "FIELD"
	case ModeBean:
		return "BEAN"
	case ModeValue:
		return "VALUE"
	default:
		return common.UnknownStr
	}
}

// ParseMode parses an annotation constant such as "BEAN". An empty string
// is the default field mode.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "", "FIELD":
		return ModeField, true
	case "BEAN":
		return ModeBean, true
	case "VALUE":
		return ModeValue, true
	default:
		return ModeField, false
	}
}

// ReferenceKind is the kind of member a Reference points at.
type ReferenceKind int

const (
	ReferenceField ReferenceKind = iota
	ReferenceGetter
	ReferenceSetter
)

// String returns a human-readable kind name.
func (k ReferenceKind) String() string {
	switch k {
	case ReferenceField:
		return "field"
	case ReferenceGetter:
		return "getter"
	case ReferenceSetter:
		return "setter"
	default:
		return common.UnknownStr
	}
}

// PropertySource records why a member was selected for a property. Higher
// values win when several members claim the same name.
type PropertySource int

const (
	// SourceConventionMethod - accessor recognized by naming convention.
	SourceConventionMethod PropertySource = iota
	// SourceConventionField - field included by field mode.
	SourceConventionField
	// SourceAnnotatedMethod - accessor carrying a property annotation.
	SourceAnnotatedMethod
	// SourceAnnotatedField - field carrying a property annotation.
	SourceAnnotatedField
)

// String returns a human-readable source name.
func (s PropertySource) String() string {
	switch s {
	case SourceConventionMethod:
		return "convention:method"
	case SourceConventionField:
		return "convention:field"
	case SourceAnnotatedMethod:
		return "annotated:method"
	case SourceAnnotatedField:
		return "annotated:field"
	default:
		return common.UnknownStr
	}
}

// IsAnnotated returns true for sources selected by an explicit annotation.
func (s PropertySource) IsAnnotated() bool {
	return s >= SourceAnnotatedMethod
}

// Reference is a handle to one member carrying a property.
type Reference struct {
	// Kind of member.
	Kind ReferenceKind
	// Member is the field name or the method signature, e.g. "setValue(String)".
	Member string
	// Property is the property name the member carries.
	Property string
	// Owner is the declaring type.
	Owner analyze.TypeID
	// Type is the property type after generic substitution.
	Type analyze.TypeRef
	// Visibility of the member.
	Visibility analyze.Visibility
	// Annotations on the member.
	Annotations analyze.Annotations
	// Source is the precedence rule that selected the member.
	Source PropertySource
	// Level is the hierarchy level, 0 for the target.
	Level int
	// Position is the declaration site.
	Position analyze.Position
}

// Path returns "Owner.member" for diagnostics.
func (r *Reference) Path() string {
	return analyze.NewMemberPath(r.Owner.Name).Field(r.Member).String()
}

// PropertyPair binds one property name to its read and write members.
type PropertyPair struct {
	// Name is the property name.
	Name string
	// Read supplies the value when wrapping.
	Read *Reference
	// Write receives the value when unwrapping. Its kind decides the pair family.
	Write *Reference
	// Converter is the property converter, if any.
	Converter *analyze.TypeRef
}

// Strategy is the construction strategy of a plan.
type Strategy int

const (
	// StrategyNone - no strategy could be selected.
	StrategyNone Strategy = iota
	// StrategyDefault - no-argument constructor.
	StrategyDefault
	// StrategyConstructor - designated constructor.
	StrategyConstructor
	// StrategyFactory - designated static factory method.
	StrategyFactory
)

// String returns a human-readable strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategyDefault:
		return "default"
	case StrategyConstructor:
		return "constructor"
	case StrategyFactory:
		return "factory"
	default:
		return common.UnknownStr
	}
}

// Construction describes how instances are created.
type Construction struct {
	// Strategy is the selected strategy.
	Strategy Strategy
	// Executable is the selected constructor or factory signature, e.g. "<init>(String)".
	Executable string
	// Parameters in declaration order.
	Parameters []Parameter
}

// Bindings returns the parameters bound to a readable member.
func (c Construction) Bindings() []Parameter {
	var out []Parameter
	for _, p := range c.Parameters {
		if p.Read != nil {
			out = append(out, p)
		}
	}

	return out
}

// Parameter is one formal parameter of the construction executable.
type Parameter struct {
	// Index of the parameter.
	Index int
	// Name is the resolved property name, empty when it could not be resolved.
	Name string
	// Type is the declared parameter type.
	Type analyze.TypeRef
	// Read supplies the value when wrapping, nil when unbound.
	Read *Reference
	// Converter is the parameter's own converter or the one declared for its property.
	Converter *analyze.TypeRef
}

// Callback is a lifecycle hook method.
type Callback struct {
	Owner    analyze.TypeID
	Method   string
	Position analyze.Position
}

// Analysis is the result of analyzing one type: the plan, possibly partial,
// and every diagnostic recorded while producing it.
type Analysis struct {
	Plan        *Plan
	Diagnostics diagnostic.Diagnostics
}

// HadErrors returns true if any error was recorded. Callers must not
// generate code from a plan whose analysis had errors.
func (a *Analysis) HadErrors() bool {
	return a.Diagnostics.HasErrors()
}
