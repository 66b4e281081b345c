package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcel-planner/internal/analyze"
	"parcel-planner/internal/diagnostic"
)

func TestConstruction_DesignatedConstructor(t *testing.T) {
	res := analyzeType(t, "Value", class("Value",
		annotated("Parcel"),
		hasField("value", stringType),
		hasDesignatedCtor(param("value", stringType)),
	))

	require.False(t, res.HadErrors(), res.Diagnostics.Error())
	assert.Empty(t, res.Plan.FieldPairs)
	assert.Empty(t, res.Plan.MethodPairs)

	c := res.Plan.Construction
	assert.Equal(t, StrategyConstructor, c.Strategy)
	assert.Equal(t, "<init>(String)", c.Executable)
	require.Len(t, c.Bindings(), 1)
	assert.Equal(t, "value", c.Bindings()[0].Name)
	assert.Equal(t, "Value.value", c.Bindings()[0].Read.Path())
}

func TestConstruction_SingleUnannotatedConstructorIsNotDesignated(t *testing.T) {
	res := analyzeType(t, "Value", class("Value",
		annotated("Parcel"),
		hasField("value", stringType),
		hasCtor(param("value", stringType)),
	))

	assert.Equal(t, []diagnostic.Kind{diagnostic.NoDesignatedConstructor}, res.Diagnostics.ErrorKinds())
	assert.Equal(t, StrategyNone, res.Plan.Construction.Strategy)
}

func TestConstruction_NoArgConstructorAmongOthers(t *testing.T) {
	res := analyzeType(t, "Value", class("Value",
		annotated("Parcel"),
		hasField("value", stringType),
		hasCtor(param("value", stringType)),
		hasCtor(),
	))

	require.False(t, res.HadErrors(), res.Diagnostics.Error())
	assert.Equal(t, StrategyDefault, res.Plan.Construction.Strategy)
	assert.Equal(t, []string{"value"}, pairNames(res.Plan.FieldPairs))
}

func TestConstruction_Factory(t *testing.T) {
	res := analyzeType(t, "Value", class("Value",
		annotated("Parcel"),
		hasField("value", stringType),
		hasField("count", intType),
		hasMethods(factoryDecl("create", named("Value"), param("value", stringType))),
	))

	require.False(t, res.HadErrors(), res.Diagnostics.Error())

	c := res.Plan.Construction
	assert.Equal(t, StrategyFactory, c.Strategy)
	assert.Equal(t, "create(String)", c.Executable)
	require.Len(t, c.Bindings(), 1)
	assert.Equal(t, "value", c.Bindings()[0].Name)
	assert.Equal(t, []string{"count"}, pairNames(res.Plan.FieldPairs))
}

func TestConstruction_FactoryReturningUnrelatedType(t *testing.T) {
	res := analyzeType(t, "Value", class("Value",
		annotated("Parcel"),
		hasMethods(factoryDecl("create", stringType)),
	))

	assert.Equal(t, []diagnostic.Kind{diagnostic.MismatchedTypes}, res.Diagnostics.ErrorKinds())
}

func TestConstruction_Errors(t *testing.T) {
	nonStatic := factoryDecl("create", named("Value"))
	nonStatic.Modifiers.Static = false

	tests := []struct {
		name string
		decl *analyze.TypeDecl
		want []diagnostic.Kind
	}{
		{
			name: "constructor and factory",
			decl: class("Value",
				annotated("Parcel"),
				hasField("value", stringType),
				hasDesignatedCtor(param("value", stringType)),
				hasMethods(factoryDecl("create", named("Value"), param("value", stringType))),
			),
			want: []diagnostic.Kind{diagnostic.AmbiguousConstructionStrategy},
		},
		{
			name: "two designated constructors",
			decl: class("Value",
				annotated("Parcel"),
				hasField("value", stringType),
				hasDesignatedCtor(param("value", stringType)),
				hasDesignatedCtor(),
			),
			want: []diagnostic.Kind{diagnostic.TooManyDesignatedConstructors},
		},
		{
			name: "two factories",
			decl: class("Value",
				annotated("Parcel"),
				hasMethods(factoryDecl("create", named("Value")), factoryDecl("of", named("Value"))),
			),
			want: []diagnostic.Kind{diagnostic.TooManyDesignatedFactories},
		},
		{
			name: "non-static factory",
			decl: class("Value", annotated("Parcel"), hasMethods(nonStatic)),
			want: []diagnostic.Kind{diagnostic.NonStaticFactory},
		},
		{
			name: "abstract class with non-static factory",
			decl: class("Value", annotated("Parcel"), abstract(), hasMethods(nonStatic)),
			want: []diagnostic.Kind{diagnostic.NonStaticFactory, diagnostic.AbstractTypeNotConstructible},
		},
		{
			name: "abstract class with two factories",
			decl: class("Value",
				annotated("Parcel"),
				abstract(),
				hasMethods(factoryDecl("create", named("Value")), factoryDecl("of", named("Value"))),
			),
			want: []diagnostic.Kind{diagnostic.TooManyDesignatedFactories, diagnostic.AbstractTypeNotConstructible},
		},
		{
			name: "abstract class",
			decl: class("Value", annotated("Parcel"), abstract()),
			want: []diagnostic.Kind{diagnostic.AbstractTypeNotConstructible},
		},
		{
			name: "interface",
			decl: class("Value", annotated("Parcel"), kind(analyze.DeclInterface)),
			want: []diagnostic.Kind{diagnostic.AbstractTypeNotConstructible},
		},
		{
			name: "non-static inner class",
			decl: class("Value", annotated("Parcel"), nestedIn("Outer", false)),
			want: []diagnostic.Kind{diagnostic.NonStaticInnerType},
		},
		{
			name: "mismatched constructor parameter",
			decl: class("Value",
				annotated("Parcel"),
				hasField("value", stringType),
				hasDesignatedCtor(param("value", intType)),
			),
			want: []diagnostic.Kind{diagnostic.MismatchedTypes},
		},
		{
			name: "unnamed constructor parameter",
			decl: class("Value",
				annotated("Parcel"),
				hasField("value", stringType),
				hasDesignatedCtor(param("", stringType)),
			),
			want: []diagnostic.Kind{diagnostic.MismatchedTypes},
		},
		{
			name: "unbound factory parameter",
			decl: class("Value",
				annotated("Parcel"),
				hasField("value", stringType),
				hasMethods(factoryDecl("create", named("Value"), param("missing", stringType))),
			),
			want: []diagnostic.Kind{diagnostic.MismatchedFactoryParameters},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := analyzeType(t, "Value", tt.decl)
			assert.Equal(t, tt.want, res.Diagnostics.ErrorKinds(), res.Diagnostics.Error())
		})
	}
}

func TestConstruction_AmbiguousYieldsNoBindings(t *testing.T) {
	res := analyzeType(t, "Value", class("Value",
		annotated("Parcel"),
		hasField("value", stringType),
		hasDesignatedCtor(param("value", stringType)),
		hasMethods(factoryDecl("create", named("Value"), param("value", stringType))),
	))

	assert.Equal(t, StrategyNone, res.Plan.Construction.Strategy)
	assert.Empty(t, res.Plan.Construction.Parameters)
	assert.Empty(t, res.Plan.Construction.Bindings())
}

func TestConstruction_StaticInnerClass(t *testing.T) {
	res := analyzeType(t, "Value", class("Value", annotated("Parcel"), nestedIn("Outer", true)))

	assert.False(t, res.HadErrors(), res.Diagnostics.Error())
}

func TestConstruction_AbstractWithFactory(t *testing.T) {
	res := analyzeType(t, "Value", class("Value",
		annotated("Parcel"),
		abstract(),
		hasField("value", stringType),
		hasMethods(factoryDecl("create", named("Value"), param("value", stringType))),
	))

	require.False(t, res.HadErrors(), res.Diagnostics.Error())
	assert.Equal(t, StrategyFactory, res.Plan.Construction.Strategy)
}

func TestConstruction_Suggestions(t *testing.T) {
	res := analyzeType(t, "Value", class("Value",
		annotated("Parcel"),
		hasField("value", stringType),
		hasField("other", stringType),
		hasDesignatedCtor(param("values", stringType)),
	))

	require.Len(t, res.Diagnostics.Errors, 1)
	d := res.Diagnostics.Errors[0]
	assert.Equal(t, diagnostic.MismatchedTypes, d.Kind)
	assert.Equal(t, []string{"value"}, d.Suggestions)
	assert.Equal(t, "Value.<init>(String).values", d.Member)
}

func TestConstruction_AnnotatedParameterName(t *testing.T) {
	res := analyzeType(t, "Value", class("Value",
		annotated("Parcel"),
		hasField("value", stringType),
		hasDesignatedCtor(param("arg", stringType, `ParcelProperty("value")`)),
	))

	require.False(t, res.HadErrors(), res.Diagnostics.Error())
	require.Len(t, res.Plan.Construction.Bindings(), 1)
	assert.Equal(t, "value", res.Plan.Construction.Bindings()[0].Name)
}

func TestConstruction_Subclass(t *testing.T) {
	base := class("Base", hasField("value", stringType))
	sub := class("Sub",
		annotated("Parcel"),
		extends(named("Base")),
		hasField("other", stringType),
		hasField("extra", intType),
		hasDesignatedCtor(param("value", stringType), param("other", stringType)),
	)

	res := analyzeType(t, "Sub", base, sub)

	require.False(t, res.HadErrors(), res.Diagnostics.Error())
	bindings := res.Plan.Construction.Bindings()
	require.Len(t, bindings, 2)
	assert.Equal(t, typeID("Base"), bindings[0].Read.Owner)
	assert.Equal(t, typeID("Sub"), bindings[1].Read.Owner)
	assert.Equal(t, []string{"extra"}, pairNames(res.Plan.FieldPairs))
}

func TestConstruction_CollidingProperty(t *testing.T) {
	base := class("Base", hasField("value", stringType))
	sub := class("Sub",
		annotated("Parcel"),
		extends(named("Base")),
		hasField("value", stringType),
		hasDesignatedCtor(param("value", stringType)),
	)

	res := analyzeType(t, "Sub", base, sub)

	assert.Equal(t, []diagnostic.Kind{diagnostic.CollidingProperty}, res.Diagnostics.ErrorKinds())
	require.Len(t, res.Plan.Construction.Parameters, 1)
	assert.Equal(t, typeID("Sub"), res.Plan.Construction.Parameters[0].Read.Owner)
}

func TestConstruction_BeanGetterBinding(t *testing.T) {
	res := analyzeType(t, "Value", class("Value",
		annotated("Parcel(Serialization.BEAN)"),
		hasMethods(getterDecl("getValue", integerType)),
		hasDesignatedCtor(param("value", intType)),
	))

	require.False(t, res.HadErrors(), res.Diagnostics.Error())
	require.Len(t, res.Plan.Construction.Bindings(), 1)
	assert.Equal(t, ReferenceGetter, res.Plan.Construction.Bindings()[0].Read.Kind)

	strict := DefaultConfig()
	strict.StrictUnboxing = true
	res = analyzeWith(t, strict, "Value", class("Value",
		annotated("Parcel(Serialization.BEAN)"),
		hasMethods(getterDecl("getValue", integerType)),
		hasDesignatedCtor(param("value", intType)),
	))

	assert.Equal(t, []diagnostic.Kind{diagnostic.MismatchedTypes}, res.Diagnostics.ErrorKinds())
}

func TestConstruction_UnserializableParameter(t *testing.T) {
	res := analyzeType(t, "Value", class("Value",
		annotated("Parcel"),
		hasField("value", named("Plain")),
		hasDesignatedCtor(param("value", named("Plain"))),
	), class("Plain"))

	assert.Equal(t, []diagnostic.Kind{diagnostic.UnresolvedPropertyType}, res.Diagnostics.ErrorKinds())
}
