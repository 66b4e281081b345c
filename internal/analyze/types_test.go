package analyze

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeRef_String(t *testing.T) {
	tests := []struct {
		name  string
		ref   TypeRef
		full  string
		short string
	}{
		{"primitive", Primitive("int"), "int", "int"},
		{"declared", Declared("java.lang", "String"), "java.lang.String", "String"},
		{
			"parameterized",
			Declared("java.util", "Map", Declared("java.lang", "String"), ArrayOf(Primitive("int"))),
			"java.util.Map<java.lang.String, int[]>",
			"Map<String, int[]>",
		},
		{"variable", Variable("T"), "T", "T"},
		{"pointer", PointerTo(Declared("time", "Time")), "*time.Time", "*Time"},
		{"wildcard", Wildcard(nil), "?", "?"},
		{"bounded wildcard", Wildcard(&TypeRef{Kind: RefVariable, Var: "E"}), "? extends E", "? extends E"},
		{"void", Void(), "void", "void"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.full, tt.ref.String())
			assert.Equal(t, tt.short, tt.ref.ShortString())
		})
	}
}

func TestTypeRef_Equal(t *testing.T) {
	list := func(arg TypeRef) TypeRef { return Declared("java.util", "List", arg) }

	assert.True(t, list(Primitive("int")).Equal(list(Primitive("int"))))
	assert.False(t, list(Primitive("int")).Equal(list(Primitive("long"))))
	assert.False(t, list(Primitive("int")).Equal(Declared("java.util", "List")))
	assert.True(t, ArrayOf(Variable("T")).Equal(ArrayOf(Variable("T"))))
	assert.False(t, ArrayOf(Variable("T")).Equal(PointerTo(Variable("T"))))
	assert.False(t, Wildcard(nil).Equal(Wildcard(&TypeRef{Kind: RefPrimitive})))
}

func TestTypeRef_Substitute(t *testing.T) {
	value := Declared("com.example", "Value")
	sub := Bind([]string{"T", "U"}, []TypeRef{value, Primitive("int")})
	require.Len(t, sub, 2)

	ref := Declared("java.util", "Map", Variable("T"), ArrayOf(Variable("U")))
	got := ref.Substitute(sub)

	assert.Equal(t, "java.util.Map<com.example.Value, int[]>", got.String())
	assert.Equal(t, "java.util.Map<T, U[]>", ref.String(), "substitution must not mutate the receiver")
	assert.Equal(t, "V", Variable("V").Substitute(sub).String(), "unbound variables stay as they are")
}

func TestBind_RawEdge(t *testing.T) {
	assert.Nil(t, Bind([]string{"T"}, nil))
	assert.Nil(t, Bind(nil, []TypeRef{Primitive("int")}))
}

func TestTypeDecl_Predicates(t *testing.T) {
	outer := TypeID{PkgPath: "com.example", Name: "Outer"}

	tests := []struct {
		name     string
		decl     TypeDecl
		abstract bool
		inner    bool
		noArg    bool
	}{
		{"plain class", TypeDecl{Kind: DeclClass}, false, false, true},
		{"abstract class", TypeDecl{Kind: DeclClass, Modifiers: Modifiers{Abstract: true}}, true, false, true},
		{"interface", TypeDecl{Kind: DeclInterface}, true, false, true},
		{"inner class", TypeDecl{Kind: DeclClass, Enclosing: &outer}, false, true, true},
		{"static nested", TypeDecl{Kind: DeclClass, Enclosing: &outer, Modifiers: Modifiers{Static: true}}, false, false, true},
		{"nested enum", TypeDecl{Kind: DeclEnum, Enclosing: &outer}, false, false, true},
		{
			"only arg constructor",
			TypeDecl{Kind: DeclClass, Constructors: []MethodDecl{{Params: []ParamDecl{{Name: "v", Type: Primitive("int")}}}}},
			false, false, false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.abstract, tt.decl.IsAbstract())
			assert.Equal(t, tt.inner, tt.decl.IsInner())
			assert.Equal(t, tt.noArg, tt.decl.HasNoArgConstructor())
		})
	}
}

func TestTypeGraph_Lookup(t *testing.T) {
	graph := NewTypeGraph()
	id := TypeID{PkgPath: "com.example", Name: "Order"}
	graph.Add(&TypeDecl{
		ID:          id,
		Kind:        DeclClass,
		Annotations: Annotations{{Name: "org.parceler.Parcel"}},
	})
	graph.Add(&TypeDecl{ID: TypeID{PkgPath: "com.example", Name: "Address"}, Kind: DeclClass})

	decl, err := graph.Lookup(id)
	require.NoError(t, err)
	assert.Equal(t, id, decl.ID)

	_, err = graph.Lookup(TypeID{PkgPath: "com.example", Name: "Missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTypeNotFound))

	assert.Equal(t, []TypeID{id}, graph.Annotated("Parcel"))
	assert.Len(t, graph.Packages["com.example"].Types, 2)
}

func TestTypeGraph_ParameterName(t *testing.T) {
	graph := NewTypeGraph()
	m := &MethodDecl{Params: []ParamDecl{{Name: "value"}, {}}}

	name, ok := graph.ParameterName(TypeID{}, m, 0)
	assert.True(t, ok)
	assert.Equal(t, "value", name)

	_, ok = graph.ParameterName(TypeID{}, m, 1)
	assert.False(t, ok)

	_, ok = graph.ParameterName(TypeID{}, m, 5)
	assert.False(t, ok)
}
