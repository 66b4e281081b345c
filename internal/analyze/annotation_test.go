package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnnotation(t *testing.T) {
	t.Run("marker", func(t *testing.T) {
		a, err := ParseAnnotation("@Transient")
		require.NoError(t, err)
		assert.Equal(t, "Transient", a.Name)
		assert.Empty(t, a.Values)
	})

	t.Run("single value", func(t *testing.T) {
		a, err := ParseAnnotation(`@ParcelProperty("value")`)
		require.NoError(t, err)

		s, ok := a.String("value")
		assert.True(t, ok)
		assert.Equal(t, "value", s)
	})

	t.Run("qualified name without at sign", func(t *testing.T) {
		a, err := ParseAnnotation(`org.parceler.Parcel()`)
		require.NoError(t, err)
		assert.Equal(t, "org.parceler.Parcel", a.Name)
	})

	t.Run("named elements", func(t *testing.T) {
		a, err := ParseAnnotation(`@Parcel(value = Parcel.Serialization.BEAN, describeContents = -42, analyze = {A.class, b.C.class,}, flag = true)`)
		require.NoError(t, err)

		mode, ok := a.Enum("value")
		assert.True(t, ok)
		assert.Equal(t, "BEAN", mode)

		n, ok := a.Int("describeContents")
		assert.True(t, ok)
		assert.Equal(t, -42, n)

		v, ok := a.Get("analyze")
		require.True(t, ok)
		require.Equal(t, ValueArray, v.Kind)
		require.Len(t, v.Elems, 2)
		assert.Equal(t, ValueClass, v.Elems[0].Kind)
		assert.Equal(t, "A", v.Elems[0].Text)
		assert.Equal(t, "b.C", v.Elems[1].Text)

		flag, ok := a.Get("flag")
		require.True(t, ok)
		assert.True(t, flag.Bool)
	})

	t.Run("class literal value", func(t *testing.T) {
		a, err := ParseAnnotation(`@ParcelPropertyConverter(TargetConverter.class)`)
		require.NoError(t, err)

		v, ok := a.Get("value")
		require.True(t, ok)
		assert.Equal(t, ValueClass, v.Kind)
		assert.Equal(t, "TargetConverter", v.Text)
	})

	t.Run("errors", func(t *testing.T) {
		for _, src := range []string{"", "@", "@Parcel(", "@Parcel(value = )", "@Parcel) trailing"} {
			_, err := ParseAnnotation(src)
			assert.Error(t, err, src)
		}
	})
}

func TestAnnotation_ResolveTypes(t *testing.T) {
	a, err := ParseAnnotation(`@Parcel(converter = Conv.class, analyze = {A.class, B.class})`)
	require.NoError(t, err)

	a.ResolveTypes(func(raw string) TypeRef { return Declared("com.example", raw) })

	conv, ok := a.Type("converter")
	require.True(t, ok)
	assert.Equal(t, "com.example.Conv", conv.String())

	types := a.Types("analyze")
	require.Len(t, types, 2)
	assert.Equal(t, "com.example.B", types[1].String())

	assert.Len(t, a.Types("converter"), 1)
	assert.Nil(t, a.Types("missing"))
}

func TestAnnotations_Find(t *testing.T) {
	anns := Annotations{
		{Name: "Override"},
		{Name: "org.parceler.ParcelProperty", Values: map[string]Value{"value": {Kind: ValueString, Text: "x"}}},
	}

	a, ok := anns.Find("ParcelProperty")
	require.True(t, ok)
	assert.Equal(t, "org.parceler.ParcelProperty", a.Name)

	assert.True(t, anns.Has("org.parceler.ParcelProperty"))
	assert.False(t, anns.Has("com.other.ParcelProperty"))
	assert.False(t, anns.Has("Transient"))
}
