package javasrc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcel-planner/internal/analyze"
)

func parse(t *testing.T, src string) *File {
	t.Helper()

	f, err := ParseFile(Source{Path: "Test.java", Content: []byte(src)})
	require.NoError(t, err)

	return f
}

func findType(t *testing.T, f *File, name string) *analyze.TypeDecl {
	t.Helper()

	for _, d := range f.Types {
		if d.ID.Name == name {
			return d
		}
	}

	require.Failf(t, "type not found", "%s in %s", name, f.Path)

	return nil
}

func TestParseFile_PackageAndImports(t *testing.T) {
	f := parse(t, `
package com.example.app;

import java.util.List;
import java.util.*;
import static java.util.Collections.emptyList;

class A {}
`)

	assert.Equal(t, "com.example.app", f.Package)
	assert.False(t, f.HasErrors)
	require.Len(t, f.Imports, 3)
	assert.Equal(t, Import{Path: "java.util.List"}, f.Imports[0])
	assert.Equal(t, "List", f.Imports[0].Name())
	assert.Equal(t, Import{Path: "java.util", Wildcard: true}, f.Imports[1])
	assert.Empty(t, f.Imports[1].Name())
	assert.True(t, f.Imports[2].Static)
}

func TestParseFile_Class(t *testing.T) {
	f := parse(t, `
package p;

public abstract class Box<T extends Number> extends Base<T> implements Comparable<Box<T>>, Cloneable {
    private static final int LIMIT = 3;
    protected transient T value;
    int[] counts, grid[];

    public Box(T value) {
        this.value = value;
    }

    public T getValue() {
        return value;
    }

    public abstract <R> R map(java.util.function.Function<? super T, ? extends R> fn);

    void set(String... parts) {}
}
`)

	box := findType(t, f, "Box")
	assert.Equal(t, analyze.TypeID{PkgPath: "p", Name: "Box"}, box.ID)
	assert.Equal(t, analyze.DeclClass, box.Kind)
	assert.True(t, box.Modifiers.Abstract)
	assert.Equal(t, analyze.VisibilityPublic, box.Modifiers.Visibility)
	assert.Equal(t, []string{"T"}, box.TypeParams)
	assert.Equal(t, 4, box.Position.Line)

	require.NotNil(t, box.Superclass)
	assert.Equal(t, "Base", box.Superclass.ID.Name)
	require.Len(t, box.Superclass.Args, 1)
	assert.Equal(t, analyze.Variable("T"), box.Superclass.Args[0])

	require.Len(t, box.Interfaces, 2)
	assert.Equal(t, "Comparable", box.Interfaces[0].ID.Name)
	assert.Equal(t, "Cloneable", box.Interfaces[1].ID.Name)

	require.Len(t, box.Fields, 4)
	assert.Equal(t, "LIMIT", box.Fields[0].Name)
	assert.True(t, box.Fields[0].Modifiers.Static)
	assert.True(t, box.Fields[0].Modifiers.Final)
	assert.Equal(t, analyze.Primitive("int"), box.Fields[0].Type)

	assert.True(t, box.Fields[1].Modifiers.Transient)
	assert.Equal(t, analyze.VisibilityProtected, box.Fields[1].Modifiers.Visibility)
	assert.Equal(t, analyze.Variable("T"), box.Fields[1].Type)

	assert.Equal(t, "counts", box.Fields[2].Name)
	assert.Equal(t, "int[]", box.Fields[2].Type.String())
	assert.Equal(t, "grid", box.Fields[3].Name)
	assert.Equal(t, "int[][]", box.Fields[3].Type.String())
	assert.Equal(t, analyze.VisibilityPackage, box.Fields[2].Modifiers.Visibility)

	require.Len(t, box.Constructors, 1)
	ctor := box.Constructors[0]
	assert.Equal(t, "Box", ctor.Name)
	assert.True(t, ctor.IsVoid())
	require.Len(t, ctor.Params, 1)
	assert.Equal(t, "value", ctor.Params[0].Name)
	assert.Equal(t, analyze.Variable("T"), ctor.Params[0].Type)

	require.Len(t, box.Methods, 3)
	assert.Equal(t, "getValue", box.Methods[0].Name)
	assert.Equal(t, analyze.Variable("T"), box.Methods[0].Result)

	mapper := box.Methods[1]
	assert.Equal(t, []string{"R"}, mapper.TypeParams)
	assert.True(t, mapper.Modifiers.Abstract)
	assert.Equal(t, analyze.Variable("R"), mapper.Result)
	require.Len(t, mapper.Params, 1)
	fn := mapper.Params[0].Type
	assert.Equal(t, "java.util.function.Function", fn.ID.Name)
	require.Len(t, fn.Args, 2)
	assert.Equal(t, analyze.Wildcard(nil), fn.Args[0])
	assert.Equal(t, "? extends R", fn.Args[1].String())

	set := box.Methods[2]
	require.Len(t, set.Params, 1)
	assert.Equal(t, "parts", set.Params[0].Name)
	assert.Equal(t, "String[]", set.Params[0].Type.String())
}

func TestParseFile_Annotations(t *testing.T) {
	f := parse(t, `
package p;

@Parcel(value = Parcel.Serialization.BEAN, analyze = {A.class, B.class})
class A {
    @ParcelProperty("name")
    @ParcelPropertyConverter(NameConverter.class)
    String name;

    @ParcelConstructor
    A(@ParcelProperty("name") String n) {}

    @OnWrap
    void hook() {}
}
`)

	a := findType(t, f, "A")
	ann, ok := a.Annotations.Find("Parcel")
	require.True(t, ok)
	mode, ok := ann.Enum("value")
	require.True(t, ok)
	assert.Equal(t, "BEAN", mode)
	assert.Len(t, ann.Types("analyze"), 2)

	require.Len(t, a.Fields, 1)
	assert.True(t, a.Fields[0].Annotations.Has("ParcelProperty"))
	conv, ok := a.Fields[0].Annotations.Find("ParcelPropertyConverter")
	require.True(t, ok)
	ref, ok := conv.Type("value")
	require.True(t, ok)
	assert.Equal(t, "NameConverter", ref.ID.Name)

	require.Len(t, a.Constructors, 1)
	assert.True(t, a.Constructors[0].Annotations.Has("ParcelConstructor"))
	prop, ok := a.Constructors[0].Params[0].Annotations.Find("ParcelProperty")
	require.True(t, ok)
	name, _ := prop.String("value")
	assert.Equal(t, "name", name)

	require.Len(t, a.Methods, 1)
	assert.True(t, a.Methods[0].Annotations.Has("OnWrap"))
}

func TestParseFile_NestedTypes(t *testing.T) {
	f := parse(t, `
package p;

public class Outer {
    class Inner {}
    static class Nested {}
    enum Kind {
        A, B;

        private int code;

        int code() { return code; }
    }
    interface Api {
        int LIMIT = 1;
        String name();
        default String label() { return name(); }
        class Impl {}
    }
}
`)

	require.Len(t, f.Types, 6)

	inner := findType(t, f, "Outer.Inner")
	require.NotNil(t, inner.Enclosing)
	assert.Equal(t, analyze.TypeID{PkgPath: "p", Name: "Outer"}, *inner.Enclosing)
	assert.True(t, inner.IsInner())

	assert.False(t, findType(t, f, "Outer.Nested").IsInner())

	kind := findType(t, f, "Outer.Kind")
	assert.Equal(t, analyze.DeclEnum, kind.Kind)
	assert.True(t, kind.Modifiers.Static)
	require.Len(t, kind.Fields, 1)
	assert.Equal(t, "code", kind.Fields[0].Name)
	require.Len(t, kind.Methods, 1)

	api := findType(t, f, "Outer.Api")
	assert.Equal(t, analyze.DeclInterface, api.Kind)
	require.Len(t, api.Fields, 1)
	assert.True(t, api.Fields[0].Modifiers.Static)
	assert.Equal(t, analyze.VisibilityPublic, api.Fields[0].Modifiers.Visibility)
	require.Len(t, api.Methods, 2)
	assert.True(t, api.Methods[0].Modifiers.Abstract)
	assert.Equal(t, analyze.VisibilityPublic, api.Methods[0].Modifiers.Visibility)
	assert.False(t, api.Methods[1].Modifiers.Abstract)

	impl := findType(t, f, "Outer.Api.Impl")
	assert.True(t, impl.Modifiers.Static)
	assert.Equal(t, analyze.VisibilityPublic, impl.Modifiers.Visibility)
}

func TestParseFile_InterfaceExtends(t *testing.T) {
	f := parse(t, `
package p;

interface Named<T> extends Comparable<T>, Iterable<T> {}
`)

	named := findType(t, f, "Named")
	assert.Equal(t, analyze.DeclInterface, named.Kind)
	assert.True(t, named.IsAbstract())
	require.Len(t, named.Interfaces, 2)
	assert.Equal(t, "Comparable", named.Interfaces[0].ID.Name)
	assert.Equal(t, []analyze.TypeRef{analyze.Variable("T")}, named.Interfaces[0].Args)
}

func TestParseFile_SyntaxErrors(t *testing.T) {
	f := parse(t, `
package p;

class Broken {
    int value
    String name;
}
`)

	assert.True(t, f.HasErrors)
	assert.NotNil(t, findType(t, f, "Broken"))
}
