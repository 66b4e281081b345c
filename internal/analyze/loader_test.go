package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const beansPkg = "parcel-planner/examples/beans"

func loadBeans(t *testing.T) *TypeGraph {
	t.Helper()

	graph, err := NewAnalyzer().LoadPackages(beansPkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func findField(decl *TypeDecl, name string) *FieldDecl {
	for i := range decl.Fields {
		if decl.Fields[i].Name == name {
			return &decl.Fields[i]
		}
	}

	return nil
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadBeans(t)

	assert.Contains(t, graph.Packages, beansPkg)
	assert.Contains(t, graph.Types, TypeID{PkgPath: beansPkg, Name: "Account"})
	assert.Contains(t, graph.Types, TypeID{PkgPath: beansPkg, Name: "Entity"})

	currency := graph.GetType(TypeID{PkgPath: beansPkg, Name: "Currency"})
	require.NotNil(t, currency)
	assert.Equal(t, DeclEnum, currency.Kind)

	converter := graph.GetType(TypeID{PkgPath: beansPkg, Name: "Converter"})
	require.NotNil(t, converter)
	assert.Equal(t, DeclInterface, converter.Kind)
	assert.True(t, converter.IsAbstract())
}

func TestAnalyzer_Directives(t *testing.T) {
	graph := loadBeans(t)

	account := graph.GetType(TypeID{PkgPath: beansPkg, Name: "Account"})
	require.NotNil(t, account)

	parcel, ok := account.Annotations.Find("Parcel")
	require.True(t, ok)
	mode, ok := parcel.Enum("value")
	require.True(t, ok)
	assert.Equal(t, "BEAN", mode)

	var hook *MethodDecl
	for i := range account.Methods {
		if account.Methods[i].Name == "BeforeWrap" {
			hook = &account.Methods[i]
		}
	}
	require.NotNil(t, hook)
	assert.True(t, hook.Annotations.Has("OnWrap"))
	assert.True(t, hook.IsVoid())
}

func TestAnalyzer_EmbeddedSuperclass(t *testing.T) {
	graph := loadBeans(t)

	account := graph.GetType(TypeID{PkgPath: beansPkg, Name: "Account"})
	require.NotNil(t, account)
	require.NotNil(t, account.Superclass)
	assert.Equal(t, "parcel-planner/examples/beans.Entity<string>", account.Superclass.String())
	assert.Nil(t, findField(account, "Entity"), "the embedded struct is not a field")

	entity := graph.GetType(TypeID{PkgPath: beansPkg, Name: "Entity"})
	require.NotNil(t, entity)
	assert.Equal(t, []string{"T"}, entity.TypeParams)

	id := findField(entity, "id")
	require.NotNil(t, id)
	assert.Equal(t, RefVariable, id.Type.Kind)
	assert.Equal(t, VisibilityPackage, id.Modifiers.Visibility)
}

func TestAnalyzer_FieldTags(t *testing.T) {
	graph := loadBeans(t)
	account := graph.GetType(TypeID{PkgPath: beansPkg, Name: "Account"})
	require.NotNil(t, account)

	cache := findField(account, "cache")
	require.NotNil(t, cache)
	assert.True(t, cache.Annotations.Has("Transient"))

	label := findField(account, "Label")
	require.NotNil(t, label)

	prop, ok := label.Annotations.Find("ParcelProperty")
	require.True(t, ok)
	name, _ := prop.String("value")
	assert.Equal(t, "label", name)

	conv, ok := label.Annotations.Find("ParcelPropertyConverter")
	require.True(t, ok)
	ref, ok := conv.Type("value")
	require.True(t, ok)
	assert.Equal(t, "parcel-planner/examples/beans.UpperConverter", ref.String())

	balance := findField(account, "balance")
	require.NotNil(t, balance)
	assert.Equal(t, "*parcel-planner/examples/beans.Money", balance.Type.String())

	opened := findField(account, "Opened")
	require.NotNil(t, opened)
	assert.Equal(t, "time.Time", opened.Type.String())
}

func TestAnalyzer_ImplementedInterfaces(t *testing.T) {
	graph := loadBeans(t)

	upper := graph.GetType(TypeID{PkgPath: beansPkg, Name: "UpperConverter"})
	require.NotNil(t, upper)
	require.Len(t, upper.Interfaces, 1)
	assert.Equal(t, "parcel-planner/examples/beans.Converter", upper.Interfaces[0].String())
}

func TestAnalyzer_FactoryFunction(t *testing.T) {
	graph := loadBeans(t)

	transfer := graph.GetType(TypeID{PkgPath: beansPkg, Name: "Transfer"})
	require.NotNil(t, transfer)

	var factory *MethodDecl
	for i := range transfer.Methods {
		if transfer.Methods[i].Name == "NewTransfer" {
			factory = &transfer.Methods[i]
		}
	}
	require.NotNil(t, factory)
	assert.True(t, factory.Modifiers.Static)
	assert.True(t, factory.Annotations.Has("ParcelFactory"))
	require.Len(t, factory.Params, 3)
	assert.Equal(t, "from", factory.Params[0].Name)
	assert.Equal(t, "*parcel-planner/examples/beans.Transfer", factory.Result.String())
}

func TestAnalyzer_MapsAndSlices(t *testing.T) {
	graph := loadBeans(t)

	ledger := graph.GetType(TypeID{PkgPath: beansPkg, Name: "Ledger"})
	require.NotNil(t, ledger)

	entries := findField(ledger, "Entries")
	require.NotNil(t, entries)
	assert.Equal(t, "map<string, parcel-planner/examples/beans.Money[]>", entries.Type.String())

	notes := findField(ledger, "Notes")
	require.NotNil(t, notes)
	assert.Equal(t, "any[]", notes.Type.String())
}
