package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"parcel-planner/internal/analyze"
)

func TestExport(t *testing.T) {
	res := analyzeType(t, "Order", class("Order",
		annotated("Parcel(describeContents = 1)"),
		hasField("id", intType),
		hasField("note", stringType, "ParcelPropertyConverter(StringConverter.class)"),
		hasDesignatedCtor(param("id", intType)),
		hasMethods(annotate(methodDecl("prepare", analyze.Void()), "OnWrap")),
	))
	require.False(t, res.HadErrors(), res.Diagnostics.Error())

	doc := Export(res.Plan)

	assert.Equal(t, "com.example.Order", doc.Type)
	assert.Equal(t, "FIELD", doc.Mode)
	assert.Equal(t, 1, doc.DescribeContents)
	assert.Equal(t, ConstructionDoc{
		Strategy:   "constructor",
		Executable: "<init>(int)",
		Parameters: []ParameterDoc{{Name: "id", Type: "int", Read: "Order.id"}},
	}, doc.Construction)
	assert.Equal(t, []PairDoc{{
		Name:      "note",
		Type:      "java.lang.String",
		Read:      "Order.note",
		Write:     "Order.note",
		Converter: "com.example.StringConverter",
	}}, doc.FieldPairs)
	assert.Equal(t, []string{"Order.prepare"}, doc.OnWrap)

	out, err := ExportYAML(res.Plan)
	require.NoError(t, err)

	var back PlanDoc
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, doc, back)
	assert.Contains(t, string(out), "field_pairs:")
}
