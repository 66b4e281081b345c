package report

import (
	"bytes"
	"testing"

	"github.com/cockroachdb/errors"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"parcel-planner/internal/analyze"
	"parcel-planner/internal/batch"
	"parcel-planner/internal/diagnostic"
	"parcel-planner/internal/plan"
)

func id(name string) analyze.TypeID {
	return analyze.TypeID{PkgPath: "com.example", Name: name}
}

func results() []batch.Result {
	stringType := analyze.Declared("java.lang", "String")
	name := &plan.Reference{Kind: plan.ReferenceField, Member: "name", Property: "name", Owner: id("User"), Type: stringType}

	var invalid diagnostic.Diagnostics
	invalid.Add(diagnostic.Diagnostic{
		Severity:    diagnostic.DiagnosticError,
		Kind:        diagnostic.MismatchedTypes,
		Message:     "parameter \"vlaue\" has no matching property",
		Type:        "com.example.Value",
		Member:      "Value.<init>(String)",
		Position:    "Value.java:7",
		Suggestions: []string{"value"},
	})
	invalid.Report(diagnostic.MissingSupertype, "supertype Base is not available", "com.example.Value", "Value")

	return []batch.Result{
		{
			Type: id("User"),
			Analysis: &plan.Analysis{Plan: &plan.Plan{
				Target:       id("User"),
				Construction: plan.Construction{Strategy: plan.StrategyDefault, Executable: "<init>()"},
				FieldPairs:   []plan.PropertyPair{{Name: "name", Read: name, Write: name}},
				OnWrap:       []plan.Callback{{Owner: id("User"), Method: "prepare"}},
			}},
		},
		{
			Type:     id("Value"),
			Analysis: &plan.Analysis{Plan: &plan.Plan{Target: id("Value")}, Diagnostics: invalid},
		},
		{
			Type: id("Missing"),
			Err:  errors.Wrap(analyze.ErrTypeNotFound, "analyze com.example.Missing"),
		},
	}
}

func TestBuild(t *testing.T) {
	r := Build(results(), true)

	assert.Equal(t, Summary{Types: 3, Invalid: 1, Failed: 1, Errors: 1, Warnings: 1}, r.Summary)
	assert.True(t, r.Failed())
	require.Len(t, r.Results, 3)

	user := r.Results[0]
	assert.Equal(t, "com.example.User", user.Type)
	require.NotNil(t, user.Plan)
	assert.Equal(t, "FIELD", user.Plan.Mode)
	assert.Equal(t, []string{"User.prepare"}, user.Plan.OnWrap)
	assert.Empty(t, user.Diagnostics)

	value := r.Results[1]
	assert.Nil(t, value.Plan)
	require.Len(t, value.Diagnostics, 2)
	assert.Equal(t, DiagnosticDoc{
		Severity:    "error",
		Kind:        "MismatchedTypes",
		Message:     "parameter \"vlaue\" has no matching property",
		Member:      "Value.<init>(String)",
		Position:    "Value.java:7",
		Suggestions: []string{"value"},
	}, value.Diagnostics[0])
	assert.Equal(t, "warning", value.Diagnostics[1].Severity)

	assert.Contains(t, r.Results[2].Error, "type not found")
}

func TestBuild_WithoutPlans(t *testing.T) {
	r := Build(results()[:1], false)
	assert.Nil(t, r.Results[0].Plan)
	assert.False(t, r.Failed())
}

func TestWrite_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "yaml", Build(results(), true)))

	var back Report
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, *Build(results(), true), back)
	assert.Contains(t, buf.String(), "field_pairs:")
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "json", Build(results(), true)))

	var back Report
	require.NoError(t, jsoniter.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, *Build(results(), true), back)
	assert.Contains(t, buf.String(), `"suggestions": [`)
}

func TestWrite_Text(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "text", Build(results(), true)))

	out := buf.String()
	assert.Contains(t, out, "com.example.User: ok\n")
	assert.Contains(t, out, "  construction: default <init>()\n")
	assert.Contains(t, out, "    java.lang.String name: User.name -> User.name\n")
	assert.Contains(t, out, "  on wrap: User.prepare\n")
	assert.Contains(t, out, "com.example.Value: invalid\n")
	assert.Contains(t, out, `error [MismatchedTypes] Value.<init>(String): parameter "vlaue" has no matching property (did you mean value?) at Value.java:7`)
	assert.Contains(t, out, "com.example.Missing: failed: analyze com.example.Missing: type not found")
	assert.Contains(t, out, "3 types: 1 invalid, 1 failed, 1 errors, 1 warnings\n")
}

func TestWrite_Spew(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "spew", Build(results(), false)))
	assert.Contains(t, buf.String(), "com.example.User")
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "xml", &Report{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown report format "xml"`)
}
