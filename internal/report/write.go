package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"
	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"parcel-planner/internal/plan"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Write renders r to w in format: yaml, json, text or spew.
func Write(w io.Writer, format string, r *Report) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(r); err != nil {
			return errors.Wrap(err, "encode yaml report")
		}

		return enc.Close()
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encode json report")
		}

		_, err = w.Write(append(data, '\n'))

		return err
	case "text":
		return writeText(w, r)
	case "spew":
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
		cfg.Fdump(w, r)

		return nil
	default:
		return errors.Newf("unknown report format %q", format)
	}
}

func writeText(w io.Writer, r *Report) error {
	var sb strings.Builder

	for _, e := range r.Results {
		switch {
		case e.Error != "":
			fmt.Fprintf(&sb, "%s: failed: %s\n", e.Type, e.Error)
		case hasErrors(e.Diagnostics):
			fmt.Fprintf(&sb, "%s: invalid\n", e.Type)
		default:
			fmt.Fprintf(&sb, "%s: ok\n", e.Type)
		}

		if e.Plan != nil {
			writePlan(&sb, e.Plan)
		}

		for _, d := range e.Diagnostics {
			fmt.Fprintf(&sb, "  %s [%s]", d.Severity, d.Kind)
			if d.Member != "" {
				fmt.Fprintf(&sb, " %s", d.Member)
			}

			fmt.Fprintf(&sb, ": %s", d.Message)
			if len(d.Suggestions) > 0 {
				fmt.Fprintf(&sb, " (did you mean %s?)", strings.Join(d.Suggestions, ", "))
			}

			if d.Position != "" {
				fmt.Fprintf(&sb, " at %s", d.Position)
			}

			sb.WriteByte('\n')
		}
	}

	s := r.Summary
	fmt.Fprintf(&sb, "%d types: %d invalid, %d failed, %d errors, %d warnings\n",
		s.Types, s.Invalid, s.Failed, s.Errors, s.Warnings)

	_, err := io.WriteString(w, sb.String())

	return err
}

func writePlan(sb *strings.Builder, p *plan.PlanDoc) {
	fmt.Fprintf(sb, "  mode: %s\n", p.Mode)

	if p.Converter != "" {
		fmt.Fprintf(sb, "  converter: %s\n", p.Converter)
		return
	}

	c := p.Construction
	fmt.Fprintf(sb, "  construction: %s %s\n", c.Strategy, c.Executable)
	for _, param := range c.Parameters {
		fmt.Fprintf(sb, "    %s %s <- %s", param.Type, param.Name, param.Read)
		if param.Converter != "" {
			fmt.Fprintf(sb, " via %s", param.Converter)
		}
		sb.WriteByte('\n')
	}

	for _, group := range []struct {
		name  string
		pairs []plan.PairDoc
	}{{"fields", p.FieldPairs}, {"methods", p.MethodPairs}} {
		if len(group.pairs) == 0 {
			continue
		}

		fmt.Fprintf(sb, "  %s:\n", group.name)
		for _, pair := range group.pairs {
			fmt.Fprintf(sb, "    %s %s: %s -> %s", pair.Type, pair.Name, pair.Read, pair.Write)
			if pair.Converter != "" {
				fmt.Fprintf(sb, " via %s", pair.Converter)
			}
			sb.WriteByte('\n')
		}
	}

	if len(p.OnWrap) > 0 {
		fmt.Fprintf(sb, "  on wrap: %s\n", strings.Join(p.OnWrap, ", "))
	}

	if len(p.OnUnwrap) > 0 {
		fmt.Fprintf(sb, "  on unwrap: %s\n", strings.Join(p.OnUnwrap, ", "))
	}
}

func hasErrors(diags []DiagnosticDoc) bool {
	for _, d := range diags {
		if d.Severity == "error" {
			return true
		}
	}

	return false
}
