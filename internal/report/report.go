package report

import (
	"parcel-planner/internal/batch"
	"parcel-planner/internal/diagnostic"
	"parcel-planner/internal/plan"
)

// Report is the document written for one run.
type Report struct {
	Results []Entry `yaml:"results" json:"results"`
	Summary Summary `yaml:"summary" json:"summary"`
}

// Summary counts the outcomes of a run.
type Summary struct {
	Types    int `yaml:"types"    json:"types"`
	Invalid  int `yaml:"invalid"  json:"invalid"`
	Failed   int `yaml:"failed"   json:"failed"`
	Errors   int `yaml:"errors"   json:"errors"`
	Warnings int `yaml:"warnings" json:"warnings"`
}

// Entry is the outcome of one analysis.
type Entry struct {
	Type        string          `yaml:"type"                  json:"type"`
	Plan        *plan.PlanDoc   `yaml:"plan,omitempty"        json:"plan,omitempty"`
	Diagnostics []DiagnosticDoc `yaml:"diagnostics,omitempty" json:"diagnostics,omitempty"`
	Error       string          `yaml:"error,omitempty"       json:"error,omitempty"`
}

// DiagnosticDoc is the serialized form of a diagnostic.
type DiagnosticDoc struct {
	Severity    string   `yaml:"severity"              json:"severity"`
	Kind        string   `yaml:"kind"                  json:"kind"`
	Message     string   `yaml:"message"               json:"message"`
	Member      string   `yaml:"member,omitempty"      json:"member,omitempty"`
	Position    string   `yaml:"position,omitempty"    json:"position,omitempty"`
	Suggestions []string `yaml:"suggestions,omitempty" json:"suggestions,omitempty"`
}

// Build converts results into a Report. Plans are included when withPlans
// is set and the analysis reported no errors.
func Build(results []batch.Result, withPlans bool) *Report {
	r := &Report{Results: make([]Entry, 0, len(results))}
	r.Summary.Types = len(results)

	for _, res := range results {
		e := Entry{Type: res.Type.String()}

		if res.Err != nil {
			e.Error = res.Err.Error()
			r.Summary.Failed++
			r.Results = append(r.Results, e)

			continue
		}

		diags := res.Analysis.Diagnostics
		r.Summary.Errors += len(diags.Errors)
		r.Summary.Warnings += len(diags.Warnings)

		if diags.HasErrors() {
			r.Summary.Invalid++
		} else if withPlans {
			doc := plan.Export(res.Analysis.Plan)
			e.Plan = &doc
		}

		for _, d := range diags.All() {
			e.Diagnostics = append(e.Diagnostics, exportDiagnostic(d))
		}

		r.Results = append(r.Results, e)
	}

	return r
}

// Failed returns true when any analysis failed or reported errors.
func (r *Report) Failed() bool {
	return r.Summary.Failed > 0 || r.Summary.Invalid > 0
}

func exportDiagnostic(d diagnostic.Diagnostic) DiagnosticDoc {
	return DiagnosticDoc{
		Severity:    d.Severity.String(),
		Kind:        d.Code,
		Message:     d.Message,
		Member:      d.Member,
		Position:    d.Position,
		Suggestions: d.Suggestions,
	}
}
