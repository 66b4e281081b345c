package plan

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"parcel-planner/internal/analyze"
	"parcel-planner/internal/diagnostic"
	"parcel-planner/internal/log"
	"parcel-planner/internal/match"
)

// Analyzer produces serialization plans. It holds only immutable
// configuration and is safe for concurrent use.
type Analyzer struct {
	source   analyze.TypeSource
	config   Config
	checker  *match.Checker
	stringer *analyze.TypeStringer
	logger   *zap.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger; the global logger is used otherwise.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// NewAnalyzer creates an Analyzer reading declarations from source.
func NewAnalyzer(source analyze.TypeSource, config Config, opts ...Option) *Analyzer {
	a := &Analyzer{
		source:   source,
		config:   config,
		checker:  match.NewChecker(source),
		stringer: analyze.NewTypeStringer(),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Config returns the analyzer configuration.
func (a *Analyzer) Config() Config {
	return a.config
}

func (a *Analyzer) log() *zap.Logger {
	if a.logger != nil {
		return a.logger
	}

	return log.L().Named("plan")
}

// Analyze looks up id and analyzes it under its type annotation. A type
// without the annotation is analyzed with the annotation defaults.
func (a *Analyzer) Analyze(id analyze.TypeID) (*Analysis, error) {
	decl, err := a.source.Lookup(id)
	if err != nil {
		return nil, errors.Wrapf(err, "analyze %s", id)
	}

	ann, ok := decl.Annotations.Find(a.config.Vocabulary.Parcel)
	if !ok {
		ann = analyze.Annotation{Name: a.config.Vocabulary.Parcel}
	}

	return a.AnalyzeDecl(decl, ann)
}

// AnalyzeDecl analyzes decl under the type annotation ann. Rule violations
// are reported in the returned Analysis; an error is returned only when the
// type source itself fails.
func (a *Analyzer) AnalyzeDecl(decl *analyze.TypeDecl, ann analyze.Annotation) (*Analysis, error) {
	run := &analysis{
		Analyzer: a,
		target:   decl,
		ann:      ann,
		plan: &Plan{
			Target: decl.ID,
		},
	}

	if err := run.run(); err != nil {
		return nil, err
	}

	p := run.plan
	a.log().Debug("analyzed type",
		zap.Stringer("type", decl.ID),
		zap.String("decl", a.stringer.DeclString(decl)),
		zap.Stringer("mode", p.Mode),
		zap.Stringer("strategy", p.Construction.Strategy),
		zap.Int("field_pairs", len(p.FieldPairs)),
		zap.Int("method_pairs", len(p.MethodPairs)),
		zap.Int("errors", len(run.diags.Errors)),
		zap.Int("warnings", len(run.diags.Warnings)),
	)

	return &Analysis{Plan: p, Diagnostics: run.diags}, nil
}

// analysis is the working state of one AnalyzeDecl call.
type analysis struct {
	*Analyzer

	target *analyze.TypeDecl
	ann    analyze.Annotation
	mode   Mode
	levels []*level
	plan   *Plan
	diags  diagnostic.Diagnostics
	err    error
}

func (a *analysis) run() error {
	a.readTypeAnnotation()

	if conv, ok := a.wholeTypeConverter(); ok {
		a.plan.Converter = &conv
		a.validateConverter(conv, a.target.Ref(), site{member: a.target.ID.Name, position: a.target.Position})

		if ignored := a.ignoredMembers(); len(ignored) > 0 {
			a.report(diagnostic.IgnoredMembers, site{member: a.target.ID.Name, position: a.target.Position},
				"converter %s replaces member analysis; ignoring %s", conv.ShortString(), strings.Join(ignored, ", "))
		}

		return a.err
	}

	if err := a.collect(); err != nil {
		return err
	}

	a.resolveProperties()
	claimed := a.resolveConstruction()
	a.checkConverters()
	a.emitPairs(claimed)
	a.checkPairs()
	a.checkParameters()
	a.collectCallbacks()

	return a.err
}

// readTypeAnnotation reads mode, describeContents and implementations.
func (a *analysis) readTypeAnnotation() {
	if name, ok := a.ann.Enum("value"); ok {
		mode, known := ParseMode(name)
		if !known {
			a.report(diagnostic.KindUnknown, site{member: a.target.ID.Name, position: a.target.Position},
				"unknown serialization mode %q; using %s", name, mode)
		}

		a.mode = mode
	}

	a.plan.Mode = a.mode
	a.plan.DescribeContents, _ = a.ann.Int("describeContents")
	a.plan.Implementations = a.ann.Types("implementations")
}

// checkParameters verifies that unconverted parameter types serialize.
func (a *analysis) checkParameters() {
	for _, p := range a.plan.Construction.Parameters {
		if p.Converter != nil || p.Read == nil {
			continue
		}

		a.checkSupported(p.Type, refSite(p.Read), fmt.Sprintf("parameter %q", p.Name))
	}
}

// fail records the first failure of the type source.
func (a *analysis) fail(err error) {
	if a.err == nil {
		a.err = errors.Wrapf(err, "analyze %s", a.target.ID)
	}
}

// site locates a diagnostic.
type site struct {
	member   string
	position analyze.Position
}

func refSite(r *Reference) site {
	return site{member: r.Path(), position: r.Position}
}

func (a *analysis) methodSite(lvl *level, m method) site {
	return site{
		member:   analyze.NewMemberPath(lvl.decl.ID.Name).Method(m.decl).String(),
		position: m.decl.Position,
	}
}

func (a *analysis) report(kind diagnostic.Kind, at site, format string, args ...any) {
	a.reportSuggest(kind, at, nil, format, args...)
}

func (a *analysis) reportSuggest(kind diagnostic.Kind, at site, suggestions []string, format string, args ...any) {
	severity := kind.Severity()
	if kind == diagnostic.KindUnknown {
		severity = diagnostic.DiagnosticWarning
	}

	a.diags.Add(diagnostic.Diagnostic{
		Severity:    severity,
		Kind:        kind,
		Message:     fmt.Sprintf(format, args...),
		Type:        a.target.ID.String(),
		Member:      at.member,
		Position:    at.position.String(),
		Suggestions: suggestions,
	})
}
