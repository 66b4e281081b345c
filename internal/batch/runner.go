package batch

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	ants "github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"parcel-planner/internal/analyze"
	"parcel-planner/internal/diagnostic"
	"parcel-planner/internal/log"
	"parcel-planner/internal/metrics"
	"parcel-planner/internal/plan"
)

const tracerName = "parcel-planner/batch"

// Result is the outcome of analyzing one type. Exactly one of Analysis and
// Err is set.
type Result struct {
	Type     analyze.TypeID
	Analysis *plan.Analysis
	Err      error
	Elapsed  time.Duration
}

// Failed returns true when the analysis did not complete or reported errors.
func (r Result) Failed() bool {
	return r.Err != nil || (r.Analysis != nil && r.Analysis.HadErrors())
}

// Stats counts analysis outcomes.
type Stats struct {
	Analyzed atomic.Int64
	Invalid  atomic.Int64
	Failed   atomic.Int64
}

// Runner analyzes batches of types.
type Runner struct {
	analyzer *plan.Analyzer
	workers  int
	sink     diagnostic.Sink
	metrics  *metrics.Metrics
	logger   *zap.Logger
	stats    Stats
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of concurrent analyses.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithSink publishes every analysis' diagnostics to sink.
func WithSink(sink diagnostic.Sink) Option {
	return func(r *Runner) {
		r.sink = sink
	}
}

// WithMetrics records outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner using up to GOMAXPROCS workers.
func NewRunner(analyzer *plan.Analyzer, opts ...Option) *Runner {
	r := &Runner{analyzer: analyzer, workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Runner) log() *zap.Logger {
	if r.logger != nil {
		return r.logger
	}

	return log.L().Named("batch")
}

// Stats returns the outcome counters accumulated over all runs.
func (r *Runner) Stats() *Stats {
	return &r.stats
}

// Run analyzes ids and returns one result per id, in order. An error is
// returned only when the pool cannot be used; failures of single analyses
// are reported in their Result.
func (r *Runner) Run(ctx context.Context, ids []analyze.TypeID) ([]Result, error) {
	pool, err := ants.NewPool(r.workers, ants.WithPanicHandler(func(v any) {
		r.log().Error("analysis panicked", zap.Any("panic", v))
	}))
	if err != nil {
		return nil, errors.Wrap(err, "create worker pool")
	}
	defer pool.Release()

	results := make([]Result, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		results[i].Type = id

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i] = r.analyze(ctx, id)
		})
		if err != nil {
			wg.Done()
			wg.Wait()

			return nil, errors.Wrapf(err, "submit analysis of %s", id)
		}
	}

	wg.Wait()

	for i := range results {
		if results[i].Analysis == nil && results[i].Err == nil {
			results[i].Err = errors.Newf("analysis of %s did not complete", results[i].Type)
		}
	}

	r.log().Info("batch finished",
		zap.Int("types", len(ids)),
		zap.Int64("analyzed", r.stats.Analyzed.Load()),
		zap.Int64("invalid", r.stats.Invalid.Load()),
		zap.Int64("failed", r.stats.Failed.Load()),
	)

	return results, nil
}

func (r *Runner) analyze(ctx context.Context, id analyze.TypeID) Result {
	ctx, span := log.StartSpan(ctx, tracerName, "analyze")
	defer span.End()

	span.SetAttributes(attribute.String("parcel.type", id.String()))
	logger := log.Ctx(ctx).With(zap.Stringer("type", id))

	res := Result{Type: id}
	start := time.Now()

	if err := ctx.Err(); err != nil {
		res.Err = errors.Wrapf(err, "analyze %s", id)
	} else {
		res.Analysis, res.Err = r.analyzer.Analyze(id)
	}

	res.Elapsed = time.Since(start)
	r.stats.Analyzed.Inc()

	if res.Err != nil {
		r.stats.Failed.Inc()
		r.metrics.ObserveAnalysis(nil, res.Elapsed)
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		logger.Warn("analysis failed", zap.Error(res.Err))

		return res
	}

	diags := res.Analysis.Diagnostics
	r.metrics.ObserveAnalysis(&diags, res.Elapsed)

	if r.sink != nil {
		r.sink.Publish(id.String(), diags)
	}

	span.SetAttributes(
		attribute.Int("parcel.errors", len(diags.Errors)),
		attribute.Int("parcel.warnings", len(diags.Warnings)),
	)

	if diags.HasErrors() {
		r.stats.Invalid.Inc()
		span.SetStatus(codes.Error, "plan has errors")
	}

	logger.Debug("analysis finished",
		zap.Duration("elapsed", res.Elapsed),
		zap.Int("errors", len(diags.Errors)),
		zap.Int("warnings", len(diags.Warnings)),
	)

	return res
}

// Targets returns explicit when it is not empty, otherwise every type of
// graph carrying annotation, in stable order.
func Targets(graph *analyze.TypeGraph, annotation string, explicit []analyze.TypeID) []analyze.TypeID {
	if len(explicit) > 0 {
		return explicit
	}

	return graph.Annotated(annotation)
}
