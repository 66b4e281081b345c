// Command parcel-planner analyzes annotated types and prints their
// serialization plans.
//
// Usage:
//
//	parcel-planner analyze [flags]   print the plans of all targets
//	parcel-planner check [flags]     print diagnostics only; exit 1 on errors
//	parcel-planner types [flags]     list the discovered targets
//
// Sources, targets and output settings come from parcel-planner.yaml,
// PARCEL_PLANNER_* environment variables and flags.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"parcel-planner/internal/analyze"
	"parcel-planner/internal/batch"
	"parcel-planner/internal/config"
	"parcel-planner/internal/diagnostic"
	"parcel-planner/internal/javasrc"
	"parcel-planner/internal/log"
	"parcel-planner/internal/metrics"
	"parcel-planner/internal/plan"
	"parcel-planner/internal/report"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

const usage = `usage: parcel-planner <command> [flags]

commands:
  analyze   print the serialization plans of all targets
  check     print diagnostics only; exit status 1 when any target has errors
  types     list the discovered targets
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	cmd := args[0]
	switch cmd {
	case "analyze", "check", "types":
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return exitUsage
	}

	fs := pflag.NewFlagSet(cmd, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	config.BindFlags(fs)

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	cfg, err := config.Load(fs)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	logger, props, err := log.InitLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitUsage
	}

	log.ReplaceGlobals(logger, props)
	defer func() { _ = log.Sync() }()

	undo, err := maxprocs.Set(maxprocs.Logger(log.S().Debugf))
	if err != nil {
		log.L().Warn("failed to set GOMAXPROCS", zap.Error(err))
	}
	defer undo()

	code, err := execute(ctx, cmd, cfg, stdout)
	if err != nil {
		log.L().Error("run failed", zap.String("command", cmd), zap.Error(err))
		fmt.Fprintln(stderr, err)

		return exitInvalid
	}

	return code
}

func execute(ctx context.Context, cmd string, cfg *config.Config, stdout io.Writer) (int, error) {
	graph, err := loadGraph(ctx, cfg)
	if err != nil {
		return exitInvalid, err
	}

	pc := cfg.PlanConfig()
	targets := batch.Targets(graph, pc.Vocabulary.Parcel, cfg.TargetIDs())

	out, closeOut, err := openOutput(cfg.Output.File, stdout)
	if err != nil {
		return exitInvalid, err
	}
	defer closeOut()

	if cmd == "types" {
		for _, id := range targets {
			fmt.Fprintln(out, id)
		}

		return exitOK, nil
	}

	reg := prometheus.NewRegistry()
	sink := diagnostic.NewCollector()

	runner := batch.NewRunner(
		plan.NewAnalyzer(graph, pc),
		batch.WithWorkers(cfg.Workers),
		batch.WithSink(sink),
		batch.WithMetrics(metrics.New(reg)),
	)

	results, err := runner.Run(ctx, targets)
	if err != nil {
		return exitInvalid, err
	}

	rep := report.Build(results, cmd == "analyze")
	if err := report.Write(out, cfg.Output.Format, rep); err != nil {
		return exitInvalid, err
	}

	if cfg.Metrics.File != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics.File, reg); err != nil {
			return exitInvalid, errors.Wrapf(err, "write metrics %s", cfg.Metrics.File)
		}
	}

	total := sink.Total()
	log.L().Info("analysis finished",
		zap.Int("types", len(sink.Types())),
		zap.Int("errors", len(total.Errors)),
		zap.Int("warnings", len(total.Warnings)),
	)

	if failed := sink.FailedTypes(); len(failed) > 0 {
		log.L().Info("types with errors", zap.Strings("types", failed))
	}

	if rep.Failed() {
		return exitInvalid, nil
	}

	return exitOK, nil
}

func loadGraph(ctx context.Context, cfg *config.Config) (*analyze.TypeGraph, error) {
	switch cfg.Language {
	case config.LanguageGo:
		return analyze.NewAnalyzer().LoadPackages(cfg.Sources...)
	default:
		return javasrc.NewLoader(javasrc.WithWorkers(cfg.Workers)).LoadDir(ctx, cfg.Sources...)
	}
}

func openOutput(path string, stdout io.Writer) (io.Writer, func(), error) {
	if path == "" {
		return stdout, func() {}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "create output %s", path)
	}

	return f, func() { _ = f.Close() }, nil
}
