package javasrc

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"parcel-planner/internal/analyze"
	"parcel-planner/internal/log"
)

// Loader parses Java sources into a type graph.
type Loader struct {
	logger  *zap.Logger
	workers int
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithWorkers limits the number of files parsed concurrently.
func WithWorkers(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.workers = n
		}
	}
}

// NewLoader creates a Loader parsing up to GOMAXPROCS files at once.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{workers: runtime.GOMAXPROCS(0)}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

func (l *Loader) log() *zap.Logger {
	if l.logger != nil {
		return l.logger
	}

	return log.L().Named("javasrc")
}

// LoadDir loads every .java file below the given roots.
func (l *Loader) LoadDir(ctx context.Context, roots ...string) (*analyze.TypeGraph, error) {
	var sources []Source
	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() || filepath.Ext(path) != ".java" {
				return nil
			}

			content, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}

			sources = append(sources, Source{Path: path, Content: content})

			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "walk %s", root)
		}
	}

	return l.Load(ctx, sources)
}

// Load parses sources and resolves them into a graph.
func (l *Loader) Load(ctx context.Context, sources []Source) (*analyze.TypeGraph, error) {
	files, err := l.Parse(ctx, sources)
	if err != nil {
		return nil, err
	}

	graph := Resolve(files)
	l.log().Info("loaded java sources",
		zap.Int("files", len(files)),
		zap.Int("types", len(graph.Types)),
	)

	return graph, nil
}

// Parse parses sources concurrently. Files are returned in input order.
func (l *Loader) Parse(ctx context.Context, sources []Source) ([]*File, error) {
	files := make([]*File, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for i, src := range sources {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			f, err := ParseFile(src)
			if err != nil {
				return err
			}

			if f.HasErrors {
				l.log().Warn("java source has syntax errors", zap.String("file", src.Path))
			}

			files[i] = f

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "parse java sources")
	}

	return files, nil
}
