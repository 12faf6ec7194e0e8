package dataset

import (
	"context"
	"fmt"
	"time"

	"barstack/domain/core"
	"barstack/domain/dataset"
	"barstack/internal"
	"barstack/ports"

	"golang.org/x/sync/errgroup"
)

// Loader fetches every configured source and builds the registry.
type Loader struct {
	reader ports.SourceReader
	logger *internal.Logger
}

// NewLoader creates a loader over reader.
func NewLoader(reader ports.SourceReader, logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{reader: reader, logger: logger.With("Loader")}
}

// Load fetches all sources in parallel and parses them in manifest order. It is
// all-or-nothing: the first failure cancels outstanding fetches and no registry is
// returned.
func (l *Loader) Load(ctx context.Context, metas []dataset.Metadata) (*Registry, error) {
	startTime := time.Now()
	tables := make([]*dataset.RawTable, len(metas))

	g, gctx := errgroup.WithContext(ctx)
	for i, meta := range metas {
		g.Go(func() error {
			table, err := l.reader.Read(gctx, meta.Source)
			if err != nil {
				return asLoadError(meta.Source.Path, err)
			}
			tables[i] = table
			l.logger.Debug("fetched %q: %d rows", meta.Label, len(table.Rows))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.logger.Error("load failed: %v", err)
		return nil, err
	}

	registry := newRegistry()
	for i, meta := range metas {
		parsed, err := Parse(tables[i], meta)
		if err != nil {
			l.logger.Error("parse %q failed: %v", meta.Label, err)
			return nil, err
		}
		// every dataset must be chartable before any of them is served
		if _, err := Aggregate(parsed); err != nil {
			l.logger.Error("dataset %q has non-numeric values: %v", meta.Label, err)
			return nil, err
		}
		if err := registry.register(dataset.Entry{Metadata: meta, Data: parsed}); err != nil {
			return nil, fmt.Errorf("register: %w", err)
		}
	}

	l.logger.Info("loaded %d datasets in %v", registry.Len(), time.Since(startTime))
	return registry, nil
}

// asLoadError keeps domain errors from the reader and wraps anything else as a fetch failure.
func asLoadError(source string, err error) error {
	if core.IsLoadError(err) {
		return err
	}
	return &core.FetchError{Source: source, Err: err}
}
