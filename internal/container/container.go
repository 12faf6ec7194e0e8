package container

import (
	"context"
	"fmt"

	"barstack/adapters/source"
	"barstack/domain/dataset"
	"barstack/internal"
	"barstack/internal/api"
	"barstack/internal/config"
	internaldataset "barstack/internal/dataset"
	"barstack/internal/errors"
	"barstack/internal/selector"
	"barstack/ports"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Data loading
	Reader   ports.SourceReader
	Loader   *internaldataset.Loader
	Metadata []dataset.Metadata
	Registry *internaldataset.Registry

	// Chart state
	Selector *selector.Selector
	SSEHub   *api.SSEHub

	// LoadErr is the initialization failure, if any. The server reports it instead of
	// serving a partial chart.
	LoadErr error
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	reader := source.NewReader(cfg.Data.FetchTimeout)
	return &Container{
		Config: cfg,
		Logger: logger,
		Reader: reader,
		Loader: internaldataset.NewLoader(reader, logger),
	}, nil
}

// WithReader swaps the source reader before LoadDatasets runs.
func (c *Container) WithReader(reader ports.SourceReader) *Container {
	c.Reader = reader
	c.Loader = internaldataset.NewLoader(reader, c.Logger)
	return c
}

// LoadDatasets reads the manifest and loads every dataset. The failure is also kept in
// LoadErr so a server can still start and report it.
func (c *Container) LoadDatasets(ctx context.Context) error {
	metas, err := config.LoadManifest(c.Config.Data.ManifestPath)
	if err != nil {
		c.LoadErr = err
		return err
	}
	c.Metadata = metas

	registry, err := c.Loader.Load(ctx, metas)
	if err != nil {
		c.LoadErr = errors.Wrap(err, "failed to load datasets")
		return c.LoadErr
	}

	c.Registry = registry
	c.Selector = selector.New(registry)
	c.LoadErr = nil
	return nil
}

// InitSSE starts the hub that carries height updates to embedding pages.
func (c *Container) InitSSE() *api.SSEHub {
	if c.SSEHub == nil {
		c.SSEHub = api.NewSSEHub(c.Logger)
	}
	return c.SSEHub
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.SSEHub != nil {
		c.SSEHub.Close()
	}
	return nil
}
