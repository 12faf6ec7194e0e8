// Package ui serves the chart: a gin server with the JSON API and pages, and a chi app
// that only hosts the embeddable chart.
package ui

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"barstack/internal"
	"barstack/internal/api"
	"barstack/internal/debounce"
	"barstack/internal/layout"
	"barstack/internal/selector"
	"barstack/ports"

	"github.com/gin-gonic/gin"
)

// Options configure rendering and resize handling.
type Options struct {
	Props          layout.Props
	DefaultWidth   float64
	ResizeDebounce time.Duration
	Logger         *internal.Logger
}

// Server represents the web server for the chart
type Server struct {
	router    *gin.Engine
	templates *template.Template
	selector  *selector.Selector
	loadErr   error
	hub       *api.SSEHub
	notifier  ports.HeightNotifier
	debouncer *debounce.Debouncer
	opts      Options
	logger    *internal.Logger
}

// NewServer creates the server. sel may be nil when loading failed, in which case loadErr
// is reported by every page and API call.
func NewServer(sel *selector.Selector, loadErr error, hub *api.SSEHub, opts Options) (*Server, error) {
	if sel == nil && loadErr == nil {
		return nil, fmt.Errorf("either a selector or a load error is required")
	}
	if opts.Logger == nil {
		opts.Logger = internal.DefaultLogger
	}
	if opts.DefaultWidth <= 0 {
		opts.DefaultWidth = 600
	}
	if len(opts.Props.Palette) == 0 {
		opts.Props = layout.DefaultProps()
	}
	if hub == nil {
		hub = api.NewSSEHub(opts.Logger)
	}

	templates, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	s := &Server{
		router:    gin.New(),
		templates: templates,
		selector:  sel,
		loadErr:   loadErr,
		hub:       hub,
		notifier:  hub,
		debouncer: debounce.New(opts.ResizeDebounce),
		opts:      opts,
		logger:    opts.Logger.With("Server"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/chart", s.requireDatasets(), s.handleChart)

	apiGroup := s.router.Group("/api")
	apiGroup.GET("/health", s.handleHealth)
	apiGroup.GET("/events", s.handleEvents)

	data := apiGroup.Group("", s.requireDatasets())
	data.GET("/datasets", s.handleListDatasets)
	data.GET("/datasets/:key", s.handleGetDataset)
	data.GET("/datasets/:key/summary", s.handleDatasetSummary)
	data.GET("/layout", s.handleLayout)
	data.GET("/tooltip", s.handleTooltip)
	data.PUT("/selection", s.handleSetSelection)
	data.POST("/viewport", s.handleViewport)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("starting chart server on http://%s", addr)
	return s.router.Run(addr)
}

// Close stops pending resize work.
func (s *Server) Close() {
	s.debouncer.Stop()
}
