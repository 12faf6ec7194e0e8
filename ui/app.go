package ui

import (
	"bytes"
	"net/http"

	"barstack/domain/core"
	internaldataset "barstack/internal/dataset"
	apperrors "barstack/internal/errors"
	"barstack/internal/layout"
	"barstack/internal/render"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// App serves only the embeddable chart pages, without the JSON API or live resizing.
type App struct {
	router   *chi.Mux
	registry *internaldataset.Registry
	opts     Options
}

// NewApp creates the embed app over a loaded registry.
func NewApp(registry *internaldataset.Registry, opts Options) *App {
	if opts.DefaultWidth <= 0 {
		opts.DefaultWidth = 600
	}
	if len(opts.Props.Palette) == 0 {
		opts.Props = layout.DefaultProps()
	}
	app := &App{
		router:   chi.NewRouter(),
		registry: registry,
		opts:     opts,
	}

	app.setupMiddleware()
	app.setupRoutes()
	return app
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures HTTP routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.handleFirst)
	a.router.Get("/embed/{key}", a.handleEmbed)
}

// ServeHTTP implements http.Handler
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *App) handleFirst(w http.ResponseWriter, r *http.Request) {
	key := a.registry.First()
	if key == "" {
		http.Error(w, "no datasets loaded", http.StatusServiceUnavailable)
		return
	}
	a.serveChart(w, r, key)
}

func (a *App) handleEmbed(w http.ResponseWriter, r *http.Request) {
	a.serveChart(w, r, chi.URLParam(r, "key"))
}

func (a *App) serveChart(w http.ResponseWriter, r *http.Request, key string) {
	entry, err := a.registry.Get(key)
	if err != nil {
		http.Error(w, err.Error(), apperrors.HTTPStatus(err))
		return
	}

	width, err := parseWidth(r.URL.Query().Get("width"), a.opts.DefaultWidth)
	if err != nil {
		http.Error(w, err.Error(), apperrors.HTTPStatus(err))
		return
	}

	l, err := layout.Compute(entry.Data, entry.Metadata, width, a.opts.Props)
	if err != nil {
		http.Error(w, err.Error(), apperrors.HTTPStatus(err))
		return
	}

	var buf bytes.Buffer
	if err := render.RenderPage(&buf, entry, l, render.PageOptions{SessionID: core.NewSessionID()}); err != nil {
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
