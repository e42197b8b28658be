// Package server exposes the scene pipeline over HTTP.
//
// Routes:
//
//	GET /healthz                      liveness probe
//	GET /version                      build information
//	GET /metrics                      Prometheus metrics (when enabled)
//	GET /v1/rows/{count}              Meru Prastara rows
//	GET /v1/patterns/{length}         Pingala patterns
//	GET /v1/tree                      binomial tree layout and labels
//	GET /v1/scenes/{kind}.{format}    any scene in any artifact format
//	GET /v1/store/scenes              saved scene summaries
//	GET /v1/store/scenes/{id}         one saved scene
//
// Every /v1 route reads its parameters from the query string and accepts
// ?format= to choose the artifact (json by default). Errors are returned
// as JSON objects carrying the error code and message.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/meru/pkg/pipeline"
	"github.com/matzehuels/meru/pkg/store"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests.
const ShutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Gatherer serves /metrics. Nil disables the route.
	Gatherer prometheus.Gatherer
}

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	opts   Options
}

// New creates a server backed by runner. The store may be nil, in which
// case the /v1/store routes answer 404.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{
		runner: runner,
		store:  st,
		logger: logger,
		opts:   opts,
	}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	if s.opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/rows/{count}", s.handleRows)
		r.Get("/patterns/{length}", s.handlePatterns)
		r.Get("/tree", s.handleTree)
		r.Get("/scenes/{kind}.{format}", s.handleScene)

		r.Route("/store/scenes", func(r chi.Router) {
			r.Get("/", s.handleStoreList)
			r.Get("/{id}", s.handleStoreGet)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Code: "NOT_FOUND", Message: "no route for " + r.URL.Path})
	})
	return r
}

// Run listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("graceful shutdown did not complete", "timeout", ShutdownTimeout, "error", err)
			return srv.Close()
		}
		return nil
	}
}
