// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness
//	GET  /version          build information
//	POST /v1/compute       {nodes, edges, spacing_factor} -> {id: {x, y}}
//	POST /v1/layout        graph JSON or BPMN -> layout JSON
//	POST /v1/bpmn/layout   BPMN XML -> BPMN XML with diagram interchange
//	POST /v1/render        graph JSON or BPMN -> one rendered artifact
//	GET  /metrics          Prometheus metrics, when enabled
//
// Layout and render options are taken from query parameters and fall back to
// the server's configured defaults. Errors are JSON objects of the form
// {"code": "...", "message": "..."}.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/bpmnlayout/internal/config"
	"github.com/matzehuels/bpmnlayout/pkg/pipeline"
)

const shutdownTimeout = 30 * time.Second

// Server routes HTTP requests to a pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	cfg      config.ServerConfig
	logger   *log.Logger
	metrics  prometheus.Gatherer
	router   chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics serves the gatherer's metrics on /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.metrics = g }
}

// WithDefaults sets the pipeline options requests start from.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// New builds a server around runner.
func New(runner *pipeline.Runner, cfg config.ServerConfig, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = config.Default().Server.MaxBodyBytes
	}
	s := &Server{
		runner: runner,
		cfg:    cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.bodyLimit(s.cfg.MaxBodyBytes))
		r.Post("/compute", s.handleCompute)
		r.Post("/layout", s.handleLayout)
		r.Post("/bpmn/layout", s.handleBPMNLayout)
		r.Post("/render", s.handleRender)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, r, errNotFound(r.URL.Path))
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:        s,
		ReadTimeout:    s.cfg.ReadTimeout,
		WriteTimeout:   s.cfg.WriteTimeout,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
		BaseContext:    func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
