// Package server exposes the analysis pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz              liveness and build version
//	GET  /v1/params/default    the parameter set requests start from
//	POST /v1/analyze           analyze a sliced object, returns a report
//
// Every response carries an X-Request-ID header; a client supplied id is
// kept, otherwise a random UUID is assigned.
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

	"github.com/matzehuels/stabilizer/pkg/pipeline"
	"github.com/matzehuels/stabilizer/pkg/stability"
)

// Defaults for Config.
const (
	DefaultMaxBodyBytes = 64 << 20
	DefaultTimeout      = 5 * time.Minute
	shutdownTimeout     = 10 * time.Second
)

// Config tunes the server.
type Config struct {
	// Params is the base parameter set. Requests override single fields.
	Params stability.Params

	// MaxBodyBytes limits the request body. Zero means DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Timeout bounds a single analysis. Zero means DefaultTimeout.
	Timeout time.Duration

	// Workers is passed to every analysis.
	Workers int
}

// Server routes API requests to a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	cfg    Config
	logger *log.Logger
	router chi.Router
}

// New builds the router. A nil logger uses the runner's.
func New(runner *pipeline.Runner, cfg Config, logger *log.Logger) *Server {
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{runner: runner, cfg: cfg, logger: logger}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.instrument)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/params/default", s.handleDefaultParams)
		r.With(middleware.AllowContentType("application/json")).Post("/analyze", s.handleAnalyze)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
