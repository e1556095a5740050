// Package server implements the prepdeck HTTP API on chi.
//
// The API serves stored courses and their roadmaps, model-written
// explanations, the interview category catalog, generated interview
// questions and answer evaluation. Errors are returned as
// {"error": message, "code": code} with a status derived from the code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/prepdeck/prepdeck/pkg/course"
	"github.com/prepdeck/prepdeck/pkg/generate"
	"github.com/prepdeck/prepdeck/pkg/interview"
	"github.com/prepdeck/prepdeck/pkg/pipeline"
	"github.com/prepdeck/prepdeck/pkg/store"
)

// Server holds the API backends.
type Server struct {
	runner   *pipeline.Runner
	store    store.Store
	service  *generate.Service
	bank     *interview.Bank
	catalog  course.Catalog
	metrics  http.Handler
	prefetch int
	logger   *log.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithBank serves interview questions from b. By default a bank is built
// on the runner's generator, when there is one.
func WithBank(b *interview.Bank) Option {
	return func(s *Server) { s.bank = b }
}

// WithCatalog replaces the built-in interview categories.
func WithCatalog(c course.Catalog) Option {
	return func(s *Server) { s.catalog = c }
}

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPrefetch sets how many explanations POST /courses/{key}/explanations
// requests concurrently.
func WithPrefetch(n int) Option {
	return func(s *Server) { s.prefetch = n }
}

// New creates a server on runner. Courses are kept in the runner's store,
// or in memory when it has none. Without a runner service the endpoints
// that need the model answer 503.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		store:    runner.Store,
		service:  runner.Service,
		catalog:  course.DefaultCatalog(),
		prefetch: generate.DefaultPrefetch,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
		runner.Store = s.store
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.bank == nil && s.service != nil {
		s.bank = interview.NewBank(s.service.Generator(), interview.WithBankLogger(s.logger))
	}
	return s
}

// ListenAndServe serves the API on addr until ctx is canceled, then shuts
// down, waiting up to shutdownTimeout for in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
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
	return srv.Shutdown(shutdownCtx)
}
