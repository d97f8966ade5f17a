// Package server exposes the card pipeline and the card store over HTTP.
//
// Routes:
//
//	GET    /healthz                 liveness probe
//	POST   /render                  render an inline card
//	GET    /cards                   list stored cards
//	POST   /cards                   store a card under a new id
//	GET    /cards/{id}              fetch a stored card
//	PUT    /cards/{id}              create or replace a stored card
//	DELETE /cards/{id}              delete a stored card
//	GET    /cards/{id}/render       render a stored card
//	GET    /settings/{group}        enumerate a settings group
//
// Render endpoints answer with the artifact itself. The output format comes
// from the format query parameter (svg, png, pdf or json; default svg).
// Every response carries an X-Request-ID header.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/advancecard/pkg/pipeline"
	"github.com/matzehuels/advancecard/pkg/store"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 4 << 20

// Server serves the card API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server. A nil store selects an in-memory store and a nil
// logger selects log.Default().
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if st == nil {
		st = store.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, store: st, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Post("/render", s.handleRender)
	r.Route("/cards", func(r chi.Router) {
		r.Get("/", s.handleListCards)
		r.Post("/", s.handleCreateCard)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetCard)
			r.Put("/", s.handlePutCard)
			r.Delete("/", s.handleDeleteCard)
			r.Get("/render", s.handleRenderCard)
		})
	})
	r.Get("/settings/{group}", s.handleSettings)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
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
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
