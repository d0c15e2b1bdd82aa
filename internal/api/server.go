// Package api serves the catalog over HTTP as JSON.
//
// Routes mirror the catalog operations. Category paths may contain
// slashes, so every route under a category is matched by one wildcard
// handler that splits the path on its "feeds" and "entries" segments.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/feedtree/pkg/catalog"
)

// DefaultShutdownTimeout bounds how long Serve waits for in-flight
// requests once its context is cancelled.
const DefaultShutdownTimeout = 10 * time.Second

// Server is the HTTP front end of a catalog.
type Server struct {
	catalog *catalog.Catalog
	logger  *log.Logger
	router  chi.Router

	// ShutdownTimeout overrides DefaultShutdownTimeout when positive.
	ShutdownTimeout time.Duration
}

// New creates a Server for c. A nil logger uses log.Default().
func New(c *catalog.Catalog, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{catalog: c, logger: logger}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/feeds/", s.handleListFeeds)
	r.Post("/feeds/", s.handleAdd)
	r.Delete("/feeds/{feedID}/", s.handleDeleteFeed)
	r.Get("/feeds/{feedID}/entries/", s.handleListEntries)
	r.Get("/feeds/{feedID}/entries/{entryID}/", s.handleGetEntry)
	r.HandleFunc("/*", s.handleCategory)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not-found", Message: "no such route"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method-not-allowed", Message: r.Method + " is not allowed here"})
	})
	return r
}

// Serve listens on addr and serves until ctx is cancelled, then shuts
// down gracefully. ready, when non-nil, receives the bound address once
// the listener is open.
func (s *Server) Serve(ctx context.Context, addr string, ready func(net.Addr)) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	if ready != nil {
		ready(listener.Addr())
	}

	server := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.logger.Info("http server listening", "addr", listener.Addr().String())

	serveDone := make(chan error, 1)
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveDone <- err
		}
		close(serveDone)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("http server shutting down")
	case err := <-serveDone:
		return err
	}

	timeout := s.ShutdownTimeout
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
