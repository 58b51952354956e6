// Package server exposes the internal status and health endpoint. It is an
// ops surface only; feed management and subscriptions live elsewhere.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/feedmailer/feedmailer/pkg/domain"
	"github.com/feedmailer/feedmailer/pkg/scheduler"
)

//go:generate moq -out mocks/liststore.go -pkg mocks -skip-ensure -fmt goimports . ListStore
//go:generate moq -out mocks/stats.go -pkg mocks -skip-ensure -fmt goimports . StatsProvider

// ListStore is the subset of list-store operations the status endpoint needs
type ListStore interface {
	Ping(ctx context.Context) error
	ActiveFeeds(ctx context.Context) ([]domain.Feed, error)
}

// StatsProvider reports the last completed poll cycle
type StatsProvider interface {
	Stats() scheduler.CycleStats
}

// Server represents the status HTTP server instance
type Server struct {
	store   ListStore
	stats   StatsProvider
	listen  string
	timeout time.Duration
	version string
	debug   bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// New initializes a new server instance
func New(store ListStore, stats StatsProvider, listen string, timeout time.Duration, version string, debug bool) *Server {
	s := &Server{
		store:   store,
		stats:   stats,
		listen:  listen,
		timeout: timeout,
		version: version,
		debug:   debug,
		router:  routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	lgr.Printf("[INFO] starting status server on %s", s.listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         s.listen,
		Handler:      s.router,
		ReadTimeout:  s.timeout,
		WriteTimeout: s.timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down status server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("feedmailer", "feedmailer", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /health", s.healthHandler)
		r.HandleFunc("GET /status", s.statusHandler)
	})
}

// healthHandler checks list-store reachability; unhealthy yields 503
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
	}

	if err := s.store.Ping(r.Context()); err != nil {
		lgr.Printf("[WARN] list-store health check failed: %v", err)
		health["status"] = "unhealthy"
		health["error"] = err.Error()
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	renderJSON(w, health)
}

// statusHandler returns engine status: version, feed count and last cycle
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"status":     "ok",
		"version":    s.version,
		"time":       time.Now().UTC(),
		"last_cycle": s.stats.Stats(),
	}

	feeds, err := s.store.ActiveFeeds(r.Context())
	if err != nil {
		lgr.Printf("[WARN] failed to count feeds for status: %v", err)
		status["feeds"] = "unavailable"
	} else {
		status["feeds"] = len(feeds)
	}

	renderJSON(w, status)
}

func renderJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		lgr.Printf("[WARN] failed to encode response: %v", err)
	}
}
