// Package server exposes the administration surface as a JSON HTTP API.
//
// The API owns no session state: every request names its schema and table
// explicitly. Destructive operations are two-step; see confirm.go.
package server

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/dbdeck-io/dbdeck/internal/admin"
)

// Server serves the dbdeck HTTP API.
type Server struct {
	svc      *admin.Service
	logger   *slog.Logger
	addr     string
	confirms *confirmStore
}

// Config holds server configuration.
type Config struct {
	Service *admin.Service
	Addr    string
	Logger  *slog.Logger
	// ConfirmTTL bounds how long a destructive-operation confirmation token
	// stays valid. Zero means the one-minute default.
	ConfirmTTL time.Duration
}

// New creates a server. A nil logger means discard.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	ttl := cfg.ConfirmTTL
	if ttl == 0 {
		ttl = time.Minute
	}
	return &Server{
		svc:      cfg.Service,
		logger:   logger,
		addr:     cfg.Addr,
		confirms: newConfirmStore(ttl),
	}
}

// Router builds the chi router with all API routes mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/schemas", s.handleSchemas)
		r.Post("/schemas/refresh", s.handleRefresh)

		r.Route("/schemas/{schema}", func(r chi.Router) {
			r.Get("/tables", s.handleTables)
			r.Get("/tables/{table}", s.handleDescribe)
			r.Get("/tables/{table}/rows", s.handleFetchPage)
			r.Post("/tables/{table}/rows", s.handleReconcile)
			r.Get("/export", s.handleExport)
			r.Get("/export.json", s.handleExportJSON)
			r.Post("/truncate", s.handleTruncate)
			r.Post("/drop", s.handleDrop)
		})
	})

	return r
}

// Serve runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting API server", "addr", s.addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.Router(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
