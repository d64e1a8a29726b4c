// Package webserver runs the HTTP server behind `callreview serve`.
package webserver

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cs4273g/callreview/internal/store"
	"github.com/cs4273g/callreview/internal/webapi"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port   int
	Store  *store.AggregateStore
	Bus    *store.Bus
	Logger *slog.Logger
}

// Server wraps the HTTP server with its store reader.
type Server struct {
	cfg    Config
	srv    *http.Server
	reader *webapi.StoreReader
	logger *slog.Logger
}

// New creates a server over the given aggregate store.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Port == 0 {
		cfg.Port = 3000
	}

	reader := webapi.NewStoreReader(cfg.Store)
	mux := http.NewServeMux()
	webapi.RegisterRoutes(mux, reader)

	return &Server{
		cfg:    cfg,
		reader: reader,
		logger: cfg.Logger,
		srv: &http.Server{
			Addr:              fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:           webapi.CORSMiddleware(mux, "http://localhost:3000"),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the underlying http.Handler (useful for testing).
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Serve runs the listener alongside a change-bus watcher that keeps the
// reader's cache honest, until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("HTTP server starting", "address", s.srv.Addr)

	g, ctx := errgroup.WithContext(ctx)

	if s.cfg.Bus != nil {
		changes := s.cfg.Bus.Subscribe()
		g.Go(func() error {
			s.reader.Watch(ctx, changes)
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	return g.Wait()
}
