// Package server provides the HTTP API for the component catalog.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/uidex/uidex/internal/config"
	"github.com/uidex/uidex/internal/embedding"
	"github.com/uidex/uidex/internal/mcp"
	"github.com/uidex/uidex/internal/metrics"
	"github.com/uidex/uidex/internal/search"
	"github.com/uidex/uidex/internal/storage"
)

// Server is the HTTP front-end. It exposes the REST API, health and status
// probes, the Prometheus endpoint, and the MCP JSON-RPC bridge.
type Server struct {
	service    *search.Service
	store      storage.Storage
	bridge     *mcp.Bridge
	embedCache *embedding.Cached
	cfg        *config.Config
	logger     *zap.Logger
	version    string
	server     *http.Server
}

// NewServer creates a server with the given dependencies. bridge and
// embedCache may be nil; the corresponding routes and status fields are then
// omitted.
func NewServer(
	service *search.Service,
	store storage.Storage,
	bridge *mcp.Bridge,
	embedCache *embedding.Cached,
	cfg *config.Config,
	logger *zap.Logger,
	version string,
) *Server {
	return &Server{
		service:    service,
		store:      store,
		bridge:     bridge,
		embedCache: embedCache,
		cfg:        cfg,
		logger:     logger,
		version:    version,
	}
}

// Router builds the chi router with all middleware and routes.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(chimiddleware.Compress(5))
	if s.cfg.Metrics.EnabledOrDefault() {
		r.Use(metrics.Middleware)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/components", s.handleComponents)
		r.Get("/components/suggest", s.handleSuggest)
		r.Get("/components/popular", s.handlePopular)
		r.Get("/components/{namespace}/{name}", s.handleGetComponent)
		r.Get("/status", s.handleStatus)
	})
	r.Get("/health", s.handleHealth)
	if s.cfg.Metrics.EnabledOrDefault() {
		r.Handle("/metrics", promhttp.Handler())
	}
	if s.bridge != nil {
		r.Post("/mcp", s.bridge.ServeHTTP)
		r.Get("/mcp/health", s.bridge.HandleHealth)
	}

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("starting server", zap.String("addr", addr), zap.String("version", s.version))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
