// Package httpapi is the thin HTTP adapter over the resolver and catalog
// registry: route dispatch, request/response shaping, and centralized
// error-to-status mapping.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/GanizaniSitara/monikerd/internal/cache"
	"github.com/GanizaniSitara/monikerd/internal/catalog"
	"github.com/GanizaniSitara/monikerd/internal/loader"
	"github.com/GanizaniSitara/monikerd/internal/logging"
	"github.com/GanizaniSitara/monikerd/internal/resolver"
)

// Server is the HTTP surface over a resolver/registry/cache/reloader set.
type Server struct {
	registry *catalog.Registry
	resolver *resolver.Resolver
	reloader *loader.Reloader
	cache    *cache.Cache

	httpServer *http.Server
}

// Config holds the HTTP server's own settings, distinct from the engine's.
type Config struct {
	Addr         string
	DrainTimeout time.Duration
}

// NewServer wires a Server and its route table.
func NewServer(cfg Config, registry *catalog.Registry, res *resolver.Resolver, rel *loader.Reloader, c *cache.Cache) *Server {
	s := &Server{registry: registry, resolver: res, reloader: rel, cache: c}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	s.httpServer = &http.Server{
		Addr:    cfg.Addr,
		Handler: withRequestContext(mux),
	}
	return s
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /resolve/{path...}", s.handleResolve)
	mux.HandleFunc("POST /resolve/batch", s.handleResolveBatch)

	mux.HandleFunc("GET /describe/{path...}", s.handleDescribe)
	mux.HandleFunc("GET /list/{path...}", s.handleList)
	mux.HandleFunc("GET /lineage/{path...}", s.handleLineage)

	mux.HandleFunc("GET /catalog", s.handleCatalogList)
	mux.HandleFunc("GET /catalog/search", s.handleCatalogSearch)
	mux.HandleFunc("GET /catalog/stats", s.handleCatalogStats)
	mux.HandleFunc("PUT /catalog/{rest...}", s.handleCatalogStatusUpdate)
	mux.HandleFunc("GET /catalog/{rest...}", s.handleCatalogAudit)

	mux.HandleFunc("GET /metadata/{path...}", s.handleMetadata)
	mux.HandleFunc("GET /tree", s.handleTreeRoot)
	mux.HandleFunc("GET /tree/{path...}", s.handleTree)

	mux.HandleFunc("GET /cache/status", s.handleCacheStatus)
	mux.HandleFunc("POST /cache/refresh/{path...}", s.handleCacheRefresh)

	mux.HandleFunc("POST /telemetry/access", s.handleTelemetryAccess)
	mux.HandleFunc("POST /config/reload", s.handleConfigReload)

	mux.HandleFunc("GET /ui", s.handleUI)
}

// ListenAndServe blocks serving HTTP until the server is shut down.
func (s *Server) ListenAndServe() error {
	logging.Get(logging.CategoryHTTPAPI).Infow("listening", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops accepting new ones, bounded
// by ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
