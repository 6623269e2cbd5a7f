package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/GanizaniSitara/monikerd/internal/resolver"
)

type healthResponse struct {
	Status string         `json:"status"`
	Nodes  int            `json:"nodes"`
	Cache  cacheStatusBody `json:"cache"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.registry.Stats()
	writeJSON(w, http.StatusOK, healthResponse{
		Status: "ok",
		Nodes:  stats.TotalNodes,
		Cache:  s.cacheStatus(),
	})
}

type metadataResponse struct {
	Path             string                 `json:"path"`
	Node             interface{}            `json:"node"`
	Ownership        map[string]interface{} `json:"ownership"`
	HasSourceBinding bool                   `json:"has_source_binding"`
}

func (s *Server) handleMetadata(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")
	caller := resolver.Caller{UserID: callerID(r.Context())}
	described, err := s.resolver.Describe(r.Context(), caller, path)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, metadataResponse{
		Path:             path,
		Node:             described.Node,
		Ownership:        described.Ownership,
		HasSourceBinding: described.HasSourceBinding,
	})
}

type treeResponse struct {
	Path     string   `json:"path"`
	Node     interface{} `json:"node,omitempty"`
	Children []string `json:"children"`
}

func (s *Server) handleTreeRoot(w http.ResponseWriter, r *http.Request) {
	s.renderTree(w, "")
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	s.renderTree(w, r.PathValue("path"))
}

func (s *Server) renderTree(w http.ResponseWriter, path string) {
	children := s.registry.Children(path)
	resp := treeResponse{Path: path, Children: children}
	if path != "" {
		if node, ok := s.registry.Lookup(path); ok && !node.Virtual {
			resp.Node = node
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type cacheStatusBody struct {
	Enabled bool `json:"enabled"`
	Size    int  `json:"size"`
}

func (s *Server) cacheStatus() cacheStatusBody {
	return cacheStatusBody{Enabled: s.cache.Enabled(), Size: s.cache.Size()}
}

func (s *Server) handleCacheStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cacheStatus())
}

func (s *Server) handleCacheRefresh(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")
	s.cache.Delete(path)
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated", "path": path})
}

// handleTelemetryAccess always returns 202: the engine has no telemetry
// sink of its own, it just accepts the event shape documented for callers
// that do wire one in.
func (s *Server) handleTelemetryAccess(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusAccepted)
}

type reloadResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Nodes   int    `json:"nodes"`
}

func (s *Server) handleConfigReload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	err := s.reloader.Reload(ctx)
	resp := reloadResponse{Success: err == nil, Nodes: s.registry.Stats().TotalNodes}
	if err != nil {
		resp.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
