package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/GanizaniSitara/monikerd/internal/catalog"
)

const defaultCatalogLimit = 100
const maxCatalogLimit = 1000

type catalogListResponse struct {
	Paths      []string `json:"paths"`
	Total      int      `json:"total"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

func (s *Server) handleCatalogList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := defaultCatalogLimit
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxCatalogLimit {
		limit = maxCatalogLimit
	}
	offset := 0
	if v := q.Get("cursor"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	paths, total := s.registry.List("", offset, limit)
	resp := catalogListResponse{Paths: paths, Total: total}
	if offset+len(paths) < total {
		resp.NextCursor = strconv.Itoa(offset + len(paths))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCatalogSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := q.Get("q")
	limit := defaultCatalogLimit
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxCatalogLimit {
		limit = maxCatalogLimit
	}
	writeJSON(w, http.StatusOK, s.registry.Search(query, limit))
}

func (s *Server) handleCatalogStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.registry.Stats())
}

type statusUpdateRequest struct {
	Status catalog.NodeStatus `json:"status"`
}

var validStatuses = map[catalog.NodeStatus]bool{
	catalog.StatusDraft: true, catalog.StatusPendingReview: true, catalog.StatusApproved: true,
	catalog.StatusActive: true, catalog.StatusDeprecated: true, catalog.StatusArchived: true,
}

// handleCatalogStatusUpdate mutates a node's status directly on the live
// snapshot. Because the next hot reload rebuilds the snapshot wholesale,
// this change does not survive a reload; it is an administrative
// best-effort override, not a persisted write.
func (s *Server) handleCatalogStatusUpdate(w http.ResponseWriter, r *http.Request) {
	rest := r.PathValue("rest")
	path, ok := strings.CutSuffix(rest, "/status")
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Detail: "unknown route"})
		return
	}

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !validStatuses[req.Status] {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Detail: "status must be one of the recognized lifecycle values"})
		return
	}

	node, ok := s.registry.Lookup(path)
	if !ok || node.Virtual {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Detail: "no node registered at this path"})
		return
	}

	updated := *node
	updated.Status = req.Status
	s.registry.Upsert(&updated)

	writeJSON(w, http.StatusOK, &updated)
}

type auditEntry struct {
	Timestamp string `json:"timestamp"`
	Actor     string `json:"actor"`
	Action    string `json:"action"`
}

// handleCatalogAudit always returns an empty, typed list: the engine
// records no audit trail of its own (that lives in the governance write
// path), but the route shape is part of the documented surface.
func (s *Server) handleCatalogAudit(w http.ResponseWriter, r *http.Request) {
	rest := r.PathValue("rest")
	path, ok := strings.CutSuffix(rest, "/audit")
	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not_found", Detail: "unknown route"})
		return
	}
	_, _ = s.registry.Lookup(path)
	writeJSON(w, http.StatusOK, []auditEntry{})
}
