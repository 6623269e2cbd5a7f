package httpapi

import (
	"net/http"

	"github.com/GanizaniSitara/monikerd/internal/resolver"
)

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")
	caller := resolver.Caller{UserID: callerID(r.Context())}
	result, err := s.resolver.Describe(r.Context(), caller, path)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")
	caller := resolver.Caller{UserID: callerID(r.Context())}
	result, err := s.resolver.List(r.Context(), caller, path)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLineage(w http.ResponseWriter, r *http.Request) {
	path := r.PathValue("path")
	caller := resolver.Caller{UserID: callerID(r.Context())}
	result, err := s.resolver.Lineage(r.Context(), caller, path)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
