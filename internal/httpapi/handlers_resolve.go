package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/GanizaniSitara/monikerd/internal/resolver"
)

const maxBatchSize = 100

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	monikerStr := r.PathValue("path")
	if v, ok := s.cache.Get(monikerStr); ok {
		writeJSON(w, http.StatusOK, v)
		return
	}

	caller := resolver.Caller{UserID: callerID(r.Context())}
	result, err := s.resolver.Resolve(r.Context(), caller, monikerStr)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.cache.Set(monikerStr, result)
	writeJSON(w, http.StatusOK, result)
}

type batchRequest struct {
	Monikers []string `json:"monikers"`
}

type batchItem struct {
	Moniker string      `json:"moniker,omitempty"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (s *Server) handleResolveBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Detail: "invalid JSON body"})
		return
	}
	if len(req.Monikers) > maxBatchSize {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "bad_request", Detail: "batch exceeds 100 monikers"})
		return
	}

	caller := resolver.Caller{UserID: callerID(r.Context())}
	out := make([]batchItem, 0, len(req.Monikers))
	for _, m := range req.Monikers {
		result, err := s.resolver.Resolve(r.Context(), caller, m)
		if err != nil {
			out = append(out, batchItem{Moniker: m, Error: err.Error()})
			continue
		}
		out = append(out, batchItem{Result: result})
	}
	writeJSON(w, http.StatusOK, out)
}
