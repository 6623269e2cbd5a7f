package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/GanizaniSitara/monikerd/internal/loader"
	"github.com/GanizaniSitara/monikerd/internal/moniker"
	"github.com/GanizaniSitara/monikerd/internal/resolver"
)

// errorBody is the shape every error response renders: {error, detail,
// ...contextual fields}.
type errorBody struct {
	Error         string `json:"error"`
	Detail        string `json:"detail"`
	RequestID     string `json:"request_id,omitempty"`
	EstimatedRows int64  `json:"estimated_rows,omitempty"`
}

// writeError maps an error from the moniker/resolver/loader ladder to its
// HTTP status and renders the standard error body, tagged with the
// request's correlation ID so a caller can cross-reference server logs.
// Anything unrecognized is treated as an InternalError (500).
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := requestID(r.Context())
	status := http.StatusInternalServerError
	body := errorBody{Error: "internal_error", Detail: err.Error(), RequestID: reqID}

	if errors.Is(err, context.Canceled) {
		writeJSON(w, 499, errorBody{Error: "client_closed_request", Detail: err.Error(), RequestID: reqID})
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		writeJSON(w, http.StatusGatewayTimeout, errorBody{Error: "deadline_exceeded", Detail: err.Error(), RequestID: reqID})
		return
	}

	switch e := err.(type) {
	case *moniker.ParseError:
		status = http.StatusBadRequest
		body.Error = "parse_error"
	case *resolver.ResolutionError:
		status = http.StatusBadRequest
		body.Error = "resolution_error"
	case *resolver.NotFoundError:
		status = http.StatusNotFound
		body.Error = "not_found"
	case *resolver.AccessDeniedError:
		status = http.StatusForbidden
		body.Error = "access_denied"
		body.EstimatedRows = e.EstimatedRows
	case *loader.LoadError:
		status = http.StatusInternalServerError
		body.Error = "load_error"
	}

	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
