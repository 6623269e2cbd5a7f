package httpapi

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/GanizaniSitara/monikerd/internal/logging"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	callerIDKey  contextKey = "caller_id"
)

// withRequestContext stamps every request with a correlation ID and the
// caller identity observed (but never enforced) from X-User-ID.
func withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := uuid.NewString()
		caller := r.Header.Get("X-User-ID")
		if caller == "" {
			caller = "anonymous"
		}

		ctx := context.WithValue(r.Context(), requestIDKey, reqID)
		ctx = context.WithValue(ctx, callerIDKey, caller)
		w.Header().Set("X-Request-ID", reqID)

		logging.Get(logging.CategoryHTTPAPI).Infow("request",
			"request_id", reqID, "caller", caller, "method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

func callerID(ctx context.Context) string {
	if v, ok := ctx.Value(callerIDKey).(string); ok {
		return v
	}
	return "anonymous"
}
