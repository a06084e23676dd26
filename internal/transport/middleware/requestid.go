package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/interview-console/pkg/logger"
	chiMiddleware "github.com/go-chi/chi/middleware"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

// RequestID propagates the caller's trace id, or mints one, and stores a
// request logger tagged with it. It runs after chi's RequestID.
func RequestID(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(TraceHeader)
			if traceID == "" {
				traceID = uuid.NewString()
			}

			lg := base.With("trace_id", traceID, "request_id", chiMiddleware.GetReqID(r.Context()))
			w.Header().Set(TraceHeader, traceID)

			next.ServeHTTP(w, r.WithContext(logger.Into(r.Context(), lg)))
		})
	}
}
