package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/session"
	"github.com/frahmantamala/interview-console/pkg/logger"
)

// Authenticate decodes the bearer token into a Session and stores it in the
// request context. Requests without a usable token get 401.
func Authenticate(lg *slog.Logger, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAppError(w, internal.NewUnauthorizedError("Missing bearer token", internal.ErrCodeInvalidToken))
				return
			}

			sess, err := session.Decode(token, now())
			if err != nil {
				lg.Warn("rejected bearer token", "error", err, "path", r.URL.Path)
				writeAppError(w, internal.ErrInvalidToken)
				return
			}

			ctx := internal.ContextWithSession(r.Context(), sess)
			ctx = logger.With(ctx, "user_id", sess.UserID, "company_id", sess.CompanyID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func writeAppError(w http.ResponseWriter, appErr *internal.AppError) {
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
