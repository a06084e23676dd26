package middleware

import (
	"net/http"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/pkg/logger"
)

// RequireCompany rejects sessions whose token carries no company. Every
// company-scoped backend path needs one.
func RequireCompany(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := internal.SessionFromContext(r.Context())
		if !ok {
			writeAppError(w, internal.ErrInvalidToken)
			return
		}
		if sess.CompanyID == "" {
			logger.From(r.Context()).Warn("Access denied: session has no company",
				"user_id", sess.UserID,
				"path", r.URL.Path)
			writeAppError(w, internal.ErrMissingCompany)
			return
		}
		next.ServeHTTP(w, r)
	})
}
