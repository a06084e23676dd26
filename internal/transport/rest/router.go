package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/interview-console/api"
	"github.com/frahmantamala/interview-console/internal/company"
	"github.com/frahmantamala/interview-console/internal/draft"
	"github.com/frahmantamala/interview-console/internal/interview"
	"github.com/frahmantamala/interview-console/internal/transport/middleware"
	"github.com/frahmantamala/interview-console/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

type Handlers struct {
	Interview *interview.Handler
	Draft     *draft.Handler
	Company   *company.Handler
}

type Options struct {
	AllowedOrigins string
	// Validator checks requests against the OpenAPI document; nil skips it.
	Validator func(http.Handler) http.Handler
	Checks    map[string]Pinger
	Now       func() time.Time
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(opts.Checks)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(api.OpenAPI)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Group(func(pr chi.Router) {
			pr.Use(middleware.Authenticate(logger, opts.Now))
			pr.Use(middleware.RequireCompany)
			if opts.Validator != nil {
				pr.Use(opts.Validator)
			}

			if h.Interview != nil {
				pr.Route("/interviews", h.Interview.Routes)
				pr.Get("/candidates/{id}/interviews", h.Interview.CandidateInterviews)
			}

			pr.Route("/company", func(cr chi.Router) {
				if h.Company != nil {
					cr.Get("/users", h.Company.GetUsers)
					cr.Put("/users/{id}/roles", h.Company.UpdateUserRoles)
					cr.Get("/roles", h.Company.GetRoles)
				}
				if h.Interview != nil {
					cr.Get("/eligible-interviewers", h.Interview.EligibleInterviewers)
				}
			})

			if h.Draft != nil {
				pr.Route("/interview-drafts", h.Draft.Routes)
			}
		})
	})
}
