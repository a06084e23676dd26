package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/interview-console/internal/transport/rest"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

var _ = Describe("Router", func() {
	var (
		router *chi.Mux
		checks map[string]rest.Pinger
	)

	BeforeEach(func() {
		checks = map[string]rest.Pinger{
			"backend": stubPinger{},
			"drafts":  stubPinger{},
		}
	})

	JustBeforeEach(func() {
		router = chi.NewRouter()
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		rest.RegisterAllRoutes(router, rest.Handlers{}, rest.Options{AllowedOrigins: "*", Checks: checks}, logger)
	})

	get := func(target string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		return w
	}

	It("answers the liveness probe", func() {
		w := get("/api/v1/ping")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"OK"`))
	})

	It("reports healthy dependencies", func() {
		w := get("/api/v1/health")

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp rest.HealthResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Status).To(Equal(rest.HealthHealthy))
		Expect(resp.Components).To(HaveKey("backend"))
		Expect(resp.Components).To(HaveKey("drafts"))
	})

	Context("when a dependency fails", func() {
		BeforeEach(func() {
			checks["drafts"] = stubPinger{err: errors.New("connection refused")}
		})

		It("answers 503 and names the failing component", func() {
			w := get("/api/v1/health")

			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
			var resp rest.HealthResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.Status).To(Equal(rest.HealthUnhealthy))
			Expect(resp.Components["drafts"].Status).To(Equal(rest.HealthUnhealthy))
			Expect(resp.Components["drafts"].Message).To(Equal("connection refused"))
			Expect(resp.Components["backend"].Status).To(Equal(rest.HealthHealthy))
		})
	})

	It("serves the OpenAPI document", func() {
		w := get("/openapi.yml")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Interview Console API"))
	})

	It("protects the API behind a bearer token", func() {
		w := get("/api/v1/company/eligible-interviewers")

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
