package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/interview-console/api"
	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/transport/middleware"
)

var _ = Describe("OpenAPIValidator", func() {
	var (
		handler http.Handler
		reached bool
	)

	BeforeEach(func() {
		reached = false
		validator, err := middleware.OpenAPIValidator(api.OpenAPI, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
		Expect(err).NotTo(HaveOccurred())
		handler = validator(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = true
			w.WriteHeader(http.StatusOK)
		}))
	})

	serve := func(method, target, body string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	It("passes documented requests", func() {
		w := serve(http.MethodGet, "/api/v1/interviews?filter_by=deadline&page=2", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(reached).To(BeTrue())
	})

	DescribeTable("rejects requests outside the document",
		func(method, target, body string) {
			w := serve(method, target, body)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(errorCode(w)).To(Equal(string(internal.ErrCodeInvalidRequest)))
			Expect(reached).To(BeFalse())
		},
		Entry("unknown filter_by", http.MethodGet, "/api/v1/interviews?filter_by=created", ""),
		Entry("page below one", http.MethodGet, "/api/v1/interviews?page=0", ""),
		Entry("non numeric page", http.MethodGet, "/api/v1/interviews/dashboard?page=two", ""),
		Entry("unknown calendar view", http.MethodGet, "/api/v1/interviews/calendar?view=day", ""),
		Entry("missing role list", http.MethodPut, "/api/v1/company/users/cu-1/roles", `{}`),
		Entry("blank role id", http.MethodPost, "/api/v1/interview-drafts/6f1c2d3e-0000-4000-8000-000000000001/role-assignments", `{"role_id":""}`),
	)

	It("lets undocumented routes through", func() {
		w := serve(http.MethodGet, "/swagger/index.html", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(reached).To(BeTrue())
	})

	It("fails on an invalid document", func() {
		_, err := middleware.OpenAPIValidator([]byte("openapi: 3.0.3\npaths: 12"), slog.Default())
		Expect(err).To(HaveOccurred())
	})
})
