package middleware_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	chiMiddleware "github.com/go-chi/chi/middleware"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/interview-console/internal/transport/middleware"
	"github.com/frahmantamala/interview-console/pkg/logger"
)

func logLines(buf *bytes.Buffer) []map[string]interface{} {
	var lines []map[string]interface{}
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]interface{}
		Expect(json.Unmarshal([]byte(raw), &line)).To(Succeed())
		lines = append(lines, line)
	}
	return lines
}

var _ = Describe("LoggingMiddleware", func() {
	var (
		buf  *bytes.Buffer
		base *slog.Logger
	)

	BeforeEach(func() {
		buf = &bytes.Buffer{}
		base = slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	})

	It("masks sensitive headers and body fields", func() {
		handler := middleware.LoggingMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/interview-drafts", strings.NewReader(`{"candidate_id":"c1","nested":{"api_key":"k"},"token":"t"}`))
		req.Header.Set("Authorization", "Bearer secret-token")

		handler.ServeHTTP(httptest.NewRecorder(), req)

		lines := logLines(buf)
		Expect(lines).To(HaveLen(2))
		headers := lines[0]["headers"].(map[string]interface{})
		Expect(headers["Authorization"]).To(Equal("[FILTERED]"))
		Expect(lines[0]["body"]).To(ContainSubstring(`"token":"[FILTERED]"`))
		Expect(lines[0]["body"]).To(ContainSubstring(`"api_key":"[FILTERED]"`))
		Expect(lines[0]["body"]).To(ContainSubstring(`"candidate_id":"c1"`))
		Expect(buf.String()).NotTo(ContainSubstring("secret-token"))
		Expect(lines[1]["status_code"]).To(BeNumerically("==", http.StatusCreated))
	})

	It("keeps the request body readable for the handler", func() {
		var got string
		handler := middleware.LoggingMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b := new(bytes.Buffer)
			_, _ = b.ReadFrom(r.Body)
			got = b.String()
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPatch, "/x", strings.NewReader(`{"title":"a"}`)))

		Expect(got).To(Equal(`{"title":"a"}`))
	})

	It("logs failing response bodies at warn level", func() {
		handler := middleware.LoggingMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":"DRAFT_NOT_FOUND"}}`))
		}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

		lines := logLines(buf)
		Expect(lines[1]["level"]).To(Equal("WARN"))
		Expect(lines[1]["body"]).To(ContainSubstring("DRAFT_NOT_FOUND"))
	})

	It("skips health probes", func() {
		handler := middleware.LoggingMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		Expect(buf.Len()).To(BeZero())
	})
})

var _ = Describe("RequestID", func() {
	It("echoes the caller's trace id and tags the request logger", func() {
		buf := &bytes.Buffer{}
		base := slog.New(slog.NewJSONHandler(buf, nil))
		handler := chiMiddleware.RequestID(middleware.RequestID(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.From(r.Context()).Info("inside")
		})))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(middleware.TraceHeader, "trace-1")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		Expect(w.Header().Get(middleware.TraceHeader)).To(Equal("trace-1"))
		lines := logLines(buf)
		Expect(lines).To(HaveLen(1))
		Expect(lines[0]["trace_id"]).To(Equal("trace-1"))
		Expect(lines[0]["request_id"]).NotTo(BeEmpty())
	})

	It("mints a trace id when none is sent", func() {
		handler := middleware.RequestID(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Header().Get(middleware.TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("turns a panic into a 500", func() {
		base := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
		handler := middleware.RecoveryMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		}))
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(ContainSubstring("INTERNAL_ERROR"))
		Expect(w.Body.String()).NotTo(ContainSubstring("boom"))
	})
})

var _ = Describe("CORS", func() {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	It("allows listed origins", func() {
		handler := middleware.CORS("https://console.example.com, https://admin.example.com")(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://admin.example.com")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://admin.example.com"))
	})

	It("ignores other origins", func() {
		handler := middleware.CORS("https://console.example.com")(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(BeEmpty())
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("answers preflight requests directly", func() {
		handler := middleware.CORS("*")(next)
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://any.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://any.example.com"))
	})
})
