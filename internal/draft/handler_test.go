package draft_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/company"
	"github.com/frahmantamala/interview-console/internal/draft"
	"github.com/frahmantamala/interview-console/internal/interview"
	"github.com/frahmantamala/interview-console/internal/transport"
)

type errorBody struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

var _ = Describe("Draft Handler", func() {
	var (
		router chi.Router
		sess   internal.Session
		store  *draft.MemoryStore
	)

	withSession := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(internal.ContextWithSession(r.Context(), sess)))
		})
	}

	do := func(method, target, body string) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, target, reader)
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decodeView := func(w *httptest.ResponseRecorder) draft.View {
		var view draft.View
		Expect(json.NewDecoder(w.Body).Decode(&view)).To(Succeed())
		return view
	}

	decodeError := func(w *httptest.ResponseRecorder) errorBody {
		var body errorBody
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		return body
	}

	open := func() string {
		w := do(http.MethodPost, "/interview-drafts", "")
		Expect(w.Code).To(Equal(http.StatusCreated))
		return decodeView(w).ID
	}

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store = draft.NewMemoryStore()
		dir := &MockDirectory{
			users: []company.User{user("U1", "R1"), user("U2", "R2")},
			roles: []company.Role{{ID: "R1", Name: "Tech"}, {ID: "R2", Name: "HR"}},
		}
		svc := draft.NewService(store, NewMockGateway(), dir, &MockPublisher{}, draft.Config{TTL: time.Hour, Location: time.UTC}, logger)
		handler := draft.NewHandler(transport.NewBaseHandler(logger), svc)
		sess = internal.Session{Token: "t", CompanyID: "C1", UserID: "owner"}

		r := chi.NewRouter()
		r.Use(withSession)
		r.Route("/interview-drafts", handler.Routes)
		router = r
	})

	It("opens a draft from an empty body", func() {
		w := do(http.MethodPost, "/interview-drafts", "")

		Expect(w.Code).To(Equal(http.StatusCreated))
		view := decodeView(w)
		Expect(view.ID).NotTo(BeEmpty())
		Expect(view.Form.Mode).To(Equal(interview.FormModeCreate))
		Expect(view.Warnings).NotTo(BeNil())
	})

	It("opens a prefilled draft", func() {
		w := do(http.MethodPost, "/interview-drafts", `{"candidate_id":"cand-1"}`)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(decodeView(w).Form.CandidateID).To(Equal("cand-1"))
	})

	It("rejects malformed bodies", func() {
		w := do(http.MethodPost, "/interview-drafts", `{"candidate_id":`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("patches fields in the local timezone", func() {
		id := open()

		w := do(http.MethodPatch, "/interview-drafts/"+id, `{"scheduled_at":"2024-03-05T10:30","interview_type":"HR"}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		view := decodeView(w)
		Expect(view.Form.ScheduledAt).To(Equal("2024-03-05T10:30"))
		Expect(view.Form.InterviewType).To(Equal("HR"))
	})

	It("toggles roles and interviewers", func() {
		id := open()

		w := do(http.MethodPost, "/interview-drafts/"+id+"/roles/R1/toggle", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decodeView(w).Form.RequiredRoles).To(Equal([]string{"R1"}))

		w = do(http.MethodPost, "/interview-drafts/"+id+"/interviewers/U2/toggle", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		view := decodeView(w)
		Expect(view.Form.Interviewers).To(BeEmpty())
		Expect(view.Warnings).To(ConsistOf(interview.IneligibleInterviewerWarning))
	})

	It("answers 201 for a new assignment and 409 for a reused role", func() {
		id := open()

		w := do(http.MethodPost, "/interview-drafts/"+id+"/role-assignments", `{"role_id":"R1"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		assignmentID := decodeView(w).Form.RoleAssignments[0].ID

		w = do(http.MethodPost, "/interview-drafts/"+id+"/role-assignments", `{"role_id":"R1"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(decodeError(w).Error.Code).To(Equal(string(internal.ErrCodeRoleAlreadyUsed)))

		w = do(http.MethodPut, "/interview-drafts/"+id+"/role-assignments/"+assignmentID, `{"user_ids":["U1"]}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decodeView(w).Form.RoleAssignments[0].UserIDs).To(Equal([]string{"U1"}))

		w = do(http.MethodDelete, "/interview-drafts/"+id+"/role-assignments/"+assignmentID, "")
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(decodeView(w).Form.RoleAssignments).To(BeEmpty())
	})

	It("answers 400 with field details when submitting an incomplete draft", func() {
		id := open()

		w := do(http.MethodPost, "/interview-drafts/"+id+"/submit", "")

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(decodeError(w).Error.Type).To(Equal(string(internal.ErrorTypeValidation)))
	})

	It("discards the draft", func() {
		id := open()

		w := do(http.MethodDelete, "/interview-drafts/"+id, "")
		Expect(w.Code).To(Equal(http.StatusNoContent))

		w = do(http.MethodGet, "/interview-drafts/"+id, "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(decodeError(w).Error.Code).To(Equal(string(internal.ErrCodeDraftNotFound)))
	})

	It("answers 403 for a draft owned by someone else", func() {
		id := open()
		sess.UserID = "intruder"

		w := do(http.MethodGet, "/interview-drafts/"+id, "")

		Expect(w.Code).To(Equal(http.StatusForbidden))
		Expect(decodeError(w).Error.Code).To(Equal(string(internal.ErrCodeDraftForbidden)))
	})
})
