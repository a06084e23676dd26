package interview

import (
	"context"
	"net/http"
	"time"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/atsgateway"
	"github.com/frahmantamala/interview-console/internal/company"
	"github.com/frahmantamala/interview-console/internal/core/common/validation"
	"github.com/frahmantamala/interview-console/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List(ctx context.Context, sess internal.Session, req ListRequest) (*Page, error)
	Dashboard(ctx context.Context, sess internal.Session, req ListRequest) (*Dashboard, error)
	Calendar(ctx context.Context, sess internal.Session, view string, anchor time.Time) (*Calendar, error)
	Get(ctx context.Context, sess internal.Session, id string) (*Interview, error)
	Transition(ctx context.Context, sess internal.Session, id, action string) (*Interview, error)
	CandidateInterviews(ctx context.Context, sess internal.Session, candidateID, stageID string) (*StageSplit, error)
	EligibleInterviewers(ctx context.Context, sess internal.Session, roleIDs []string) ([]company.User, error)
	Location() *time.Location
	Today() time.Time
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// Routes mounts the endpoints under /interviews.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/dashboard", h.Dashboard)
	r.Get("/calendar", h.Calendar)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/start", h.transition(atsgateway.ActionStart))
	r.Post("/{id}/finish", h.transition(atsgateway.ActionFinish))
	r.Post("/{id}/cancel", h.transition(atsgateway.ActionCancel))
}

func (h *Handler) listRequest(w http.ResponseWriter, r *http.Request) (ListRequest, bool) {
	params := ListParamsFromQuery(r.URL.Query())
	if err := params.Validate(); err != nil {
		h.HandleServiceError(w, validation.FromRules(err, internal.ErrCodeValidationFailed))
		return ListRequest{}, false
	}
	return params.ToRequest(), true
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	req, ok := h.listRequest(w, r)
	if !ok {
		return
	}

	page, err := h.Service.List(r.Context(), sess, req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}
	req, ok := h.listRequest(w, r)
	if !ok {
		return
	}

	dash, err := h.Service.Dashboard(r.Context(), sess, req)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, dash)
}

func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	params := CalendarParams{View: q.Get("view"), Anchor: q.Get("anchor")}
	if params.View == "" {
		params.View = CalendarViewMonth
	}
	if err := params.Validate(); err != nil {
		h.HandleServiceError(w, validation.FromRules(err, internal.ErrCodeInvalidView))
		return
	}

	anchor := params.AnchorIn(h.Service.Location(), h.Service.Today())
	cal, err := h.Service.Calendar(r.Context(), sess, params.View, anchor)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, cal)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	iv, err := h.Service.Get(r.Context(), sess, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, InterviewResponse{Interview: iv})
}

func (h *Handler) transition(action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.SessionOrUnauthorized(w, r)
		if !ok {
			return
		}

		id := chi.URLParam(r, "id")
		iv, err := h.Service.Transition(r.Context(), sess, id, action)
		if err != nil {
			h.Logger.Error("Handler: interview transition failed", "interview_id", id, "action", action, "error", err)
			h.HandleServiceError(w, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, InterviewResponse{Interview: iv})
	}
}

// CandidateInterviews serves GET /candidates/{id}/interviews?stage_id=.
func (h *Handler) CandidateInterviews(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	split, err := h.Service.CandidateInterviews(r.Context(), sess, chi.URLParam(r, "id"), r.URL.Query().Get("stage_id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, split)
}

// EligibleInterviewers serves GET /company/eligible-interviewers?role=.
func (h *Handler) EligibleInterviewers(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	roles := RoleIDsFromQuery(r.URL.Query())
	users, err := h.Service.EligibleInterviewers(r.Context(), sess, roles)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if roles == nil {
		roles = []string{}
	}
	h.WriteJSON(w, http.StatusOK, EligibleInterviewersResponse{RequiredRoles: roles, Users: users})
}
