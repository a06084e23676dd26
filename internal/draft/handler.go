package draft

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/interview"
	"github.com/frahmantamala/interview-console/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Open(ctx context.Context, sess internal.Session, dto OpenDraftDTO) (*View, error)
	Get(ctx context.Context, sess internal.Session, id string) (*View, error)
	Patch(ctx context.Context, sess internal.Session, id string, patch interview.FormPatch) (*View, error)
	Discard(ctx context.Context, sess internal.Session, id string) error
	ToggleRole(ctx context.Context, sess internal.Session, id, roleID string) (*View, error)
	ToggleInterviewer(ctx context.Context, sess internal.Session, id, userID string) (*View, error)
	AddRoleAssignment(ctx context.Context, sess internal.Session, id string, dto RoleAssignmentDTO) (*View, error)
	SetAssignmentUsers(ctx context.Context, sess internal.Session, id, assignmentID string, dto AssignmentUsersDTO) (*View, error)
	RemoveRoleAssignment(ctx context.Context, sess internal.Session, id, assignmentID string) (*View, error)
	Reset(ctx context.Context, sess internal.Session, id string) (*View, error)
	Submit(ctx context.Context, sess internal.Session, id string) (*interview.Interview, error)
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

// Routes mounts the draft endpoints under /interview-drafts.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.Open)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Patch("/", h.Patch)
		r.Delete("/", h.Discard)
		r.Post("/roles/{roleID}/toggle", h.ToggleRole)
		r.Post("/interviewers/{userID}/toggle", h.ToggleInterviewer)
		r.Post("/role-assignments", h.AddRoleAssignment)
		r.Put("/role-assignments/{assignmentID}", h.SetAssignmentUsers)
		r.Delete("/role-assignments/{assignmentID}", h.RemoveRoleAssignment)
		r.Post("/reset", h.Reset)
		r.Post("/submit", h.Submit)
	})
}

func (h *Handler) Open(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var dto OpenDraftDTO
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.Logger.Error("Handler: invalid open draft body", "error", err)
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	view, err := h.Service.Open(r.Context(), sess, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	view, err := h.Service.Get(r.Context(), sess, chi.URLParam(r, "id"))
	h.respond(w, view, err)
}

func (h *Handler) Patch(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var patch interview.FormPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.Logger.Error("Handler: invalid draft patch body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.Patch(r.Context(), sess, chi.URLParam(r, "id"), patch)
	h.respond(w, view, err)
}

func (h *Handler) Discard(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	if err := h.Service.Discard(r.Context(), sess, chi.URLParam(r, "id")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ToggleRole(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	view, err := h.Service.ToggleRole(r.Context(), sess, chi.URLParam(r, "id"), chi.URLParam(r, "roleID"))
	h.respond(w, view, err)
}

func (h *Handler) ToggleInterviewer(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	view, err := h.Service.ToggleInterviewer(r.Context(), sess, chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	h.respond(w, view, err)
}

func (h *Handler) AddRoleAssignment(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var dto RoleAssignmentDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Handler: invalid role assignment body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.AddRoleAssignment(r.Context(), sess, chi.URLParam(r, "id"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, view)
}

func (h *Handler) SetAssignmentUsers(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var dto AssignmentUsersDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Handler: invalid assignment users body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, err := h.Service.SetAssignmentUsers(r.Context(), sess, chi.URLParam(r, "id"), chi.URLParam(r, "assignmentID"), dto)
	h.respond(w, view, err)
}

func (h *Handler) RemoveRoleAssignment(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	view, err := h.Service.RemoveRoleAssignment(r.Context(), sess, chi.URLParam(r, "id"), chi.URLParam(r, "assignmentID"))
	h.respond(w, view, err)
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	view, err := h.Service.Reset(r.Context(), sess, chi.URLParam(r, "id"))
	h.respond(w, view, err)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	iv, err := h.Service.Submit(r.Context(), sess, chi.URLParam(r, "id"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, SubmitResponse{Interview: *iv})
}

func (h *Handler) respond(w http.ResponseWriter, view *View, err error) {
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}
