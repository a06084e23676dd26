package company

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/atsgateway"
	"github.com/frahmantamala/interview-console/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Users(ctx context.Context, sess internal.Session, filter atsgateway.UserFilter) ([]User, error)
	Roles(ctx context.Context, sess internal.Session, activeOnly bool) ([]Role, error)
	UpdateUserRoles(ctx context.Context, sess internal.Session, companyUserID string, dto UpdateUserRolesDTO) (*User, error)
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

func (h *Handler) GetUsers(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := atsgateway.UserFilter{
		ActiveOnly: transport.QueryBool(r, "active_only", false),
		Role:       q.Get("role"),
		Search:     q.Get("search"),
	}

	users, err := h.Service.Users(r.Context(), sess, filter)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, UsersResponse{Users: users})
}

func (h *Handler) GetRoles(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	roles, err := h.Service.Roles(r.Context(), sess, transport.QueryBool(r, "active_only", false))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, RolesResponse{Roles: roles})
}

func (h *Handler) UpdateUserRoles(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.SessionOrUnauthorized(w, r)
	if !ok {
		return
	}

	var dto UpdateUserRolesDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("UpdateUserRoles: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := chi.URLParam(r, "id")
	user, err := h.Service.UpdateUserRoles(r.Context(), sess, userID, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, user)
}
