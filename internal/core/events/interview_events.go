package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeInterviewSubmitted    = "interview.submitted"
	EventTypeInterviewTransitioned = "interview.transitioned"
	EventTypeUserRolesUpdated      = "company.user_roles_updated"
)

// InterviewSubmittedEvent is published after a draft was accepted by the backend.
type InterviewSubmittedEvent struct {
	BaseEvent
	DraftID     string `json:"draft_id"`
	InterviewID string `json:"interview_id"`
	Mode        string `json:"mode"`
	CompanyID   string `json:"company_id"`
	UserID      string `json:"user_id"`
}

func NewInterviewSubmittedEvent(draftID, interviewID, mode, companyID, userID string) *InterviewSubmittedEvent {
	return &InterviewSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeInterviewSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"draft_id":     draftID,
				"interview_id": interviewID,
				"mode":         mode,
				"company_id":   companyID,
				"user_id":      userID,
			},
		},
		DraftID:     draftID,
		InterviewID: interviewID,
		Mode:        mode,
		CompanyID:   companyID,
		UserID:      userID,
	}
}

type InterviewTransitionedEvent struct {
	BaseEvent
	InterviewID string `json:"interview_id"`
	Action      string `json:"action"`
	Status      string `json:"status"`
	UserID      string `json:"user_id"`
}

func NewInterviewTransitionedEvent(interviewID, action, status, userID string) *InterviewTransitionedEvent {
	return &InterviewTransitionedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeInterviewTransitioned,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"interview_id": interviewID,
				"action":       action,
				"status":       status,
				"user_id":      userID,
			},
		},
		InterviewID: interviewID,
		Action:      action,
		Status:      status,
		UserID:      userID,
	}
}

type UserRolesUpdatedEvent struct {
	BaseEvent
	CompanyUserID string   `json:"company_user_id"`
	RoleIDs       []string `json:"role_ids"`
	UserID        string   `json:"user_id"`
}

func NewUserRolesUpdatedEvent(companyUserID string, roleIDs []string, userID string) *UserRolesUpdatedEvent {
	return &UserRolesUpdatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.NewString(),
			Type:      EventTypeUserRolesUpdated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"company_user_id": companyUserID,
				"role_ids":        roleIDs,
				"user_id":         userID,
			},
		},
		CompanyUserID: companyUserID,
		RoleIDs:       roleIDs,
		UserID:        userID,
	}
}

// AuditHandler logs every event it receives as one structured line.
func AuditHandler(log *slog.Logger) Handler {
	return func(_ context.Context, event Event) error {
		log.Info("audit", "event_type", event.EventType(), "event_id", event.EventID(), "occurred_at", event.OccurredAt(), "data", event.Payload())
		return nil
	}
}

// AuditedEventTypes are the events the server writes to the audit log.
var AuditedEventTypes = []string{
	EventTypeInterviewSubmitted,
	EventTypeInterviewTransitioned,
	EventTypeUserRolesUpdated,
}

// SubscribeAudit attaches the audit handler to every audited event type.
func SubscribeAudit(bus *EventBus, log *slog.Logger) {
	handler := AuditHandler(log)
	for _, eventType := range AuditedEventTypes {
		bus.Subscribe(eventType, handler)
	}
}
