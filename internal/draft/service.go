package draft

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/atsgateway"
	"github.com/frahmantamala/interview-console/internal/company"
	"github.com/frahmantamala/interview-console/internal/core/common/validation"
	interviewDatamodel "github.com/frahmantamala/interview-console/internal/core/datamodel/interview"
	"github.com/frahmantamala/interview-console/internal/core/events"
	"github.com/frahmantamala/interview-console/internal/interview"
	"github.com/google/uuid"
)

type GatewayAPI interface {
	GetInterview(ctx context.Context, sess internal.Session, id string) (*interviewDatamodel.Interview, error)
	CreateInterview(ctx context.Context, sess internal.Session, payload interviewDatamodel.CreateInterviewPayload) (*interviewDatamodel.Interview, error)
	UpdateInterview(ctx context.Context, sess internal.Session, id string, payload interviewDatamodel.UpdateInterviewPayload) (*interviewDatamodel.Interview, error)
}

// DirectoryAPI resolves company users and roles for eligibility checks.
type DirectoryAPI interface {
	Users(ctx context.Context, sess internal.Session, filter atsgateway.UserFilter) ([]company.User, error)
	Roles(ctx context.Context, sess internal.Session, activeOnly bool) ([]company.Role, error)
}

type Config struct {
	TTL      time.Duration
	Location *time.Location
}

type Service struct {
	store     Store
	gateway   GatewayAPI
	directory DirectoryAPI
	publisher events.Publisher
	ttl       time.Duration
	loc       *time.Location
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(store Store, gateway GatewayAPI, directory DirectoryAPI, publisher events.Publisher, cfg Config, logger *slog.Logger) *Service {
	if cfg.TTL <= 0 {
		cfg.TTL = internal.DefaultDraftTTL
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		store:     store,
		gateway:   gateway,
		directory: directory,
		publisher: publisher,
		ttl:       cfg.TTL,
		loc:       cfg.Location,
		logger:    logger,
		now:       time.Now,
	}
}

// Open starts a draft. With an interview id the draft edits that interview,
// otherwise it creates a new one prefilled from the request.
func (s *Service) Open(ctx context.Context, sess internal.Session, dto OpenDraftDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, validation.FromRules(err, internal.ErrCodeInvalidRequest)
	}

	var form *interview.Form
	if dto.InterviewID != "" {
		existing, err := s.gateway.GetInterview(ctx, sess, dto.InterviewID)
		if err != nil {
			s.logger.Error("failed to load interview for draft", "error", err, "interview_id", dto.InterviewID)
			return nil, atsgateway.ToAppError(err)
		}
		form = interview.NewEditForm(interview.FromDataModel(*existing, s.loc))
	} else {
		form = interview.NewCreateForm()
		if err := form.Apply(dto.prefill(), s.loc); err != nil {
			return nil, err
		}
	}

	now := s.now()
	d := &Draft{
		ID:        uuid.NewString(),
		CompanyID: sess.CompanyID,
		UserID:    sess.UserID,
		Form:      form,
		CreatedAt: now,
	}
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}

	s.logger.Info("interview draft opened", "draft_id", d.ID, "mode", form.Mode, "interview_id", form.InterviewID)
	return s.view(d, nil), nil
}

// Get returns the draft along with the roles still free for assignments.
// Role lookup is best effort.
func (s *Service) Get(ctx context.Context, sess internal.Session, id string) (*View, error) {
	d, err := s.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	v := s.view(d, nil)
	roles, err := s.directory.Roles(ctx, sess, true)
	if err != nil {
		s.logger.Warn("failed to load roles for draft view", "error", err, "draft_id", id)
		return v, nil
	}
	v.AvailableRoles = d.Form.AvailableRoles(roles)
	return v, nil
}

func (s *Service) Patch(ctx context.Context, sess internal.Session, id string, patch interview.FormPatch) (*View, error) {
	return s.mutate(ctx, sess, id, func(d *Draft) ([]string, error) {
		return nil, d.Form.Apply(patch, s.loc)
	})
}

// Discard closes the draft without submitting it.
func (s *Service) Discard(ctx context.Context, sess internal.Session, id string) error {
	if _, err := s.load(ctx, sess, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete draft", "error", err, "draft_id", id)
		return internal.NewInternalError("failed to delete draft", err)
	}
	return nil
}

func (s *Service) ToggleRole(ctx context.Context, sess internal.Session, id, roleID string) (*View, error) {
	return s.mutateWithUsers(ctx, sess, id, func(d *Draft, users []company.User) ([]string, error) {
		removed := d.Form.ToggleRole(roleID, users)
		if removed > 0 {
			return []string{interview.RemovedInterviewersWarning(removed)}, nil
		}
		return nil, nil
	})
}

func (s *Service) ToggleInterviewer(ctx context.Context, sess internal.Session, id, userID string) (*View, error) {
	return s.mutateWithUsers(ctx, sess, id, func(d *Draft, users []company.User) ([]string, error) {
		if !d.Form.ToggleInterviewer(userID, users) {
			return []string{interview.IneligibleInterviewerWarning}, nil
		}
		return nil, nil
	})
}

func (s *Service) AddRoleAssignment(ctx context.Context, sess internal.Session, id string, dto RoleAssignmentDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, validation.FromRules(err, internal.ErrCodeRequiredField)
	}
	return s.mutate(ctx, sess, id, func(d *Draft) ([]string, error) {
		_, err := d.Form.AddRoleAssignment(dto.RoleID)
		return nil, err
	})
}

func (s *Service) SetAssignmentUsers(ctx context.Context, sess internal.Session, id, assignmentID string, dto AssignmentUsersDTO) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, validation.FromRules(err, internal.ErrCodeInvalidRequest)
	}
	return s.mutateWithUsers(ctx, sess, id, func(d *Draft, users []company.User) ([]string, error) {
		rejected, err := d.Form.SetAssignmentUsers(assignmentID, dto.UserIDs, users)
		if err != nil {
			return nil, err
		}
		if len(rejected) == 0 {
			return nil, nil
		}
		s.logger.Debug("assignment users rejected", "draft_id", id, "assignment_id", assignmentID, "rejected", rejected)
		return []string{fmt.Sprintf("%d user(s) do not hold the assigned role and were skipped", len(rejected))}, nil
	})
}

func (s *Service) RemoveRoleAssignment(ctx context.Context, sess internal.Session, id, assignmentID string) (*View, error) {
	return s.mutate(ctx, sess, id, func(d *Draft) ([]string, error) {
		return nil, d.Form.RemoveRoleAssignment(assignmentID)
	})
}

func (s *Service) Reset(ctx context.Context, sess internal.Session, id string) (*View, error) {
	return s.mutate(ctx, sess, id, func(d *Draft) ([]string, error) {
		d.Form.Reset()
		return nil, nil
	})
}

// Submit validates the draft and sends it to the backend. Field errors are
// kept on the draft and nothing is sent. A backend failure leaves the draft
// untouched so the user can retry; success deletes it.
func (s *Service) Submit(ctx context.Context, sess internal.Session, id string) (*interview.Interview, error) {
	d, err := s.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	if !d.Form.Validate() {
		if saveErr := s.save(ctx, d); saveErr != nil {
			return nil, saveErr
		}
		if appErr := d.Form.ValidationError(); appErr != nil {
			return nil, appErr
		}
		return nil, internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed)
	}

	var result *interviewDatamodel.Interview
	if d.Form.IsEdit() {
		result, err = s.gateway.UpdateInterview(ctx, sess, d.Form.InterviewID, d.Form.UpdatePayload())
	} else {
		result, err = s.gateway.CreateInterview(ctx, sess, d.Form.CreatePayload())
	}
	if err != nil {
		s.logger.Error("failed to submit interview draft", "error", err, "draft_id", id, "mode", d.Form.Mode)
		return nil, atsgateway.ToAppError(err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to delete submitted draft", "error", err, "draft_id", id)
	}

	iv := interview.FromDataModel(*result, s.loc)
	s.logger.Info("interview draft submitted", "draft_id", id, "interview_id", iv.ID, "mode", d.Form.Mode)
	if s.publisher != nil {
		event := events.NewInterviewSubmittedEvent(id, iv.ID, string(d.Form.Mode), sess.CompanyID, sess.UserID)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish interview submitted event", "error", err, "draft_id", id)
		}
	}
	return &iv, nil
}

// ----------------- HELPERS -----------------

func (s *Service) load(ctx context.Context, sess internal.Session, id string) (*Draft, error) {
	d, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, internal.ErrDraftNotFound) {
			return nil, internal.ErrDraftNotFound
		}
		s.logger.Error("failed to load draft", "error", err, "draft_id", id)
		return nil, internal.NewInternalError("failed to load draft", err)
	}
	if !d.OwnedBy(sess) {
		s.logger.Warn("draft accessed by another user", "draft_id", id, "owner", d.UserID, "user_id", sess.UserID)
		return nil, internal.ErrDraftForbidden
	}
	return d, nil
}

func (s *Service) save(ctx context.Context, d *Draft) error {
	now := s.now()
	d.UpdatedAt = now
	d.ExpiresAt = now.Add(s.ttl)
	if err := s.store.Save(ctx, d, s.ttl); err != nil {
		s.logger.Error("failed to save draft", "error", err, "draft_id", d.ID)
		return internal.NewInternalError("failed to save draft", err)
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, sess internal.Session, id string, fn func(d *Draft) ([]string, error)) (*View, error) {
	d, err := s.load(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	warnings, err := fn(d)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, d); err != nil {
		return nil, err
	}
	return s.view(d, warnings), nil
}

// mutateWithUsers loads the active company users before running fn. A failed
// lookup aborts the change.
func (s *Service) mutateWithUsers(ctx context.Context, sess internal.Session, id string, fn func(d *Draft, users []company.User) ([]string, error)) (*View, error) {
	return s.mutate(ctx, sess, id, func(d *Draft) ([]string, error) {
		users, err := s.directory.Users(ctx, sess, atsgateway.UserFilter{ActiveOnly: true})
		if err != nil {
			return nil, err
		}
		return fn(d, users)
	})
}

func (s *Service) view(d *Draft, warnings []string) *View {
	if warnings == nil {
		warnings = []string{}
	}
	return &View{
		ID:        d.ID,
		Form:      d.Form.View(s.loc),
		Warnings:  warnings,
		ExpiresAt: d.ExpiresAt,
	}
}
