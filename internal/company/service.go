package company

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/atsgateway"
	"github.com/frahmantamala/interview-console/internal/core/common/validation"
	"github.com/frahmantamala/interview-console/internal/core/events"
	companyDatamodel "github.com/frahmantamala/interview-console/internal/core/datamodel/company"
)

type GatewayAPI interface {
	CompanyUsers(ctx context.Context, sess internal.Session, filter atsgateway.UserFilter) ([]companyDatamodel.User, error)
	CompanyRoles(ctx context.Context, sess internal.Session, activeOnly bool) ([]companyDatamodel.Role, error)
	UpdateUserRoles(ctx context.Context, sess internal.Session, companyUserID string, roleIDs []string) (*companyDatamodel.User, error)
}

type Service struct {
	gateway   GatewayAPI
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(gateway GatewayAPI, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		gateway:   gateway,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) Users(ctx context.Context, sess internal.Session, filter atsgateway.UserFilter) ([]User, error) {
	users, err := s.gateway.CompanyUsers(ctx, sess, filter)
	if err != nil {
		s.logger.Error("failed to load company users", "error", err, "company_id", sess.CompanyID)
		return nil, atsgateway.ToAppError(err)
	}
	return FromDataModelSlice(users), nil
}

func (s *Service) Roles(ctx context.Context, sess internal.Session, activeOnly bool) ([]Role, error) {
	roles, err := s.gateway.CompanyRoles(ctx, sess, activeOnly)
	if err != nil {
		s.logger.Error("failed to load company roles", "error", err, "company_id", sess.CompanyID)
		return nil, atsgateway.ToAppError(err)
	}
	return RolesFromDataModel(roles), nil
}

// UpdateUserRoles replaces a user's company roles. Duplicates are dropped; the
// backend decides whether the change is allowed.
func (s *Service) UpdateUserRoles(ctx context.Context, sess internal.Session, companyUserID string, dto UpdateUserRolesDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, validation.FromRules(err, internal.ErrCodeInvalidRequest)
	}

	roles := dedupe(dto.CompanyRoles)
	updated, err := s.gateway.UpdateUserRoles(ctx, sess, companyUserID, roles)
	if err != nil {
		s.logger.Error("failed to update user roles",
			"error", err,
			"company_user_id", companyUserID,
			"roles", roles)
		return nil, atsgateway.ToAppError(err)
	}

	s.logger.Info("company user roles updated",
		"company_user_id", companyUserID,
		"roles_count", len(roles))
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.NewUserRolesUpdatedEvent(companyUserID, roles, sess.UserID)); err != nil {
			s.logger.Warn("failed to publish user roles updated event", "error", err)
		}
	}

	user := FromDataModel(*updated)
	return &user, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
