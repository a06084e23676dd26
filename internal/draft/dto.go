package draft

import (
	"time"

	"github.com/frahmantamala/interview-console/internal/company"
	"github.com/frahmantamala/interview-console/internal/interview"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// OpenDraftDTO opens an edit draft when InterviewID is set; the other fields
// prefill a create draft.
type OpenDraftDTO struct {
	InterviewID     string `json:"interview_id"`
	CandidateID     string `json:"candidate_id"`
	WorkflowStageID string `json:"workflow_stage_id"`
	JobPositionID   string `json:"job_position_id"`
}

func (dto OpenDraftDTO) Validate() error {
	return validation.ValidateStruct(&dto,
		validation.Field(&dto.CandidateID, validation.When(dto.InterviewID != "", validation.Empty.Error("must be empty when editing an interview"))),
		validation.Field(&dto.InterviewID, validation.Length(0, 128)),
	)
}

func (dto OpenDraftDTO) prefill() interview.FormPatch {
	var patch interview.FormPatch
	if dto.CandidateID != "" {
		patch.CandidateID = &dto.CandidateID
	}
	if dto.WorkflowStageID != "" {
		patch.WorkflowStageID = &dto.WorkflowStageID
	}
	if dto.JobPositionID != "" {
		patch.JobPositionID = &dto.JobPositionID
	}
	return patch
}

type RoleAssignmentDTO struct {
	RoleID string `json:"role_id"`
}

func (dto RoleAssignmentDTO) Validate() error {
	return validation.ValidateStruct(&dto,
		validation.Field(&dto.RoleID, validation.Required),
	)
}

type AssignmentUsersDTO struct {
	UserIDs []string `json:"user_ids"`
}

func (dto AssignmentUsersDTO) Validate() error {
	return validation.ValidateStruct(&dto,
		validation.Field(&dto.UserIDs, validation.NotNil, validation.Each(validation.Required)),
	)
}

// View is the draft as returned to the UI.
type View struct {
	ID             string             `json:"id"`
	Form           interview.FormView `json:"form"`
	AvailableRoles []company.Role     `json:"available_roles,omitempty"`
	Warnings       []string           `json:"warnings"`
	ExpiresAt      time.Time          `json:"expires_at"`
}

type SubmitResponse struct {
	Interview interview.Interview `json:"interview"`
}
