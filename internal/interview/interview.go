package interview

import (
	"time"

	interviewDatamodel "github.com/frahmantamala/interview-console/internal/core/datamodel/interview"
)

const (
	StatusEnabled    = "ENABLED"
	StatusScheduled  = "SCHEDULED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

const (
	TypeHR        = "HR"
	TypeTechnical = "TECHNICAL"
	TypeCultural  = "CULTURAL"
	TypeFinal     = "FINAL"
	TypeOther     = "OTHER"
)

const (
	ModeOnline = "ONLINE"
	ModeOnsite = "ONSITE"
	ModePhone  = "PHONE"
)

// Interview is a transient copy of a backend interview with parsed timestamps.
type Interview struct {
	ID              string     `json:"id"`
	CandidateID     string     `json:"candidate_id"`
	CandidateName   string     `json:"candidate_name,omitempty"`
	InterviewType   string     `json:"interview_type"`
	InterviewMode   string     `json:"interview_mode,omitempty"`
	Status          string     `json:"status"`
	ScheduledAt     *time.Time `json:"scheduled_at,omitempty"`
	DeadlineDate    *time.Time `json:"deadline_date,omitempty"`
	WorkflowStageID *string    `json:"workflow_stage_id,omitempty"`
	JobPositionID   *string    `json:"job_position_id,omitempty"`
	RequiredRoles   []string   `json:"required_roles"`
	Interviewers    []string   `json:"interviewers"`
	Score           *float64   `json:"score,omitempty"`
	Title           *string    `json:"title,omitempty"`
	TemplateID      *string    `json:"template_id,omitempty"`
}

func (i *Interview) IsScheduled() bool {
	return i.ScheduledAt != nil
}

// NeedsPlanning reports an enabled interview lacking a date or interviewers.
func (i *Interview) NeedsPlanning() bool {
	return i.Status == StatusEnabled && (i.ScheduledAt == nil || len(i.Interviewers) == 0)
}

func (i *Interview) IsOverdue(now time.Time) bool {
	return i.Status == StatusEnabled && i.DeadlineDate != nil && i.DeadlineDate.Before(now)
}

// timestampLayouts are the ISO-8601 variants the backend has been seen to emit.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp reads an ISO-8601 value. Values without an offset are wall
// clock time in loc.
func ParseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseOptional(raw *string, loc *time.Location) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	t, ok := ParseTimestamp(*raw, loc)
	if !ok {
		return nil
	}
	return &t
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

// FromDataModel converts a backend interview; zone-less timestamps are read in loc.
func FromDataModel(iv interviewDatamodel.Interview, loc *time.Location) Interview {
	return Interview{
		ID:              iv.ID,
		CandidateID:     iv.CandidateID,
		CandidateName:   iv.CandidateName,
		InterviewType:   iv.InterviewType,
		InterviewMode:   iv.InterviewMode,
		Status:          iv.Status,
		ScheduledAt:     parseOptional(iv.ScheduledAt, loc),
		DeadlineDate:    parseOptional(iv.DeadlineDate, loc),
		WorkflowStageID: iv.WorkflowStageID,
		JobPositionID:   iv.JobPositionID,
		RequiredRoles:   nonNil(iv.RequiredRoles),
		Interviewers:    nonNil(iv.Interviewers),
		Score:           iv.Score,
		Title:           iv.Title,
		TemplateID:      iv.TemplateID,
	}
}

func ToDataModel(iv Interview) interviewDatamodel.Interview {
	return interviewDatamodel.Interview{
		ID:              iv.ID,
		CandidateID:     iv.CandidateID,
		CandidateName:   iv.CandidateName,
		InterviewType:   iv.InterviewType,
		InterviewMode:   iv.InterviewMode,
		Status:          iv.Status,
		ScheduledAt:     formatOptional(iv.ScheduledAt),
		DeadlineDate:    formatOptional(iv.DeadlineDate),
		WorkflowStageID: iv.WorkflowStageID,
		JobPositionID:   iv.JobPositionID,
		RequiredRoles:   iv.RequiredRoles,
		Interviewers:    iv.Interviewers,
		Score:           iv.Score,
		Title:           iv.Title,
		TemplateID:      iv.TemplateID,
	}
}

func FromDataModelSlice(list []interviewDatamodel.Interview, loc *time.Location) []Interview {
	result := make([]Interview, len(list))
	for i, iv := range list {
		result[i] = FromDataModel(iv, loc)
	}
	return result
}
