package interview

// Interview is the backend's JSON shape. Timestamps stay ISO-8601 strings on the wire.
type Interview struct {
	ID              string   `json:"id"`
	CandidateID     string   `json:"candidate_id"`
	CandidateName   string   `json:"candidate_name,omitempty"`
	InterviewType   string   `json:"interview_type"`
	InterviewMode   string   `json:"interview_mode,omitempty"`
	Status          string   `json:"status"`
	ScheduledAt     *string  `json:"scheduled_at,omitempty"`
	DeadlineDate    *string  `json:"deadline_date,omitempty"`
	WorkflowStageID *string  `json:"workflow_stage_id,omitempty"`
	JobPositionID   *string  `json:"job_position_id,omitempty"`
	RequiredRoles   []string `json:"required_roles"`
	Interviewers    []string `json:"interviewers"`
	Score           *float64 `json:"score,omitempty"`
	Title           *string  `json:"title,omitempty"`
	TemplateID      *string  `json:"template_id,omitempty"`
}

type InterviewList struct {
	Interviews []Interview `json:"interviews"`
	Total      int         `json:"total"`
}

// Stats maps a summary metric name to its count.
type Stats map[string]int

type CreateInterviewPayload struct {
	CandidateID     string   `json:"candidate_id"`
	InterviewType   string   `json:"interview_type"`
	InterviewMode   string   `json:"interview_mode"`
	Title           *string  `json:"title,omitempty"`
	ScheduledAt     *string  `json:"scheduled_at,omitempty"`
	DeadlineDate    *string  `json:"deadline_date,omitempty"`
	WorkflowStageID *string  `json:"workflow_stage_id,omitempty"`
	JobPositionID   *string  `json:"job_position_id,omitempty"`
	TemplateID      *string  `json:"template_id,omitempty"`
	RequiredRoles   []string `json:"required_roles"`
	Interviewers    []string `json:"interviewers"`
}

// UpdateInterviewPayload has every field optional; nil means unchanged.
type UpdateInterviewPayload struct {
	InterviewType   *string   `json:"interview_type,omitempty"`
	InterviewMode   *string   `json:"interview_mode,omitempty"`
	Title           *string   `json:"title,omitempty"`
	ScheduledAt     *string   `json:"scheduled_at,omitempty"`
	DeadlineDate    *string   `json:"deadline_date,omitempty"`
	WorkflowStageID *string   `json:"workflow_stage_id,omitempty"`
	JobPositionID   *string   `json:"job_position_id,omitempty"`
	TemplateID      *string   `json:"template_id,omitempty"`
	RequiredRoles   *[]string `json:"required_roles,omitempty"`
	Interviewers    *[]string `json:"interviewers,omitempty"`
}
