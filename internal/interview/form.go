package interview

import (
	"time"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/company"
	"github.com/frahmantamala/interview-console/internal/core/common/validation"
	interviewDatamodel "github.com/frahmantamala/interview-console/internal/core/datamodel/interview"
	"github.com/google/uuid"
)

type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// RoleAssignment pairs one required role with the users picked for it. It only
// lives inside a form and is discarded when the form is closed or submitted.
type RoleAssignment struct {
	ID      string   `json:"id"`
	RoleID  string   `json:"role_id"`
	UserIDs []string `json:"user_ids"`
}

// Form is the interview editor state. Exactly one of Create or Update is set,
// depending on whether the form was opened on an existing interview.
type Form struct {
	Mode            FormMode                                   `json:"mode"`
	InterviewID     string                                     `json:"interview_id,omitempty"`
	Create          *interviewDatamodel.CreateInterviewPayload `json:"create,omitempty"`
	Update          *interviewDatamodel.UpdateInterviewPayload `json:"update,omitempty"`
	Initial         *interviewDatamodel.UpdateInterviewPayload `json:"initial,omitempty"`
	RoleAssignments []RoleAssignment                           `json:"role_assignments"`
	Errors          map[string]string                          `json:"errors,omitempty"`
}

// FormPatch carries edits from the UI. Dates use the datetime-local layout. An
// empty string clears a date in create mode; the update payload cannot express
// a cleared date, so in edit mode it leaves the date unchanged.
type FormPatch struct {
	CandidateID     *string `json:"candidate_id,omitempty"`
	InterviewType   *string `json:"interview_type,omitempty"`
	InterviewMode   *string `json:"interview_mode,omitempty"`
	Title           *string `json:"title,omitempty"`
	ScheduledAt     *string `json:"scheduled_at,omitempty"`
	DeadlineDate    *string `json:"deadline_date,omitempty"`
	WorkflowStageID *string `json:"workflow_stage_id,omitempty"`
	JobPositionID   *string `json:"job_position_id,omitempty"`
	TemplateID      *string `json:"template_id,omitempty"`
}

func NewCreateForm() *Form {
	return &Form{
		Mode:            FormModeCreate,
		Create:          emptyCreatePayload(),
		RoleAssignments: []RoleAssignment{},
	}
}

func NewEditForm(iv Interview) *Form {
	snapshot := snapshotOf(iv)
	return &Form{
		Mode:            FormModeEdit,
		InterviewID:     iv.ID,
		Update:          cloneUpdate(snapshot),
		Initial:         snapshot,
		RoleAssignments: []RoleAssignment{},
	}
}

func (f *Form) IsEdit() bool {
	return f.Mode == FormModeEdit
}

func emptyCreatePayload() *interviewDatamodel.CreateInterviewPayload {
	return &interviewDatamodel.CreateInterviewPayload{
		RequiredRoles: []string{},
		Interviewers:  []string{},
	}
}

func snapshotOf(iv Interview) *interviewDatamodel.UpdateInterviewPayload {
	roles := append([]string{}, iv.RequiredRoles...)
	interviewers := append([]string{}, iv.Interviewers...)
	return &interviewDatamodel.UpdateInterviewPayload{
		InterviewType:   strPtr(iv.InterviewType),
		InterviewMode:   strPtr(iv.InterviewMode),
		Title:           cloneStr(iv.Title),
		ScheduledAt:     formatOptional(iv.ScheduledAt),
		DeadlineDate:    formatOptional(iv.DeadlineDate),
		WorkflowStageID: cloneStr(iv.WorkflowStageID),
		JobPositionID:   cloneStr(iv.JobPositionID),
		TemplateID:      cloneStr(iv.TemplateID),
		RequiredRoles:   &roles,
		Interviewers:    &interviewers,
	}
}

// Selection returns a copy of the roles and interviewers held by the payload.
func (f *Form) Selection() RoleSelection {
	sel := RoleSelection{RequiredRoles: []string{}, Interviewers: []string{}}
	switch {
	case f.Create != nil:
		sel.RequiredRoles = append(sel.RequiredRoles, f.Create.RequiredRoles...)
		sel.Interviewers = append(sel.Interviewers, f.Create.Interviewers...)
	case f.Update != nil:
		if f.Update.RequiredRoles != nil {
			sel.RequiredRoles = append(sel.RequiredRoles, (*f.Update.RequiredRoles)...)
		}
		if f.Update.Interviewers != nil {
			sel.Interviewers = append(sel.Interviewers, (*f.Update.Interviewers)...)
		}
	}
	return sel
}

func (f *Form) setSelection(sel RoleSelection) {
	switch {
	case f.Create != nil:
		f.Create.RequiredRoles = sel.RequiredRoles
		f.Create.Interviewers = sel.Interviewers
	case f.Update != nil:
		roles, interviewers := sel.RequiredRoles, sel.Interviewers
		f.Update.RequiredRoles = &roles
		f.Update.Interviewers = &interviewers
	}
}

// ToggleRole flips a required role and returns how many interviewers were dropped.
func (f *Form) ToggleRole(roleID string, users []company.User) int {
	sel := f.Selection()
	removed := sel.ToggleRole(roleID, users)
	f.setSelection(sel)
	f.clearError("required_roles")
	return removed
}

// ToggleInterviewer flips an interviewer; false means the add was refused.
func (f *Form) ToggleInterviewer(userID string, users []company.User) bool {
	sel := f.Selection()
	ok := sel.ToggleInterviewer(userID, users)
	if ok {
		f.setSelection(sel)
	}
	return ok
}

// Apply copies the patch into the active payload, converting datetime-local
// values to ISO-8601 in loc.
func (f *Form) Apply(patch FormPatch, loc *time.Location) error {
	v := validation.NewValidator()
	if patch.ScheduledAt != nil {
		v.Field("scheduled_at", *patch.ScheduledAt).Layout(DateTimeLocalLayout)
	}
	if patch.DeadlineDate != nil {
		v.Field("deadline_date", *patch.DeadlineDate).Layout(DateTimeLocalLayout)
	}
	if patch.CandidateID != nil && f.IsEdit() {
		v.Field("candidate_id", *patch.CandidateID).Custom(func(interface{}) *internal.AppError {
			return internal.NewValidationFieldError("candidate_id", "candidate cannot be changed on an existing interview", internal.ErrCodeInvalidRequest)
		})
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}

	scheduledAt, err := localToISO(patch.ScheduledAt, loc)
	if err != nil {
		return internal.NewValidationFieldError("scheduled_at", err.Error(), internal.ErrCodeInvalidDate)
	}
	deadline, err := localToISO(patch.DeadlineDate, loc)
	if err != nil {
		return internal.NewValidationFieldError("deadline_date", err.Error(), internal.ErrCodeInvalidDate)
	}

	if f.Create != nil {
		p := f.Create
		if patch.CandidateID != nil {
			p.CandidateID = *patch.CandidateID
			f.clearError("candidate_id")
		}
		if patch.InterviewType != nil {
			p.InterviewType = *patch.InterviewType
			f.clearError("interview_type")
		}
		if patch.InterviewMode != nil {
			p.InterviewMode = *patch.InterviewMode
			f.clearError("interview_mode")
		}
		applyOptional(&p.Title, patch.Title)
		applyDate(&p.ScheduledAt, patch.ScheduledAt, scheduledAt)
		applyDate(&p.DeadlineDate, patch.DeadlineDate, deadline)
		applyOptional(&p.WorkflowStageID, patch.WorkflowStageID)
		applyOptional(&p.JobPositionID, patch.JobPositionID)
		applyOptional(&p.TemplateID, patch.TemplateID)
		return nil
	}

	p := f.Update
	applyOptional(&p.InterviewType, patch.InterviewType)
	applyOptional(&p.InterviewMode, patch.InterviewMode)
	applyOptional(&p.Title, patch.Title)
	applyDate(&p.ScheduledAt, nonEmpty(patch.ScheduledAt), scheduledAt)
	applyDate(&p.DeadlineDate, nonEmpty(patch.DeadlineDate), deadline)
	applyOptional(&p.WorkflowStageID, patch.WorkflowStageID)
	applyOptional(&p.JobPositionID, patch.JobPositionID)
	applyOptional(&p.TemplateID, patch.TemplateID)
	return nil
}

// Validate records field errors and reports whether the form may be submitted.
// Only create mode has required fields.
func (f *Form) Validate() bool {
	f.Errors = nil
	if f.Mode != FormModeCreate {
		return true
	}

	payload := f.CreatePayload()
	v := validation.NewValidator()
	v.Field("candidate_id", payload.CandidateID).Required()
	v.Field("interview_type", payload.InterviewType).Required()
	v.Field("interview_mode", payload.InterviewMode).Required()
	v.Field("required_roles", payload.RequiredRoles).Required()

	appErr := v.Validate()
	if appErr == nil {
		return true
	}
	if details, ok := appErr.Details.(internal.ValidationErrors); ok {
		f.Errors = details.Fields()
	}
	return false
}

// ValidationError describes the recorded field errors, or nil when there are none.
func (f *Form) ValidationError() *internal.AppError {
	if len(f.Errors) == 0 {
		return nil
	}
	errs := make([]internal.ValidationError, 0, len(f.Errors))
	for _, field := range []string{"candidate_id", "interview_type", "interview_mode", "required_roles"} {
		if msg, ok := f.Errors[field]; ok {
			errs = append(errs, internal.ValidationError{Field: field, Message: msg, Code: string(internal.ErrCodeRequiredField)})
		}
	}
	return internal.NewValidationError("Validation failed", internal.ErrCodeValidationFailed).
		WithDetails(internal.ValidationErrors{Errors: errs})
}

// Reset restores the opening snapshot in edit mode, or empty defaults in create mode.
func (f *Form) Reset() {
	f.Errors = nil
	f.RoleAssignments = []RoleAssignment{}
	if f.Mode == FormModeEdit {
		f.Update = cloneUpdate(f.Initial)
		return
	}
	f.Create = emptyCreatePayload()
}

func (f *Form) clearError(field string) {
	delete(f.Errors, field)
}

// AddRoleAssignment starts an assignment for roleID. A role may appear in at
// most one assignment.
func (f *Form) AddRoleAssignment(roleID string) (RoleAssignment, error) {
	if roleID == "" {
		return RoleAssignment{}, internal.NewValidationFieldError("role_id", "role_id is required", internal.ErrCodeRequiredField)
	}
	if _, used := f.usedRoleIDs()[roleID]; used {
		return RoleAssignment{}, internal.ErrRoleAlreadyUsed
	}
	ra := RoleAssignment{ID: uuid.NewString(), RoleID: roleID, UserIDs: []string{}}
	f.RoleAssignments = append(f.RoleAssignments, ra)
	return ra, nil
}

// SetAssignmentUsers replaces the users of an assignment, keeping only those
// holding its role. The refused ids are returned.
func (f *Form) SetAssignmentUsers(assignmentID string, userIDs []string, users []company.User) ([]string, error) {
	idx := f.assignmentIndex(assignmentID)
	if idx < 0 {
		return nil, internal.ErrAssignmentNotFound
	}
	roleID := f.RoleAssignments[idx].RoleID

	kept := make([]string, 0, len(userIDs))
	rejected := []string{}
	for _, id := range userIDs {
		if indexOf(kept, id) >= 0 {
			continue
		}
		user, ok := company.FindUser(users, id)
		if !ok || !user.HasRole(roleID) {
			rejected = append(rejected, id)
			continue
		}
		kept = append(kept, id)
	}
	f.RoleAssignments[idx].UserIDs = kept
	return rejected, nil
}

func (f *Form) RemoveRoleAssignment(assignmentID string) error {
	idx := f.assignmentIndex(assignmentID)
	if idx < 0 {
		return internal.ErrAssignmentNotFound
	}
	f.RoleAssignments = append(f.RoleAssignments[:idx:idx], f.RoleAssignments[idx+1:]...)
	return nil
}

// AvailableRoles lists the roles not yet taken by an assignment.
func (f *Form) AvailableRoles(roles []company.Role) []company.Role {
	used := f.usedRoleIDs()
	out := make([]company.Role, 0, len(roles))
	for _, r := range roles {
		if _, taken := used[r.ID]; !taken {
			out = append(out, r)
		}
	}
	return out
}

func (f *Form) usedRoleIDs() map[string]struct{} {
	used := make(map[string]struct{}, len(f.RoleAssignments))
	for _, ra := range f.RoleAssignments {
		used[ra.RoleID] = struct{}{}
	}
	return used
}

func (f *Form) assignmentIndex(id string) int {
	for i, ra := range f.RoleAssignments {
		if ra.ID == id {
			return i
		}
	}
	return -1
}

// mergedSelection folds the role assignments into the selected roles and interviewers.
func (f *Form) mergedSelection() RoleSelection {
	sel := f.Selection()
	for _, ra := range f.RoleAssignments {
		sel.RequiredRoles = appendUnique(sel.RequiredRoles, ra.RoleID)
		for _, id := range ra.UserIDs {
			sel.Interviewers = appendUnique(sel.Interviewers, id)
		}
	}
	return sel
}

// CreatePayload is the backend create body, including role assignments.
func (f *Form) CreatePayload() interviewDatamodel.CreateInterviewPayload {
	if f.Create == nil {
		return interviewDatamodel.CreateInterviewPayload{}
	}
	p := *f.Create
	sel := f.mergedSelection()
	p.RequiredRoles = sel.RequiredRoles
	p.Interviewers = sel.Interviewers
	return p
}

// UpdatePayload is the backend update body, including role assignments.
func (f *Form) UpdatePayload() interviewDatamodel.UpdateInterviewPayload {
	if f.Update == nil {
		return interviewDatamodel.UpdateInterviewPayload{}
	}
	p := *cloneUpdate(f.Update)
	if len(f.RoleAssignments) > 0 {
		sel := f.mergedSelection()
		p.RequiredRoles = &sel.RequiredRoles
		p.Interviewers = &sel.Interviewers
	}
	return p
}

// FormView is the form as the UI renders it, with local datetime values.
type FormView struct {
	Mode            FormMode          `json:"mode"`
	InterviewID     string            `json:"interview_id,omitempty"`
	CandidateID     string            `json:"candidate_id,omitempty"`
	InterviewType   string            `json:"interview_type"`
	InterviewMode   string            `json:"interview_mode"`
	Title           string            `json:"title"`
	ScheduledAt     string            `json:"scheduled_at"`
	DeadlineDate    string            `json:"deadline_date"`
	WorkflowStageID string            `json:"workflow_stage_id"`
	JobPositionID   string            `json:"job_position_id"`
	TemplateID      string            `json:"template_id"`
	RequiredRoles   []string          `json:"required_roles"`
	Interviewers    []string          `json:"interviewers"`
	RoleAssignments []RoleAssignment  `json:"role_assignments"`
	Errors          map[string]string `json:"errors,omitempty"`
}

func (f *Form) View(loc *time.Location) FormView {
	sel := f.Selection()
	view := FormView{
		Mode:            f.Mode,
		InterviewID:     f.InterviewID,
		RequiredRoles:   sel.RequiredRoles,
		Interviewers:    sel.Interviewers,
		RoleAssignments: f.RoleAssignments,
		Errors:          f.Errors,
	}
	if view.RoleAssignments == nil {
		view.RoleAssignments = []RoleAssignment{}
	}

	if f.Create != nil {
		p := f.Create
		view.CandidateID = p.CandidateID
		view.InterviewType = p.InterviewType
		view.InterviewMode = p.InterviewMode
		view.Title = deref(p.Title)
		view.ScheduledAt = isoToLocal(p.ScheduledAt, loc)
		view.DeadlineDate = isoToLocal(p.DeadlineDate, loc)
		view.WorkflowStageID = deref(p.WorkflowStageID)
		view.JobPositionID = deref(p.JobPositionID)
		view.TemplateID = deref(p.TemplateID)
		return view
	}

	if p := f.Update; p != nil {
		view.InterviewType = deref(p.InterviewType)
		view.InterviewMode = deref(p.InterviewMode)
		view.Title = deref(p.Title)
		view.ScheduledAt = isoToLocal(p.ScheduledAt, loc)
		view.DeadlineDate = isoToLocal(p.DeadlineDate, loc)
		view.WorkflowStageID = deref(p.WorkflowStageID)
		view.JobPositionID = deref(p.JobPositionID)
		view.TemplateID = deref(p.TemplateID)
	}
	return view
}

// ----------------- HELPERS -----------------

func localToISO(value *string, loc *time.Location) (*string, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	iso, err := ParseDateTimeLocal(*value, loc)
	if err != nil {
		return nil, err
	}
	return &iso, nil
}

func isoToLocal(iso *string, loc *time.Location) string {
	if iso == nil || *iso == "" {
		return ""
	}
	local, err := FormatDateTimeLocal(*iso, loc)
	if err != nil {
		return ""
	}
	return local
}

func applyOptional(dst **string, value *string) {
	if value == nil {
		return
	}
	*dst = strPtr(*value)
}

// applyDate sets dst from the converted value; an empty input clears it.
func applyDate(dst **string, input *string, converted *string) {
	if input == nil {
		return
	}
	*dst = converted
}

func nonEmpty(value *string) *string {
	if value == nil || *value == "" {
		return nil
	}
	return value
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneSlice(s *[]string) *[]string {
	if s == nil {
		return nil
	}
	v := append([]string{}, (*s)...)
	return &v
}

func cloneUpdate(p *interviewDatamodel.UpdateInterviewPayload) *interviewDatamodel.UpdateInterviewPayload {
	if p == nil {
		return &interviewDatamodel.UpdateInterviewPayload{}
	}
	return &interviewDatamodel.UpdateInterviewPayload{
		InterviewType:   cloneStr(p.InterviewType),
		InterviewMode:   cloneStr(p.InterviewMode),
		Title:           cloneStr(p.Title),
		ScheduledAt:     cloneStr(p.ScheduledAt),
		DeadlineDate:    cloneStr(p.DeadlineDate),
		WorkflowStageID: cloneStr(p.WorkflowStageID),
		JobPositionID:   cloneStr(p.JobPositionID),
		TemplateID:      cloneStr(p.TemplateID),
		RequiredRoles:   cloneSlice(p.RequiredRoles),
		Interviewers:    cloneSlice(p.Interviewers),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func appendUnique(ids []string, id string) []string {
	if indexOf(ids, id) >= 0 {
		return ids
	}
	return append(ids, id)
}
