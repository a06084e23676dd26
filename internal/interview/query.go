package interview

import (
	"net/url"
	"strconv"
	"strings"
)

// FilterAll is the "no filter" value the UI sends for select inputs.
const FilterAll = "all"

const (
	FilterByScheduled   = "scheduled"
	FilterByDeadline    = "deadline"
	FilterByUnscheduled = "unscheduled"
)

// Filters is the flat UI filter state of the interview list.
type Filters struct {
	CandidateName string `json:"candidate_name"`
	Status        string `json:"status"`
	Type          string `json:"type"`
	Position      string `json:"position"`
	Role          string `json:"role"`
	Interviewer   string `json:"interviewer"`
	FromDate      string `json:"from_date"`
	ToDate        string `json:"to_date"`
	FilterBy      string `json:"filter_by"`
	Metric        string `json:"metric,omitempty"`
}

// DefaultFilters is the state of a freshly opened list.
func DefaultFilters() Filters {
	return Filters{
		Status:      FilterAll,
		Type:        FilterAll,
		Position:    FilterAll,
		Role:        FilterAll,
		Interviewer: FilterAll,
	}
}

// SelectMetric switches the list to a metric shortcut. Every other filter goes
// back to its default first; manual filters and metrics never combine.
func (f *Filters) SelectMetric(metric string) {
	*f = DefaultFilters()
	f.Metric = metric
}

// Override is a partial filter set that wins over Filters for one query.
type Override struct {
	CandidateName *string `json:"candidate_name,omitempty"`
	Status        *string `json:"status,omitempty"`
	Type          *string `json:"type,omitempty"`
	Position      *string `json:"position,omitempty"`
	Role          *string `json:"role,omitempty"`
	Interviewer   *string `json:"interviewer,omitempty"`
	FromDate      *string `json:"from_date,omitempty"`
	ToDate        *string `json:"to_date,omitempty"`
	FilterBy      *string `json:"filter_by,omitempty"`
}

func (o Override) IsEmpty() bool {
	return o.CandidateName == nil && o.Status == nil && o.Type == nil &&
		o.Position == nil && o.Role == nil && o.Interviewer == nil &&
		o.FromDate == nil && o.ToDate == nil && o.FilterBy == nil
}

// Query is the backend list query. Empty fields are not sent.
type Query struct {
	CandidateName string `json:"candidate_name,omitempty"`
	Status        string `json:"status,omitempty"`
	InterviewType string `json:"interview_type,omitempty"`
	JobPositionID string `json:"job_position_id,omitempty"`
	RoleID        string `json:"role_id,omitempty"`
	InterviewerID string `json:"interviewer_id,omitempty"`
	FromDate      string `json:"from_date,omitempty"`
	ToDate        string `json:"to_date,omitempty"`
	FilterBy      string `json:"filter_by,omitempty"`
	Limit         int    `json:"limit"`
	Offset        int    `json:"offset"`
}

// BuildQuery merges filters and override into a backend query for the given
// 1-based page.
func BuildQuery(filters Filters, override Override, page, pageSize int) Query {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}

	q := Query{
		CandidateName: pick(override.CandidateName, filters.CandidateName),
		Status:        pick(override.Status, filters.Status),
		InterviewType: pick(override.Type, filters.Type),
		JobPositionID: pick(override.Position, filters.Position),
		RoleID:        pick(override.Role, filters.Role),
		InterviewerID: pick(override.Interviewer, filters.Interviewer),
		FromDate:      pick(override.FromDate, filters.FromDate),
		ToDate:        pick(override.ToDate, filters.ToDate),
		FilterBy:      pick(override.FilterBy, filters.FilterBy),
		Limit:         pageSize,
		Offset:        (page - 1) * pageSize,
	}

	// a date range means nothing without the field it applies to
	if (q.FromDate != "" || q.ToDate != "") && q.FilterBy == "" {
		q.FilterBy = FilterByScheduled
	}
	return q
}

// Values renders the query string sent to GET /interviews.
func (q Query) Values() url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value != "" {
			v.Set(key, value)
		}
	}
	set("candidate_name", q.CandidateName)
	set("status", q.Status)
	set("interview_type", q.InterviewType)
	set("job_position_id", q.JobPositionID)
	set("role_id", q.RoleID)
	set("interviewer_id", q.InterviewerID)
	set("from_date", q.FromDate)
	set("to_date", q.ToDate)
	set("filter_by", q.FilterBy)
	v.Set("limit", strconv.Itoa(q.Limit))
	v.Set("offset", strconv.Itoa(q.Offset))
	return v
}

func pick(override *string, fallback string) string {
	if override != nil && !isUnset(*override) {
		return strings.TrimSpace(*override)
	}
	if override != nil {
		return ""
	}
	if isUnset(fallback) {
		return ""
	}
	return strings.TrimSpace(fallback)
}

func isUnset(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || v == FilterAll
}
