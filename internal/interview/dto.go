package interview

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/interview-console/internal/company"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ListParams are the query parameters of the list and dashboard endpoints.
type ListParams struct {
	CandidateName string `json:"candidate_name"`
	Status        string `json:"status"`
	Type          string `json:"type"`
	Position      string `json:"position"`
	Role          string `json:"role"`
	Interviewer   string `json:"interviewer"`
	FromDate      string `json:"from_date"`
	ToDate        string `json:"to_date"`
	FilterBy      string `json:"filter_by"`
	Metric        string `json:"metric"`
	Page          string `json:"page"`
}

func ListParamsFromQuery(q url.Values) ListParams {
	return ListParams{
		CandidateName: q.Get("candidate_name"),
		Status:        q.Get("status"),
		Type:          q.Get("type"),
		Position:      q.Get("position"),
		Role:          q.Get("role"),
		Interviewer:   q.Get("interviewer"),
		FromDate:      q.Get("from_date"),
		ToDate:        q.Get("to_date"),
		FilterBy:      q.Get("filter_by"),
		Metric:        q.Get("metric"),
		Page:          q.Get("page"),
	}
}

func (p ListParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FilterBy, validation.In(FilterAll, FilterByScheduled, FilterByDeadline, FilterByUnscheduled)),
		validation.Field(&p.Metric, validation.In(stringsToAny(Metrics)...)),
		validation.Field(&p.FromDate, validation.By(timestamp)),
		validation.Field(&p.ToDate, validation.By(timestamp)),
		validation.Field(&p.Page, validation.By(positiveInt)),
		validation.Field(&p.CandidateName, validation.Length(0, 200)),
	)
}

// ToRequest converts validated params into a list request.
func (p ListParams) ToRequest() ListRequest {
	page := 1
	if p.Page != "" {
		page, _ = strconv.Atoi(p.Page)
	}
	return ListRequest{
		Filters: Filters{
			CandidateName: p.CandidateName,
			Status:        orAll(p.Status),
			Type:          orAll(p.Type),
			Position:      orAll(p.Position),
			Role:          orAll(p.Role),
			Interviewer:   orAll(p.Interviewer),
			FromDate:      p.FromDate,
			ToDate:        p.ToDate,
			FilterBy:      p.FilterBy,
			Metric:        p.Metric,
		},
		Page: page,
	}
}

type CalendarParams struct {
	View   string `json:"view"`
	Anchor string `json:"anchor"`
}

func (p CalendarParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.View, validation.Required, validation.In(CalendarViewWeek, CalendarViewMonth)),
		validation.Field(&p.Anchor, validation.Date(DateKeyLayout)),
	)
}

// AnchorIn parses the anchor date in loc, defaulting to today.
func (p CalendarParams) AnchorIn(loc *time.Location, today time.Time) time.Time {
	if p.Anchor == "" {
		return today
	}
	t, err := time.ParseInLocation(DateKeyLayout, p.Anchor, loc)
	if err != nil {
		return today
	}
	return t
}

// RoleIDsFromQuery accepts repeated and comma separated role parameters.
func RoleIDsFromQuery(q url.Values) []string {
	var ids []string
	for _, raw := range q["role"] {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = appendUnique(ids, id)
			}
		}
	}
	return ids
}

type EligibleInterviewersResponse struct {
	RequiredRoles []string       `json:"required_roles"`
	Users         []company.User `json:"users"`
}

type InterviewResponse struct {
	Interview *Interview `json:"interview"`
}

func timestamp(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, ok := ParseTimestamp(s, time.UTC); !ok {
		return errors.New("must be an ISO-8601 date or timestamp")
	}
	return nil
}

func positiveInt(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return errors.New("must be a positive integer")
	}
	return nil
}

func orAll(value string) string {
	if value == "" {
		return FilterAll
	}
	return value
}

func stringsToAny(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
