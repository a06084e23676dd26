package interview

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"time"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/atsgateway"
	"github.com/frahmantamala/interview-console/internal/company"
	interviewDatamodel "github.com/frahmantamala/interview-console/internal/core/datamodel/interview"
	"github.com/frahmantamala/interview-console/internal/core/events"
	"github.com/frahmantamala/interview-console/internal/resource"
	"golang.org/x/sync/errgroup"
)

type GatewayAPI interface {
	ListInterviews(ctx context.Context, sess internal.Session, query url.Values) (*interviewDatamodel.InterviewList, error)
	GetInterview(ctx context.Context, sess internal.Session, id string) (*interviewDatamodel.Interview, error)
	InterviewStats(ctx context.Context, sess internal.Session) (interviewDatamodel.Stats, error)
	TransitionInterview(ctx context.Context, sess internal.Session, id, action string) (*interviewDatamodel.Interview, error)
	CandidateInterviews(ctx context.Context, sess internal.Session, candidateID string) ([]interviewDatamodel.Interview, error)
}

// DirectoryAPI serves the company users and roles used as filter options and
// for interviewer eligibility.
type DirectoryAPI interface {
	Users(ctx context.Context, sess internal.Session, filter atsgateway.UserFilter) ([]company.User, error)
	Roles(ctx context.Context, sess internal.Session, activeOnly bool) ([]company.Role, error)
}

type Config struct {
	PageSize      int
	CalendarLimit int
	Location      *time.Location
}

type Service struct {
	gateway   GatewayAPI
	directory DirectoryAPI
	publisher events.Publisher
	cfg       Config
	logger    *slog.Logger
	now       func() time.Time

	lists     *resource.Query[backendQuery, *interviewDatamodel.InterviewList]
	calendars *resource.Query[backendQuery, *interviewDatamodel.InterviewList]
}

type backendQuery struct {
	sess  internal.Session
	query Query
}

func NewService(gateway GatewayAPI, directory DirectoryAPI, publisher events.Publisher, cfg Config, logger *slog.Logger) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = internal.DefaultPageSize
	}
	if cfg.CalendarLimit <= 0 {
		cfg.CalendarLimit = internal.DefaultCalendarLimit
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	s := &Service{
		gateway:   gateway,
		directory: directory,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
	fetch := func(ctx context.Context, q backendQuery) (*interviewDatamodel.InterviewList, error) {
		return s.gateway.ListInterviews(ctx, q.sess, q.query.Values())
	}
	s.lists = resource.New("interview-list", fetch, logger)
	s.calendars = resource.New("interview-calendar", fetch, logger)
	return s
}

// WithClock replaces the time source used for metric shortcuts and calendar anchors.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Location() *time.Location {
	return s.cfg.Location
}

// ListRequest is one list view load. A metric replaces every other filter.
type ListRequest struct {
	Filters Filters
	Page    int
}

// Page is one page of the interview list with the query that produced it.
type Page struct {
	Interviews []Interview `json:"interviews"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	Query      Query       `json:"query"`
	Filters    Filters     `json:"filters"`
}

// ResolveQuery applies the metric shortcut, if any, and builds the backend query.
func (s *Service) ResolveQuery(req ListRequest, pageSize int) (Filters, Query) {
	filters := req.Filters
	var override Override
	if filters.Metric != "" {
		metric := filters.Metric
		filters.SelectMetric(metric)
		override = MetricToOverride(metric, s.now(), s.cfg.Location)
	}
	return filters, BuildQuery(filters, override, req.Page, pageSize)
}

func (s *Service) List(ctx context.Context, sess internal.Session, req ListRequest) (*Page, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	filters, q := s.ResolveQuery(req, s.cfg.PageSize)

	res, err := s.lists.Run(ctx, viewKey(sess, "list"), backendQuery{sess: sess, query: q})
	if err != nil {
		if errors.Is(err, resource.ErrSuperseded) {
			return nil, err
		}
		s.logger.Error("failed to list interviews", "error", err, "query", q.Values().Encode())
		return nil, atsgateway.ToAppError(err)
	}

	return &Page{
		Interviews: FromDataModelSlice(res.Value.Interviews, s.cfg.Location),
		Total:      res.Value.Total,
		Page:       req.Page,
		PageSize:   s.cfg.PageSize,
		Query:      q,
		Filters:    filters,
	}, nil
}

// Export pages through every interview matching req, up to limit rows.
func (s *Service) Export(ctx context.Context, sess internal.Session, req ListRequest, limit int) ([]Interview, error) {
	var out []Interview
	for page := 1; ; page++ {
		req.Page = page
		_, q := s.ResolveQuery(req, s.cfg.PageSize)
		list, err := s.gateway.ListInterviews(ctx, sess, q.Values())
		if err != nil {
			s.logger.Error("failed to export interviews", "error", err, "page", page)
			return nil, atsgateway.ToAppError(err)
		}
		out = append(out, FromDataModelSlice(list.Interviews, s.cfg.Location)...)
		if len(list.Interviews) < s.cfg.PageSize || len(out) >= list.Total || (limit > 0 && len(out) >= limit) {
			break
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Dashboard is the list view together with the summary tiles and the options
// of the interviewer and role filters.
type Dashboard struct {
	Page  *Page                    `json:"page"`
	Stats interviewDatamodel.Stats `json:"stats"`
	Users []company.User           `json:"users"`
	Roles []company.Role           `json:"roles"`
}

// Dashboard loads the list, stats and filter options concurrently. Only a list
// failure fails the call; the other loads are logged and left empty.
func (s *Service) Dashboard(ctx context.Context, sess internal.Session, req ListRequest) (*Dashboard, error) {
	dash := &Dashboard{
		Stats: interviewDatamodel.Stats{},
		Users: []company.User{},
		Roles: []company.Role{},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.List(gctx, sess, req)
		if err != nil {
			return err
		}
		dash.Page = page
		return nil
	})
	g.Go(func() error {
		stats, err := s.gateway.InterviewStats(gctx, sess)
		if err != nil {
			s.logger.Warn("failed to load interview stats", "error", err)
			return nil
		}
		dash.Stats = stats
		return nil
	})
	g.Go(func() error {
		users, err := s.directory.Users(gctx, sess, atsgateway.UserFilter{ActiveOnly: true})
		if err != nil {
			s.logger.Warn("failed to load interviewer filter options", "error", err)
			return nil
		}
		dash.Users = users
		return nil
	})
	g.Go(func() error {
		roles, err := s.directory.Roles(gctx, sess, true)
		if err != nil {
			s.logger.Warn("failed to load role filter options", "error", err)
			return nil
		}
		dash.Roles = roles
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return dash, nil
}

// Calendar loads the scheduled interviews of the grid around anchor. Loading
// is best effort: a backend failure yields an empty grid marked partial.
func (s *Service) Calendar(ctx context.Context, sess internal.Session, view string, anchor time.Time) (*Calendar, error) {
	loc := s.cfg.Location
	anchor = time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)

	days, ok := GridDays(view, anchor)
	if !ok {
		return nil, internal.NewValidationFieldError("view", "view must be week or month", internal.ErrCodeInvalidView)
	}

	from := days[0]
	to := days[len(days)-1].AddDate(0, 0, 1).Add(-time.Second)
	override := Override{
		FilterBy: ptr(FilterByScheduled),
		FromDate: ptr(formatBound(from)),
		ToDate:   ptr(formatBound(to)),
	}
	q := BuildQuery(DefaultFilters(), override, 1, s.cfg.CalendarLimit)

	res, err := s.calendars.Run(ctx, viewKey(sess, "calendar"), backendQuery{sess: sess, query: q})
	if err != nil {
		if errors.Is(err, resource.ErrSuperseded) {
			return nil, err
		}
		s.logger.Warn("failed to load calendar interviews", "error", err, "view", view, "anchor", anchor.Format(DateKeyLayout))
		cal := BuildCalendar(view, anchor, days, nil, loc)
		cal.Partial = true
		return &cal, nil
	}

	interviews := FromDataModelSlice(res.Value.Interviews, s.cfg.Location)
	cal := BuildCalendar(view, anchor, days, interviews, loc)
	cal.Partial = res.Value.Total > len(res.Value.Interviews)
	return &cal, nil
}

// Today is the current date in the configured location.
func (s *Service) Today() time.Time {
	now := s.now().In(s.cfg.Location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.cfg.Location)
}

func (s *Service) Get(ctx context.Context, sess internal.Session, id string) (*Interview, error) {
	iv, err := s.gateway.GetInterview(ctx, sess, id)
	if err != nil {
		if atsgateway.IsNotFound(err) {
			return nil, internal.ErrInterviewNotFound
		}
		s.logger.Error("failed to load interview", "error", err, "interview_id", id)
		return nil, atsgateway.ToAppError(err)
	}
	out := FromDataModel(*iv, s.cfg.Location)
	return &out, nil
}

// Transition runs a lifecycle action. The backend decides whether it is allowed.
func (s *Service) Transition(ctx context.Context, sess internal.Session, id, action string) (*Interview, error) {
	switch action {
	case atsgateway.ActionStart, atsgateway.ActionFinish, atsgateway.ActionCancel:
	default:
		return nil, internal.NewValidationFieldError("action", "action must be start, finish or cancel", internal.ErrCodeInvalidRequest)
	}

	iv, err := s.gateway.TransitionInterview(ctx, sess, id, action)
	if err != nil {
		if atsgateway.IsNotFound(err) {
			return nil, internal.ErrInterviewNotFound
		}
		s.logger.Error("failed to transition interview", "error", err, "interview_id", id, "action", action)
		return nil, atsgateway.ToAppError(err)
	}

	out := FromDataModel(*iv, s.cfg.Location)
	s.logger.Info("interview transitioned", "interview_id", id, "action", action, "status", out.Status)
	if s.publisher != nil {
		event := events.NewInterviewTransitionedEvent(id, action, out.Status, sess.UserID)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish interview transitioned event", "error", err, "interview_id", id)
		}
	}
	return &out, nil
}

// CandidateInterviews splits a candidate's interviews around the given stage.
func (s *Service) CandidateInterviews(ctx context.Context, sess internal.Session, candidateID, stageID string) (*StageSplit, error) {
	list, err := s.gateway.CandidateInterviews(ctx, sess, candidateID)
	if err != nil {
		s.logger.Error("failed to load candidate interviews", "error", err, "candidate_id", candidateID)
		return nil, atsgateway.ToAppError(err)
	}
	split := SplitByStage(FromDataModelSlice(list, s.cfg.Location), stageID)
	return &split, nil
}

// EligibleInterviewers lists the active users holding at least one of roleIDs.
func (s *Service) EligibleInterviewers(ctx context.Context, sess internal.Session, roleIDs []string) ([]company.User, error) {
	users, err := s.directory.Users(ctx, sess, atsgateway.UserFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	return EligibleUsers(users, roleIDs), nil
}

func viewKey(sess internal.Session, view string) string {
	return sess.CompanyID + ":" + sess.UserID + ":" + view
}
