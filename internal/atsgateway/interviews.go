package atsgateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/frahmantamala/interview-console/internal"
	interviewDatamodel "github.com/frahmantamala/interview-console/internal/core/datamodel/interview"
)

// Interview lifecycle actions accepted by the backend.
const (
	ActionStart  = "start"
	ActionFinish = "finish"
	ActionCancel = "cancel"
)

func (c *Client) ListInterviews(ctx context.Context, sess internal.Session, query url.Values) (*interviewDatamodel.InterviewList, error) {
	var list interviewDatamodel.InterviewList
	if err := c.request(ctx, sess, http.MethodGet, "/interviews", query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) GetInterview(ctx context.Context, sess internal.Session, id string) (*interviewDatamodel.Interview, error) {
	var iv interviewDatamodel.Interview
	if err := c.request(ctx, sess, http.MethodGet, "/interviews/"+url.PathEscape(id), nil, nil, &iv); err != nil {
		return nil, err
	}
	return &iv, nil
}

func (c *Client) InterviewStats(ctx context.Context, sess internal.Session) (interviewDatamodel.Stats, error) {
	stats := interviewDatamodel.Stats{}
	if err := c.request(ctx, sess, http.MethodGet, "/interviews/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) CreateInterview(ctx context.Context, sess internal.Session, payload interviewDatamodel.CreateInterviewPayload) (*interviewDatamodel.Interview, error) {
	var iv interviewDatamodel.Interview
	if err := c.request(ctx, sess, http.MethodPost, "/interviews", nil, payload, &iv); err != nil {
		return nil, err
	}
	return &iv, nil
}

func (c *Client) UpdateInterview(ctx context.Context, sess internal.Session, id string, payload interviewDatamodel.UpdateInterviewPayload) (*interviewDatamodel.Interview, error) {
	var iv interviewDatamodel.Interview
	if err := c.request(ctx, sess, http.MethodPut, "/interviews/"+url.PathEscape(id), nil, payload, &iv); err != nil {
		return nil, err
	}
	return &iv, nil
}

// TransitionInterview posts one of the lifecycle actions (start, finish, cancel).
func (c *Client) TransitionInterview(ctx context.Context, sess internal.Session, id, action string) (*interviewDatamodel.Interview, error) {
	switch action {
	case ActionStart, ActionFinish, ActionCancel:
	default:
		return nil, fmt.Errorf("unknown interview action %q", action)
	}

	var iv interviewDatamodel.Interview
	path := fmt.Sprintf("/interviews/%s/%s", url.PathEscape(id), action)
	if err := c.request(ctx, sess, http.MethodPost, path, nil, nil, &iv); err != nil {
		return nil, err
	}
	return &iv, nil
}

func (c *Client) CandidateInterviews(ctx context.Context, sess internal.Session, candidateID string) ([]interviewDatamodel.Interview, error) {
	var list interviewDatamodel.InterviewList
	path := fmt.Sprintf("/candidates/%s/interviews", url.PathEscape(candidateID))
	if err := c.request(ctx, sess, http.MethodGet, path, nil, nil, &list); err != nil {
		return nil, err
	}
	return list.Interviews, nil
}
