// Package atsgateway is the HTTP client for the ATS REST backend, which owns
// every persisted entity (interviews, users, roles).
package atsgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/frahmantamala/interview-console/internal"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend error %d: %s", e.StatusCode, e.Body)
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// request performs one fire-and-await call. There are no retries: a failure is
// terminal for this attempt.
func (c *Client) request(ctx context.Context, sess internal.Session, method, path string, query url.Values, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if sess.Token != "" {
		req.Header.Set("Authorization", "Bearer "+sess.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("backend request failed",
			"method", method,
			"path", path,
			"error", err)
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("backend request completed",
		"method", method,
		"path", path,
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(respBody)),
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Ping checks that the backend answers at all; any HTTP status counts as reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// ToAppError classifies a gateway error for our own callers.
func ToAppError(err error) *internal.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		message := backendMessage(apiErr.Body)
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			return internal.NewUnauthorizedError(message, internal.ErrCodeInvalidToken).WithCause(err)
		case http.StatusForbidden:
			return internal.NewForbiddenError(message, internal.ErrCodeBackendRejected).WithCause(err)
		case http.StatusNotFound:
			return internal.NewNotFoundError(message, internal.ErrCodeBackendRejected).WithCause(err)
		case http.StatusConflict:
			return internal.NewConflictError(message, internal.ErrCodeBackendRejected).WithCause(err)
		}
		if apiErr.StatusCode < 500 {
			return internal.NewExternalError(message, internal.ErrCodeBackendRejected, apiErr.StatusCode, err)
		}
		return internal.NewExternalError("Backend request failed", internal.ErrCodeBackendUnavailable, http.StatusBadGateway, err)
	}

	return internal.NewExternalError("Backend unavailable", internal.ErrCodeBackendUnavailable, http.StatusBadGateway, err)
}

// backendMessage pulls a human message out of the common error envelopes.
func backendMessage(body string) string {
	var envelope struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err == nil {
		switch {
		case envelope.Message != "":
			return envelope.Message
		case envelope.Detail != "":
			return envelope.Detail
		}
		if s, ok := envelope.Error.(string); ok && s != "" {
			return s
		}
	}
	if body == "" {
		return "Backend rejected the request"
	}
	return body
}
