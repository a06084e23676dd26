// Package draft keeps interview editor state between requests. A draft belongs
// to the company user that opened it and expires after a period of inactivity.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/frahmantamala/interview-console/internal/interview"
)

type Draft struct {
	ID        string          `json:"id"`
	CompanyID string          `json:"company_id"`
	UserID    string          `json:"user_id"`
	Form      *interview.Form `json:"form"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

func (d *Draft) OwnedBy(sess internal.Session) bool {
	return d.CompanyID == sess.CompanyID && d.UserID == sess.UserID
}

// Store persists drafts with a time to live. Get returns
// internal.ErrDraftNotFound for missing or expired drafts.
type Store interface {
	Get(ctx context.Context, id string) (*Draft, error)
	Save(ctx context.Context, d *Draft, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close()
}

func encode(d *Draft) ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode draft %s: %w", d.ID, err)
	}
	return b, nil
}

func decode(b []byte) (*Draft, error) {
	var d Draft
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &d, nil
}
