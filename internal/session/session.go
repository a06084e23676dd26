// Package session decodes the caller identity from the bearer token. The token
// is issued and verified by the ATS backend; it is read here only to route
// requests to the right company.
package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/interview-console/internal"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ClaimCompanyID = "company_id"
	ClaimUserID    = "user_id"
)

var parser = jwt.NewParser()

// Decode reads the claims of token without checking its signature. Expired
// tokens are rejected so they never reach the backend.
func Decode(token string, now time.Time) (internal.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return internal.Session{}, internal.ErrInvalidToken
	}

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return internal.Session{}, internal.ErrInvalidToken.WithCause(err)
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && !now.Before(exp.Time) {
		return internal.Session{}, internal.ErrInvalidToken.WithCause(fmt.Errorf("token expired at %s", exp.Time.Format(time.RFC3339)))
	}

	sess := internal.Session{
		Token:     token,
		CompanyID: claimString(claims, ClaimCompanyID),
		UserID:    claimString(claims, ClaimUserID),
	}
	if sess.UserID == "" {
		sess.UserID, _ = claims.GetSubject()
	}
	if sess.UserID == "" {
		return internal.Session{}, internal.ErrInvalidToken.WithCause(fmt.Errorf("token has no %s claim", ClaimUserID))
	}
	return sess, nil
}

// claimString accepts ids encoded either as strings or as JSON numbers.
func claimString(claims jwt.MapClaims, key string) string {
	switch v := claims[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}
