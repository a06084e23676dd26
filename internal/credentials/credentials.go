// Package credentials keeps the CLI bearer token in the OS keyring, one entry
// per backend URL.
package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	service = "interview-console"
	// EnvToken overrides the keyring, for CI and containers without one.
	EnvToken = "INTERVIEW_CONSOLE_TOKEN"
)

var ErrNoToken = errors.New("no token stored, run `interview-console token set` first")

func account(backendURL string) string {
	return strings.TrimRight(backendURL, "/")
}

// SaveToken stores token for backendURL.
func SaveToken(backendURL, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("token must not be empty")
	}
	if err := keyring.Set(service, account(backendURL), token); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// LoadToken returns the token for backendURL. The environment wins over the keyring.
func LoadToken(backendURL string) (string, error) {
	if token := strings.TrimSpace(os.Getenv(EnvToken)); token != "" {
		return token, nil
	}
	token, err := keyring.Get(service, account(backendURL))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("reading token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the stored token. Deleting a missing token is not an error.
func DeleteToken(backendURL string) error {
	if err := keyring.Delete(service, account(backendURL)); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}
