// Package credentials keeps the Toggl API token in the OS keyring so it does
// not have to live in .env files.
package credentials

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	service = "asakatsu"
	user    = "toggl-api-token"
)

var (
	// ErrNotFound is returned when no token is stored.
	ErrNotFound = errors.New("toggl token not found in keyring")
	// ErrUnavailable is returned when the OS keyring cannot be reached.
	ErrUnavailable = errors.New("OS keyring is not available")
)

// Token returns the stored Toggl API token.
func Token() (string, error) {
	tok, err := keyring.Get(service, user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return tok, nil
}

// SetToken stores the Toggl API token, replacing any previous value.
func SetToken(tok string) error {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.Set(service, user, tok); err != nil {
		return fmt.Errorf("store token in keyring: %w", err)
	}
	return nil
}

// DeleteToken removes the stored token.
func DeleteToken() error {
	if err := keyring.Delete(service, user); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete token from keyring: %w", err)
	}
	return nil
}

// Resolve returns explicit when set, otherwise the keyring token. A missing
// or unreachable keyring yields an empty token and no error; callers validate.
func Resolve(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	tok, err := Token()
	if err != nil {
		return "", nil
	}
	return tok, nil
}
