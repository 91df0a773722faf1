package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// BasicStrategy verifies HTTP Basic credentials against the user repository.
// Unknown users, inactive users and wrong passwords all yield the same
// Rejected outcome.
type BasicStrategy struct {
	users       UserRepository
	permissions PermissionLoader
}

func NewBasicStrategy(users UserRepository, permissions PermissionLoader) *BasicStrategy {
	return &BasicStrategy{users: users, permissions: permissions}
}

func (s *BasicStrategy) Name() string { return "basic" }

// Credentials decodes the Authorization: Basic header.
func (s *BasicStrategy) Credentials(r *http.Request) (Credentials, bool) {
	username, password, ok := r.BasicAuth()
	if !ok {
		return Credentials{}, false
	}
	return Credentials{Username: username, Password: password}, true
}

func (s *BasicStrategy) Verify(ctx context.Context, creds Credentials) AuthOutcome {
	if strings.TrimSpace(creds.Username) == "" {
		return Rejected()
	}

	user, err := s.users.FindActiveByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			burnPasswordCheck(creds.Password)
			return Rejected()
		}
		return Errored(err)
	}

	ok, err := VerifyPassword(creds.Password, user.PasswordHash)
	if err != nil {
		return Errored(fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return Rejected()
	}

	if err := enrichPermissions(ctx, s.permissions, user); err != nil {
		return Errored(err)
	}
	return Authenticated(user)
}
