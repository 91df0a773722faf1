package core

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// JWTStrategy verifies HS256 bearer tokens and resolves the subject claim to
// an active user. Tokens are issued elsewhere.
type JWTStrategy struct {
	users       UserRepository
	permissions PermissionLoader
	secret      []byte
	issuer      string
}

func NewJWTStrategy(users UserRepository, permissions PermissionLoader, secret, issuer string) *JWTStrategy {
	return &JWTStrategy{
		users:       users,
		permissions: permissions,
		secret:      []byte(secret),
		issuer:      issuer,
	}
}

func (s *JWTStrategy) Name() string { return "jwt" }

func (s *JWTStrategy) Credentials(r *http.Request) (Credentials, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return Credentials{}, false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return Credentials{}, false
	}
	return Credentials{Token: token}, true
}

func (s *JWTStrategy) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	return opts
}

func (s *JWTStrategy) Verify(ctx context.Context, creds Credentials) AuthOutcome {
	if creds.Token == "" {
		return Rejected()
	}

	claims := jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(creds.Token, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, s.parserOptions()...)
	if err != nil || claims.Subject == "" {
		return Rejected()
	}

	user, err := s.users.FindActiveByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return Rejected()
		}
		return Errored(err)
	}

	if err := enrichPermissions(ctx, s.permissions, user); err != nil {
		return Errored(err)
	}
	return Authenticated(user)
}
