package core

import (
	"context"
	"errors"
	"net/http"
	"slices"
)

// Identity represents an authenticated principal returned to handlers.
type Identity struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	PasswordHash string   `json:"-"`
	Active       bool     `json:"active"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
}

// HasPermission reports whether the identity was granted perm, either directly
// or through the wildcard permission.
func (id *Identity) HasPermission(perm string) bool {
	if id == nil {
		return false
	}
	return slices.Contains(id.Permissions, perm) || slices.Contains(id.Permissions, PermissionAll)
}

// Credentials are the raw values presented by a client. They live for one
// request only and are never persisted.
type Credentials struct {
	Username string
	Password string
	Token    string
}

// OutcomeKind enumerates the three results of an authentication attempt.
type OutcomeKind int

const (
	// OutcomeAuthenticated means the credentials resolved to an active identity.
	OutcomeAuthenticated OutcomeKind = iota
	// OutcomeRejected is the normal "not authorized" result. It never carries
	// a reason.
	OutcomeRejected
	// OutcomeErrored means verification could not complete.
	OutcomeErrored
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAuthenticated:
		return "authenticated"
	case OutcomeRejected:
		return "rejected"
	case OutcomeErrored:
		return "error"
	default:
		return "unknown"
	}
}

// AuthOutcome is returned by Strategy.Verify.
type AuthOutcome struct {
	Kind     OutcomeKind
	Identity *Identity // set only for OutcomeAuthenticated
	Err      error     // set only for OutcomeErrored
}

func Authenticated(id *Identity) AuthOutcome {
	return AuthOutcome{Kind: OutcomeAuthenticated, Identity: id}
}

func Rejected() AuthOutcome {
	return AuthOutcome{Kind: OutcomeRejected}
}

func Errored(err error) AuthOutcome {
	return AuthOutcome{Kind: OutcomeErrored, Err: err}
}

var (
	// ErrUserNotFound is returned by repositories when no active user matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnknownStrategy is returned when the configured strategy name is not registered.
	ErrUnknownStrategy = errors.New("unknown auth strategy")
)

// Strategy verifies one kind of credentials. The concrete strategy for a route
// group is chosen when routes are registered.
type Strategy interface {
	Name() string
	// Credentials extracts the strategy's credentials from r. ok is false when
	// the request carries none.
	Credentials(r *http.Request) (creds Credentials, ok bool)
	Verify(ctx context.Context, creds Credentials) AuthOutcome
}

type identityKey struct{}

// WithIdentity stores the authenticated identity in ctx.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity attached by Authorize, or nil.
func IdentityFromContext(ctx context.Context) *Identity {
	if v, ok := ctx.Value(identityKey{}).(*Identity); ok {
		return v
	}
	return nil
}
