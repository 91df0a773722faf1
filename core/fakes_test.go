package core

import (
	"context"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// fakeUserRepo keeps users in memory, including inactive ones, and applies
// the same active filter as the Postgres repository.
type fakeUserRepo struct {
	mu      sync.Mutex
	users   []*Identity
	err     error
	panicOn string
	lookups int
	writes  int
}

func (f *fakeUserRepo) add(u Identity) {
	f.users = append(f.users, &u)
}

func (f *fakeUserRepo) find(match func(*Identity) bool) (*Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Active && match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrUserNotFound
}

func (f *fakeUserRepo) FindActiveByUsername(_ context.Context, username string) (*Identity, error) {
	if f.panicOn != "" && f.panicOn == username {
		panic("lookup exploded")
	}
	return f.find(func(u *Identity) bool { return u.Username == username })
}

func (f *fakeUserRepo) FindActiveByID(_ context.Context, id string) (*Identity, error) {
	return f.find(func(u *Identity) bool { return u.ID == id })
}

func (f *fakeUserRepo) Create(_ context.Context, id, username, passwordHash, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	if f.err != nil {
		return f.err
	}
	f.users = append(f.users, &Identity{ID: id, Username: username, PasswordHash: passwordHash, Role: role, Active: true})
	return nil
}

func (f *fakeUserRepo) HasAdmin(_ context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	for _, u := range f.users {
		if u.Role == roleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) List(_ context.Context, page, perPage int) ([]AdminUserListItem, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	items := make([]AdminUserListItem, 0)
	start := (page - 1) * perPage
	for i := start; i < len(f.users) && i < start+perPage; i++ {
		u := f.users[i]
		items = append(items, AdminUserListItem{ID: u.ID, Username: u.Username, Role: u.Role, Active: u.Active})
	}
	return items, len(f.users), nil
}

type fakePermissions struct {
	byRole map[string][]string
	err    error
	calls  int
}

func (f *fakePermissions) LoadPermissions(_ context.Context, role string) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return append([]string{}, f.byRole[role]...), nil
}

func defaultPermissions() *fakePermissions {
	return &fakePermissions{byRole: map[string][]string{
		"admin": {PermissionAll},
		"user":  {PermissionTaskRead},
	}}
}

// seededUsers returns a repo with an active user alice/secret and an inactive
// user bob/secret.
func seededUsers(t *testing.T) *fakeUserRepo {
	t.Helper()
	repo := &fakeUserRepo{}
	hash := mustHash(t, "secret")
	repo.add(Identity{ID: "u-alice", Username: "alice", PasswordHash: hash, Role: "user", Active: true})
	repo.add(Identity{ID: "u-bob", Username: "bob", PasswordHash: hash, Role: "user", Active: false})
	return repo
}
