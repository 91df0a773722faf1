package core

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)
	return mockDB
}

func TestPgUserRepository_FindActiveByUsername(t *testing.T) {
	mockDB := newMockPool(t)
	repo := NewPgUserRepository(mockDB)

	mockDB.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username=$1 AND active=true`)).
		WithArgs("alice").
		WillReturnRows(mockDB.NewRows([]string{"id", "username", "password_hash", "role"}).
			AddRow("u-alice", "alice", "$2a$hash", "user"))

	u, err := repo.FindActiveByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "u-alice", u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "$2a$hash", u.PasswordHash)
	assert.Equal(t, "user", u.Role)
	assert.True(t, u.Active)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPgUserRepository_NotFound(t *testing.T) {
	mockDB := newMockPool(t)
	repo := NewPgUserRepository(mockDB)

	mockDB.ExpectQuery(regexp.QuoteMeta(`WHERE username=$1 AND active=true`)).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)
	mockDB.ExpectQuery(regexp.QuoteMeta(`WHERE id=$1 AND active=true`)).
		WithArgs("u-ghost").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.FindActiveByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = repo.FindActiveByID(context.Background(), "u-ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPgUserRepository_StorageErrorIsWrapped(t *testing.T) {
	mockDB := newMockPool(t)
	repo := NewPgUserRepository(mockDB)
	boom := errors.New("connection refused")

	mockDB.ExpectQuery(`FROM users`).WithArgs("alice").WillReturnError(boom)

	_, err := repo.FindActiveByUsername(context.Background(), "alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestPgUserRepository_HasAdmin(t *testing.T) {
	mockDB := newMockPool(t)
	repo := NewPgUserRepository(mockDB)

	mockDB.ExpectQuery(`SELECT 1 FROM users WHERE role='admin'`).
		WillReturnError(pgx.ErrNoRows)
	mockDB.ExpectQuery(`SELECT 1 FROM users WHERE role='admin'`).
		WillReturnRows(mockDB.NewRows([]string{"?column?"}).AddRow(1))

	has, err := repo.HasAdmin(context.Background())
	require.NoError(t, err)
	assert.False(t, has)

	has, err = repo.HasAdmin(context.Background())
	require.NoError(t, err)
	assert.True(t, has)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPgUserRepository_Create(t *testing.T) {
	mockDB := newMockPool(t)
	repo := NewPgUserRepository(mockDB)

	mockDB.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, username, password_hash, role, active)`)).
		WithArgs("u-1", "carol", "hash", "user").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), "u-1", "carol", "hash", "user"))
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPgUserRepository_List(t *testing.T) {
	mockDB := newMockPool(t)
	repo := NewPgUserRepository(mockDB)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mockDB.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM users`)).
		WillReturnRows(mockDB.NewRows([]string{"count"}).AddRow(3))
	mockDB.ExpectQuery(regexp.QuoteMeta(`ORDER BY created_at, id LIMIT $1 OFFSET $2`)).
		WithArgs(2, 2).
		WillReturnRows(mockDB.NewRows([]string{"id", "username", "role", "active", "created_at"}).
			AddRow("u-3", "dave", "user", false, created))

	items, total, err := repo.List(context.Background(), 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 1)
	assert.Equal(t, AdminUserListItem{ID: "u-3", Username: "dave", Role: "user", Active: false, CreatedAt: created}, items[0])
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestPgUserRepository_ListRejectsBadPagination(t *testing.T) {
	repo := NewPgUserRepository(newMockPool(t))
	_, _, err := repo.List(context.Background(), 0, 10)
	assert.Error(t, err)
}

func TestPgPermissionStore_LoadPermissions(t *testing.T) {
	mockDB := newMockPool(t)
	store := NewPgPermissionStore(mockDB)

	mockDB.ExpectQuery(regexp.QuoteMeta(`SELECT permission FROM role_permissions WHERE role=$1`)).
		WithArgs("user").
		WillReturnRows(mockDB.NewRows([]string{"permission"}).AddRow("task:read"))
	mockDB.ExpectQuery(regexp.QuoteMeta(`SELECT permission FROM role_permissions WHERE role=$1`)).
		WithArgs("nobody").
		WillReturnRows(mockDB.NewRows([]string{"permission"}))

	perms, err := store.LoadPermissions(context.Background(), "user")
	require.NoError(t, err)
	assert.Equal(t, []string{"task:read"}, perms)

	perms, err = store.LoadPermissions(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, perms)
	assert.Empty(t, perms)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}
