package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of *pgxpool.Pool used by the repositories.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AdminUserListItem is a projection for admin user listing (no password hash).
type AdminUserListItem struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	FindActiveByUsername(ctx context.Context, username string) (*Identity, error)
	FindActiveByID(ctx context.Context, id string) (*Identity, error)
	Create(ctx context.Context, id, username, passwordHash, role string) error
	HasAdmin(ctx context.Context) (bool, error)
	List(ctx context.Context, page, perPage int) ([]AdminUserListItem, int, error)
}

// PgUserRepository implements UserRepository using pgx.
type PgUserRepository struct {
	db DBTX
}

func NewPgUserRepository(db DBTX) *PgUserRepository {
	return &PgUserRepository{db: db}
}

// FindActiveByUsername loads the narrowed authentication projection of an
// active user. ErrUserNotFound covers both unknown and inactive accounts.
func (r *PgUserRepository) FindActiveByUsername(ctx context.Context, username string) (*Identity, error) {
	const q = `SELECT id, username, password_hash, role FROM users WHERE username=$1 AND active=true`
	return r.findOne(ctx, q, username)
}

func (r *PgUserRepository) FindActiveByID(ctx context.Context, id string) (*Identity, error) {
	const q = `SELECT id, username, password_hash, role FROM users WHERE id=$1 AND active=true`
	return r.findOne(ctx, q, id)
}

func (r *PgUserRepository) findOne(ctx context.Context, q string, arg string) (*Identity, error) {
	u := Identity{Active: true}
	if err := r.db.QueryRow(ctx, q, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *PgUserRepository) Create(ctx context.Context, id, username, passwordHash, role string) error {
	const q = `INSERT INTO users (id, username, password_hash, role, active) VALUES ($1,$2,$3,$4,true)`
	if _, err := r.db.Exec(ctx, q, id, username, passwordHash, role); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *PgUserRepository) HasAdmin(ctx context.Context) (bool, error) {
	const q = `SELECT 1 FROM users WHERE role='admin' LIMIT 1`
	var one int
	if err := r.db.QueryRow(ctx, q).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// List returns paginated users without password hash.
func (r *PgUserRepository) List(ctx context.Context, page, perPage int) ([]AdminUserListItem, int, error) {
	if page <= 0 || perPage <= 0 {
		return nil, 0, errors.New("invalid pagination")
	}
	const countQ = `SELECT COUNT(*) FROM users`
	var total int
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, username, role, active, created_at FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items := make([]AdminUserListItem, 0, perPage)
	for rows.Next() {
		var u AdminUserListItem
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.Active, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, u)
	}
	return items, total, rows.Err()
}
