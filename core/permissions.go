package core

import (
	"context"
	"fmt"
)

// PermissionAll grants every permission. Only the admin role holds it in the
// reference schema.
const PermissionAll = "*"

const (
	PermissionTaskRead = "task:read"
	PermissionUserList = "user:list"
)

// PermissionLoader derives the permission set of a role.
type PermissionLoader interface {
	LoadPermissions(ctx context.Context, role string) ([]string, error)
}

// PgPermissionStore reads role_permissions rows.
type PgPermissionStore struct {
	db DBTX
}

func NewPgPermissionStore(db DBTX) *PgPermissionStore {
	return &PgPermissionStore{db: db}
}

func (s *PgPermissionStore) LoadPermissions(ctx context.Context, role string) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT permission FROM role_permissions WHERE role=$1 ORDER BY permission`, role)
	if err != nil {
		return nil, fmt.Errorf("load permissions for role %q: %w", role, err)
	}
	defer rows.Close()
	perms := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// enrichPermissions attaches the role's permissions to id.
func enrichPermissions(ctx context.Context, loader PermissionLoader, id *Identity) error {
	if loader == nil || id.Role == "" {
		id.Permissions = []string{}
		return nil
	}
	perms, err := loader.LoadPermissions(ctx, id.Role)
	if err != nil {
		return err
	}
	id.Permissions = perms
	return nil
}
