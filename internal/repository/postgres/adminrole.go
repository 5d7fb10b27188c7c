package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/websitemybusiness/contact-relay/internal/domain"
)

// AdminRoleRepo answers the "is this user an admin" question against the
// admin_roles table. The flag is external state: sessions prove identity,
// this table grants authority.
type AdminRoleRepo struct{ db *sql.DB }

// NewAdminRoleRepo creates a Postgres-backed role lookup.
func NewAdminRoleRepo(db *sql.DB) *AdminRoleRepo { return &AdminRoleRepo{db: db} }

// IsAdmin reports whether the given email carries the admin role.
func (r *AdminRoleRepo) IsAdmin(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM admin_roles
			WHERE LOWER(email) = LOWER($1) AND role = $2
		)
	`, email, string(domain.RoleAdmin)).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("admin role lookup: %w", err)
	}
	return exists, nil
}
