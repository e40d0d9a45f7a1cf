package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Grant is a durable record of the role a username holds.
// One row per username; the first write fixes the baseline.
type Grant struct {
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GrantStore defines the interface for role grant persistence.
type GrantStore interface {
	Get(ctx context.Context, username string) (*Grant, error)
	Record(ctx context.Context, username string, role Role) error
	CheckRoleGrant(ctx context.Context, username string, requested Role) (bool, error)
}

// SQLiteGrantStore implements GrantStore using the admin_permissions table.
type SQLiteGrantStore struct {
	db *sql.DB
}

// NewGrantStore creates a new SQLite-backed grant store.
func NewGrantStore(db *sql.DB) *SQLiteGrantStore {
	return &SQLiteGrantStore{db: db}
}

// Get retrieves the grant record for a username.
func (s *SQLiteGrantStore) Get(ctx context.Context, username string) (*Grant, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT username, role, created_at, updated_at FROM admin_permissions WHERE username = ?",
		username,
	)

	var g Grant
	var role, createdAt, updatedAt string
	if err := row.Scan(&g.Username, &role, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("scanning grant: %w", err)
	}

	g.Role = Role(role)
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	g.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt) //nolint:errcheck // format is controlled

	return &g, nil
}

// Record writes a grant row for the username if none exists yet.
// An existing row is left untouched: the first record is permanent.
func (s *SQLiteGrantStore) Record(ctx context.Context, username string, role Role) error {
	if !IsValidRole(role) {
		return ErrInvalidRole
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO admin_permissions (username, role, permissions, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		username, string(role), permissionsCSV(role), now, now,
	)
	if err != nil {
		return fmt.Errorf("recording grant: %w", err)
	}
	return nil
}

// CheckRoleGrant decides whether a login may proceed under the requested role.
//
// The rule is historical and deliberate:
//   - No record exists and the requested role is the top rank: the requester
//     claims it, a permanent record is written, and the login is granted.
//     This is the first-admin bootstrap path.
//   - A record exists: the login is granted iff the recorded role's rank is
//     at least the requested role's rank. A user can always step down to a
//     lower role but can never escalate past what was recorded.
//   - No record exists and anything below the top rank is requested: denied.
//     Roles are only ever established through the bootstrap path or by an
//     operator writing a grant directly.
func (s *SQLiteGrantStore) CheckRoleGrant(ctx context.Context, username string, requested Role) (bool, error) {
	if !IsValidRole(requested) {
		return false, ErrInvalidRole
	}

	grant, err := s.Get(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			if requested == RoleSuperAdmin {
				if err := s.Record(ctx, username, RoleSuperAdmin); err != nil {
					return false, err
				}
				return true, nil
			}
			return false, nil
		}
		return false, err
	}

	return RoleRank(grant.Role) >= RoleRank(requested), nil
}

// permissionsCSV renders a role's permissions as a comma-separated string
// for the denormalised permissions column.
func permissionsCSV(role Role) string {
	perms := PermissionsForRole(role)
	parts := make([]string, len(perms))
	for i, p := range perms {
		parts[i] = string(p)
	}
	return strings.Join(parts, ",")
}
