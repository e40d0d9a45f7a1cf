package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mdoganay/login-core/internal/auth"
)

// Repository defines the interface for admin session persistence.
type Repository interface {
	Insert(ctx context.Context, s *AdminSession) error
	Get(ctx context.Context, id string) (*AdminSession, error)
	Deactivate(ctx context.Context, id string) error
	CountActive(ctx context.Context, now time.Time) (int, error)
}

// SQLiteRepository implements Repository over the admin_sessions table.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository creates a new SQLite-backed admin session repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Insert writes a new admin session row.
func (r *SQLiteRepository) Insert(ctx context.Context, s *AdminSession) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admin_sessions (id, username, role, created_at, expires_at, ip_address, user_agent, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Username, string(s.Role),
		s.CreatedAt.UTC().Format(time.RFC3339),
		s.ExpiresAt.UTC().Format(time.RFC3339),
		nullString(s.IPAddress), nullString(s.UserAgent),
		boolToInt(s.IsActive),
	)
	if err != nil {
		return fmt.Errorf("inserting admin session: %w", err)
	}
	return nil
}

// Get retrieves an admin session row by id regardless of state.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*AdminSession, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, role, created_at, expires_at, ip_address, user_agent, is_active
		 FROM admin_sessions WHERE id = ?`, id)

	var s AdminSession
	var role, createdAt, expiresAt string
	var ipAddress, userAgent sql.NullString
	var isActive int

	err := row.Scan(&s.ID, &s.Username, &role, &createdAt, &expiresAt, &ipAddress, &userAgent, &isActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("scanning admin session: %w", err)
	}

	s.Role = auth.Role(role)
	s.IsActive = isActive != 0
	if ipAddress.Valid {
		s.IPAddress = ipAddress.String
	}
	if userAgent.Valid {
		s.UserAgent = userAgent.String
	}
	s.CreatedAt, _ = time.Parse(time.RFC3339, createdAt) //nolint:errcheck // format is controlled
	s.ExpiresAt, _ = time.Parse(time.RFC3339, expiresAt) //nolint:errcheck // format is controlled

	return &s, nil
}

// Deactivate flips is_active off for the given session id. Deactivating
// an unknown or already-inactive session is not an error.
func (r *SQLiteRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE admin_sessions SET is_active = 0 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deactivating admin session: %w", err)
	}
	return nil
}

// CountActive returns the number of active, unexpired admin sessions.
func (r *SQLiteRepository) CountActive(ctx context.Context, now time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM admin_sessions WHERE is_active = 1 AND expires_at > ?",
		now.UTC().Format(time.RFC3339),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting active admin sessions: %w", err)
	}
	return count, nil
}

// Helper functions.

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
