package session

import (
	"errors"
	"time"

	"github.com/mdoganay/login-core/internal/auth"
)

// AdminSession is one row of the admin_sessions table. The cache holds
// the same value; the row is authoritative.
type AdminSession struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      auth.Role `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	IsActive  bool      `json:"is_active"`
}

// Expired reports whether the session's fixed expiry has passed.
func (s *AdminSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// JournalRecord is one entry in the general session journal. Records are
// appended at login and closed in place; they are never deleted.
type JournalRecord struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	LoginTS  string  `json:"login_ts"`
	LogoutTS *string `json:"logout_ts"`
	System   any     `json:"system,omitempty"`
	CodeDirs any     `json:"code_dirs,omitempty"`
}

// Active reports whether the journal record has not been closed yet.
func (r *JournalRecord) Active() bool {
	return r.LogoutTS == nil
}

// Sentinel errors for session operations.
var (
	ErrUnauthorized    = errors.New("invalid credentials")
	ErrRoleDenied      = errors.New("requested role not permitted")
	ErrSessionInvalid  = errors.New("session is invalid or expired")
	ErrSessionNotFound = errors.New("session not found")
)
