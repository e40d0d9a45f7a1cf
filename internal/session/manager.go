package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mdoganay/login-core/internal/audit"
	"github.com/mdoganay/login-core/internal/auth"
	"github.com/mdoganay/login-core/internal/credstore"
	"github.com/mdoganay/login-core/internal/infrastructure/logging"
)

// Manager owns both session families: TTL-bound admin sessions in SQLite
// fronted by the cache, and the unbounded general session journal. Every
// authentication decision it makes is audited, success or failure.
type Manager struct {
	users   *credstore.Store
	grants  auth.GrantStore
	repo    Repository
	cache   *Cache
	journal *Journal
	audit   *audit.Logger
	logger  *logging.Logger

	ttl time.Duration
	now func() time.Time
}

// NewManager wires a Manager over its collaborators. ttl is the fixed
// admin session lifetime; the expiry never slides after login.
func NewManager(users *credstore.Store, grants auth.GrantStore, repo Repository, journal *Journal, auditLog *audit.Logger, ttl time.Duration, logger *logging.Logger) *Manager {
	return &Manager{
		users:   users,
		grants:  grants,
		repo:    repo,
		cache:   NewCache(),
		journal: journal,
		audit:   auditLog,
		logger:  logger.With("component", "session-manager"),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Login authenticates an admin login attempt and, on success, creates an
// admin session bound to the requested role. Every failure path is audited
// with its reason before the error is returned.
func (m *Manager) Login(ctx context.Context, username, password string, role auth.Role, ip, userAgent string) (*AdminSession, error) {
	if _, err := m.users.Get(username); err != nil {
		m.auditLoginFailure(ctx, username, "User not found", ip)
		return nil, ErrUnauthorized
	}

	if !m.users.Verify(username, password) {
		m.auditLoginFailure(ctx, username, "Invalid password", ip)
		return nil, ErrUnauthorized
	}

	if !auth.IsValidRole(role) {
		m.auditLoginFailure(ctx, username, fmt.Sprintf("Invalid role: %s", role), ip)
		return nil, auth.ErrInvalidRole
	}

	granted, err := m.grants.CheckRoleGrant(ctx, username, role)
	if err != nil {
		return nil, fmt.Errorf("checking role grant: %w", err)
	}
	if !granted {
		m.auditLoginFailure(ctx, username, fmt.Sprintf("Invalid role: %s", role), ip)
		return nil, ErrRoleDenied
	}

	now := m.now()
	s := AdminSession{
		ID:        uuid.NewString(),
		Username:  username,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
		IPAddress: ip,
		UserAgent: userAgent,
		IsActive:  true,
	}

	if err := m.repo.Insert(ctx, &s); err != nil {
		return nil, fmt.Errorf("persisting admin session: %w", err)
	}
	m.cache.Put(s)

	m.audit.Record(ctx, audit.Entry{
		Actor:     username,
		Action:    "login",
		Resource:  "auth",
		Details:   fmt.Sprintf("Role: %s", role),
		IPAddress: ip,
		Status:    audit.StatusSuccess,
	})
	m.logger.Info("admin login", "username", username, "role", role)

	return &s, nil
}

// Logout ends an admin session. The cache eviction decides the return
// value; the durable row is deactivated regardless, so a session unknown
// to this process still cannot be validated afterwards.
func (m *Manager) Logout(ctx context.Context, id string) bool {
	cached, known := m.cache.Get(id)
	m.cache.Delete(id)

	if err := m.repo.Deactivate(ctx, id); err != nil {
		m.logger.Error("deactivating admin session", "session_id", id, "error", err)
	}

	if !known {
		return false
	}

	m.audit.Record(ctx, audit.Entry{
		Actor:    cached.Username,
		Action:   "logout",
		Resource: "auth",
		Status:   audit.StatusSuccess,
	})
	m.logger.Info("admin logout", "username", cached.Username)
	return true
}

// Validate checks whether an admin session is live. Read-through: a fresh
// cache hit wins immediately, an expired hit is evicted and durably
// deactivated, and a miss falls back to the table and repopulates the
// cache on success. The durable row is always the tiebreaker.
func (m *Manager) Validate(ctx context.Context, id string) (*AdminSession, error) {
	now := m.now()

	if cached, ok := m.cache.Get(id); ok {
		if !cached.Expired(now) {
			return &cached, nil
		}
		m.cache.Delete(id)
		if err := m.repo.Deactivate(ctx, id); err != nil {
			m.logger.Error("deactivating expired admin session", "session_id", id, "error", err)
		}
		return nil, ErrSessionInvalid
	}

	s, err := m.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("looking up admin session: %w", err)
	}

	if !s.IsActive {
		return nil, ErrSessionInvalid
	}
	if s.Expired(now) {
		if err := m.repo.Deactivate(ctx, id); err != nil {
			m.logger.Error("deactivating expired admin session", "session_id", id, "error", err)
		}
		return nil, ErrSessionInvalid
	}

	m.cache.Put(*s)
	return s, nil
}

// ActiveAdminSessions returns the number of live admin sessions according
// to the durable table.
func (m *Manager) ActiveAdminSessions(ctx context.Context) (int, error) {
	return m.repo.CountActive(ctx, m.now())
}

// StartSession opens a general session for username, recording the
// environment snapshot in the journal and emitting a login event.
func (m *Manager) StartSession(username string, system, codeDirs any) (string, error) {
	fullName := ""
	if info, err := m.users.Get(username); err == nil {
		fullName = info.FullName
	}

	id, err := m.journal.Start(username, system, codeDirs)
	if err != nil {
		return "", fmt.Errorf("starting general session: %w", err)
	}

	m.audit.Event("login", username, fullName, system, codeDirs)
	m.logger.Info("general session started", "username", username, "session_id", id)
	return id, nil
}

// EndSession closes a general session record. Reports whether an open
// record was found; closing an unknown or already-closed record is a
// no-op and returns false.
func (m *Manager) EndSession(id string) (bool, error) {
	var username, fullName string
	for _, rec := range m.journal.List() {
		if rec.ID == id {
			username = rec.Username
			break
		}
	}

	closed, err := m.journal.End(id)
	if err != nil {
		return false, fmt.Errorf("ending general session: %w", err)
	}
	if !closed {
		return false, nil
	}

	if info, err := m.users.Get(username); err == nil {
		fullName = info.FullName
	}
	m.audit.Event("logout", username, fullName, nil, nil)
	m.logger.Info("general session ended", "username", username, "session_id", id)
	return true, nil
}

// Journal exposes the general session journal for read-only callers.
func (m *Manager) Journal() *Journal {
	return m.journal
}

func (m *Manager) auditLoginFailure(ctx context.Context, username, reason, ip string) {
	m.audit.Record(ctx, audit.Entry{
		Actor:     username,
		Action:    "login_attempt",
		Resource:  "auth",
		Details:   reason,
		IPAddress: ip,
		Status:    audit.StatusFailed,
	})
	m.logger.Warn("admin login refused", "username", username, "reason", reason)
}
