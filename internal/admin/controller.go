package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/mdoganay/login-core/internal/audit"
	"github.com/mdoganay/login-core/internal/auth"
	"github.com/mdoganay/login-core/internal/credstore"
	"github.com/mdoganay/login-core/internal/infrastructure/logging"
	"github.com/mdoganay/login-core/internal/session"
)

// SystemStats is a point-in-time snapshot of the system's population.
type SystemStats struct {
	UserCount           int       `json:"user_count"`
	ActiveSessions      int       `json:"active_sessions"`
	ActiveAdminSessions int       `json:"active_admin_sessions"`
	Timestamp           time.Time `json:"timestamp"`
}

// Controller implements the management operations behind the Gate.
type Controller struct {
	gate     *Gate
	users    *credstore.Store
	sessions *session.Manager
	auditLog *audit.Logger
	store    audit.Store
	logger   *logging.Logger
}

// NewController wires a Controller.
func NewController(gate *Gate, users *credstore.Store, sessions *session.Manager, auditLog *audit.Logger, store audit.Store, logger *logging.Logger) *Controller {
	return &Controller{
		gate:     gate,
		users:    users,
		sessions: sessions,
		auditLog: auditLog,
		store:    store,
		logger:   logger.With("component", "admin"),
	}
}

// defaultUserLimit caps GetUsers when the caller passes no limit.
const defaultUserLimit = 100

// GetUsers lists accounts without secret material, at most limit of
// them (default 100 when limit is not positive). Requires user:manage.
func (c *Controller) GetUsers(ctx context.Context, sessionID string, limit int) ([]credstore.UserInfo, error) {
	actor, err := c.gate.RequirePermission(ctx, sessionID, auth.PermUserManage)
	if err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultUserLimit
	}
	infos := c.users.List()
	if len(infos) > limit {
		infos = infos[:limit]
	}
	c.auditLog.Record(ctx, audit.Entry{
		Actor:     actor.Username,
		Action:    "get_users",
		Resource:  "users",
		Details:   fmt.Sprintf("Count: %d", len(infos)),
		IPAddress: actor.IPAddress,
		Status:    audit.StatusSuccess,
	})
	return infos, nil
}

// CreateUser adds an account. The email is optional.
// Requires user:manage.
func (c *Controller) CreateUser(ctx context.Context, sessionID, username, password, fullName, email string) error {
	actor, err := c.gate.RequirePermission(ctx, sessionID, auth.PermUserManage)
	if err != nil {
		return err
	}

	if err := c.users.Create(username, password, fullName); err != nil {
		return err
	}
	if email != "" {
		if err := c.users.SetAttribute(username, "email", email); err != nil {
			return fmt.Errorf("setting email: %w", err)
		}
	}

	c.auditLog.Record(ctx, audit.Entry{
		Actor:     actor.Username,
		Action:    "create_user",
		Resource:  "users",
		Details:   fmt.Sprintf("Username: %s", username),
		IPAddress: actor.IPAddress,
		Status:    audit.StatusSuccess,
	})
	c.logger.Info("user created", "username", username, "actor", actor.Username)
	return nil
}

// DeleteUser removes an account immediately and irreversibly.
// Requires user:manage.
func (c *Controller) DeleteUser(ctx context.Context, sessionID, username string) error {
	actor, err := c.gate.RequirePermission(ctx, sessionID, auth.PermUserManage)
	if err != nil {
		return err
	}

	if err := c.users.Delete(username); err != nil {
		return err
	}

	c.auditLog.Record(ctx, audit.Entry{
		Actor:     actor.Username,
		Action:    "delete_user",
		Resource:  "users",
		Details:   fmt.Sprintf("Username: %s", username),
		IPAddress: actor.IPAddress,
		Status:    audit.StatusSuccess,
	})
	c.logger.Info("user deleted", "username", username, "actor", actor.Username)
	return nil
}

// GetAuditLogs pages through the audit trail, newest first.
// Requires logs:view.
func (c *Controller) GetAuditLogs(ctx context.Context, sessionID string, filter audit.Filter) (*audit.ListResult, error) {
	if _, err := c.gate.RequirePermission(ctx, sessionID, auth.PermLogsView); err != nil {
		return nil, err
	}
	return c.store.List(ctx, filter)
}

// GetSystemStats reports current population counts. Requires logs:view,
// checked without the denial audit: a stats poll is not an operation
// attempt.
func (c *Controller) GetSystemStats(ctx context.Context, sessionID string) (*SystemStats, error) {
	if !c.gate.HasPermission(ctx, sessionID, auth.PermLogsView) {
		return nil, auth.ErrForbidden
	}

	adminCount, err := c.sessions.ActiveAdminSessions(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting admin sessions: %w", err)
	}

	return &SystemStats{
		UserCount:           c.users.Count(),
		ActiveSessions:      c.sessions.Journal().CountActive(),
		ActiveAdminSessions: adminCount,
		Timestamp:           time.Now().UTC(),
	}, nil
}
