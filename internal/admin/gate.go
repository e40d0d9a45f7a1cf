package admin

import (
	"context"
	"fmt"

	"github.com/mdoganay/login-core/internal/audit"
	"github.com/mdoganay/login-core/internal/auth"
	"github.com/mdoganay/login-core/internal/session"
)

// Gate answers permission questions for admin sessions. It is the only
// path from a session id to an authorisation decision.
type Gate struct {
	sessions *session.Manager
	audit    *audit.Logger
}

// NewGate creates a Gate over the session manager and audit logger.
func NewGate(sessions *session.Manager, auditLog *audit.Logger) *Gate {
	return &Gate{sessions: sessions, audit: auditLog}
}

// HasPermission reports whether the session is live and its role carries
// the permission. It never audits; use RequirePermission on operation
// boundaries.
func (g *Gate) HasPermission(ctx context.Context, sessionID string, perm auth.Permission) bool {
	s, err := g.sessions.Validate(ctx, sessionID)
	if err != nil {
		return false
	}
	return auth.HasPermission(s.Role, perm)
}

// RequirePermission validates the session and checks the permission,
// returning the session on success. Refusals are audited as
// permission_denied with the actor when the session resolved, and
// "unknown" when it did not.
func (g *Gate) RequirePermission(ctx context.Context, sessionID string, perm auth.Permission) (*session.AdminSession, error) {
	s, err := g.sessions.Validate(ctx, sessionID)
	if err != nil {
		g.audit.Record(ctx, audit.Entry{
			Actor:    "unknown",
			Action:   "permission_denied",
			Resource: "admin",
			Details:  fmt.Sprintf("Permission required: %s", perm),
			Status:   audit.StatusFailed,
		})
		return nil, session.ErrSessionInvalid
	}

	if !auth.HasPermission(s.Role, perm) {
		g.audit.Record(ctx, audit.Entry{
			Actor:     s.Username,
			Action:    "permission_denied",
			Resource:  "admin",
			Details:   fmt.Sprintf("Permission required: %s", perm),
			IPAddress: s.IPAddress,
			Status:    audit.StatusFailed,
		})
		return nil, auth.ErrForbidden
	}

	return s, nil
}
