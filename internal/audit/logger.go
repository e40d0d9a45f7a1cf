package audit

import (
	"context"
	"time"

	"github.com/mdoganay/login-core/internal/infrastructure/logging"
)

// Logger is the audit recorder used by the rest of the system. It writes
// each entry to the durable table and mirrors it into the shadow event
// file. Neither sink's failure propagates: the operation being audited
// must not fail because auditing did.
type Logger struct {
	store  Store
	shadow *ShadowFile
	logger *logging.Logger
}

// NewLogger creates a Logger over the given sinks.
func NewLogger(store Store, shadow *ShadowFile, logger *logging.Logger) *Logger {
	return &Logger{
		store:  store,
		shadow: shadow,
		logger: logger.With("component", "audit"),
	}
}

// Record writes the entry to both sinks. Failures are logged and swallowed.
func (l *Logger) Record(ctx context.Context, entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.Status == "" {
		entry.Status = StatusSuccess
	}

	if err := l.store.Insert(ctx, &entry); err != nil {
		l.logger.Error("audit row write failed", "action", entry.Action, "error", err)
	}

	// Audit rows are projected onto the event file vocabulary:
	// event carries the action, full_name carries the details.
	ev := Event{
		Timestamp: entry.Timestamp.Local().Format(timestampLayout),
		Event:     entry.Action,
		Username:  entry.Actor,
		FullName:  entry.Details,
	}
	if err := l.shadow.Append(ev); err != nil {
		l.logger.Error("audit event append failed", "action", entry.Action, "error", err)
	}
}

// Event appends a general session event (login, logout, failed_login)
// with its environment snapshot to the event file only. Failures are
// logged and swallowed, matching Record.
func (l *Logger) Event(event, username, fullName string, system, codeDirs any) {
	ev := Event{
		Event:    event,
		Username: username,
		FullName: fullName,
		System:   system,
		CodeDirs: codeDirs,
	}
	if err := l.shadow.Append(ev); err != nil {
		l.logger.Error("event append failed", "event", event, "error", err)
	}
}
