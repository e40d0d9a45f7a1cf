package session

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mdoganay/login-core/internal/audit"
	"github.com/mdoganay/login-core/internal/auth"
	"github.com/mdoganay/login-core/internal/credstore"
	"github.com/mdoganay/login-core/internal/infrastructure/logging"
)

// testDB creates a temporary SQLite database with the session and audit
// schema applied.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "session-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrationSQL := `
		CREATE TABLE admin_sessions (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			role TEXT NOT NULL,
			created_at TEXT NOT NULL,
			expires_at TEXT NOT NULL,
			ip_address TEXT,
			user_agent TEXT,
			is_active INTEGER NOT NULL DEFAULT 1
		);
		CREATE TABLE admin_permissions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			permissions TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
		CREATE TABLE audit_log (
			id TEXT PRIMARY KEY,
			actor_username TEXT NOT NULL,
			action TEXT NOT NULL,
			resource TEXT,
			details TEXT,
			ip_address TEXT,
			timestamp TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'success'
		);
	`
	if _, err := db.Exec(migrationSQL); err != nil {
		t.Fatalf("applying test migration: %v", err)
	}

	return db
}

// testManager wires a full Manager over temp storage with a one-hour TTL.
// The returned db exposes the audit and grant tables for assertions.
func testManager(t *testing.T) (*Manager, *sql.DB) {
	t.Helper()

	db := testDB(t)
	dir := t.TempDir()
	logger := logging.Default()

	users := credstore.New(filepath.Join(dir, "users.json"), logger)
	if err := users.Load(); err != nil {
		t.Fatalf("loading credential store: %v", err)
	}

	journal := NewJournal(filepath.Join(dir, "sessions.json"), logger)
	if err := journal.Load(); err != nil {
		t.Fatalf("loading journal: %v", err)
	}

	auditLog := audit.NewLogger(
		audit.NewStore(db),
		audit.NewShadowFile(filepath.Join(dir, "login_log.txt"), logger),
		logger,
	)

	m := NewManager(users, auth.NewGrantStore(db), NewRepository(db), journal, auditLog, time.Hour, logger)
	return m, db
}

// lastAudit returns the most recent audit row.
func lastAudit(t *testing.T, db *sql.DB) (action, details, status string) {
	t.Helper()

	row := db.QueryRow("SELECT action, details, status FROM audit_log ORDER BY rowid DESC LIMIT 1")
	var d sql.NullString
	if err := row.Scan(&action, &d, &status); err != nil {
		t.Fatalf("reading audit row: %v", err)
	}
	return action, d.String, status
}
