package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfig_FallsBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no configs/config.yaml here
	t.Setenv("LOGINCORE_CONFIG", "")
	configPath = ""

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Session.TimeoutMinutes != 30 {
		t.Errorf("TimeoutMinutes = %d, want built-in default 30", cfg.Session.TimeoutMinutes)
	}
}

func TestLoadConfig_ExplicitMissingFileFails(t *testing.T) {
	configPath = filepath.Join(t.TempDir(), "nope.yaml")
	t.Cleanup(func() { configPath = "" })

	if _, err := loadConfig(); err == nil {
		t.Error("loadConfig() should fail for an explicitly named missing file")
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "session:\n  timeout_minutes: 45\n  warning_minutes: 40\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	configPath = path
	t.Cleanup(func() { configPath = "" })

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Session.TimeoutMinutes != 45 {
		t.Errorf("TimeoutMinutes = %d, want 45", cfg.Session.TimeoutMinutes)
	}
}

func TestSeedCmd_AppendsSampleRecords(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("LOGINCORE_CONFIG", "")
	t.Setenv("LOGINCORE_DATABASE_PATH", filepath.Join(dir, "logincore.db"))
	t.Setenv("LOGINCORE_USERS_FILE", filepath.Join(dir, "users.json"))
	t.Setenv("LOGINCORE_SESSIONS_FILE", filepath.Join(dir, "sessions.json"))
	logFile := filepath.Join(dir, "login_log.txt")
	t.Setenv("LOGINCORE_AUDIT_LOG_FILE", logFile)
	configPath = ""

	root := newRootCmd()
	root.SetArgs([]string{"seed"})
	if err := root.ExecuteContext(t.Context()); err != nil {
		t.Fatalf("seed error = %v", err)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading event log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("event log has %d lines, want 4 sample records", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("first record is not JSON: %v", err)
	}
	if first["event"] != "login" || first["username"] != "admin" {
		t.Errorf("first record = %v, want admin login", first)
	}
	var last map[string]any
	if err := json.Unmarshal([]byte(lines[3]), &last); err != nil {
		t.Fatalf("last record is not JSON: %v", err)
	}
	if last["event"] != "failed_login" || last["username"] != "unknown" {
		t.Errorf("last record = %v, want unknown failed_login", last)
	}
}

func TestRootCmd_RegistersCommands(t *testing.T) {
	root := newRootCmd()

	want := []string{
		"login", "logout", "validate", "end-session", "show-sessions",
		"add-user", "del-user", "list-users",
		"show-log", "migrate-log", "normalize-log",
		"stats", "seed",
	}
	for _, name := range want {
		found := false
		for _, cmd := range root.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
