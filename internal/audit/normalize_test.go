package audit

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalize_CleansFields(t *testing.T) {
	content := `{"timestamp": "2025-01-01 10:00:00", "event": "- login", "username": "ad\nmin", "full_name": " Admin \r User ", "system": {"os": "Li\nnux", "count": 3}}
`
	path := writeLog(t, content)

	count, err := NewNormalizer().Normalize(path)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	events := readEvents(t, path)
	got := events[0]

	if got["event"] != "login" {
		t.Errorf("event = %q, want leading hyphen stripped", got["event"])
	}
	if got["username"] != "ad min" {
		t.Errorf("username = %q, want line break collapsed", got["username"])
	}
	if got["full_name"] != "Admin   User" {
		t.Errorf("full_name = %q", got["full_name"])
	}

	system := got["system"].(map[string]any)
	if system["os"] != "Li nux" {
		t.Errorf("system.os = %q", system["os"])
	}
	// Non-string system values untouched
	if system["count"].(float64) != 3 {
		t.Errorf("system.count = %v, want 3", system["count"])
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	content := `{"event": "- login", "username": "ad\nmin"}
{"raw": "opaque line"}
not json at all
`
	path := writeLog(t, content)
	norm := NewNormalizer()

	if _, err := norm.Normalize(path); err != nil {
		t.Fatalf("first Normalize() error = %v", err)
	}
	once, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading after first pass: %v", err)
	}

	if _, err := norm.Normalize(path); err != nil {
		t.Fatalf("second Normalize() error = %v", err)
	}
	twice, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading after second pass: %v", err)
	}

	if string(once) != string(twice) {
		t.Errorf("normalize is not idempotent:\nonce:  %s\ntwice: %s", once, twice)
	}
}

func TestNormalize_UnparsableLinesKeptRaw(t *testing.T) {
	path := writeLog(t, "completely broken {line\n")

	count, err := NewNormalizer().Normalize(path)
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	events := readEvents(t, path)
	if events[0]["raw"] != "completely broken {line" {
		t.Errorf("unparsable line should be kept raw: %v", events[0])
	}
}

func TestNormalize_MissingFile(t *testing.T) {
	count, err := NewNormalizer().Normalize(filepath.Join(t.TempDir(), "absent.txt"))
	if err != nil {
		t.Fatalf("Normalize() error = %v", err)
	}
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}
