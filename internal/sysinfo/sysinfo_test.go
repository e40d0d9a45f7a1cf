package sysinfo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGather(t *testing.T) {
	snap := Gather()

	if snap.OS == "" {
		t.Error("Gather() should report the operating system")
	}
	if snap.Machine == "" {
		t.Error("Gather() should report the machine architecture")
	}
	if snap.Runtime == "" {
		t.Error("Gather() should report the runtime version")
	}

	// Every field is a single line
	for name, v := range map[string]string{
		"os_version": snap.OSVersion,
		"processor":  snap.Processor,
		"hostname":   snap.Hostname,
		"cwd":        snap.CWD,
	} {
		if strings.ContainsAny(v, "\n\r") {
			t.Errorf("%s contains line breaks: %q", name, v)
		}
	}

	if len(snap.Processor) > maxProcessorLen {
		t.Errorf("processor length = %d, want <= %d", len(snap.Processor), maxProcessorLen)
	}
}

func TestListCodeDirs(t *testing.T) {
	root := t.TempDir()

	writeFile := func(rel string) {
		t.Helper()
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte("package x\n"), 0600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	writeFile("main.go")
	writeFile("helper.go")
	writeFile("notes.txt")
	for i := 0; i < 12; i++ {
		writeFile(filepath.Join("pkg", "file"+string(rune('a'+i))+".go"))
	}
	writeFile(filepath.Join("docs", "readme.md"))

	dirs := ListCodeDirs(root)

	if len(dirs.Root.Files) != 2 {
		t.Errorf("root files = %d, want 2 (non-.go files excluded)", len(dirs.Root.Files))
	}
	for _, f := range dirs.Root.Files {
		if f.Size == 0 || f.MTime == "" {
			t.Errorf("root file %q should carry size and mtime", f.Name)
		}
	}

	pkg, ok := dirs.Subdirs["pkg"]
	if !ok {
		t.Fatal("pkg subdirectory should be listed")
	}
	if pkg.Count != 12 {
		t.Errorf("pkg count = %d, want 12", pkg.Count)
	}
	if len(pkg.Files) != maxFileSamples {
		t.Errorf("pkg samples = %d, want %d", len(pkg.Files), maxFileSamples)
	}

	if _, ok := dirs.Subdirs["docs"]; ok {
		t.Error("directories without .go files should be omitted")
	}
}

func TestListCodeDirs_MissingRoot(t *testing.T) {
	dirs := ListCodeDirs(filepath.Join(t.TempDir(), "nope"))
	if dirs.Subdirs["."].Error == "" {
		t.Error("unreadable root should be recorded, not fatal")
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := truncate(long, maxProcessorLen)
	if len(got) != maxProcessorLen {
		t.Errorf("truncate length = %d, want %d", len(got), maxProcessorLen)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("truncated string should end with ellipsis")
	}
	if truncate("short", maxProcessorLen) != "short" {
		t.Error("short strings should pass through unchanged")
	}
}
