package sysinfo

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// maxProcessorLen bounds the processor string; some platforms report
// multi-line vendor blurbs.
const maxProcessorLen = 200

// maxFileSamples is the number of files listed per subdirectory.
const maxFileSamples = 10

// Snapshot describes the host environment at a point in time.
type Snapshot struct {
	OS        string `json:"os"`
	OSVersion string `json:"os_version,omitempty"`
	Machine   string `json:"machine"`
	Processor string `json:"processor,omitempty"`
	Hostname  string `json:"hostname,omitempty"`
	Runtime   string `json:"runtime"`
	CWD       string `json:"cwd,omitempty"`
}

// FileEntry describes one source file.
type FileEntry struct {
	Name  string `json:"name,omitempty"`
	Path  string `json:"path,omitempty"`
	Size  int64  `json:"size"`
	MTime string `json:"mtime,omitempty"`
}

// DirEntry summarises the source files under one subdirectory.
// Count covers every file found; Files holds at most maxFileSamples.
type DirEntry struct {
	Count int         `json:"count,omitempty"`
	Files []FileEntry `json:"files,omitempty"`
	Error string      `json:"error,omitempty"`
}

// CodeDirs is the inventory of Go source files under a root directory.
type CodeDirs struct {
	Root    RootEntry           `json:"root"`
	Subdirs map[string]DirEntry `json:"subdirs"`
}

// RootEntry lists top-level source files in the scanned root.
type RootEntry struct {
	Path  string      `json:"path"`
	Files []FileEntry `json:"files"`
}

// Gather collects host environment details. It never fails; fields that
// cannot be determined are left empty.
func Gather() Snapshot {
	snap := Snapshot{
		OS:      runtime.GOOS,
		Machine: runtime.GOARCH,
		Runtime: runtime.Version(),
	}

	if hostname, err := os.Hostname(); err == nil {
		snap.Hostname = sanitizeLine(hostname)
	}
	if cwd, err := os.Getwd(); err == nil {
		snap.CWD = sanitizeLine(cwd)
	}
	if version := osVersion(); version != "" {
		snap.OSVersion = sanitizeLine(version)
	}
	if proc := processorString(); proc != "" {
		snap.Processor = truncate(sanitizeLine(proc), maxProcessorLen)
	}

	return snap
}

// ListCodeDirs inventories .go files under root: top-level files with
// name, size and modification time, plus a per-subdirectory count and a
// bounded file sample. Permission failures are recorded per directory
// and never abort the scan.
func ListCodeDirs(root string) CodeDirs {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}

	result := CodeDirs{
		Root:    RootEntry{Path: absRoot, Files: []FileEntry{}},
		Subdirs: make(map[string]DirEntry),
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		result.Subdirs["."] = DirEntry{Error: "permission_denied"}
		return result
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			result.Subdirs[name] = scanSubdir(root, name)
			continue
		}
		if !strings.HasSuffix(name, ".go") {
			continue
		}
		result.Root.Files = append(result.Root.Files, statFile(filepath.Join(root, name), name, ""))
	}

	// Drop empty subdirectory entries, matching the historical format
	for name, dir := range result.Subdirs {
		if dir.Count == 0 && dir.Error == "" {
			delete(result.Subdirs, name)
		}
	}

	return result
}

// scanSubdir walks one subdirectory counting .go files and sampling the
// first maxFileSamples of them.
func scanSubdir(root, name string) DirEntry {
	var dir DirEntry
	base := filepath.Join(root, name)

	err := filepath.WalkDir(base, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".go") {
			return nil
		}
		dir.Count++
		if len(dir.Files) < maxFileSamples {
			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			dir.Files = append(dir.Files, statFile(path, "", rel))
		}
		return nil
	})
	if err != nil {
		if os.IsPermission(err) {
			return DirEntry{Error: "permission_denied"}
		}
		return DirEntry{Error: "error"}
	}

	return dir
}

// statFile builds a FileEntry, tolerating stat failures.
func statFile(fullPath, name, relPath string) FileEntry {
	entry := FileEntry{Name: name, Path: relPath}
	if info, err := os.Stat(fullPath); err == nil {
		entry.Size = info.Size()
		entry.MTime = info.ModTime().Format(time.DateTime)
	}
	return entry
}

// osVersion returns the kernel version string where available.
// Best effort: platforms without /proc report an empty version.
func osVersion() string {
	data, err := os.ReadFile("/proc/version")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// processorString returns the CPU model where available.
func processorString() string {
	data, err := os.ReadFile("/proc/cpuinfo")
	if err != nil {
		return ""
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "model name") {
			if _, value, found := strings.Cut(line, ":"); found {
				return strings.TrimSpace(value)
			}
		}
	}
	return ""
}

// sanitizeLine collapses embedded line breaks to single spaces.
func sanitizeLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.TrimSpace(s)
}

// truncate shortens s to max characters, marking the cut with an ellipsis.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
