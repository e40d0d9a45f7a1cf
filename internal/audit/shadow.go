package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/mdoganay/login-core/internal/infrastructure/logging"
)

// timestampLayout is the event file timestamp format.
const timestampLayout = time.DateTime

// fallbackEvent marks a failed primary append in the event file.
const fallbackEvent = "error_writing_log"

// Event is one line of the shadow event file. The same vocabulary covers
// general login/logout events and projected audit entries (event=action,
// full_name=details).
type Event struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Username  string `json:"username,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	System    any    `json:"system,omitempty"`
	CodeDirs  any    `json:"code_dirs,omitempty"`
}

// ShadowFile appends JSON-lines events with crash-consistent durability.
// Concurrent writers in this or any other process serialise on a whole-file
// advisory lock, so lines never interleave.
type ShadowFile struct {
	path   string
	logger *logging.Logger
}

// NewShadowFile creates a ShadowFile writing to path.
func NewShadowFile(path string, logger *logging.Logger) *ShadowFile {
	return &ShadowFile{
		path:   path,
		logger: logger.With("component", "audit"),
	}
}

// Path returns the event file path.
func (s *ShadowFile) Path() string {
	return s.path
}

// Append writes one event as a JSON line.
//
// Sequence: sanitise every string field (embedded line breaks would let a
// hostile field forge extra log lines), lock, write, flush, sync, unlock.
// When Append returns nil the line is durable on storage.
//
// On failure it attempts one minimal fallback write; if that also fails
// the event is dropped. Append itself still reports the primary error so
// the caller can log it, but callers must not propagate it.
func (s *ShadowFile) Append(ev Event) error {
	if ev.Timestamp == "" {
		ev.Timestamp = time.Now().Format(timestampLayout)
	}
	ev.Event = sanitizeString(ev.Event)
	ev.Username = sanitizeString(ev.Username)
	ev.FullName = sanitizeString(ev.FullName)
	ev.System = sanitizeValue(ev.System)
	ev.CodeDirs = sanitizeValue(ev.CodeDirs)

	line, err := json.Marshal(ev)
	if err != nil {
		s.writeFallback(ev.Timestamp)
		return fmt.Errorf("encoding event: %w", err)
	}

	if err := s.appendLine(append(line, '\n')); err != nil {
		s.writeFallback(ev.Timestamp)
		return fmt.Errorf("appending event: %w", err)
	}
	return nil
}

// appendLine performs the locked durable append of one terminated line.
func (s *ShadowFile) appendLine(line []byte) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("opening event file: %w", err)
	}
	defer f.Close()

	lock := flock.New(s.path)
	if err := lock.Lock(); err != nil {
		// Proceed unlocked rather than lose the event; the failure is observable.
		s.logger.Warn("event file lock failed, appending unlocked", "error", err)
	} else {
		defer lock.Unlock() //nolint:errcheck // best effort release
	}

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("writing event line: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing event file: %w", err)
	}
	return nil
}

// writeFallback appends the minimal marker entry. A failure here means the
// event is dropped entirely; that is logged and accepted.
func (s *ShadowFile) writeFallback(timestamp string) {
	marker, _ := json.Marshal(Event{Timestamp: timestamp, Event: fallbackEvent}) //nolint:errcheck // fixed fields cannot fail to encode
	if err := s.appendLine(append(marker, '\n')); err != nil {
		s.logger.Error("event dropped, fallback write failed", "error", err)
	}
}

// sanitizeString collapses embedded line breaks to spaces.
func sanitizeString(v string) string {
	v = strings.ReplaceAll(v, "\n", " ")
	return strings.ReplaceAll(v, "\r", " ")
}

// sanitizeValue sanitises strings recursively through maps and slices.
// Structured values (structs) are first flattened to generic JSON form so
// their string fields are reachable.
func sanitizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return sanitizeString(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = sanitizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = sanitizeValue(item)
		}
		return out
	default:
		if generic, ok := toGeneric(val); ok {
			return sanitizeValue(generic)
		}
		return v
	}
}

// toGeneric converts a structured value to maps/slices/strings via JSON.
// Returns false for scalars and values that cannot round-trip; those need
// no sanitising.
func toGeneric(v any) (any, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, false
	}
	switch generic.(type) {
	case map[string]any, []any, string:
		return generic, true
	default:
		return nil, false
	}
}
