package audit

import (
	"encoding/json"
	"os"
	"strings"
)

// Normalizer cleans already-converted JSON-lines log files: it strips
// embedded line breaks from the fixed string fields, trims the stray
// leading hyphen artifact from the event field, and rewrites the file.
// The pass is idempotent — running it twice equals running it once.
type Normalizer struct{}

// NewNormalizer creates a Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize rewrites the file at path and returns the number of records
// processed. A missing file is not an error; zero records are processed.
func (n *Normalizer) Normalize(path string) (int, error) {
	lines, err := readLines(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	var events []map[string]any
	for _, raw := range lines {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err != nil {
			// Unparsable lines are kept as opaque records
			events = append(events, map[string]any{"raw": raw})
			continue
		}
		events = append(events, normalizeRecord(obj))
	}

	if err := writeJSONLines(path, events); err != nil {
		return 0, err
	}
	return len(events), nil
}

// normalizeRecord cleans one structured record in place.
func normalizeRecord(obj map[string]any) map[string]any {
	for _, key := range []string{"event", "username", "full_name"} {
		s, ok := obj[key].(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(sanitizeString(s))
		if key == "event" {
			s = strings.TrimLeft(s, "- ")
		}
		obj[key] = s
	}

	if system, ok := obj["system"].(map[string]any); ok {
		for k, v := range system {
			if s, ok := v.(string); ok {
				system[k] = strings.TrimSpace(sanitizeString(s))
			}
		}
	}

	return obj
}
