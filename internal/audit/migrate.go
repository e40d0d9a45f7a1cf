package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mdoganay/login-core/internal/infrastructure/logging"
)

// Legacy header metadata labels.
const (
	labelUser     = "User:"
	labelName     = "Name:"
	labelSystem   = "System:"
	labelCodeDirs = "CodeDirs:"
)

// Migrator converts historically mixed-format log files into canonical
// JSON lines. Three line shapes are recognised:
//   - a complete JSON object: kept unchanged
//   - a bracketed-timestamp header with optional indented continuation
//     lines: parsed into a structured event
//   - anything else: preserved verbatim as {"raw": line}
//
// No information is discarded.
type Migrator struct {
	logger *logging.Logger
}

// NewMigrator creates a Migrator.
func NewMigrator(logger *logging.Logger) *Migrator {
	return &Migrator{logger: logger.With("component", "migrator")}
}

// Migrate rewrites the file at path in JSON-lines form and returns the
// number of records written. The original file is renamed to path+".bak"
// first; if the rename fails, migration proceeds destructively over the
// original with a warning. That fallback is deliberate and documented,
// not a defect.
func (m *Migrator) Migrate(path string) (int, error) {
	lines, err := readLines(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	events := parseLegacyLines(lines)

	if err := os.Rename(path, path+".bak"); err != nil {
		m.logger.Warn("could not back up log file, overwriting in place", "path", path, "error", err)
	}

	if err := writeJSONLines(path, events); err != nil {
		return 0, err
	}
	return len(events), nil
}

// parseLegacyLines runs the single forward scan over the raw lines.
// Lookahead is bounded: only indented continuations of the current header
// block are consumed ahead of the scan pointer.
func parseLegacyLines(lines []string) []map[string]any {
	var events []map[string]any

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}

		// Complete JSON lines pass through unchanged
		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err == nil {
			events = append(events, obj)
			i++
			continue
		}

		// Bracketed-timestamp header block
		if strings.HasPrefix(line, "[") && strings.Contains(line, "]") {
			event, next := parseHeaderBlock(lines, i, line)
			events = append(events, event)
			i = next
			continue
		}

		// Opaque line: preserved verbatim
		events = append(events, map[string]any{"raw": line})
		i++
	}

	return events
}

// parseHeaderBlock parses one `[timestamp] - EVENT - User: X, Name: Y`
// header plus its indented System:/CodeDirs: continuations. It returns
// the structured event and the index of the first unconsumed line.
func parseHeaderBlock(lines []string, i int, line string) (map[string]any, int) {
	tsPart, after, _ := strings.Cut(line, "]")
	timestamp := strings.TrimPrefix(tsPart, "[")
	after = strings.TrimSpace(after)

	var parts []string
	for _, p := range strings.Split(after, " - ") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	event := map[string]any{
		"timestamp": timestamp,
		"event":     nil,
		"username":  nil,
		"full_name": nil,
		"system":    nil,
		"code_dirs": nil,
	}
	if len(parts) > 0 {
		event["event"] = parts[0]
	}
	if len(parts) > 1 {
		username, fullName := parseUserSegment(parts[1])
		if username != "" {
			event["username"] = username
		}
		if fullName != "" {
			event["full_name"] = fullName
		}
	}

	// Scan indented continuation lines for labelled payloads
	j := i + 1
	for j < len(lines) && strings.HasPrefix(lines[j], "  ") {
		l := strings.TrimLeft(lines[j], " ")
		switch {
		case strings.HasPrefix(l, labelSystem):
			payload, consumed := parseContinuationJSON(lines, j, l, labelSystem)
			if payload != nil {
				event["system"] = payload
				j = consumed
			}
		case strings.HasPrefix(l, labelCodeDirs):
			payload, consumed := parseContinuationJSON(lines, j, l, labelCodeDirs)
			if payload != nil {
				event["code_dirs"] = payload
				j = consumed
			}
		}
		j++
	}

	return event, j
}

// parseUserSegment extracts username and full name from the header
// metadata segment, expected as `User: X, Name: Y`.
func parseUserSegment(segment string) (username, fullName string) {
	_, userPart, found := strings.Cut(segment, labelUser)
	if !found {
		return "", ""
	}
	userPart = strings.TrimSpace(userPart)

	before, namePart, hasComma := strings.Cut(userPart, ",")
	if !hasComma {
		return strings.TrimSpace(userPart), ""
	}

	username = strings.TrimSpace(before)
	if _, name, ok := strings.Cut(namePart, labelName); ok {
		fullName = strings.TrimSpace(name)
	}
	return username, fullName
}

// parseContinuationJSON parses the JSON payload after a label. When the
// payload does not parse on one line, subsequent raw lines are
// concatenated until the JSON becomes valid or a new header line is
// reached, whichever comes first. Returns the parsed payload (nil if it
// never parses) and the index of the last line consumed.
func parseContinuationJSON(lines []string, j int, stripped, label string) (any, int) {
	_, jsonPart, _ := strings.Cut(stripped, label)

	var payload any
	if err := json.Unmarshal([]byte(strings.TrimSpace(jsonPart)), &payload); err == nil {
		return payload, j
	}

	// Multi-line payload: keep concatenating until it parses
	buf := jsonPart
	k := j + 1
	for k < len(lines) && !strings.HasPrefix(lines[k], "[") {
		if label == labelSystem && strings.HasPrefix(strings.TrimLeft(lines[k], " "), labelCodeDirs) {
			break
		}
		buf += lines[k]
		k++
		if err := json.Unmarshal([]byte(buf), &payload); err == nil {
			return payload, k - 1
		}
	}
	return nil, j
}

// readLines reads a whole file as newline-stripped lines.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log file: %w", err)
	}
	return lines, nil
}

// writeJSONLines writes one JSON object per line.
func writeJSONLines(path string, events []map[string]any) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("creating log file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, ev := range events {
		line, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("encoding record: %w", err)
		}
		if _, err := w.Write(append(line, '\n')); err != nil {
			return fmt.Errorf("writing record: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing log file: %w", err)
	}
	return nil
}
