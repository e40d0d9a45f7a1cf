package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mdoganay/login-core/internal/infrastructure/logging"
)

// journalTimeLayout matches the timestamps already present in existing
// journal files, so old and new records sort the same way.
const journalTimeLayout = "2006-01-02 15:04:05"

// Journal is the durable record of general sessions, stored as a single
// JSON array on disk. Every mutation rewrites the whole document, so the
// last writer wins; the scale of a login journal makes that acceptable.
type Journal struct {
	path   string
	logger *logging.Logger

	mu      sync.Mutex
	records []JournalRecord
	now     func() time.Time
}

// NewJournal creates a journal backed by the given file path. The file is
// not touched until Load or the first Start.
func NewJournal(path string, logger *logging.Logger) *Journal {
	return &Journal{
		path:   path,
		logger: logger.With("component", "session-journal"),
		now:    time.Now,
	}
}

// Load reads the journal file into memory. A missing file yields an empty
// journal; a malformed one is treated the same way with a warning, since
// refusing to start over a broken journal would lock everyone out.
func (j *Journal) Load() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			j.records = nil
			return nil
		}
		return fmt.Errorf("reading session journal: %w", err)
	}

	var records []JournalRecord
	if err := json.Unmarshal(data, &records); err != nil {
		j.logger.Warn("session journal is malformed, starting empty", "path", j.path, "error", err)
		j.records = nil
		return nil
	}

	j.records = records
	return nil
}

// Start appends a new open record for username with the given environment
// snapshot and returns the record id.
func (j *Journal) Start(username string, system, codeDirs any) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	record := JournalRecord{
		ID:       uuid.NewString(),
		Username: username,
		LoginTS:  j.now().Format(journalTimeLayout),
		System:   system,
		CodeDirs: codeDirs,
	}
	j.records = append(j.records, record)

	if err := j.saveLocked(); err != nil {
		return "", err
	}
	return record.ID, nil
}

// End closes the record with the given id by stamping its logout time.
// Reports whether an open record was found. Ending an already-closed or
// unknown record is a no-op.
func (j *Journal) End(id string) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	for i := range j.records {
		if j.records[i].ID != id || !j.records[i].Active() {
			continue
		}
		ts := j.now().Format(journalTimeLayout)
		j.records[i].LogoutTS = &ts
		if err := j.saveLocked(); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// List returns a copy of all journal records in login order.
func (j *Journal) List() []JournalRecord {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]JournalRecord, len(j.records))
	copy(out, j.records)
	return out
}

// CountActive returns the number of records without a logout stamp.
func (j *Journal) CountActive() int {
	j.mu.Lock()
	defer j.mu.Unlock()

	count := 0
	for i := range j.records {
		if j.records[i].Active() {
			count++
		}
	}
	return count
}

func (j *Journal) saveLocked() error {
	data, err := json.MarshalIndent(j.records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session journal: %w", err)
	}

	if dir := filepath.Dir(j.path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating journal directory: %w", err)
		}
	}
	if err := os.WriteFile(j.path, data, 0o600); err != nil {
		return fmt.Errorf("writing session journal: %w", err)
	}
	return nil
}
