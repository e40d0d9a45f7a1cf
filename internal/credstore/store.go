package credstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/mdoganay/login-core/internal/auth"
	"github.com/mdoganay/login-core/internal/infrastructure/logging"
)

// filePermissions is the permission mode for the credential document.
const filePermissions = 0600

// Sentinel errors for credential operations.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserExists       = errors.New("username already exists")
	ErrInvalidUsername  = errors.New("invalid username format")
	ErrUnknownAttribute = errors.New("unknown attribute")
)

// Record is one credential entry in the users document.
type Record struct {
	Salt     string `json:"salt"`
	Hash     string `json:"hash"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`

	// Password carries a legacy plaintext credential found in old
	// documents. It is re-hashed and discarded on load, never written.
	Password string `json:"password,omitempty"`
}

// UserInfo is the public view of a credential record: no secret material.
type UserInfo struct {
	Username string `json:"username"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
}

// Store owns the credential document. All access goes through its methods;
// the in-memory map mirrors the file and every mutation persists it whole.
type Store struct {
	path   string
	logger *logging.Logger

	mu    sync.RWMutex
	users map[string]Record
}

// New creates a Store for the document at path. Call Load before use.
func New(path string, logger *logging.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger.With("component", "credstore"),
		users:  make(map[string]Record),
	}
}

// Load reads the credential document from disk.
//
// Three cases:
//   - File absent: the store is seeded with exactly one default account
//     (admin/1234) and the document is written. The default credential is
//     a documented risk; operators are expected to replace it.
//   - File present with legacy plaintext records: each "password" field is
//     re-hashed, the plaintext is discarded, and the converted document is
//     written back. The conversion is one-way.
//   - File unreadable or malformed: the store starts empty. The historical
//     behaviour is preserved; the condition is logged rather than fatal.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("reading credential document: %w", err)
		}
		return s.seedDefaultLocked()
	}

	var users map[string]Record
	if err := json.Unmarshal(data, &users); err != nil {
		s.logger.Warn("credential document is malformed, starting empty", "path", s.path, "error", err)
		s.users = make(map[string]Record)
		return nil
	}

	// One-way upgrade of legacy plaintext entries
	converted := false
	for username, rec := range users {
		if rec.Password == "" {
			continue
		}
		salt, hash, err := auth.HashPassword(rec.Password)
		if err != nil {
			return fmt.Errorf("re-hashing legacy credential for %s: %w", username, err)
		}
		rec.Salt = salt
		rec.Hash = hash
		rec.Password = ""
		users[username] = rec
		converted = true
	}

	s.users = users
	if converted {
		s.logger.Info("converted legacy plaintext credentials", "path", s.path)
		return s.saveLocked()
	}
	return nil
}

// seedDefaultLocked writes the initial document with the default account.
// Caller must hold s.mu.
func (s *Store) seedDefaultLocked() error {
	salt, hash, err := auth.HashPassword("1234")
	if err != nil {
		return fmt.Errorf("hashing default credential: %w", err)
	}

	s.users = map[string]Record{
		"admin": {Salt: salt, Hash: hash, FullName: "System Administrator"},
	}
	s.logger.Info("credential document absent, seeded default account", "path", s.path)
	return s.saveLocked()
}

// Create adds a new user. A second create with the same username always
// fails, regardless of payload.
func (s *Store) Create(username, password, fullName string) error {
	if !auth.IsValidUsername(username) {
		return ErrInvalidUsername
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; exists {
		return ErrUserExists
	}

	salt, hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	s.users[username] = Record{Salt: salt, Hash: hash, FullName: fullName}
	return s.saveLocked()
}

// Delete removes a user. Removal is immediate and irreversible.
func (s *Store) Delete(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[username]; !exists {
		return ErrUserNotFound
	}

	delete(s.users, username)
	return s.saveLocked()
}

// Verify checks a plaintext password against the stored credential.
// Unknown usernames and wrong passwords are indistinguishable to callers.
func (s *Store) Verify(username, password string) bool {
	s.mu.RLock()
	rec, exists := s.users[username]
	s.mu.RUnlock()

	if !exists {
		return false
	}
	return auth.VerifyPassword(password, rec.Salt, rec.Hash)
}

// Get returns the public view of one user.
func (s *Store) Get(username string) (*UserInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.users[username]
	if !exists {
		return nil, ErrUserNotFound
	}
	return &UserInfo{Username: username, FullName: rec.FullName, Email: rec.Email}, nil
}

// List returns all users ordered by username, without secret material.
func (s *Store) List() []UserInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]UserInfo, 0, len(s.users))
	for username, rec := range s.users {
		infos = append(infos, UserInfo{Username: username, FullName: rec.FullName, Email: rec.Email})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Username < infos[j].Username })
	return infos
}

// Count returns the number of stored users.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// SetAttribute updates one profile field of an existing user.
// Supported attributes: full_name, email. Login never mutates records;
// this is the only path that does, besides Create and Delete.
func (s *Store) SetAttribute(username, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.users[username]
	if !exists {
		return ErrUserNotFound
	}

	switch key {
	case "full_name":
		rec.FullName = value
	case "email":
		rec.Email = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAttribute, key)
	}

	s.users[username] = rec
	return s.saveLocked()
}

// saveLocked persists the whole document. Caller must hold s.mu.
func (s *Store) saveLocked() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("creating store directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(s.users, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credential document: %w", err)
	}

	if err := os.WriteFile(s.path, data, filePermissions); err != nil {
		return fmt.Errorf("writing credential document: %w", err)
	}
	return nil
}
