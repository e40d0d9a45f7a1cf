package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the login core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Stores   StoresConfig   `yaml:"stores"`
	Audit    AuditConfig    `yaml:"audit"`
	Session  SessionConfig  `yaml:"session"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// StoresConfig contains the paths of the JSON document stores.
type StoresConfig struct {
	// UsersFile is the credential document: one JSON object mapping
	// username to salt, hash and full name.
	UsersFile string `yaml:"users_file"`

	// SessionsFile is the general session journal: a JSON array of
	// session records, appended on login and closed in place on logout.
	SessionsFile string `yaml:"sessions_file"`
}

// AuditConfig contains audit trail settings.
type AuditConfig struct {
	// LogFile is the JSON-lines event file that shadows the audit table.
	LogFile string `yaml:"log_file"`
}

// SessionConfig contains admin session lifetime settings.
type SessionConfig struct {
	// TimeoutMinutes is the fixed admin session TTL. The expiry is set
	// once at login and never extended.
	TimeoutMinutes int `yaml:"timeout_minutes"`

	// WarningMinutes is the threshold after which clients should show a
	// session-expiry countdown. It has no server-side effect.
	WarningMinutes int `yaml:"warning_minutes"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: LOGINCORE_SECTION_KEY
// For example: LOGINCORE_DATABASE_PATH, LOGINCORE_AUDIT_LOG_FILE
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the built-in configuration with environment overrides
// applied, without reading any file. Used when no config file is present.
func Default() *Config {
	cfg := defaultConfig()
	applyEnvOverrides(cfg)
	return cfg
}

// defaultConfig returns a Config with sensible defaults.
// The session timeouts preserve the historical behaviour: a 30-minute
// TTL with a 25-minute client warning threshold.
func defaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:        "./data/logincore.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		Stores: StoresConfig{
			UsersFile:    "./data/users.json",
			SessionsFile: "./data/sessions.json",
		},
		Audit: AuditConfig{
			LogFile: "./data/login_log.txt",
		},
		Session: SessionConfig{
			TimeoutMinutes: 30,
			WarningMinutes: 25,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: LOGINCORE_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("LOGINCORE_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// Document stores
	if v := os.Getenv("LOGINCORE_USERS_FILE"); v != "" {
		cfg.Stores.UsersFile = v
	}
	if v := os.Getenv("LOGINCORE_SESSIONS_FILE"); v != "" {
		cfg.Stores.SessionsFile = v
	}

	// Audit
	if v := os.Getenv("LOGINCORE_AUDIT_LOG_FILE"); v != "" {
		cfg.Audit.LogFile = v
	}

	// Session
	if v := os.Getenv("LOGINCORE_SESSION_TIMEOUT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Session.TimeoutMinutes = n
		}
	}

	// Logging
	if v := os.Getenv("LOGINCORE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// Store validation
	if c.Stores.UsersFile == "" {
		errs = append(errs, "stores.users_file is required")
	}
	if c.Stores.SessionsFile == "" {
		errs = append(errs, "stores.sessions_file is required")
	}

	// Audit validation
	if c.Audit.LogFile == "" {
		errs = append(errs, "audit.log_file is required")
	}

	// Session validation
	if c.Session.TimeoutMinutes <= 0 {
		errs = append(errs, "session.timeout_minutes must be positive")
	}
	if c.Session.WarningMinutes < 0 || c.Session.WarningMinutes > c.Session.TimeoutMinutes {
		errs = append(errs, "session.warning_minutes must be between 0 and session.timeout_minutes")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// SessionTimeout returns the admin session TTL as a Duration.
func (c *Config) SessionTimeout() time.Duration {
	return time.Duration(c.Session.TimeoutMinutes) * time.Minute
}

// SessionWarning returns the client warning threshold as a Duration.
func (c *Config) SessionWarning() time.Duration {
	return time.Duration(c.Session.WarningMinutes) * time.Minute
}
