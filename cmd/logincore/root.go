package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/mdoganay/login-core/internal/admin"
	"github.com/mdoganay/login-core/internal/audit"
	"github.com/mdoganay/login-core/internal/auth"
	"github.com/mdoganay/login-core/internal/credstore"
	"github.com/mdoganay/login-core/internal/infrastructure/config"
	"github.com/mdoganay/login-core/internal/infrastructure/database"
	"github.com/mdoganay/login-core/internal/infrastructure/logging"
	"github.com/mdoganay/login-core/internal/session"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "logincore",
		Short:         "Identity, session and audit core",
		Long:          "logincore manages user credentials, role-bound admin sessions,\nthe general session journal and the audit trail.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "",
		"path to config.yaml (default: LOGINCORE_CONFIG or "+defaultConfigPath+")")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newValidateCmd(),
		newEndSessionCmd(),
		newShowSessionsCmd(),
		newAddUserCmd(),
		newDelUserCmd(),
		newListUsersCmd(),
		newShowLogCmd(),
		newMigrateLogCmd(),
		newNormalizeLogCmd(),
		newStatsCmd(),
		newSeedCmd(),
	)
	return root
}

// app holds the fully wired subsystem for one command invocation.
type app struct {
	cfg        *config.Config
	log        *logging.Logger
	db         *database.DB
	users      *credstore.Store
	auditStore audit.Store
	auditLog   *audit.Logger
	sessions   *session.Manager
	gate       *admin.Gate
	controller *admin.Controller
}

// newApp loads configuration, opens the database, runs migrations and
// wires every store. Callers must Close the returned app.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.Logging, version)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	users := credstore.New(cfg.Stores.UsersFile, log)
	if err := users.Load(); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("loading credential store: %w", err)
	}

	journal := session.NewJournal(cfg.Stores.SessionsFile, log)
	if err := journal.Load(); err != nil {
		db.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("loading session journal: %w", err)
	}

	auditStore := audit.NewStore(db.DB)
	auditLog := audit.NewLogger(auditStore, audit.NewShadowFile(cfg.Audit.LogFile, log), log)

	sessions := session.NewManager(users, auth.NewGrantStore(db.DB),
		session.NewRepository(db.DB), journal, auditLog, cfg.SessionTimeout(), log)

	gate := admin.NewGate(sessions, auditLog)

	return &app{
		cfg:        cfg,
		log:        log,
		db:         db,
		users:      users,
		auditStore: auditStore,
		auditLog:   auditLog,
		sessions:   sessions,
		gate:       gate,
		controller: admin.NewController(gate, users, sessions, auditLog, auditStore, log),
	}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Error("error closing database", "error", err)
	}
}

// loadConfig resolves the configuration source: the --config flag, then
// the LOGINCORE_CONFIG environment variable, then the default path. A
// missing default file falls back to built-in defaults; an explicitly
// named file must exist.
func loadConfig() (*config.Config, error) {
	path := configPath
	explicit := path != ""
	if !explicit {
		if env := os.Getenv("LOGINCORE_CONFIG"); env != "" {
			path = env
			explicit = true
		} else {
			path = defaultConfigPath
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
