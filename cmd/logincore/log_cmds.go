package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdoganay/login-core/internal/audit"
	"github.com/mdoganay/login-core/internal/infrastructure/logging"
)

// newShowLogCmd pages through the audit trail, newest first.
func newShowLogCmd() *cobra.Command {
	var sessionID, actor, action, status string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "show-log",
		Short: "Show the audit trail",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.controller.GetAuditLogs(ctx, sessionID, audit.Filter{
				Actor:  actor,
				Action: action,
				Status: status,
				Limit:  limit,
				Offset: offset,
			})
			if err != nil {
				return err
			}

			for _, e := range result.Entries {
				line := fmt.Sprintf("%s  %-8s %-18s %s",
					e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Status, e.Action, e.Actor)
				if e.Details != "" {
					line += "  (" + e.Details + ")"
				}
				fmt.Println(line)
			}
			fmt.Printf("%d of %d entries (offset %d)\n", len(result.Entries), result.Total, result.Offset)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "admin session id (required)")
	cmd.Flags().StringVar(&actor, "actor", "", "filter by acting username")
	cmd.Flags().StringVar(&action, "action", "", "filter by action")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (success, failed)")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size (default 50, max 200)")
	cmd.Flags().IntVar(&offset, "offset", 0, "pagination offset")
	cmd.MarkFlagRequired("session") //nolint:errcheck // flag exists
	return cmd
}

// newMigrateLogCmd converts a legacy human-formatted event file to JSON
// lines in place. The original is kept as a .bak sibling when possible.
func newMigrateLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate-log [path]",
		Short: "Convert a legacy event file to JSON lines",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path := cfg.Audit.LogFile
			if len(args) == 1 {
				path = args[0]
			}

			count, err := audit.NewMigrator(logging.New(cfg.Logging, version)).Migrate(path)
			if err != nil {
				return err
			}
			fmt.Printf("Migrated %d event(s) in %s\n", count, path)
			return nil
		},
	}
}

// newNormalizeLogCmd cleans an already-JSON event file in place.
func newNormalizeLogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "normalize-log [path]",
		Short: "Normalise a JSON-lines event file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			path := cfg.Audit.LogFile
			if len(args) == 1 {
				path = args[0]
			}

			count, err := audit.NewNormalizer().Normalize(path)
			if err != nil {
				return err
			}
			fmt.Printf("Normalised %d event(s) in %s\n", count, path)
			return nil
		},
	}
}
