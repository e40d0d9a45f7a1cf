package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newShowSessionsCmd lists the general session journal.
func newShowSessionsCmd() *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "show-sessions",
		Short: "List general session records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			records := a.sessions.Journal().List()
			shown := 0
			for _, rec := range records {
				if activeOnly && !rec.Active() {
					continue
				}
				logout := "(active)"
				if rec.LogoutTS != nil {
					logout = *rec.LogoutTS
				}
				fmt.Printf("%s  %-16s in: %s  out: %s\n", rec.ID, rec.Username, rec.LoginTS, logout)
				shown++
			}
			fmt.Printf("%d record(s)\n", shown)
			return nil
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "only show open sessions")
	return cmd
}

// newStatsCmd prints current population counts.
func newStatsCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show system statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			stats, err := a.controller.GetSystemStats(ctx, sessionID)
			if err != nil {
				return err
			}
			fmt.Printf("Users:                 %d\n", stats.UserCount)
			fmt.Printf("Active sessions:       %d\n", stats.ActiveSessions)
			fmt.Printf("Active admin sessions: %d\n", stats.ActiveAdminSessions)
			fmt.Printf("As of:                 %s\n", stats.Timestamp.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "admin session id (required)")
	cmd.MarkFlagRequired("session") //nolint:errcheck // flag exists
	return cmd
}

// newSeedCmd appends a handful of sample events to the event file, for
// testing and demos. Wiring up also initialises the database schema and
// the credential document as a side effect.
func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Append sample records to the event log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			for _, s := range sampleEvents {
				a.auditLog.Event(s.event, s.username, s.fullName, nil, nil)
			}
			fmt.Printf("%d sample record(s) appended to %s\n", len(sampleEvents), a.cfg.Audit.LogFile)
			return nil
		},
	}
}

// sampleEvents mirrors the records the historical seeding routine wrote.
var sampleEvents = []struct {
	event    string
	username string
	fullName string
}{
	{"login", "admin", "System Administrator"},
	{"logout", "admin", "System Administrator"},
	{"login", "mert", "Mert Doganay"},
	{"failed_login", "unknown", "Unknown"},
}
