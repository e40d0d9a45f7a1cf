package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdoganay/login-core/internal/auth"
	"github.com/mdoganay/login-core/internal/sysinfo"
)

// newLoginCmd authenticates a user. Without --role it opens a general
// session in the journal; with --role it opens a TTL-bound admin session
// instead. Either way the attempt lands in the audit trail.
func newLoginCmd() *cobra.Command {
	var role, ip, userAgent string

	cmd := &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Authenticate and open a session",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			username, password := args[0], args[1]

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if role != "" {
				s, err := a.sessions.Login(ctx, username, password, auth.Role(role), ip, userAgent)
				if err != nil {
					return err
				}
				fmt.Printf("Admin session created\n")
				fmt.Printf("  session: %s\n", s.ID)
				fmt.Printf("  role:    %s\n", s.Role)
				fmt.Printf("  expires: %s\n", s.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
				return nil
			}

			if !a.users.Verify(username, password) {
				a.auditLog.Event("failed_login", username, "", sysinfo.Gather(), nil)
				return fmt.Errorf("invalid credentials")
			}

			id, err := a.sessions.StartSession(username, sysinfo.Gather(), sysinfo.ListCodeDirs("."))
			if err != nil {
				return err
			}
			fmt.Printf("Session started: %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "open an admin session with this role (viewer, moderator, admin, super_admin)")
	cmd.Flags().StringVar(&ip, "ip", "", "client IP address to record")
	cmd.Flags().StringVar(&userAgent, "user-agent", "", "client user agent to record")
	return cmd
}

// newLogoutCmd ends an admin session.
func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout <session-id>",
		Short: "End an admin session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			// Logout deactivates the durable row regardless of the
			// return value; false only means this process never saw
			// the session.
			if a.sessions.Logout(ctx, args[0]) {
				fmt.Println("Session ended")
			} else {
				fmt.Println("Session unknown; deactivated durably if it existed")
			}
			return nil
		},
	}
}

// newValidateCmd checks whether an admin session is still live.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <session-id>",
		Short: "Check whether an admin session is live",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.sessions.Validate(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Session is valid\n")
			fmt.Printf("  user:    %s\n", s.Username)
			fmt.Printf("  role:    %s\n", s.Role)
			fmt.Printf("  expires: %s\n", s.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

// newEndSessionCmd closes a general session journal record.
func newEndSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end-session <record-id>",
		Short: "Close a general session record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			closed, err := a.sessions.EndSession(args[0])
			if err != nil {
				return err
			}
			if !closed {
				return fmt.Errorf("no open session record with id %s", args[0])
			}
			fmt.Println("Session closed")
			return nil
		},
	}
}
