package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newAddUserCmd creates an account. Requires a live admin session with
// the user:manage permission.
func newAddUserCmd() *cobra.Command {
	var sessionID, fullName, email string

	cmd := &cobra.Command{
		Use:   "add-user <username> <password>",
		Short: "Create a user account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.controller.CreateUser(ctx, sessionID, args[0], args[1], fullName, email); err != nil {
				return err
			}
			fmt.Printf("User %s created\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "admin session id (required)")
	cmd.Flags().StringVar(&fullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.MarkFlagRequired("session") //nolint:errcheck // flag exists
	return cmd
}

// newDelUserCmd removes an account.
func newDelUserCmd() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "del-user <username>",
		Short: "Delete a user account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.controller.DeleteUser(ctx, sessionID, args[0]); err != nil {
				return err
			}
			fmt.Printf("User %s deleted\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "admin session id (required)")
	cmd.MarkFlagRequired("session") //nolint:errcheck // flag exists
	return cmd
}

// newListUsersCmd lists accounts without secret material.
func newListUsersCmd() *cobra.Command {
	var sessionID string
	var limit int

	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "List user accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			infos, err := a.controller.GetUsers(ctx, sessionID, limit)
			if err != nil {
				return err
			}
			for _, info := range infos {
				line := info.Username
				if info.FullName != "" {
					line += "\t" + info.FullName
				}
				if info.Email != "" {
					line += "\t<" + info.Email + ">"
				}
				fmt.Println(line)
			}
			fmt.Printf("%d user(s)\n", len(infos))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "admin session id (required)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum accounts to list (default 100)")
	cmd.MarkFlagRequired("session") //nolint:errcheck // flag exists
	return cmd
}
