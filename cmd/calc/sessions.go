package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func NewSessionsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		Short:   "List or delete calculator sessions",
		GroupID: gBasic,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List calculator sessions",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ids, err := apiClient.ListSessions()
				if err != nil {
					return fmt.Errorf("failed to list sessions: %w", err)
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete [session...]",
			Short: "Delete calculator sessions",
			Long: `Delete calculator sessions.

Without arguments the session selected by --session is deleted.`,
			RunE: func(_ *cobra.Command, args []string) error {
				if len(args) == 0 {
					args = []string{sessionID}
				}
				for _, id := range args {
					if err := apiClient.DeleteSession(id); err != nil {
						return fmt.Errorf("failed to delete session %q: %w", id, err)
					}
					logrus.Infof("successfully deleted session %s", id)
				}
				return nil
			},
		},
	)

	return cmd
}
