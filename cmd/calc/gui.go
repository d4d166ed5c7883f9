package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/gui"
)

func NewGUICommand() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:     "gui",
		Short:   "Open the calculator window",
		GroupID: gOffline,
		Long: `Open the calculator window.

By default the window runs its own calculator. With --remote it drives the
daemon session selected by --session and follows changes made to that
session from other frontends.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !remote {
				return gui.Run(calculator.New(), "Calculator")
			}

			r := apiClient.Session(sessionID)
			if err := r.Refresh(); err != nil {
				return fmt.Errorf("failed to get session state: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			ch, err := apiClient.SubscribeEvents(ctx, sessionID)
			if err != nil {
				return fmt.Errorf("failed to subscribe to events: %w", err)
			}
			go func() {
				for range ch {
					if err := r.Refresh(); err != nil {
						logrus.WithError(err).Warn("failed to refresh session")
					}
				}
			}()

			return gui.Run(r, "Calculator - "+r.ID())
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "drive a daemon session instead of a local calculator")

	return cmd
}
