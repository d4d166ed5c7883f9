package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/calc/pkg/events"
)

func NewWatchCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Print display changes as they happen",
		GroupID: gBasic,
		Long: `Print display changes of a calculator session as they happen.

Use --all to follow every session. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			filter := sessionID
			if all {
				filter = ""
			}
			ch, err := apiClient.SubscribeEvents(ctx, filter)
			if err != nil {
				return fmt.Errorf("failed to subscribe to events: %w", err)
			}

			for ev := range ch {
				line, err := formatEvent(ev)
				if err != nil {
					logrus.WithError(err).WithField("event", ev.Name).Warn("failed to decode event")
					continue
				}
				if line != "" {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "watch all sessions")

	return cmd
}

func formatEvent(ev events.Event) (string, error) {
	switch ev.Name {
	case events.DisplayChanged:
		p, err := events.DecodeAs[events.DisplayChangedEvent](ev)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s %s => %s",
			color.CyanString("[%s]", p.Session),
			strings.Join(p.Keys, " "),
			displayText(p.Display),
		), nil
	case events.SessionDeleted:
		p, err := events.DecodeAs[events.SessionDeletedEvent](ev)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s deleted", color.CyanString("[%s]", p.Session)), nil
	}
	return "", nil
}
