package main

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/client"
	"github.com/charlie0129/calc/pkg/keypad"
	"github.com/charlie0129/calc/pkg/version"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("%s %s\n", version.Version, version.GitCommit)
		},
	}
}

func NewPressCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "press [keys...]",
		Short:   "Press keys on a calculator session",
		GroupID: gBasic,
		Long: `Press keys on a calculator session and print the display.

Keys are digits, ".", the operators + - * / (or x), "=" and "C".
Single-character keys can be written together, so "12+3=" and "1 2 + 3 ="
are the same.`,
		Example: `  calc press 12+3=
  calc press --session work 7 x 6 =`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Validate locally so a typo does not reach the daemon.
			keys, err := keypad.ParseKeys(args)
			if err != nil {
				return err
			}

			st, err := apiClient.PressKeys(sessionID, keypad.Strings(keys))
			if err != nil {
				return fmt.Errorf("failed to press keys: %w", err)
			}
			logrus.WithFields(logrus.Fields{
				"session": sessionID,
				"keys":    len(keys),
			}).Debug("pressed keys")

			fmt.Fprintln(cmd.OutOrStdout(), st.Display)
			return nil
		},
	}
}

func NewDisplayCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "display",
		Short:   "Print the display of a calculator session",
		GroupID: gBasic,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			display, err := apiClient.GetDisplay(sessionID)
			if errors.Is(err, client.ErrNotFound) {
				display, err = calculator.InitialDisplay, nil
			}
			if err != nil {
				return fmt.Errorf("failed to get display: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), display)
			return nil
		},
	}
}

func NewClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "clear",
		Short:   "Press C on a calculator session",
		GroupID: gBasic,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := apiClient.PressClear(sessionID)
			if err != nil {
				return fmt.Errorf("failed to clear: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), st.Display)
			return nil
		},
	}
}
