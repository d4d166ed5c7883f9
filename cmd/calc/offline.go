package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/keypad"
)

func NewEvalCommand() *cobra.Command {
	var steps bool

	cmd := &cobra.Command{
		Use:     "eval [keys...]",
		Short:   "Press keys on an in-process calculator and print the display",
		GroupID: gOffline,
		Long: `Press keys on a fresh in-process calculator and print the display.

The daemon is not needed. Keys are written the same way as for "calc press".`,
		Example: `  calc eval 5+3=
  calc eval --steps 9 / 0 =`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := keypad.ParseKeys(args)
			if err != nil {
				return err
			}

			e := calculator.New()
			for _, k := range keys {
				keypad.Dispatch(e, k)
				if steps {
					fmt.Fprintf(cmd.OutOrStdout(), "%-2s %s\n", k, e.Display())
				}
			}
			if !steps {
				fmt.Fprintln(cmd.OutOrStdout(), e.Display())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&steps, "steps", false, "print the display after every key")

	return cmd
}

func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "repl",
		Short:   "Type keys into an in-process calculator line by line",
		GroupID: gOffline,
		Long: `Type keys into an in-process calculator line by line.

Every line is a sequence of keys; the display is printed after each line.
The calculator keeps its state between lines. Type "quit" or send EOF to
leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			interactive := term.IsTerminal(int(os.Stdin.Fd()))
			return runREPL(cmd.InOrStdin(), cmd.OutOrStdout(), interactive)
		},
	}
}

func runREPL(in io.Reader, out io.Writer, prompt bool) error {
	e := calculator.New()
	scanner := bufio.NewScanner(in)

	for {
		if prompt {
			fmt.Fprint(out, "> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		}

		keys, err := keypad.ParseKeys(strings.Fields(line))
		if err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			continue
		}
		keypad.DispatchAll(e, keys)
		fmt.Fprintln(out, e.Display())
	}

	return scanner.Err()
}
