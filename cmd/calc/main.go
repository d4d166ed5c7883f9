package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/charlie0129/calc/pkg/client"
	"github.com/charlie0129/calc/pkg/session"
	"github.com/charlie0129/calc/pkg/version"
)

var (
	logLevel       = "info"
	unixSocketPath = "/var/run/calc.sock"
	configPath     = "/etc/calc.json"
	sessionID      = session.DefaultID
)

var apiClient *client.Client

var (
	gBasic    = "Basic:"
	gOffline  = "Offline:"
	gAdvanced = "Advanced:"

	commandGroups = []string{
		gBasic,
		gOffline,
		gAdvanced,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, client.ErrDaemonNotRunning):
		fmt.Fprintln(os.Stderr, "\nError: calc daemon is not running")
		fmt.Fprintln(os.Stderr, "Start it with 'calc daemon', or use 'calc eval' / 'calc repl' to calculate without it.")
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Try running the command again with 'sudo'")
		fmt.Fprintln(os.Stderr, "  - Or restart the daemon with the '--always-allow-non-root-access' flag to grant permissions to your user")
	case errors.Is(err, client.ErrNotFound):
		fmt.Fprintf(os.Stderr, "\nError: session %q does not exist\n", sessionID)
	case errors.Is(err, client.ErrBadRequest):
		fmt.Fprintln(os.Stderr, "\nThe daemon rejected the request. Keys are 0-9, '.', + - * / (or x), = and C.")
	}
}

func main() {
	// The GUI must run on the main thread.
	runtime.LockOSThread()

	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "calc is a four-function calculator with a daemon, a GUI and an MCP server",
		Long: `calc is a four-function calculator.

Key presses are sent to a calculator session kept by the calc daemon, so
the command line and the GUI (with --remote) share one display. The MCP
server joins them when the daemon keeps sessions in Redis. The offline
commands run the calculator in-process instead.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			err := setupLogger()
			if err != nil {
				return err
			}

			apiClient = client.NewClient(unixSocketPath)

			if cmd.GroupID != gBasic {
				return nil
			}
			daemonVersion, err := apiClient.GetVersion()
			if err == nil && daemonVersion != version.Version {
				logrus.WithFields(logrus.Fields{
					"clientVersion": version.Version,
					"daemonVersion": daemonVersion,
				}).Warn("Version mismatch between client and daemon. Restart the daemon after upgrading calc.")
			}

			return nil
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path (.json, .yaml or .yml)")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "calc daemon unix socket path")
	globalFlags.StringVarP(&sessionID, "session", "s", sessionID, "calculator session to use")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewDaemonCommand(),
		NewVersionCommand(),
		NewPressCommand(),
		NewDisplayCommand(),
		NewClearCommand(),
		NewStatusCommand(),
		NewSessionsCommand(),
		NewWatchCommand(),
		NewEvalCommand(),
		NewREPLCommand(),
		NewGUICommand(),
		NewMCPCommand(),
		NewInstallCommand(),
		NewUninstallCommand(),
	)

	return cmd
}
