package main

import (
	"fmt"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/calc/pkg/config"
	daemonutils "github.com/charlie0129/calc/pkg/utils/daemon"
)

var gInstallation = "Installation:"

func init() {
	commandGroups = append(commandGroups, gInstallation)
}

// NewInstallCommand .
func NewInstallCommand() *cobra.Command {
	allowNonRootAccess := false
	sessionStore := ""

	cmd := &cobra.Command{
		Use:     "install",
		Short:   "Install calc daemon (system-wide)",
		GroupID: gInstallation,
		Long: `Install calc daemon to systemd (Linux) or launchd (macOS).

This makes the calc daemon run in the background and automatically start on boot. You must run this command as root.

By default, only root user is allowed to access the calc daemon. If you want to allow non-root users to press keys on daemon sessions, use the --allow-non-root-access flag.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return err
			}

			err = applyInstallFlags(conf, allowNonRootAccess, sessionStore)
			if err != nil {
				return err
			}

			absConfigPath, err := filepath.Abs(configPath)
			if err != nil {
				return err
			}
			absSocketPath, err := filepath.Abs(unixSocketPath)
			if err != nil {
				return err
			}

			// The config must exist before the daemon starts.
			err = conf.Save()
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to save config")
			}

			err = daemonutils.Install(daemonutils.Unit{
				ConfigPath: absConfigPath,
				SocketPath: absSocketPath,
			})
			if err != nil {
				// check if current user is root
				if os.Geteuid() != 0 {
					logrus.Errorf("you must run this command as root")
				}
				return fmt.Errorf("failed to install daemon: %v", err)
			}

			logrus.Infof("installation succeeded")

			exePath, _ := os.Executable()

			cmd.Printf("The service manager will use the current binary (%s) at startup, so please make sure you do not move it. Once this binary is moved or deleted, you will need to run `calc install' again.\n", exePath)

			return nil
		},
	}

	cmd.Flags().BoolVar(&allowNonRootAccess, "allow-non-root-access", false, "Allow non-root users to access calc daemon.")
	cmd.Flags().StringVar(&sessionStore, "session-store", "", "Where the daemon keeps sessions (memory or redis). Keeps the configured store if empty.")

	return cmd
}

// applyInstallFlags writes the install flags into conf. An empty store keeps
// the configured one.
func applyInstallFlags(conf config.Config, allowNonRootAccess bool, store string) error {
	conf.SetAllowNonRootAccess(allowNonRootAccess)
	if store != "" {
		conf.SetSessionStore(store)
	}
	if err := conf.Validate(); err != nil {
		return err
	}

	logrus.Infof("sessions are kept in the %s store.", conf.SessionStore())
	if allowNonRootAccess {
		logrus.Info("non-root users are allowed to access the calc daemon.")
	} else {
		logrus.Info("only root user is allowed to access the calc daemon.")
	}
	return nil
}

// NewUninstallCommand .
func NewUninstallCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "uninstall",
		Short:   "Uninstall calc daemon (system-wide)",
		GroupID: gInstallation,
		Long: `Uninstall calc daemon from systemd (Linux) or launchd (macOS).

You must run this command as root.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := daemonutils.Uninstall()
			if err != nil {
				// check if current user is root
				if os.Geteuid() != 0 {
					logrus.Errorf("you must run this command as root")
				}
				return fmt.Errorf("failed to uninstall daemon: %v", err)
			}

			logrus.Infof("successfully uninstalled")

			cmd.Printf("Your config is kept in %s. Sessions kept in Redis are not removed.\n", configPath)

			return nil
		},
	}
}
