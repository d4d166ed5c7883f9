package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Uninstall stops the calc daemon and removes its service file.
func Uninstall() error {
	path, _, err := Unit{}.Render(runtime.GOOS)
	if err != nil {
		return err
	}

	logrus.Infof("stopping calc daemon")

	for _, args := range stopCommands(runtime.GOOS, path) {
		if err := exec.Command(args[0], args[1:]...).Run(); err != nil {
			return fmt.Errorf("failed to run %v: %w. Are you root?", args, err)
		}
	}

	logrus.Infof("removing service file")

	// if the file doesn't exist, we don't need to remove it
	_, err = os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	err = os.Remove(path)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w. Are you root?", path, err)
	}

	return nil
}

func stopCommands(goos, path string) [][]string {
	if goos == "darwin" {
		return [][]string{{"/bin/launchctl", "unload", path}}
	}
	return [][]string{{"systemctl", "disable", "--now", filepath.Base(path)}}
}
