package daemon

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
)

// Install registers the calc daemon with systemd (Linux) or launchd (macOS)
// and starts it. u.ExePath defaults to the current executable.
func Install(u Unit) error {
	if u.ExePath == "" {
		// Get the path to the current executable
		exePath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to get the path to the current executable: %w", err)
		}
		u.ExePath, err = filepath.Abs(exePath)
		if err != nil {
			return fmt.Errorf("failed to get the absolute path to the current executable: %w", err)
		}
	}

	err := os.Chmod(u.ExePath, 0755)
	if err != nil {
		return fmt.Errorf("failed to chmod %s to 0755: %w", u.ExePath, err)
	}

	logrus.Infof("current executable path: %s", u.ExePath)

	path, content, err := u.Render(runtime.GOOS)
	if err != nil {
		return err
	}

	logrus.Infof("writing service file to %s", path)

	// mkdir -p
	err = os.MkdirAll(filepath.Dir(path), 0755)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}

	// warn if the file already exists
	_, err = os.Stat(path)
	if err == nil {
		logrus.Warnf("%s already exists, overwriting", path)
	}

	err = os.WriteFile(path, content, 0644)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	// chown root
	err = os.Chown(path, 0, 0)
	if err != nil {
		return fmt.Errorf("failed to chown %s: %w", path, err)
	}

	logrus.Infof("starting calc daemon")

	for _, args := range startCommands(runtime.GOOS, path) {
		if out, err := exec.Command(args[0], args[1:]...).CombinedOutput(); err != nil {
			return fmt.Errorf("failed to run %v: %w: %s", args, err, out)
		}
	}

	return nil
}

func startCommands(goos, path string) [][]string {
	if goos == "darwin" {
		return [][]string{{"/bin/launchctl", "load", path}}
	}
	return [][]string{
		{"systemctl", "daemon-reload"},
		{"systemctl", "enable", "--now", filepath.Base(path)},
	}
}
