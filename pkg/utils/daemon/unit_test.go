package daemon

import (
	"strings"
	"testing"
)

func TestUnitRender(t *testing.T) {
	u := Unit{
		ExePath:    "/usr/local/bin/calc",
		ConfigPath: "/etc/calc.yaml",
		SocketPath: "/var/run/calc.sock",
	}

	tests := []struct {
		goos     string
		path     string
		contains []string
	}{
		{
			goos: "linux",
			path: "/etc/systemd/system/calc.service",
			contains: []string{
				"ExecStart=/usr/local/bin/calc daemon --config=/etc/calc.yaml --daemon-socket=/var/run/calc.sock",
				"WantedBy=multi-user.target",
			},
		},
		{
			goos: "darwin",
			path: "/Library/LaunchDaemons/cc.chlc.calc.plist",
			contains: []string{
				"<string>cc.chlc.calc</string>",
				"<string>/usr/local/bin/calc</string>",
				"<string>--config=/etc/calc.yaml</string>",
				"<string>--daemon-socket=/var/run/calc.sock</string>",
			},
		},
	}

	for _, tt := range tests {
		path, content, err := u.Render(tt.goos)
		if err != nil {
			t.Fatalf("Render(%s): %v", tt.goos, err)
		}
		if path != tt.path {
			t.Errorf("Render(%s) path = %s, want %s", tt.goos, path, tt.path)
		}
		for _, s := range tt.contains {
			if !strings.Contains(string(content), s) {
				t.Errorf("Render(%s) is missing %q:\n%s", tt.goos, s, content)
			}
		}
	}
}

func TestUnitRenderUnsupported(t *testing.T) {
	if _, _, err := (Unit{}).Render("windows"); err == nil {
		t.Error("expected an error for windows")
	}
}

func TestServiceCommands(t *testing.T) {
	start := startCommands("linux", systemdUnitPath)
	if got := strings.Join(start[len(start)-1], " "); got != "systemctl enable --now calc.service" {
		t.Errorf("unexpected start command %q", got)
	}
	stop := stopCommands("darwin", plistPath)
	if got := strings.Join(stop[0], " "); got != "/bin/launchctl unload "+plistPath {
		t.Errorf("unexpected stop command %q", got)
	}
}
