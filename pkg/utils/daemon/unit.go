package daemon

import (
	"bytes"
	"fmt"
	"text/template"
)

const (
	systemdUnitPath = "/etc/systemd/system/calc.service"
	launchdLabel    = "cc.chlc.calc"
	plistPath       = "/Library/LaunchDaemons/" + launchdLabel + ".plist"
)

// Unit describes how the service manager starts the calc daemon.
type Unit struct {
	ExePath    string
	ConfigPath string
	SocketPath string
}

var systemdTemplate = template.Must(template.New("systemd").Parse(`[Unit]
Description=calc daemon
After=network.target

[Service]
Type=simple
ExecStart={{ .ExePath }} daemon --config={{ .ConfigPath }} --daemon-socket={{ .SocketPath }}
Restart=on-failure

[Install]
WantedBy=multi-user.target
`))

var launchdTemplate = template.Must(template.New("launchd").Parse(`<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Label</key>
	<string>{{ .Label }}</string>
	<key>ProgramArguments</key>
	<array>
		<string>{{ .ExePath }}</string>
		<string>daemon</string>
		<string>--config={{ .ConfigPath }}</string>
		<string>--daemon-socket={{ .SocketPath }}</string>
	</array>
	<key>RunAtLoad</key>
	<true/>
	<key>KeepAlive</key>
	<true/>
</dict>
</plist>
`))

// Render returns where the service file for goos goes and its content.
func (u Unit) Render(goos string) (string, []byte, error) {
	var (
		path string
		tmpl *template.Template
		data any = u
	)
	switch goos {
	case "linux":
		path, tmpl = systemdUnitPath, systemdTemplate
	case "darwin":
		path, tmpl = plistPath, launchdTemplate
		data = struct {
			Unit
			Label string
		}{u, launchdLabel}
	default:
		return "", nil, fmt.Errorf("installing the daemon is not supported on %s", goos)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", nil, fmt.Errorf("failed to render service file: %w", err)
	}
	return path, buf.Bytes(), nil
}
