package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/client"
	"github.com/charlie0129/calc/pkg/config"
)

type statusData struct {
	session string
	state   calculator.State
	config  *config.RawFileConfig
}

// fetchStatusData gathers all data required for the status command from the daemon.
func fetchStatusData() (*statusData, error) {
	st, err := apiClient.GetState(sessionID)
	if errors.Is(err, client.ErrNotFound) {
		initial := calculator.Initial()
		st, err = &initial, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session state: %w", err)
	}

	conf, err := apiClient.GetConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}

	return &statusData{
		session: sessionID,
		state:   *st,
		config:  conf,
	}, nil
}

type statusJSON struct {
	Session       string           `json:"session"`
	State         calculator.State `json:"state"`
	Mode          calculator.Mode  `json:"mode"`
	Ready         bool             `json:"ready"`
	Configuration statusConfigJSON `json:"configuration"`
}

type statusConfigJSON struct {
	SessionStore       string `json:"sessionStore"`
	SessionTTL         string `json:"sessionTTL"`
	EnableMetrics      bool   `json:"enableMetrics"`
	AllowNonRootAccess bool   `json:"allowNonRootAccess"`
}

func buildStatusJSON(data *statusData) statusJSON {
	conf := config.NewFileFromConfig(data.config, "")
	return statusJSON{
		Session: data.session,
		State:   data.state,
		Mode:    data.state.Mode(),
		Ready:   data.state.Ready(),
		Configuration: statusConfigJSON{
			SessionStore:       conf.SessionStore(),
			SessionTTL:         conf.SessionTTL().String(),
			EnableMetrics:      conf.EnableMetrics(),
			AllowNonRootAccess: conf.AllowNonRootAccess(),
		},
	}
}

func NewStatusCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Get the state of a calculator session",
		Long:    `Get the display, operands and pending operator of a calculator session, and the daemon configuration.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := fetchStatusData()
			if err != nil {
				return err
			}

			if asJSON {
				b, err := json.MarshalIndent(buildStatusJSON(data), "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(b))
				return nil
			}

			st := data.state
			conf := config.NewFileFromConfig(data.config, "")

			cmd.Println(bold("Session %s:", data.session))
			cmd.Printf("  Display: %s\n", displayText(st.Display))
			cmd.Printf("  Operand 1: %s\n", valueText(st.Operand1))
			cmd.Printf("  Operator: %s\n", valueText(st.Operator.String()))
			cmd.Printf("  Operand 2: %s\n", valueText(st.Operand2))
			switch st.Mode() {
			case calculator.EnteringOperand1:
				cmd.Println("    Typing the first operand. Press an operator next.")
			case calculator.EnteringOperand2:
				if st.Ready() {
					cmd.Println("    Press = to compute the result.")
				} else {
					cmd.Println("    Typing the second operand.")
				}
			}

			cmd.Println()

			cmd.Println(bold("Daemon configuration:"))
			cmd.Printf("  Session store: %s\n", bold("%s", conf.SessionStore()))
			if conf.SessionStore() == config.StoreRedis {
				cmd.Printf("  Redis: %s\n", bold("%s (db %d)", conf.RedisAddr(), conf.RedisDB()))
				ttl := "never"
				if conf.SessionTTL() > 0 {
					ttl = conf.SessionTTL().String()
				}
				cmd.Printf("  Sessions expire: %s\n", bold("%s", ttl))
			}
			cmd.Printf("  Metrics endpoint: %s\n", bool2Text(conf.EnableMetrics()))
			cmd.Printf("  Allow non-root users to access the daemon: %s\n", bool2Text(conf.AllowNonRootAccess()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print status as JSON")

	return cmd
}

func displayText(display string) string {
	if display == "NaN" || display == "Infinity" || display == "-Infinity" {
		return color.New(color.Bold, color.FgRed).Sprint(display)
	}
	return color.New(color.Bold, color.FgGreen).Sprint(display)
}

func valueText(s string) string {
	if s == "" {
		return color.New(color.Faint).Sprint("(empty)")
	}
	return bold("%s", s)
}

func bool2Text(b bool) string {
	if b {
		return color.New(color.Bold, color.FgGreen).Sprint("✔")
	}
	return color.New(color.Bold, color.FgRed).Sprint("✘")
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
