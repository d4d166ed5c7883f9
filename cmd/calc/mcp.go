package main

import (
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/calc/pkg/config"
	"github.com/charlie0129/calc/pkg/daemon"
	"github.com/charlie0129/calc/pkg/mcpserver"
	"github.com/charlie0129/calc/pkg/session"
)

func NewMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "mcp",
		Short:   "Serve calculator tools over MCP on stdio",
		GroupID: gAdvanced,
		Long: `Serve calculator tools to an MCP client over stdin and stdout.

Sessions are kept in the store named by the config file. With the redis
store, tool calls act on the same sessions as the daemon and its clients;
with the memory store they live only as long as this server. Tool calls
that name no session use --session. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			conf, err := config.NewFile(configPath)
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to parse config")
			}
			if err := conf.Validate(); err != nil {
				return pkgerrors.Wrapf(err, "invalid config %s", configPath)
			}

			store, closeStore, err := daemon.NewStore(conf)
			if err != nil {
				return pkgerrors.Wrapf(err, "failed to open %s session store", conf.SessionStore())
			}
			defer func() {
				if err := closeStore(); err != nil {
					logrus.Errorf("failed to close session store: %v", err)
				}
			}()

			if conf.SessionStore() == config.StoreMemory {
				logrus.Warn("memory session store: MCP sessions are not shared with the daemon")
			}
			logrus.WithFields(logrus.Fields{
				"store":   conf.SessionStore(),
				"session": sessionID,
			}).Debug("serving MCP on stdio")

			s := mcpserver.NewServer(session.NewManager(store), mcpserver.WithDefaultSession(sessionID))
			return s.ServeStdio()
		},
	}
}
