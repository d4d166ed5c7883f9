// Package mcpserver exposes calculator sessions as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/keypad"
	"github.com/charlie0129/calc/pkg/session"
	"github.com/charlie0129/calc/pkg/version"
)

const sessionsURI = "calc://sessions"

// Server wraps a session manager and serves it over MCP.
type Server struct {
	manager        *session.Manager
	mcpServer      *server.MCPServer
	defaultSession string
}

type Option func(*Server)

// WithDefaultSession sets the session used by tool calls that do not name
// one.
func WithDefaultSession(id string) Option {
	return func(s *Server) {
		if id != "" {
			s.defaultSession = id
		}
	}
}

func NewServer(manager *session.Manager, opts ...Option) *Server {
	s := &Server{
		manager:        manager,
		mcpServer:      server.NewMCPServer("calc-mcp", version.Version),
		defaultSession: session.DefaultID,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio serves on stdin/stdout until stdin is closed.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("press_keys",
		mcp.WithDescription("Press calculator keys in order and return the resulting state. "+
			"Keys are 0-9, '.', '+', '-', '*', '/', '=' and 'C' (clear), e.g. \"12+30=\". "+
			"There is no operator precedence: each '=' computes the single pending operation."),
		mcp.WithString("keys", mcp.Required(), mcp.Description("Keys to press, written together or separated by spaces")),
		mcp.WithString("session", mcp.Description("Session id, defaults to the server's session")),
	), s.handlePressKeys)

	s.mcpServer.AddTool(mcp.NewTool("get_display",
		mcp.WithDescription("Return the text currently shown on the calculator display."),
		mcp.WithString("session", mcp.Description("Session id, defaults to the server's session")),
	), s.handleGetDisplay)

	s.mcpServer.AddTool(mcp.NewTool("clear",
		mcp.WithDescription("Press the clear key, resetting the calculator."),
		mcp.WithString("session", mcp.Description("Session id, defaults to the server's session")),
	), s.handleClear)
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(sessionsURI, "Calculator sessions",
		mcp.WithResourceDescription("Ids of all stored calculator sessions"),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.manager.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list sessions: %w", err)
		}
		b, err := json.Marshal(ids)
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      sessionsURI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	})
}

func (s *Server) sessionArg(request mcp.CallToolRequest) string {
	if id := request.GetString("session", ""); id != "" {
		return id
	}
	return s.defaultSession
}

func stateResult(st calculator.State) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(st)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handlePressKeys(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := request.RequireString("keys")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	keys, err := keypad.ParseKeys(strings.Fields(raw))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	id := s.sessionArg(request)
	st, err := s.manager.Press(ctx, id, keys...)
	if err != nil {
		logrus.WithError(err).WithField("session", id).Warn("MCP press_keys failed")
		return mcp.NewToolResultError(err.Error()), nil
	}
	return stateResult(st)
}

func (s *Server) handleGetDisplay(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.manager.Get(ctx, s.sessionArg(request))
	if errors.Is(err, session.ErrSessionNotFound) {
		st, err = calculator.Initial(), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(st.Display), nil
}

func (s *Server) handleClear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st, err := s.manager.Clear(ctx, s.sessionArg(request))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return stateResult(st)
}
