package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/calc/pkg/calculator"
	"github.com/charlie0129/calc/pkg/config"
	"github.com/charlie0129/calc/pkg/daemon"
	"github.com/charlie0129/calc/pkg/keypad"
	"github.com/charlie0129/calc/pkg/session"
	"github.com/charlie0129/calc/pkg/utils/ptr"
)

func call(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return tc.Text
}

func TestPressKeysTool(t *testing.T) {
	s := NewServer(session.NewManager(session.NewMemoryStore()))
	ctx := context.Background()

	res, err := s.handlePressKeys(ctx, call(map[string]any{"keys": "7 * - 2 ="}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var st calculator.State
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &st))
	assert.Equal(t, "5.0", st.Display)

	res, err = s.handleGetDisplay(ctx, call(map[string]any{}))
	require.NoError(t, err)
	assert.Equal(t, "5.0", text(t, res))

	res, err = s.handleClear(ctx, call(map[string]any{"session": "default"}))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &st))
	assert.Equal(t, calculator.Initial(), st)
}

func TestPressKeysToolErrors(t *testing.T) {
	s := NewServer(session.NewManager(session.NewMemoryStore()))
	ctx := context.Background()

	for _, args := range []map[string]any{
		{},
		{"keys": "2^8"},
		{"keys": "1", "session": "not valid"},
	} {
		res, err := s.handlePressKeys(ctx, call(args))
		require.NoError(t, err)
		assert.True(t, res.IsError, "args %v", args)
	}
}

func TestGetDisplayToolNewSession(t *testing.T) {
	s := NewServer(session.NewManager(session.NewMemoryStore()))
	res, err := s.handleGetDisplay(context.Background(), call(map[string]any{"session": "fresh"}))
	require.NoError(t, err)
	assert.Equal(t, "0", text(t, res))
}

func TestToolsShareRedisSessions(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	conf := config.NewFileFromConfig(&config.RawFileConfig{
		SessionStore: ptr.To(config.StoreRedis),
		RedisAddr:    ptr.To(mr.Addr()),
	}, "")
	store, closeStore, err := daemon.NewStore(conf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })

	s := NewServer(session.NewManager(store), WithDefaultSession("shared"))
	ctx := context.Background()

	res, err := s.handlePressKeys(ctx, call(map[string]any{"keys": "6*7="}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))

	// A second manager on its own connection, as the daemon would have.
	other := session.NewManager(session.NewRedisStore(mr.Addr(), "", 0))
	st, err := other.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "42.0", st.Display)

	_, err = other.Press(ctx, "shared", keypad.ClearKey())
	require.NoError(t, err)
	res, err = s.handleGetDisplay(ctx, call(map[string]any{}))
	require.NoError(t, err)
	assert.Equal(t, "0", text(t, res))

	ids, err := other.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared"}, ids)
}
