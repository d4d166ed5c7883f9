package session

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charlie0129/calc/pkg/calculator"
)

// runStoreContract checks the behaviour every Store must share.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	st := calculator.Initial().AppendDigit('7').SelectOperator(calculator.OpMultiply).AppendDigit('2')
	require.NoError(t, s.Save(ctx, "b", st))
	require.NoError(t, s.Save(ctx, "a", calculator.Initial()))

	got, err := s.Load(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, st, *got)

	ids, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	next := st.Equals()
	require.NoError(t, s.Save(ctx, "b", next))
	got, err = s.Load(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "14.0", got.Display)

	require.NoError(t, s.Delete(ctx, "b"))
	_, err = s.Load(ctx, "b")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	ids, err = s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)

	// Deleting a missing session is not an error.
	assert.NoError(t, s.Delete(ctx, "b"))
}

func TestMemoryStore(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore(t *testing.T) {
	_, client := newMiniredis(t)
	s := NewRedisStoreFromClient(client)
	require.NoError(t, s.Ping(context.Background()))
	runStoreContract(t, s)
}

func TestRedisStoreLayout(t *testing.T) {
	mr, client := newMiniredis(t)
	s := NewRedisStoreFromClient(client, WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "x", calculator.Initial().AppendDigit('5')))

	raw, err := mr.Get("test:x")
	require.NoError(t, err)
	assert.JSONEq(t, `{"display":"5","operand1":"5","operand2":"","operator":""}`, raw)

	members, err := mr.ZMembers("test:index")
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, members)
}

func TestRedisStoreTTL(t *testing.T) {
	mr, client := newMiniredis(t)
	s := NewRedisStoreFromClient(client, WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "short", calculator.Initial()))
	assert.Equal(t, time.Minute, mr.TTL(DefaultRedisPrefix+"short"))

	mr.FastForward(2 * time.Minute)
	_, err := s.Load(ctx, "short")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestValidateID(t *testing.T) {
	for _, id := range []string{"default", "a", "user_1-tab-2"} {
		assert.NoError(t, ValidateID(id), id)
	}
	for _, id := range []string{"", "a b", "../etc", "sess:1", strings.Repeat("a", 65)} {
		assert.ErrorIs(t, ValidateID(id), ErrInvalidSessionID, id)
	}
}
