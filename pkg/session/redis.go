package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	pkgerrors "github.com/pkg/errors"
	backend "github.com/redis/go-redis/v9"

	"github.com/charlie0129/calc/pkg/calculator"
)

const (
	DefaultRedisPrefix = "calc:session:"

	// noExpiryScore is the index score of sessions without a TTL
	// (2100-01-01).
	noExpiryScore = 4102444800
)

var _ Store = &RedisStore{}

// RedisStore keeps each state as a JSON string under <prefix><id>. A sorted
// set under <prefix>index, scored by expiry time, backs List.
type RedisStore struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type RedisOption func(*RedisStore)

// WithTTL expires sessions ttl after their last save. Zero disables expiry.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore connects to the redis server at address.
func NewRedisStore(address, password string, db int, opts ...RedisOption) *RedisStore {
	return NewRedisStoreFromClient(backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	}), opts...)
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *backend.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: DefaultRedisPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return pkgerrors.Wrapf(err, "failed to ping redis")
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) indexKey() string {
	return s.prefix + "index"
}

func (s *RedisStore) Load(ctx context.Context, id string) (*calculator.State, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, ErrSessionNotFound
		}
		return nil, pkgerrors.Wrapf(err, "failed to get session %s from redis", id)
	}

	var st calculator.State
	if err := json.Unmarshal([]byte(val), &st); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal session %s", id)
	}
	return &st, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, state calculator.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to marshal session %s", id)
	}

	score := float64(noExpiryScore)
	if s.ttl > 0 {
		score = float64(time.Now().Add(s.ttl).Unix())
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.key(id), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{Score: score, Member: id})
	if _, err := pipe.Exec(ctx); err != nil {
		return pkgerrors.Wrapf(err, "failed to save session %s to redis", id)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return pkgerrors.Wrapf(err, "failed to delete session %s from redis", id)
	}
	return nil
}

// List prunes index entries whose expiry has passed before listing.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	now := fmt.Sprintf("%d", time.Now().Unix())
	if err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", "("+now).Err(); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to prune expired sessions")
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to list sessions")
	}
	sort.Strings(ids)
	return ids, nil
}
