package saves

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	gkerr "github.com/KirkDiggler/gameobject-toolkit/internal/errors"
)

const redisKeyPrefix = "save:"

// RedisStore implements Store on a Redis backend, one JSON document per
// save key under the "save:" namespace. Used by hosts that centralize
// saves off-device; the file store covers the local case.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// RedisConfig holds construction options for a RedisStore.
type RedisConfig struct {
	// Client is the redis connection. Required.
	Client redis.UniversalClient

	// TTL expires saves after the given duration. Zero means no expiry.
	TTL time.Duration
}

// NewRedisStore creates a store over the given client.
func NewRedisStore(cfg *RedisConfig) (*RedisStore, error) {
	if cfg == nil || cfg.Client == nil {
		return nil, gkerr.New(gkerr.CodeInvalidArgument, "redis client is required")
	}
	return &RedisStore{
		client: cfg.Client,
		ttl:    cfg.TTL,
	}, nil
}

// Save writes value as a JSON document under save:<key>.
func (s *RedisStore) Save(ctx context.Context, key string, value any) error {
	if key == "" {
		return gkerr.New(gkerr.CodeInvalidArgument, "key is required")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return gkerr.Wrapf(err, "marshaling save %q", key)
	}

	if err := s.client.Set(ctx, redisKeyPrefix+key, string(data), s.ttl).Err(); err != nil {
		return gkerr.Wrapf(err, "writing save %q", key)
	}
	return nil
}

// Load reads the document under save:<key> into out.
func (s *RedisStore) Load(ctx context.Context, key string, out any) error {
	if key == "" {
		return gkerr.New(gkerr.CodeInvalidArgument, "key is required")
	}

	data, err := s.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return gkerr.Newf(gkerr.CodeNotFound, "save not found: %s", key)
		}
		return gkerr.Wrapf(err, "reading save %q", key)
	}

	if err := json.Unmarshal([]byte(data), out); err != nil {
		return gkerr.Wrapf(err, "unmarshaling save %q", key)
	}
	return nil
}

// Delete removes the document under save:<key>.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return gkerr.New(gkerr.CodeInvalidArgument, "key is required")
	}

	deleted, err := s.client.Del(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return gkerr.Wrapf(err, "deleting save %q", key)
	}
	if deleted == 0 {
		return gkerr.Newf(gkerr.CodeNotFound, "save not found: %s", key)
	}
	return nil
}

// List returns every saved key in the namespace.
func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	redisKeys, err := s.client.Keys(ctx, redisKeyPrefix+"*").Result()
	if err != nil {
		return nil, gkerr.Wrap(err, "listing saves")
	}

	keys := make([]string, 0, len(redisKeys))
	for _, k := range redisKeys {
		keys = append(keys, strings.TrimPrefix(k, redisKeyPrefix))
	}
	return keys, nil
}
