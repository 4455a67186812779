package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/gommon/log"
)

// RedisOptions selects the Redis server and logical database.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Prefix   string // Prepended to every key, e.g. "classroom:"
}

// RedisStore keeps values as plain Redis strings.
type RedisStore struct {
	Client *redis.Client
	prefix string
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{Client: client, prefix: prefix}
}

// OpenRedis connects to Redis and verifies the connection with PING.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to redis at %s: %w", opts.Addr, err)
	}
	log.Infof("connected to redis %s db %d", opts.Addr, opts.DB)
	return NewRedisStore(rdb, opts.Prefix), nil
}

func (s *RedisStore) key(k string) string {
	return s.prefix + k
}

// Get reads a string value.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.Client.Get(ctx, s.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		log.Errorf("error reading %s: %v", s.key(key), err)
		return "", false, fmt.Errorf("failed to read %s from redis: %w", key, err)
	}
	return v, true, nil
}

// SetMany writes every pair inside a MULTI/EXEC transaction.
func (s *RedisStore) SetMany(ctx context.Context, pairs map[string]string) error {
	pipe := s.Client.TxPipeline()
	for k, v := range pairs {
		pipe.Set(ctx, s.key(k), v, 0)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		log.Errorf("error writing %d keys: %v", len(pairs), err)
		return fmt.Errorf("failed to write to redis: %w", err)
	}
	return nil
}

// Delete removes keys.
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.Client.Del(ctx, full...).Err(); err != nil {
		log.Errorf("error deleting %v: %v", full, err)
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.Client.Close()
}
