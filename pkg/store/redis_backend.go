package store

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "forum:documents"

// RedisBackend keeps each document as a string value under <prefix>:<name>.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

// NewRedisBackend builds a Redis-backed document backend.
func NewRedisBackend(addr, password, prefix string) (*RedisBackend, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis addr is required")
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisBackend{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
		prefix: prefix,
	}, nil
}

func (r *RedisBackend) key(name string) string {
	return r.prefix + ":" + name
}

func (r *RedisBackend) Read(ctx context.Context, name string) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key(name)).Bytes()
	if err == redis.Nil {
		return nil, ErrDocumentMissing
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (r *RedisBackend) Write(ctx context.Context, name string, data []byte) error {
	return r.client.Set(ctx, r.key(name), data, 0).Err()
}

func (r *RedisBackend) Init(ctx context.Context, name string, data []byte) error {
	return r.client.SetNX(ctx, r.key(name), data, 0).Err()
}

// Close releases the underlying client.
func (r *RedisBackend) Close() error {
	return r.client.Close()
}
