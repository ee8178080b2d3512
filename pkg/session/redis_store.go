package session

import (
	"context"
	"fmt"
)

type redisKV interface {
	SessionKey(field string) string
	Get(ctx context.Context, key string) (string, bool, error)
	SetAll(ctx context.Context, values map[string]string) error
	Del(ctx context.Context, keys ...string) error
	Close() error
}

// RedisStore persists the session under namespaced Redis keys.
type RedisStore struct {
	client redisKV
}

func NewRedisStore(client redisKV) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	return s.client.Get(ctx, s.client.SessionKey(key))
}

func (s *RedisStore) SetAll(ctx context.Context, values map[string]string) error {
	namespaced := make(map[string]string, len(values))
	for k, v := range values {
		namespaced[s.client.SessionKey(k)] = v
	}
	return s.client.SetAll(ctx, namespaced)
}

func (s *RedisStore) Clear(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	namespaced := make([]string, 0, len(keys))
	for _, key := range keys {
		namespaced = append(namespaced, s.client.SessionKey(key))
	}
	return s.client.Del(ctx, namespaced...)
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
