package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type NoopCache struct{}

func NewNoop() *NoopCache {
	return &NoopCache{}
}

func (n *NoopCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

func (n *NoopCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (n *NoopCache) Delete(ctx context.Context, keys ...string) error {
	return nil
}

// Remember returns the cached value for key or loads, stores and returns it.
// Cache failures are logged and never fail the call; only load errors do.
func Remember[T any](ctx context.Context, c Cache, log *slog.Logger, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	raw, ok, err := c.Get(ctx, key)
	if err != nil && log != nil {
		log.Warn("cache get failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	encoded, err := json.Marshal(value)
	if err == nil {
		err = c.Set(ctx, key, encoded, ttl)
	}
	if err != nil && log != nil {
		log.Warn("cache set failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return value, nil
}
