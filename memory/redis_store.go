package memory

import (
	"context"
	"errors"
	"fmt"

	"github.com/BaSui01/workforce/internal/cache"
	"go.uber.org/zap"
)

// RedisStore is a Redis-based implementation of Store.
// Each entity record is one Redis hash under "<prefix>entity:<id>".
type RedisStore struct {
	manager *cache.Manager
	logger  *zap.Logger
}

// NewRedisStore connects to Redis with the given cache configuration
func NewRedisStore(config cache.Config, logger *zap.Logger) (*RedisStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	manager, err := cache.NewManager(config, logger)
	if err != nil {
		return nil, err
	}
	return NewRedisStoreWithManager(manager, logger), nil
}

// NewRedisStoreWithManager wraps an existing cache manager
func NewRedisStoreWithManager(manager *cache.Manager, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{
		manager: manager,
		logger:  logger.With(zap.String("component", "memory_redis")),
	}
}

// entityKey returns the Redis key for an entity record
func entityKey(entity string) string {
	return "entity:" + entity
}

// Get returns a single field
func (s *RedisStore) Get(ctx context.Context, entity, field string) (string, error) {
	v, err := s.manager.HGet(ctx, entityKey(entity), field)
	if err != nil {
		return "", translate(err)
	}
	return v, nil
}

// Set writes a single field
func (s *RedisStore) Set(ctx context.Context, entity, field, value string) error {
	if entity == "" || field == "" {
		return ErrInvalidInput
	}
	return translate(s.manager.HSet(ctx, entityKey(entity), field, value))
}

// Delete removes fields from a record
func (s *RedisStore) Delete(ctx context.Context, entity string, fields ...string) error {
	return translate(s.manager.HDel(ctx, entityKey(entity), fields...))
}

// Record returns every field of entity
func (s *RedisStore) Record(ctx context.Context, entity string) (map[string]string, error) {
	rec, err := s.manager.HGetAll(ctx, entityKey(entity))
	if err != nil {
		return nil, translate(err)
	}
	return rec, nil
}

// Drop removes the whole record
func (s *RedisStore) Drop(ctx context.Context, entity string) error {
	return translate(s.manager.Delete(ctx, entityKey(entity)))
}

// Ping checks if the store is healthy
func (s *RedisStore) Ping(ctx context.Context) error {
	return translate(s.manager.Ping(ctx))
}

// Close closes the store
func (s *RedisStore) Close() error {
	return s.manager.Close()
}

// translate maps cache errors onto the store's error vocabulary
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case cache.IsCacheMiss(err):
		return ErrNotFound
	case errors.Is(err, cache.ErrClosed):
		return ErrStoreClosed
	default:
		return fmt.Errorf("redis store: %w", err)
	}
}
