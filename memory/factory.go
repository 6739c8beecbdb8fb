package memory

import (
	"fmt"

	"github.com/BaSui01/workforce/internal/cache"
	"go.uber.org/zap"
)

// Config selects and configures a store backend
type Config struct {
	// Type is the storage backend type
	Type StoreType `json:"type" yaml:"type"`

	// Redis configuration (only used when Type is "redis")
	Redis cache.Config `json:"redis" yaml:"redis"`
}

// DefaultConfig returns the default store configuration
func DefaultConfig() Config {
	return Config{
		Type:  StoreTypeMemory,
		Redis: cache.DefaultConfig(),
	}
}

// NewStore creates a new Store based on the configuration
func NewStore(config Config, logger *zap.Logger) (Store, error) {
	switch config.Type {
	case StoreTypeMemory, "":
		return NewMemoryStore(), nil
	case StoreTypeRedis:
		return NewRedisStore(config.Redis, logger)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}
