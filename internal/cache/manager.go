// Package cache provides internal Redis client management.
// This package is internal and should not be imported by external projects.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/BaSui01/workforce/internal/tlsutil"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// =============================================================================
// 💾 Redis 管理器
// =============================================================================

// Manager 封装 go-redis 客户端，提供字符串与哈希两类读写
type Manager struct {
	redis  *redis.Client
	config Config
	logger *zap.Logger
	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// Config Redis 连接配置
type Config struct {
	// Redis 地址
	Addr string `yaml:"addr" json:"addr"`

	// 密码
	Password string `yaml:"password" json:"password"`

	// 数据库编号
	DB int `yaml:"db" json:"db"`

	// 键前缀，所有键都会自动加上该前缀
	KeyPrefix string `yaml:"key_prefix" json:"key_prefix"`

	// 默认过期时间，0 表示不过期
	DefaultTTL time.Duration `yaml:"default_ttl" json:"default_ttl"`

	// 最大重试次数
	MaxRetries int `yaml:"max_retries" json:"max_retries"`

	// 连接池大小
	PoolSize int `yaml:"pool_size" json:"pool_size"`

	// 最小空闲连接数
	MinIdleConns int `yaml:"min_idle_conns" json:"min_idle_conns"`

	// 健康检查间隔，0 表示关闭
	HealthCheckInterval time.Duration `yaml:"health_check_interval" json:"health_check_interval"`

	// 是否使用 TLS 连接
	TLSEnabled bool `yaml:"tls_enabled" json:"tls_enabled"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Addr:                "localhost:6379",
		KeyPrefix:           "workforce:",
		MaxRetries:          3,
		PoolSize:            10,
		MinIdleConns:        2,
		HealthCheckInterval: 30 * time.Second,
	}
}

func (c Config) options() *redis.Options {
	opts := &redis.Options{
		Addr:         c.Addr,
		Password:     c.Password,
		DB:           c.DB,
		MaxRetries:   c.MaxRetries,
		PoolSize:     c.PoolSize,
		MinIdleConns: c.MinIdleConns,
	}
	if c.TLSEnabled {
		opts.TLSConfig = tlsutil.DefaultTLSConfig()
	}
	return opts
}

// ErrCacheMiss 键或字段不存在
var ErrCacheMiss = errors.New("cache miss")

// ErrClosed 管理器已关闭
var ErrClosed = errors.New("cache manager is closed")

// IsCacheMiss 判断是否为未命中错误
func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

// NewManager 创建管理器并验证连接
func NewManager(config Config, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := redis.NewClient(config.options())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	m := &Manager{
		redis:  client,
		config: config,
		logger: logger.With(zap.String("component", "cache")),
		done:   make(chan struct{}),
	}

	if config.HealthCheckInterval > 0 {
		go m.healthCheckLoop()
	}

	m.logger.Info("cache manager initialized",
		zap.String("addr", config.Addr),
		zap.Int("pool_size", config.PoolSize),
	)

	return m, nil
}

// Key 返回带前缀的完整键名
func (m *Manager) Key(key string) string {
	return m.config.KeyPrefix + key
}

func (m *Manager) guard() error {
	if m.closed {
		return ErrClosed
	}
	return nil
}

// =============================================================================
// 🎯 字符串操作
// =============================================================================

// Get 获取字符串值
func (m *Manager) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.guard(); err != nil {
		return "", err
	}

	val, err := m.redis.Get(ctx, m.Key(key)).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		m.logger.Error("cache get failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("cache get failed: %w", err)
	}
	return val, nil
}

// Set 设置字符串值；ttl 为 0 时使用 DefaultTTL
func (m *Manager) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.guard(); err != nil {
		return err
	}

	if ttl == 0 {
		ttl = m.config.DefaultTTL
	}
	if err := m.redis.Set(ctx, m.Key(key), value, ttl).Err(); err != nil {
		m.logger.Error("cache set failed", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set failed: %w", err)
	}
	return nil
}

// Delete 删除键
func (m *Manager) Delete(ctx context.Context, keys ...string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.guard(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = m.Key(k)
	}
	if err := m.redis.Del(ctx, full...).Err(); err != nil {
		m.logger.Error("cache delete failed", zap.Strings("keys", keys), zap.Error(err))
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

// Exists 返回存在的键数量
func (m *Manager) Exists(ctx context.Context, keys ...string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.guard(); err != nil {
		return 0, err
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = m.Key(k)
	}
	count, err := m.redis.Exists(ctx, full...).Result()
	if err != nil {
		return 0, fmt.Errorf("cache exists check failed: %w", err)
	}
	return count, nil
}

// =============================================================================
// 🗂️ 哈希操作
// =============================================================================

// HGet 读取哈希字段
func (m *Manager) HGet(ctx context.Context, key, field string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.guard(); err != nil {
		return "", err
	}

	val, err := m.redis.HGet(ctx, m.Key(key), field).Result()
	if err == redis.Nil {
		return "", ErrCacheMiss
	}
	if err != nil {
		m.logger.Error("cache hget failed", zap.String("key", key), zap.String("field", field), zap.Error(err))
		return "", fmt.Errorf("cache hget failed: %w", err)
	}
	return val, nil
}

// HSet 写入哈希字段
func (m *Manager) HSet(ctx context.Context, key, field, value string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.guard(); err != nil {
		return err
	}

	if err := m.redis.HSet(ctx, m.Key(key), field, value).Err(); err != nil {
		m.logger.Error("cache hset failed", zap.String("key", key), zap.String("field", field), zap.Error(err))
		return fmt.Errorf("cache hset failed: %w", err)
	}
	return nil
}

// HDel 删除哈希字段
func (m *Manager) HDel(ctx context.Context, key string, fields ...string) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.guard(); err != nil {
		return err
	}
	if len(fields) == 0 {
		return nil
	}

	if err := m.redis.HDel(ctx, m.Key(key), fields...).Err(); err != nil {
		return fmt.Errorf("cache hdel failed: %w", err)
	}
	return nil
}

// HGetAll 读取整个哈希；键不存在时返回空 map
func (m *Manager) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.guard(); err != nil {
		return nil, err
	}

	vals, err := m.redis.HGetAll(ctx, m.Key(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache hgetall failed: %w", err)
	}
	return vals, nil
}

// Ping 检查 Redis 连接
func (m *Manager) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.guard(); err != nil {
		return err
	}
	return m.redis.Ping(ctx).Err()
}

// Close 关闭管理器
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	m.logger.Info("closing cache manager")

	return m.redis.Close()
}

// =============================================================================
// 🏥 健康检查
// =============================================================================

func (m *Manager) healthCheckLoop() {
	ticker := time.NewTicker(m.config.HealthCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := m.Ping(ctx); err != nil {
			m.logger.Error("cache health check failed", zap.Error(err))
		} else {
			m.logger.Debug("cache health check passed")
		}
		cancel()
	}
}

// =============================================================================
// 📊 统计信息
// =============================================================================

// Stats 统计信息
type Stats struct {
	Keys        int64 `json:"keys"`
	Connections int   `json:"connections"`
	IdleConns   int   `json:"idle_conns"`
}

// GetStats 获取统计信息
func (m *Manager) GetStats(ctx context.Context) (*Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err := m.guard(); err != nil {
		return nil, err
	}

	keys, err := m.redis.DBSize(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get db size: %w", err)
	}
	pool := m.redis.PoolStats()
	return &Stats{
		Keys:        keys,
		Connections: int(pool.TotalConns),
		IdleConns:   int(pool.IdleConns),
	}, nil
}
