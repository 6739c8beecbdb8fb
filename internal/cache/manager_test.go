package cache

import (
	"context"
	"crypto/tls"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// =============================================================================
// 🧪 Manager 测试
// =============================================================================

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Manager) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	config := Config{
		Addr:      mr.Addr(),
		KeyPrefix: "test:",
	}
	manager, err := NewManager(config, zap.NewNop())
	require.NoError(t, err)

	return mr, manager
}

func TestNewManager(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()
	defer manager.Close()

	assert.NotNil(t, manager.redis)
	assert.NotNil(t, manager.logger)
}

func TestNewManager_Unreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewManager(Config{Addr: addr}, nil)
	assert.Error(t, err)
}

func TestManager_SetAndGet(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()
	defer manager.Close()

	ctx := context.Background()
	require.NoError(t, manager.Set(ctx, "k", "v", 0))

	value, err := manager.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	// 前缀写入底层键
	raw, err := mr.Get("test:k")
	require.NoError(t, err)
	assert.Equal(t, "v", raw)
}

func TestManager_GetMiss(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()
	defer manager.Close()

	_, err := manager.Get(context.Background(), "missing")
	assert.True(t, IsCacheMiss(err))
}

func TestManager_TTL(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()
	defer manager.Close()

	ctx := context.Background()
	require.NoError(t, manager.Set(ctx, "short", "v", time.Second))
	mr.FastForward(2 * time.Second)

	_, err := manager.Get(ctx, "short")
	assert.True(t, IsCacheMiss(err))
}

func TestManager_Hash(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()
	defer manager.Close()

	ctx := context.Background()
	require.NoError(t, manager.HSet(ctx, "agent:a1", "task", "harvest"))
	require.NoError(t, manager.HSet(ctx, "agent:a1", "working", "1"))

	v, err := manager.HGet(ctx, "agent:a1", "task")
	require.NoError(t, err)
	assert.Equal(t, "harvest", v)

	all, err := manager.HGetAll(ctx, "agent:a1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"task": "harvest", "working": "1"}, all)

	require.NoError(t, manager.HDel(ctx, "agent:a1", "task"))
	_, err = manager.HGet(ctx, "agent:a1", "task")
	assert.True(t, IsCacheMiss(err))

	n, err := manager.Exists(ctx, "agent:a1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, manager.Delete(ctx, "agent:a1"))
	n, err = manager.Exists(ctx, "agent:a1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestManager_Closed(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close())

	ctx := context.Background()
	assert.ErrorIs(t, manager.Set(ctx, "k", "v", 0), ErrClosed)
	_, err := manager.HGet(ctx, "k", "f")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, manager.Ping(ctx), ErrClosed)
}

func TestManager_Stats(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()
	defer manager.Close()

	ctx := context.Background()
	require.NoError(t, manager.Set(ctx, "a", "1", 0))
	require.NoError(t, manager.HSet(ctx, "b", "f", "1"))

	stats, err := manager.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Keys)
}

func TestManager_ConcurrentOperations(t *testing.T) {
	mr, manager := setupTestRedis(t)
	defer mr.Close()
	defer manager.Close()

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = manager.HSet(ctx, "shared", "f", "v")
			_, _ = manager.HGet(ctx, "shared", "f")
		}(i)
	}
	wg.Wait()

	v, err := manager.HGet(ctx, "shared", "f")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestConfig_Options(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Addr = "cache:6380"
	cfg.DB = 2

	opts := cfg.options()
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, 10, opts.PoolSize)
	assert.Nil(t, opts.TLSConfig)

	cfg.TLSEnabled = true
	opts = cfg.options()
	require.NotNil(t, opts.TLSConfig)
	assert.Equal(t, uint16(tls.VersionTLS12), opts.TLSConfig.MinVersion)
}
