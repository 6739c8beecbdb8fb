// =============================================================================
// 🧪 测试辅助函数
// =============================================================================
// 提供上下文、日志观察与事件/存储断言
//
// 使用方法:
//
//	ctx := testutil.TestContext(t)
//	logger, logs := testutil.ObservedLogger(zapcore.WarnLevel)
//	testutil.AssertEventCount(t, recorder, events.EventFire, 2)
//	testutil.AssertStoreField(t, store, "miner-1", memory.FieldTask, "harvest")
// =============================================================================
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/BaSui01/workforce/events"
	"github.com/BaSui01/workforce/memory"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// =============================================================================
// 🎯 上下文辅助
// =============================================================================

// TestContext 返回测试结束时取消、30 秒超时的上下文
func TestContext(t *testing.T) context.Context {
	return TestContextWithTimeout(t, 30*time.Second)
}

// TestContextWithTimeout 返回带自定义超时的测试上下文
func TestContextWithTimeout(t *testing.T, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// CancelledContext 返回已取消的上下文
func CancelledContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// =============================================================================
// 📝 日志辅助
// =============================================================================

// ObservedLogger 返回记录 level 及以上日志的 logger 与观察器
func ObservedLogger(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

// AssertLogged 断言 logs 中出现过 message
func AssertLogged(t *testing.T, logs *observer.ObservedLogs, message string) {
	t.Helper()
	if logs.FilterMessage(message).Len() == 0 {
		t.Errorf("expected log %q, got %d other entries", message, logs.Len())
	}
}

// =============================================================================
// 🔍 断言辅助
// =============================================================================

// AssertEventCount 断言 recorder 收到了 n 个 typ 类型的事件
func AssertEventCount(t *testing.T, rec *events.Recorder, typ events.EventType, n int) {
	t.Helper()
	if got := len(rec.OfType(typ)); got != n {
		t.Errorf("expected %d %s events, got %d", n, typ, got)
	}
}

// AssertStoreField 断言实体记录中 field 的值为 want；want 为空表示字段不存在
func AssertStoreField(t *testing.T, store memory.Store, entity, field, want string) {
	t.Helper()
	record, err := store.Record(context.Background(), entity)
	if err != nil {
		t.Fatalf("read record %s: %v", entity, err)
	}
	got, ok := record[field]
	switch {
	case want == "" && ok:
		t.Errorf("%s.%s: expected no value, got %q", entity, field, got)
	case want != "" && got != want:
		t.Errorf("%s.%s: expected %q, got %q", entity, field, want, got)
	}
}
