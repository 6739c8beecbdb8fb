package ctxkeys

import (
	"context"

	"go.uber.org/zap"
)

// contextKey 用于在 context 中存储值的键类型
type contextKey string

const (
	runIDKey contextKey = "run_id"
	tickKey  contextKey = "tick"
)

// WithRunID 设置 RunID
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunID 获取 RunID
func RunID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(runIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// WithTick 设置当前 tick
func WithTick(ctx context.Context, tick uint64) context.Context {
	return context.WithValue(ctx, tickKey, tick)
}

// Tick 获取当前 tick
func Tick(ctx context.Context) (uint64, bool) {
	v, ok := ctx.Value(tickKey).(uint64)
	return v, ok
}

// Fields returns the zap fields for whatever run id and tick ctx carries.
func Fields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id, ok := RunID(ctx); ok {
		fields = append(fields, zap.String("run_id", id))
	}
	if tick, ok := Tick(ctx); ok {
		fields = append(fields, zap.Uint64("tick", tick))
	}
	return fields
}
