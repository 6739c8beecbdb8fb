// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

// Package ctxkeys 定义在 context 中传递运行标识与当前 tick 的键，
// 并提供把它们转成 zap 日志字段的辅助函数。
package ctxkeys
