// Copyright 2026 AgentFlow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

/*
Package testutil 提供 workforce 测试的共享工具和辅助函数。

# 核心能力

  - 上下文辅助: TestContext / TestContextWithTimeout / CancelledContext，
    自动注册 Cleanup 防止泄漏
  - 日志辅助: ObservedLogger / AssertLogged，基于 zaptest/observer 断言日志输出
  - 事件断言: AssertEventCount，配合 events.Recorder 使用
  - 存储断言: AssertStoreField，检查实体记录上的字段

# 子包

  - testutil/mocks: MockStore（memory.Store 的模拟实现），
    支持 Builder 模式、错误注入与调用计数
  - testutil/fixtures: 预置 agent（Miner / Hauler / Guard）、
    世界对象与任务描述

# 使用示例

	ctx := testutil.TestContext(t)
	store := mocks.NewMockStore().WithSetError(errors.New("down"))
	task, _ := workforce.NewTask(workforce.Env{Memory: store}, spec, fixtures.GuardDescriptor())
	task.Employ(ctx, fixtures.Guard("g1"))
*/
package testutil
