// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 events 定义 workforce 引擎的生命周期通知，以及投递这些通知的
事件总线。

# 概述

引擎在雇佣关系变化（employ / fire）与 agent 任务指派变化
（take / release）时发布事件，此外在任务进入 dead 状态时发布
task_dead 事件。发布是 fire-and-forget 的：引擎从不等待确认，
订阅者（统计、UI、指标）在总线自己的 goroutine 上被调用。

# 核心类型

  - Event：事件接口，提供 Type / Timestamp / Tick
  - Bus：事件总线接口（Publish / Subscribe / Unsubscribe / Stop）
  - SimpleBus：基于带缓冲通道的异步实现，通道满时丢弃事件
  - Recorder：同步记录所有事件的实现，主要用于测试与回放
*/
package events
