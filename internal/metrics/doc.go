// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 metrics 提供基于 Prometheus 的引擎指标采集能力，覆盖
雇佣关系、tick 主循环、生产队列与事件总线四个维度。

# 概述

本包通过 Collector 统一注册和记录 Prometheus 指标，使用 promauto
自动注册机制，避免手动管理 Registry。所有指标按 namespace 隔离。
雇佣类指标由事件总线驱动：Subscribe 为每种生命周期事件注册
HandleEvent，引擎本身不依赖本包。

# 主要能力

  - 雇佣指标：employ / fire（区分是否因任务死亡被强制解雇）、
    take / release、任务死亡计数，按 role 分组。
  - Tick 指标：tick 总数、耗时 Histogram、按状态分组的任务数、
    被任务工作释放的雇员数、存活 agent 数。
  - 生产指标：已满足的生产请求数（按 role）、队列中的 Demand 数。
  - 事件总线：累计丢弃的事件数。
*/
package metrics
