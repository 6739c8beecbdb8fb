// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package main 提供 workforce 模拟宿主程序入口。

# 概述

cmd/workforce 在单房间模拟世界里驱动任务注册表：能量回复、agent 衰老、
按生产队列产出 agent、把空闲候选者交给出价最高的任务，并在每个 tick
结束时扫描所有任务。程序支持 YAML 配置加载、结构化日志（zap）、
Prometheus 指标与 OpenTelemetry tick 追踪。

# 核心类型

  - World      - 模拟世界，持有时钟、注册表、生产队列与三个常驻任务
  - WorldDeps  - 存储、事件发布、指标与追踪等外部依赖

# 常驻任务

  - harvest - 矿工（按容量缩小、限定本房间）与搬运工（两步交易搬运）
  - upgrade - 升级工（按容量扩展身体），消耗房间能量
  - defend  - 守卫与城墙对象，入侵者清除后任务死亡并释放守卫

# 主要能力

  - 子命令：run（运行世界）、version、health
  - tick 节奏：rate.Limiter 限速，engine.tick_rate 为 0 时不限速
  - 并发：世界循环与指标服务器运行在同一个 errgroup 中
  - 优雅关闭：SIGINT/SIGTERM → 停止世界 → 关闭指标服务器 → 刷新遥测
  - 构建注入：Version、BuildTime、GitCommit 通过 ldflags 设置
*/
package main
