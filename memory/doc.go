// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 memory 定义引擎所消费的持久化键值存储边界。

# 概述

每个实体（通常是 agent）拥有一条以其稳定 ID 为键的记录，记录由若干
字段组成。引擎在 Employ 时写入 FieldTask（所属任务 key），在注销指派
时清除；任务的 Work 闭包可以在 FieldWorking 等字段上暂存工作标志。
条目跨 tick 保留，直到被显式清除。

# 支持的后端

  - Memory：进程内 map，适用于开发与测试（默认）
  - Redis：通过 internal/cache 使用 Redis 哈希，适用于多进程部署

使用 NewStore 按配置创建后端。
*/
package memory
