// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 cache 提供基于 Redis 的连接管理能力，为 memory 包的 Redis
存储后端提供字符串与哈希读写、健康检查与统计信息。

# 核心类型

  - Manager：持有 go-redis 客户端，所有键自动加 KeyPrefix 前缀，
    提供 Get/Set/Delete/Exists 与 HGet/HSet/HDel/HGetAll。
  - Config：地址、密码、库号、键前缀、默认 TTL、连接池与健康检查间隔。
  - Stats：键数量与连接池状态。

# 错误语义

ErrCacheMiss 表示键或字段不存在，IsCacheMiss 用于判断；
ErrClosed 表示管理器已关闭。
*/
package cache
