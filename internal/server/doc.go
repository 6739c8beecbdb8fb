// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 server 提供运维 HTTP 服务器的生命周期管理与端点。

# 概述

Manager 封装 net/http.Server，按 idle → serving → closed 推进生命周期，
关闭后不可重启。Run 把启动与优雅关闭折叠成一个阻塞调用，便于与
tick 主循环一起放进 errgroup；Serve 的异常退出会让 Run 返回该错误。

# 核心类型

  - Manager：持有 http.Server 与 net.Listener，
    提供 Start/Run/Shutdown/Serving 等生命周期方法。
  - Config：监听地址、读写超时、空闲超时与优雅关闭超时。
  - NewHandler：/metrics（Prometheus）与 /health（依赖检查）。
*/
package server
