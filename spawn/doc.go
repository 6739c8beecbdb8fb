// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 spawn 是生产子系统的参考实现：它接收任务登记的 Demand，
并在每个 tick 把仍然缺人的角色转换为带身体规划的生产请求。

# 概述

任务在构造时为每个可生产角色登记一次 Demand，之后只被轮询。
Queue 实现 workforce.Registrar，Poll 按房间能量预算为每个
缺人的 Demand 生成至多一个 Request，并丢弃已经失效的 Demand。

# 身体规划

  - static：按 Requirements 原样生产
  - expand：调用角色的 Expand 函数，传入房间能量上限
  - shrink_to_available：按当前可用能量等比缩小，每种部件至少 1 个
  - shrink_to_capacity：按能量上限等比缩小，每种部件至少 1 个

部件价格来自配置（config.EngineConfig.PartCosts），缺省见 DefaultCosts。
*/
package spawn
