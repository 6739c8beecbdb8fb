// 版权所有 2024 AgentFlow Authors. 版权所有。
// 此源代码的使用由 MIT 许可规范,该许可可以是
// 在LICENSE文件中找到。

/*
包 workforce 实现按 tick 运行的工作分配引擎。

# 概述

长期存在的 Task 描述与某个房间或归属对象绑定的工作，每个 Task 声明
若干角色（Role），角色带有资格规则、最小/最大人数以及收益与工期估算。
短寿命的 agent 被匹配到最合适的角色，在受雇期间被跟踪，并在死亡、
被重新指派或任务完成时释放。

整个引擎在宿主循环的一个 tick 内同步、单线程地运行，不持有任何锁；
逐 tick 的记忆化缓存通过比较存储的 tick 与 Clock 提供的当前 tick 失效。

# 核心类型

  - Candidate：候选者的封闭和类型，只有 *Agent 与 *Object 两种变体
  - RoleDescription / Descriptor：任务类型的角色表与生命周期闭包
  - Task：有状态的工作单元，持有雇佣关系、滞回的 sufficient 标志与
    死亡锁存；State 为纯分类，Reconcile 执行死亡触发的强制解雇
  - Demand：每个角色一份的招募需求记录，构造任务时一次性推送给
    Registrar，由外部生产子系统每 tick 轮询
  - Registry：agent ID → Task 的唯一映射，也是指派变更的唯一入口；
    Sweep 负责每 tick 推进所有被跟踪的任务

# 边界

引擎只通过接口消费外部协作者：Clock（tick 计数）、memory.Store
（键值存储）、Publisher（事件管道）、Registrar（生产子系统）、
Resolver（世界对象查找）。
*/
package workforce
