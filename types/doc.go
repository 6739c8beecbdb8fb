// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package types 提供 workforce 引擎的全局共享类型定义。

# 概述

types 是最底层的公共包，不依赖任何内部包，为 workforce、memory、
spawn、config 等上层模块提供统一的错误契约，以避免循环依赖。

# 核心类型

  - Error / ErrorCode - 结构化错误体系，附带任务 key 与角色名

# 主要能力

  - 错误工具链：NewError / WithCause / WithTask / WithRole
  - 错误码判断：GetErrorCode / IsErrorCode（支持 errors.As 穿透包装）
*/
package types
