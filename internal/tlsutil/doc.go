// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

// Package tlsutil 提供集中式 TLS 配置：Redis 记忆存储在启用 TLS 时使用
// DefaultTLSConfig，health 子命令使用 SecureHTTPClient（TLS 1.2+，仅 AEAD 密码套件）。
package tlsutil
