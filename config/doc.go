// Package config 提供 workforce 的配置管理功能。
//
// 配置按 默认值 → YAML 文件 → 环境变量 的顺序叠加，
// 环境变量名由前缀与 env 标签拼接而成，例如 WORKFORCE_ENGINE_TICK_RATE。
package config
