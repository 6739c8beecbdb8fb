// Package telemetry 封装 OpenTelemetry SDK 初始化逻辑：Init 构建 OTLP/gRPC
// 追踪与指标管线并安装为全局 provider，禁用时返回 noop 实现，不连接任何外部服务。
// Instruments 为主循环提供 tick 级 span 与计数器。
package telemetry
