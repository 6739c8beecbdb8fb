// =============================================================================
// 📦 workforce 默认配置
// =============================================================================
// 提供所有配置项的合理默认值
// =============================================================================
package config

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Engine:    DefaultEngineConfig(),
		Store:     DefaultStoreConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
		Metrics:   DefaultMetricsConfig(),
	}
}

// DefaultEngineConfig 返回默认主循环配置
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		TickRate:       10,
		MaxTicks:       0,
		Room:           "W1N1",
		EnergyCapacity: 800,
		EnergyRegen:    10,
		AgentLifetime:  1500,
		PartCosts: map[string]int{
			"work":          100,
			"carry":         50,
			"move":          50,
			"attack":        80,
			"ranged_attack": 150,
			"heal":          250,
			"claim":         600,
			"tough":         10,
		},
	}
}

// DefaultStoreConfig 返回默认存储配置
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Type: "memory",
		Redis: RedisConfig{
			Addr:                "localhost:6379",
			Password:            "",
			DB:                  0,
			KeyPrefix:           "workforce:",
			PoolSize:            10,
			MinIdleConns:        2,
			HealthCheckInterval: 30 * time.Second,
		},
	}
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}

// DefaultTelemetryConfig 返回默认遥测配置
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "workforce",
		SampleRate:   0.1,
	}
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:         true,
		Addr:            ":9091",
		Namespace:       "workforce",
		ShutdownTimeout: 5 * time.Second,
	}
}
