// =============================================================================
// Workforce 主入口
// =============================================================================
// 模拟宿主：在单房间世界里驱动任务注册表、生产队列与指标
//
// 使用方法:
//
//	workforce run                          # 无限运行
//	workforce run --config config.yaml     # 指定配置文件
//	workforce run --ticks 500              # 运行 500 个 tick 后退出
//	workforce version                      # 显示版本信息
//	workforce health                       # 健康检查
// =============================================================================

package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/BaSui01/workforce/config"
	"github.com/BaSui01/workforce/events"
	"github.com/BaSui01/workforce/internal/metrics"
	"github.com/BaSui01/workforce/internal/server"
	"github.com/BaSui01/workforce/internal/telemetry"
	"github.com/BaSui01/workforce/internal/tlsutil"
	"github.com/BaSui01/workforce/memory"
)

// =============================================================================
// 📦 版本信息（构建时注入）
// =============================================================================

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// 事件总线缓冲区大小
const busBufferSize = 1024

// =============================================================================
// 🎯 主函数
// =============================================================================

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		if err := runWorld(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "workforce: %v\n", err)
			os.Exit(1)
		}
	case "version":
		printVersion()
	case "health":
		runHealthCheck(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// =============================================================================
// 🌍 run 命令
// =============================================================================

func runWorld(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	ticks := fs.Int("ticks", -1, "Number of ticks to run (overrides engine.max_ticks, 0 = forever)")
	fs.Parse(args)

	loader := config.NewLoader()
	if *configPath != "" {
		loader = loader.WithConfigPath(*configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *ticks >= 0 {
		cfg.Engine.MaxTicks = *ticks
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := initLogger(cfg.Log)
	defer logger.Sync()

	logger.Info("Starting workforce",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit),
		zap.String("room", cfg.Engine.Room),
	)

	providers, err := telemetry.Init(context.Background(), cfg.Telemetry,
		telemetry.Service{Version: Version, Room: cfg.Engine.Room}, logger)
	if err != nil {
		logger.Warn("failed to initialize telemetry", zap.Error(err))
		providers = telemetry.Noop()
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(ctx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()
	instruments, err := providers.Instruments()
	if err != nil {
		return fmt.Errorf("create tick instruments: %w", err)
	}

	store, err := memory.NewStore(cfg.Store.MemoryConfig(), logger)
	if err != nil {
		return fmt.Errorf("open memory store: %w", err)
	}
	defer store.Close()

	bus := events.NewBus(busBufferSize, logger)
	defer bus.Stop()
	collector := metrics.NewCollector(cfg.Metrics.Namespace, logger)
	collector.Subscribe(bus)

	world, err := NewWorld(cfg.Engine, WorldDeps{
		Store:       store,
		Publisher:   bus,
		Collector:   collector,
		Instruments: instruments,
		Dropped:     bus.Dropped,
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("build world: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return world.Run(gctx, newLimiter(cfg.Engine.TickRate), cfg.Engine.MaxTicks)
	})
	if cfg.Metrics.Enabled {
		srvCfg := server.DefaultConfig()
		srvCfg.Addr = cfg.Metrics.Addr
		srvCfg.ShutdownTimeout = cfg.Metrics.ShutdownTimeout
		handler := server.NewHandler(map[string]server.HealthFunc{
			"store": store.Ping,
		})
		srv := server.NewManager(handler, srvCfg, logger)
		g.Go(func() error { return srv.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("workforce stopped", zap.Uint64("tick", world.Tick()))
	return nil
}

// newLimiter 按每秒 tick 数限速；0 表示不限速
func newLimiter(tickRate float64) *rate.Limiter {
	if tickRate <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Limit(tickRate), 1)
}

// =============================================================================
// 🏥 健康检查命令
// =============================================================================

func runHealthCheck(args []string) {
	fs := flag.NewFlagSet("health", flag.ExitOnError)
	addr := fs.String("addr", "http://localhost:9091", "Metrics server address")
	fs.Parse(args)

	client := tlsutil.SecureHTTPClient(5 * time.Second)
	resp, err := client.Get(*addr + "/health")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Health check failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "Health check failed: status %d\n", resp.StatusCode)
		os.Exit(1)
	}

	fmt.Println("OK")
}

// =============================================================================
// 📋 版本和帮助
// =============================================================================

func printVersion() {
	fmt.Printf("workforce %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`workforce - task employment engine host

Usage:
  workforce <command> [options]

Commands:
  run       Run the simulated world
  version   Show version information
  health    Check metrics server health
  help      Show this help message

Options for 'run':
  --config <path>   Path to configuration file (YAML)
  --ticks <n>       Stop after n ticks (0 = run until interrupted)

Examples:
  workforce run --ticks 1000
  workforce run --config /etc/workforce/config.yaml
  workforce health --addr http://localhost:9091
  workforce version`)
}

// =============================================================================
// 🔧 日志初始化
// =============================================================================

func initLogger(cfg config.LogConfig) *zap.Logger {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var encoderConfig zapcore.EncoderConfig
	encoding := "json"
	if cfg.Format == "console" {
		encoding = "console"
		encoderConfig = zap.NewDevelopmentEncoderConfig()
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
		encoderConfig.TimeKey = "timestamp"
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	outputs := cfg.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stdout"}
	}

	zapConfig := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      encoding == "console",
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}

	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}
	logger, err := zapConfig.Build(opts...)
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}
