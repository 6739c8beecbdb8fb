package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// 🌐 运维 HTTP 服务器
// =============================================================================

// Config 服务器配置
type Config struct {
	// 监听地址
	Addr string `yaml:"addr" json:"addr"`
	// 读写与空闲超时
	ReadTimeout  time.Duration `yaml:"read_timeout" json:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" json:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" json:"idle_timeout"`
	// 优雅关闭超时
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// DefaultConfig 返回默认服务器配置
func DefaultConfig() Config {
	return Config{
		Addr:            ":9091",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    10 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}
}

type lifecycle int

const (
	stateIdle lifecycle = iota
	stateServing
	stateClosed
)

var (
	errAlreadyStarted = errors.New("server already started")
	errClosed         = errors.New("server is closed")
)

// Manager runs one http.Server through idle → serving → closed. A closed
// manager cannot be restarted.
type Manager struct {
	srv    *http.Server
	cfg    Config
	logger *zap.Logger

	mu    sync.Mutex
	state lifecycle
	ln    net.Listener
	// failed 接收 Serve 的异常退出，容量为 1
	failed chan error
}

// NewManager 创建服务器管理器
func NewManager(handler http.Handler, cfg Config, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		srv: &http.Server{
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		cfg:    cfg,
		logger: logger.With(zap.String("component", "ops_server")),
		failed: make(chan error, 1),
	}
}

// Start binds the listener and serves in the background.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case stateServing:
		return errAlreadyStarted
	case stateClosed:
		return errClosed
	}

	ln, err := net.Listen("tcp", m.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", m.cfg.Addr, err)
	}
	m.ln = ln
	m.state = stateServing
	m.logger.Info("ops server listening", zap.String("addr", ln.Addr().String()))

	go func() {
		err := m.srv.Serve(ln)
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return
		}
		m.logger.Error("ops server failed", zap.Error(err))
		select {
		case m.failed <- err:
		default:
		}
	}()
	return nil
}

// Run starts the server and blocks until ctx ends (graceful stop, nil) or
// the server fails (that error). It is meant for an errgroup.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.Start(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return m.Shutdown(context.Background())
	case err := <-m.failed:
		_ = m.Shutdown(context.Background())
		return err
	}
}

// Shutdown stops the server within ShutdownTimeout. It is idempotent and
// also closes a manager that never started.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == stateClosed {
		return nil
	}
	wasServing := m.state == stateServing
	m.state = stateClosed
	if !wasServing {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, m.cfg.ShutdownTimeout)
	defer cancel()
	if err := m.srv.Shutdown(ctx); err != nil {
		m.logger.Error("ops server shutdown failed", zap.Error(err))
		return err
	}
	m.logger.Info("ops server stopped")
	return nil
}

// Addr 返回实际监听地址；未启动时返回配置地址
func (m *Manager) Addr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ln != nil {
		return m.ln.Addr().String()
	}
	return m.cfg.Addr
}

// Serving reports whether the server is accepting connections.
func (m *Manager) Serving() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == stateServing
}
