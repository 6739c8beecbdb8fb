// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"time"

	"github.com/BaSui01/workforce/events"
	"github.com/BaSui01/workforce/workforce"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// =============================================================================
// 📊 指标收集器
// =============================================================================

// Collector 指标收集器
type Collector struct {
	// 雇佣指标
	employmentsTotal *prometheus.CounterVec
	firesTotal       *prometheus.CounterVec
	assignmentsTotal *prometheus.CounterVec
	tasksDeadTotal   prometheus.Counter

	// Tick 指标
	ticksTotal      prometheus.Counter
	tickDuration    prometheus.Histogram
	taskStates      *prometheus.GaugeVec
	releasedTotal   prometheus.Counter
	agentPopulation prometheus.Gauge

	// 生产指标
	spawnRequestsTotal *prometheus.CounterVec
	spawnQueueLength   prometheus.Gauge

	// 事件总线指标
	busDropped prometheus.Gauge

	logger *zap.Logger
}

// NewCollector 创建指标收集器
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	// 雇佣指标
	c.employmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "employments_total",
			Help:      "Total number of agents employed into a role",
		},
		[]string{"role"},
	)

	c.firesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fires_total",
			Help:      "Total number of agents fired from a role",
		},
		[]string{"role", "forced"},
	)

	c.assignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignments_total",
			Help:      "Total number of registry assignment changes",
		},
		[]string{"event"}, // event: take, release
	)

	c.tasksDeadTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_dead_total",
			Help:      "Total number of tasks that reached the dead state",
		},
	)

	// Tick 指标
	c.ticksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total number of host ticks processed",
		},
	)

	c.tickDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Host tick duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	c.taskStates = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks",
			Help:      "Number of tracked tasks by state after the last sweep",
		},
		[]string{"state"},
	)

	c.releasedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "released_total",
			Help:      "Total number of employees released by task work",
		},
	)

	c.agentPopulation = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "agents",
			Help:      "Number of live agents",
		},
	)

	// 生产指标
	c.spawnRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spawn_requests_total",
			Help:      "Total number of spawn requests served",
		},
		[]string{"role"},
	)

	c.spawnQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "spawn_demands",
			Help:      "Number of demands registered with the spawn queue",
		},
	)

	c.busDropped = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_bus_dropped",
			Help:      "Number of events dropped by the event bus",
		},
	)

	logger.Info("metrics collector initialized", zap.String("namespace", namespace))

	return c
}

// =============================================================================
// 🎭 事件记录
// =============================================================================

// Subscribe 订阅总线上的所有生命周期事件，返回订阅 ID
func (c *Collector) Subscribe(bus events.Bus) []string {
	kinds := []events.EventType{
		events.EventEmploy,
		events.EventFire,
		events.EventTake,
		events.EventRelease,
		events.EventTaskDead,
	}
	ids := make([]string, 0, len(kinds))
	for _, t := range kinds {
		ids = append(ids, bus.Subscribe(t, c.HandleEvent))
	}
	return ids
}

// HandleEvent 记录单个生命周期事件
func (c *Collector) HandleEvent(e events.Event) {
	switch ev := e.(type) {
	case *events.EmployEvent:
		c.employmentsTotal.WithLabelValues(ev.Role).Inc()
	case *events.FireEvent:
		c.firesTotal.WithLabelValues(ev.Role, boolLabel(ev.Forced)).Inc()
	case *events.TakeEvent:
		c.assignmentsTotal.WithLabelValues(string(events.EventTake)).Inc()
	case *events.ReleaseEvent:
		c.assignmentsTotal.WithLabelValues(string(events.EventRelease)).Inc()
	case *events.TaskDeadEvent:
		c.tasksDeadTotal.Inc()
	default:
		c.logger.Debug("ignoring unknown event", zap.String("type", string(e.Type())))
	}
}

// =============================================================================
// ⏱️ Tick 指标记录
// =============================================================================

// RecordTick 记录一次 tick 的耗时与 Sweep 结果
func (c *Collector) RecordTick(report workforce.SweepReport, duration time.Duration) {
	c.ticksTotal.Inc()
	c.tickDuration.Observe(duration.Seconds())
	c.releasedTotal.Add(float64(report.Released))
	for _, state := range []workforce.State{workforce.StateWaiting, workforce.StateWorking, workforce.StateDead} {
		c.taskStates.WithLabelValues(string(state)).Set(float64(report.States[state]))
	}
}

// RecordAgents 记录存活 agent 数量
func (c *Collector) RecordAgents(n int) {
	c.agentPopulation.Set(float64(n))
}

// =============================================================================
// 🏭 生产指标记录
// =============================================================================

// RecordSpawn 记录一次被满足的生产请求
func (c *Collector) RecordSpawn(role string) {
	c.spawnRequestsTotal.WithLabelValues(role).Inc()
}

// RecordQueueLength 记录生产队列中的 Demand 数量
func (c *Collector) RecordQueueLength(n int) {
	c.spawnQueueLength.Set(float64(n))
}

// RecordBusDropped 记录事件总线累计丢弃数
func (c *Collector) RecordBusDropped(n int64) {
	c.busDropped.Set(float64(n))
}

// =============================================================================
// 🔧 辅助函数
// =============================================================================

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
