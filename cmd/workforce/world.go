package main

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/BaSui01/workforce/config"
	"github.com/BaSui01/workforce/internal/ctxkeys"
	"github.com/BaSui01/workforce/internal/metrics"
	"github.com/BaSui01/workforce/internal/telemetry"
	"github.com/BaSui01/workforce/memory"
	"github.com/BaSui01/workforce/spawn"
	"github.com/BaSui01/workforce/workforce"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// =============================================================================
// 🌍 模拟世界
// =============================================================================

const (
	keyHarvest = "harvest"
	keyUpgrade = "upgrade"
	keyDefend  = "defend"

	// 每个 WORK 部件每 tick 采集的能量
	harvestPerWork = 2
	// 每个 CARRY 部件每 tick 运送的能量
	haulPerCarry = 10
	// 每个 ATTACK 部件每 tick 造成的伤害
	damagePerAttack = 10
	// 入侵者初始血量
	initialThreat = 400
)

// WorldDeps 模拟世界的外部依赖
type WorldDeps struct {
	Store       memory.Store
	Publisher   workforce.Publisher
	Collector   *metrics.Collector
	Instruments *telemetry.Instruments
	Dropped     func() int64
	Logger      *zap.Logger
}

// World 单房间模拟：能量、agent 寿命、生产与三个常驻任务
type World struct {
	cfg      config.EngineConfig
	clock    *workforce.ManualClock
	registry *workforce.Registry
	queue    *spawn.Queue
	deps     WorldDeps
	logger   *zap.Logger

	agents     map[string]*workforce.Agent
	structures map[string]*workforce.Object
	energy     int
	progress   int
	threat     int
	seq        int

	// ctx 当前 tick 的上下文，供任务 Work 闭包访问存储
	ctx context.Context
}

// NewWorld 创建模拟世界并注册常驻任务
func NewWorld(cfg config.EngineConfig, deps WorldDeps) (*World, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Store == nil {
		deps.Store = memory.NewMemoryStore()
	}
	if deps.Instruments == nil {
		inst, err := telemetry.NewInstruments(nil, nil)
		if err != nil {
			return nil, fmt.Errorf("create tick instruments: %w", err)
		}
		deps.Instruments = inst
	}

	w := &World{
		cfg:    cfg,
		clock:  workforce.NewManualClock(0),
		deps:   deps,
		logger: deps.Logger.With(zap.String("component", "world"), zap.String("room", cfg.Room)),
		agents: make(map[string]*workforce.Agent),
		structures: map[string]*workforce.Object{
			"rampart-1": {Name: "rampart-1", Tag: "rampart", Kind: "rampart", Pos: workforce.Position{Room: cfg.Room, X: 10, Y: 10}},
		},
		energy: cfg.EnergyCapacity,
		threat: initialThreat,
		ctx:    context.Background(),
	}
	w.queue = spawn.NewQueue(partCosts(cfg.PartCosts), deps.Logger)
	w.registry = workforce.NewRegistry(workforce.Env{
		Clock:     w.clock,
		Memory:    deps.Store,
		Publisher: deps.Publisher,
		Registrar: w.queue,
		Resolver:  workforce.ResolverFunc(w.resolve),
		Logger:    deps.Logger,
	})

	specs := []struct {
		spec workforce.TaskSpec
		desc *workforce.Descriptor
	}{
		{workforce.TaskSpec{Key: keyHarvest, Room: cfg.Room}, w.harvestDescriptor()},
		{workforce.TaskSpec{Key: keyUpgrade, Room: cfg.Room}, w.upgradeDescriptor()},
		{workforce.TaskSpec{Key: keyDefend, Room: cfg.Room, OwnerID: "rampart-1"}, w.defendDescriptor()},
	}
	for _, s := range specs {
		if err := s.desc.Validate(); err != nil {
			return nil, err
		}
		if _, err := w.registry.NewTask(s.spec, s.desc); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func partCosts(m map[string]int) spawn.Costs {
	if len(m) == 0 {
		return nil
	}
	costs := make(spawn.Costs, len(m))
	for part, cost := range m {
		costs[workforce.Capability(part)] = cost
	}
	return costs
}

func (w *World) resolve(id string) (workforce.Candidate, bool) {
	if a, ok := w.agents[id]; ok {
		return a, true
	}
	if s, ok := w.structures[id]; ok {
		return s, true
	}
	return nil, false
}

// Registry 返回任务注册表
func (w *World) Registry() *workforce.Registry { return w.registry }

// Tick 返回当前 tick
func (w *World) Tick() uint64 { return w.clock.Tick() }

// Energy 返回房间当前能量
func (w *World) Energy() int { return w.energy }

// Progress 返回升级进度
func (w *World) Progress() int { return w.progress }

// Threat 返回入侵者剩余血量
func (w *World) Threat() int { return w.threat }

// Agent 按名字返回存活的 agent
func (w *World) Agent(name string) (*workforce.Agent, bool) {
	a, ok := w.agents[name]
	return a, ok
}

// Agents 返回存活 agent 数
func (w *World) Agents() int { return len(w.agents) }

// =============================================================================
// 🔁 主循环
// =============================================================================

// Run 以 limiter 节奏执行 tick，直到 maxTicks（0 表示不限）或 ctx 结束
func (w *World) Run(ctx context.Context, limiter *rate.Limiter, maxTicks int) error {
	ctx = ctxkeys.WithRunID(ctx, uuid.NewString())
	w.logger.Info("world started", append(ctxkeys.Fields(ctx), zap.Int("max_ticks", maxTicks))...)
	for maxTicks == 0 || int(w.clock.Tick()) < maxTicks {
		err := limiter.Wait(ctx)
		if err == nil {
			_, err = w.Step(ctx)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			break
		}
		if err != nil {
			return err
		}
	}
	w.logger.Info("world stopped",
		zap.Uint64("tick", w.clock.Tick()),
		zap.Int("agents", len(w.agents)),
		zap.Int("progress", w.progress),
	)
	return nil
}

// Step 执行一个 tick：回能、衰老、生产、分派空闲 agent、扫描任务
func (w *World) Step(ctx context.Context) (workforce.SweepReport, error) {
	start := time.Now()
	tick := w.clock.Advance(1)

	ctx, span := w.deps.Instruments.StartTick(ctxkeys.WithTick(ctx, tick), tick)
	w.ctx = ctx
	defer func() { w.ctx = context.Background() }()

	w.energy = min(w.cfg.EnergyCapacity, w.energy+w.cfg.EnergyRegen)
	w.age(ctx)
	w.spawn(ctx)
	w.offerIdle(ctx)
	report := w.registry.Sweep(ctx)

	err := ctx.Err()
	w.deps.Instruments.EndTick(ctx, span, report, err)
	if c := w.deps.Collector; c != nil {
		c.RecordTick(report, time.Since(start))
		c.RecordAgents(len(w.agents))
		c.RecordQueueLength(w.queue.Len())
		if w.deps.Dropped != nil {
			c.RecordBusDropped(w.deps.Dropped())
		}
	}
	return report, err
}

// age 扣减寿命，寿命耗尽的 agent 从注册表和存储中遗忘
func (w *World) age(ctx context.Context) {
	for _, name := range slices.Sorted(maps.Keys(w.agents)) {
		a := w.agents[name]
		a.TicksToLive--
		if a.TicksToLive > 0 {
			continue
		}
		w.registry.Forget(ctx, name)
		delete(w.agents, name)
		w.logger.Debug("agent expired", append(ctxkeys.Fields(ctx), zap.String("agent", name))...)
	}
}

// spawn 单一出生点：每 tick 最多生产一个负担得起的请求，并直接指派给发起需求的任务
func (w *World) spawn(ctx context.Context) {
	requests := w.queue.Poll(spawn.RoomBudget{
		Room:      w.cfg.Room,
		Available: w.energy,
		Capacity:  w.cfg.EnergyCapacity,
	})
	for _, req := range requests {
		if req.Cost > w.energy {
			continue
		}
		w.seq++
		a := &workforce.Agent{
			Name:        fmt.Sprintf("%s-%d", req.Role, w.seq),
			Tag:         req.Tag,
			Parts:       req.Body,
			Pos:         workforce.Position{Room: req.Room, X: 25, Y: 25},
			TicksToLive: w.cfg.AgentLifetime,
		}
		w.agents[a.Name] = a
		w.energy -= req.Cost
		if w.deps.Collector != nil {
			w.deps.Collector.RecordSpawn(req.Role)
		}
		assigned := w.registry.Assign(ctx, a, req.Demand.Task())
		w.logger.Info("agent spawned", append(ctxkeys.Fields(ctx),
			zap.String("agent", a.Name),
			zap.String("role", req.Role),
			zap.Int("cost", req.Cost),
			zap.Bool("assigned", assigned),
		)...)
		return
	}
}

// offerIdle 把没有任务的候选者交给出价最高的任务
func (w *World) offerIdle(ctx context.Context) {
	candidates := make([]workforce.Candidate, 0, len(w.agents)+len(w.structures))
	for _, name := range slices.Sorted(maps.Keys(w.agents)) {
		candidates = append(candidates, w.agents[name])
	}
	for _, name := range slices.Sorted(maps.Keys(w.structures)) {
		candidates = append(candidates, w.structures[name])
	}

	for _, c := range candidates {
		if w.registry.Lookup(ctx, c.ID()) != nil {
			continue
		}
		var (
			best   *workforce.Task
			profit float64
		)
		for _, t := range w.registry.Tasks() {
			identity := t.Identity(c)
			if !identity.Assigned() {
				continue
			}
			if best == nil || identity.Info.ProfitPerTick > profit {
				best, profit = t, identity.Info.ProfitPerTick
			}
		}
		if best != nil {
			w.registry.Assign(ctx, c, best)
		}
	}
}

// =============================================================================
// 📋 常驻任务
// =============================================================================

func (w *World) employed(t *workforce.Task, role string) []*workforce.Agent {
	var out []*workforce.Agent
	for _, id := range t.FetchEmployees(role) {
		if a, ok := w.agents[id]; ok {
			out = append(out, a)
		}
	}
	return out
}

func partProfit(kind workforce.Capability, rate float64) workforce.ProfitFunc {
	return func(_ *workforce.Task, c workforce.Candidate) float64 {
		if a, ok := c.(*workforce.Agent); ok {
			return float64(a.Count(kind)) * rate
		}
		return 0
	}
}

// harvestDescriptor 矿工把能量采进容器，搬运工把容器里的能量送回房间
func (w *World) harvestDescriptor() *workforce.Descriptor {
	source := workforce.Position{Room: w.cfg.Room, X: 5, Y: 5}
	return workforce.NewDescriptor("harvest").
		WithRole(workforce.RoleDescription{
			Name:         "miner",
			Minimum:      1,
			Maximum:      1,
			Profit:       partProfit(workforce.Work, harvestPerWork),
			Requirements: map[workforce.Capability]int{workforce.Work: 5, workforce.Move: 1},
			Tag:          "miner",
			Mode:         workforce.SpawnShrinkToCapacity,
			WorkingPos:   &source,
			Confined:     true,
		}).
		WithRole(workforce.RoleDescription{
			Name:         "hauler",
			Minimum:      1,
			Maximum:      2,
			Profit:       partProfit(workforce.Carry, haulPerCarry),
			Requirements: map[workforce.Capability]int{workforce.Carry: 4, workforce.Move: 2},
			Tag:          "hauler",
		}).
		WithWork(func(t *workforce.Task) []string {
			container, _ := t.Data()["container"].(int)
			for _, a := range w.employed(t, "miner") {
				container += a.Count(workforce.Work) * harvestPerWork
			}
			// 搬运分两步：装货开启交易，下一 tick 卸货关闭交易
			for _, a := range w.employed(t, "hauler") {
				if tx, ok := t.CloseTransaction(a.Name); ok {
					w.energy = min(w.cfg.EnergyCapacity, w.energy+tx.Amount)
					continue
				}
				load := min(container, a.Count(workforce.Carry)*haulPerCarry)
				if load == 0 {
					continue
				}
				if _, ok := t.OpenTransaction(a.Name, "haul", load); ok {
					container -= load
				}
			}
			t.Data()["container"] = container
			return nil
		})
}

// upgradeDescriptor 升级工消耗房间能量推进升级进度
func (w *World) upgradeDescriptor() *workforce.Descriptor {
	return workforce.NewDescriptor("upgrade").
		WithRole(workforce.RoleDescription{
			Name:    "upgrader",
			Minimum: 1,
			Maximum: 2,
			Profit:  partProfit(workforce.Work, 1),
			Tag:     "upgrader",
			Mode:    workforce.SpawnExpand,
			Expand: func(_ *workforce.Task, capacity int) map[workforce.Capability]int {
				work := min(5, max(1, (capacity-100)/150))
				return map[workforce.Capability]int{workforce.Work: work, workforce.Carry: 1, workforce.Move: 1}
			},
		}).
		WithWork(func(t *workforce.Task) []string {
			for _, a := range w.employed(t, "upgrader") {
				spend := min(w.energy, a.Count(workforce.Work))
				flag := "0"
				if spend > 0 {
					flag = "1"
				}
				if err := t.Memory().Set(w.ctx, a.Name, memory.FieldWorking, flag); err != nil {
					t.Logger().Warn("failed to record working flag", zap.String("agent", a.Name), zap.Error(err))
				}
				w.energy -= spend
				w.progress += spend
			}
			return nil
		})
}

// defendDescriptor 守卫驻守城墙直到入侵者被清除；城墙自身作为对象参与任务
func (w *World) defendDescriptor() *workforce.Descriptor {
	return workforce.NewDescriptor("defend").
		WithRole(workforce.RoleDescription{
			Name:         "guard",
			Minimum:      2,
			Maximum:      3,
			Profit:       partProfit(workforce.Attack, damagePerAttack),
			Requirements: map[workforce.Capability]int{workforce.Attack: 2, workforce.Move: 2},
			Tag:          "guard",
		}).
		WithRole(workforce.RoleDescription{
			Name:    "post",
			Minimum: 0,
			Maximum: 1,
			Tag:     "rampart",
			Satisfies: func(_ *workforce.Task, o *workforce.Object) bool {
				return o.Kind == "rampart"
			},
		}).
		WithSelfCheck(func(t *workforce.Task) workforce.Verdict {
			if _, ok := t.Owner(); !ok || w.threat <= 0 {
				return workforce.VerdictDead
			}
			return workforce.VerdictAlive
		}).
		WithWork(func(t *workforce.Task) []string {
			for _, a := range w.employed(t, "guard") {
				w.threat = max(0, w.threat-a.Count(workforce.Attack)*damagePerAttack)
			}
			return nil
		})
}
