package workforce

import (
	"context"
	"testing"

	"github.com/BaSui01/workforce/events"
	"github.com/BaSui01/workforce/memory"
	"github.com/BaSui01/workforce/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTask_StaticWorker(t *testing.T) {
	h := newHarness(t)
	task := h.task(t, workerDescriptor())
	ctx := context.Background()
	c := agent("a1", "builder", map[Capability]int{Work: 2})

	identity := task.DetermineBestRole(c)
	assert.Equal(t, "worker", identity.Role)
	assert.Equal(t, 1.0, identity.Info.ProfitPerTick)

	require.True(t, task.Employ(ctx, c))
	assert.True(t, task.Sufficient("worker"))
	assert.Equal(t, StateWorking, task.State())
	assertCountInvariant(t, task)
}

func TestTask_TagMismatch(t *testing.T) {
	h := newHarness(t)
	task := h.task(t, workerDescriptor())
	c := agent("a1", "hauler", map[Capability]int{Work: 2})

	assert.False(t, task.IsRoleQualified(c, "worker"))
	identity := task.DetermineBestRole(c)
	assert.False(t, identity.Assigned())
	assert.Equal(t, EmployeeIdentity{}, identity)
	assert.False(t, task.Employ(context.Background(), c))
}

func TestTask_Hysteresis(t *testing.T) {
	h := newHarness(t)
	task := h.task(t, guardDescriptor())
	ctx := context.Background()

	require.True(t, task.Employ(ctx, guardAgent("g1")))
	assert.False(t, task.Sufficient("guard"))
	assert.Equal(t, StateWaiting, task.State())

	require.True(t, task.Employ(ctx, guardAgent("g2")))
	assert.True(t, task.Sufficient("guard"))
	assert.Equal(t, StateWorking, task.State())

	require.True(t, task.Employ(ctx, guardAgent("g3")))
	require.True(t, task.Fire(ctx, "g3"))
	assert.True(t, task.Sufficient("guard"), "still at minimum, must not flip")

	require.True(t, task.Fire(ctx, "g1"))
	assert.False(t, task.Sufficient("guard"))
	assert.Equal(t, StateWaiting, task.State())
	assertCountInvariant(t, task)
}

func TestTask_DeathForceFires(t *testing.T) {
	h := newHarness(t)
	checks := 0
	dead := false
	d := guardDescriptor().WithSelfCheck(func(*Task) Verdict {
		checks++
		if dead {
			return VerdictDead
		}
		return VerdictAlive
	})
	task := h.task(t, d)
	ctx := context.Background()

	require.True(t, task.Employ(ctx, guardAgent("g1")))
	require.True(t, task.Employ(ctx, guardAgent("g2")))
	require.Equal(t, StateWorking, task.State())

	dead = true
	assert.Equal(t, StateDead, task.Reconcile(ctx))
	assert.Equal(t, 0, task.EmployeeCount())
	assert.Empty(t, task.FetchEmployees("guard"))
	assertCountInvariant(t, task)

	fires := h.recorder.OfType(events.EventFire)
	require.Len(t, fires, 2)
	for _, e := range fires {
		assert.True(t, e.(*events.FireEvent).Forced)
	}
	require.Len(t, h.recorder.OfType(events.EventTaskDead), 1)

	// 锁存后谓词不再被调用，即使它改口
	dead = false
	before := checks
	assert.Equal(t, StateDead, task.State())
	assert.Equal(t, StateDead, task.Reconcile(ctx))
	assert.Equal(t, before, checks)
	assert.Len(t, h.recorder.OfType(events.EventFire), 2, "employees are fired exactly once")
	assert.Len(t, h.recorder.OfType(events.EventTaskDead), 1)
}

func TestState_DoesNotFire(t *testing.T) {
	h := newHarness(t)
	d := guardDescriptor().WithSelfCheck(func(*Task) Verdict { return VerdictDead })
	task := h.task(t, d)

	// 构造后第一次观察即死亡；State 只分类不解雇
	assert.Equal(t, StateDead, task.State())
	assert.Empty(t, h.recorder.OfType(events.EventFire))
}

func TestState_ZeroEmployeesAlwaysWaiting(t *testing.T) {
	h := newHarness(t)
	d := NewDescriptor("optional").WithRole(RoleDescription{
		Name:    "helper",
		Minimum: 0,
		Maximum: 2,
		Profit:  flat(1),
	})
	task := h.task(t, d)

	assert.Equal(t, StateWaiting, task.State())

	require.True(t, task.Employ(context.Background(), agent("a1", "", nil)))
	assert.Equal(t, StateWorking, task.State(), "no positive minimum, one employee")

	require.True(t, task.Fire(context.Background(), "a1"))
	assert.Equal(t, StateWaiting, task.State())
}

func TestState_WaitingUntilEveryMinimumRoleSufficient(t *testing.T) {
	h := newHarness(t)
	d := NewDescriptor("mine").
		WithRole(RoleDescription{Name: "miner", Minimum: 1, Maximum: 1, Tag: "miner", Profit: flat(3)}).
		WithRole(RoleDescription{Name: "hauler", Minimum: 1, Maximum: 2, Tag: "hauler", Profit: flat(1)})
	task := h.task(t, d)
	ctx := context.Background()

	require.True(t, task.Employ(ctx, agent("m1", "miner", nil)))
	assert.Equal(t, StateWaiting, task.State())

	require.True(t, task.Employ(ctx, agent("h1", "hauler", nil)))
	assert.Equal(t, StateWorking, task.State())
}

func TestEmploy_Duplicate(t *testing.T) {
	h := newHarness(t)
	task := h.task(t, guardDescriptor())
	ctx := context.Background()

	require.True(t, task.Employ(ctx, guardAgent("g1")))
	assert.False(t, task.Employ(ctx, guardAgent("g1")))
	assert.Equal(t, []string{"g1"}, task.FetchEmployees("guard"))
	assert.Equal(t, 1, task.EmployeeCount())
	assert.Len(t, h.recorder.OfType(events.EventEmploy), 1)
}

func TestEmploy_RecordsTaskOnAgentMemory(t *testing.T) {
	h := newHarness(t)
	task := h.task(t, guardDescriptor())
	ctx := context.Background()

	require.True(t, task.Employ(ctx, guardAgent("g1")))
	v, err := h.store.Get(ctx, "g1", memory.FieldTask)
	require.NoError(t, err)
	assert.Equal(t, task.Key(), v)
	role, err := h.store.Get(ctx, "g1", memory.FieldRole)
	require.NoError(t, err)
	assert.Equal(t, "guard", role)

	// Fire 不修改 agent 自己的任务指针
	require.True(t, task.Fire(ctx, "g1"))
	v, err = h.store.Get(ctx, "g1", memory.FieldTask)
	require.NoError(t, err)
	assert.Equal(t, task.Key(), v)
}

func TestEmploy_StoreFailureIsLoggedNotReturned(t *testing.T) {
	h := newHarness(t)
	core, logs := observer.New(zapcore.WarnLevel)
	h.env.Logger = zap.New(core)
	task := h.task(t, guardDescriptor())
	require.NoError(t, h.store.Close())

	assert.True(t, task.Employ(context.Background(), guardAgent("g1")))
	assert.Equal(t, 1, logs.FilterMessage("failed to record task on agent").Len())
}

func TestEmploy_RefusedOnceDead(t *testing.T) {
	h := newHarness(t)
	task := h.task(t, guardDescriptor().WithSelfCheck(func(*Task) Verdict { return VerdictDead }))

	require.Equal(t, StateDead, task.State())
	assert.False(t, task.Employ(context.Background(), guardAgent("g1")))
}

func TestFire_NotEmployed(t *testing.T) {
	h := newHarness(t)
	task := h.task(t, guardDescriptor())
	ctx := context.Background()
	require.True(t, task.Employ(ctx, guardAgent("g1")))

	assert.False(t, task.Fire(ctx, "nobody"))
	assert.Equal(t, []string{"g1"}, task.FetchEmployees("guard"))
	assert.Equal(t, 1, task.EmployeeCount())
	assert.Empty(t, h.recorder.OfType(events.EventFire))
}

func TestFire_ClosesTransaction(t *testing.T) {
	h := newHarness(t)
	task := h.task(t, guardDescriptor())
	ctx := context.Background()
	require.True(t, task.Employ(ctx, guardAgent("g1")))

	tx, ok := task.OpenTransaction("g1", "deliver", 50)
	require.True(t, ok)
	_, again := task.OpenTransaction("g1", "deliver", 10)
	assert.False(t, again, "one open transaction per employee")
	_, stranger := task.OpenTransaction("nobody", "deliver", 10)
	assert.False(t, stranger)

	h.clock.Advance(3)
	require.True(t, task.Fire(ctx, "g1"))
	assert.True(t, tx.Closed)
	assert.Equal(t, uint64(103), tx.ClosedAt)
	_, open := task.Transaction("g1")
	assert.False(t, open)
}

func TestIdentity_MemoizedPerTick(t *testing.T) {
	h := newHarness(t)
	profitCalls, durationCalls := 0, 0
	d := NewDescriptor("count").WithRole(RoleDescription{
		Name:    "worker",
		Minimum: 1,
		Maximum: 3,
		Profit: func(*Task, Candidate) float64 {
			profitCalls++
			return float64(profitCalls)
		},
		Duration: func(*Task, Candidate) Duration {
			durationCalls++
			return Duration{WorkingTicks: 10, CommutingTicks: 5}
		},
	})
	task := h.task(t, d)
	c := agent("a1", "", nil)

	first := task.Identity(c)
	second := task.Identity(c)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, profitCalls)
	assert.Equal(t, 1, durationCalls)
	assert.Equal(t, 10, first.Info.WorkingTicks)
	assert.Equal(t, 5, first.Info.CommutingTicks)

	h.clock.Advance(1)
	third := task.Identity(c)
	assert.Equal(t, 2, profitCalls)
	assert.Equal(t, 2.0, third.Info.ProfitPerTick)
}

func TestIdentity_InvalidatedByEmployment(t *testing.T) {
	h := newHarness(t)
	task := h.task(t, workerDescriptor())
	ctx := context.Background()
	a := agent("a1", "builder", map[Capability]int{Work: 2})
	b := agent("b1", "builder", map[Capability]int{Work: 3})

	require.True(t, task.Identity(b).Assigned())
	require.True(t, task.Employ(ctx, a))

	// the only seat is taken now, b must not reuse its stale decision
	assert.False(t, task.Identity(b).Assigned())
	assert.False(t, task.Employ(ctx, b))
}

func TestDetermineBestRole_ProfitAndTieBreak(t *testing.T) {
	h := newHarness(t)
	durations := map[string]int{}
	dur := func(name string) DurationFunc {
		return func(*Task, Candidate) Duration {
			durations[name]++
			return Duration{}
		}
	}
	d := NewDescriptor("pick").
		WithRole(RoleDescription{Name: "first", Minimum: 0, Maximum: 1, Profit: flat(5), Duration: dur("first")}).
		WithRole(RoleDescription{Name: "second", Minimum: 0, Maximum: 1, Profit: flat(5), Duration: dur("second")}).
		WithRole(RoleDescription{Name: "low", Minimum: 0, Maximum: 1, Profit: flat(1), Duration: dur("low")})
	task := h.task(t, d)
	ctx := context.Background()

	assert.Equal(t, "first", task.DetermineBestRole(agent("a", "", nil)).Role)
	assert.Equal(t, map[string]int{"first": 1}, durations, "only the winner's duration is estimated")

	require.True(t, task.Employ(ctx, agent("a", "", nil)))
	assert.Equal(t, "second", task.DetermineBestRole(agent("b", "", nil)).Role)
}

func TestDetermineBestRole_StrictlyGreaterWins(t *testing.T) {
	h := newHarness(t)
	d := NewDescriptor("pick").
		WithRole(RoleDescription{Name: "cheap", Minimum: 0, Maximum: 1, Profit: flat(1)}).
		WithRole(RoleDescription{Name: "rich", Minimum: 0, Maximum: 1, Profit: flat(1.5)})
	task := h.task(t, d)

	assert.Equal(t, "rich", task.DetermineBestRole(agent("a", "", nil)).Role)
}

func TestRun(t *testing.T) {
	h := newHarness(t)
	calls := 0
	d := guardDescriptor().WithWork(func(task *Task) []string {
		calls++
		return []string{"g2", "stranger", "g2"}
	})
	task := h.task(t, d)
	ctx := context.Background()

	assert.Nil(t, task.Run(ctx))
	assert.Equal(t, 0, calls, "work is skipped without employees")

	require.True(t, task.Employ(ctx, guardAgent("g1")))
	require.True(t, task.Employ(ctx, guardAgent("g2")))
	assert.Equal(t, []string{"g2"}, task.Run(ctx))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, task.EmployeeCount(), "Run only reports, callers release")
}

func TestOwner_CachedPerTick(t *testing.T) {
	h := newHarness(t)
	resolves := 0
	alive := true
	h.env.Resolver = ResolverFunc(func(id string) (Candidate, bool) {
		resolves++
		if !alive {
			return nil, false
		}
		return &Object{Name: id, Kind: "controller"}, true
	})
	task, err := NewTask(h.env, TaskSpec{Key: "upgrade", Room: "W1N1", OwnerID: "ctrl-1"}, guardDescriptor())
	require.NoError(t, err)

	obj, ok := task.Owner()
	require.True(t, ok)
	assert.Equal(t, "ctrl-1", obj.ID())
	_, _ = task.Owner()
	assert.Equal(t, 1, resolves)

	alive = false
	h.clock.Advance(1)
	_, ok = task.Owner()
	assert.False(t, ok)
	assert.Equal(t, 2, resolves)
	assert.NotEqual(t, StateDead, task.State(), "a vanished owner does not kill the task")
}

func TestNewTask_GeneratesKey(t *testing.T) {
	h := newHarness(t)
	task, err := NewTask(h.env, TaskSpec{Room: "W1N1"}, guardDescriptor())
	require.NoError(t, err)
	assert.Len(t, task.Key(), 36)
}

func TestNewTask_SharedDescriptor(t *testing.T) {
	h := newHarness(t)
	d := guardDescriptor()
	first := h.task(t, d)

	_, err := NewTask(h.env, TaskSpec{Key: "other"}, d)
	require.Error(t, err)
	assert.True(t, types.IsErrorCode(err, types.ErrDescriptorShared))
	assert.Same(t, first, d.Bound())
}

func TestNewTask_MalformedRoleLoggedAndUnqualifiable(t *testing.T) {
	h := newHarness(t)
	core, logs := observer.New(zapcore.ErrorLevel)
	h.env.Logger = zap.New(core)

	d := NewDescriptor("broken").
		WithRole(RoleDescription{Name: "shrinker", Minimum: 1, Maximum: 2, Mode: SpawnShrinkToAvailable,
			Requirements: map[Capability]int{Work: 1}, Profit: flat(10)}).
		WithRole(RoleDescription{Name: "fine", Minimum: 1, Maximum: 2,
			Requirements: map[Capability]int{Work: 1}, Profit: flat(1)})
	task := h.task(t, d)

	require.Equal(t, 1, logs.FilterMessage("malformed role, it will never qualify").Len())
	c := agent("a1", "", map[Capability]int{Work: 5})
	assert.False(t, task.IsRoleQualified(c, "shrinker"))
	assert.Equal(t, "fine", task.DetermineBestRole(c).Role)
	assert.Len(t, h.demands.demands, 1, "the malformed role is not advertised")
	assert.Equal(t, StateWaiting, task.State())
}

func TestEmployees_Order(t *testing.T) {
	h := newHarness(t)
	d := NewDescriptor("mine").
		WithRole(RoleDescription{Name: "miner", Minimum: 1, Maximum: 2, Tag: "miner", Profit: flat(3)}).
		WithRole(RoleDescription{Name: "hauler", Minimum: 1, Maximum: 2, Tag: "hauler", Profit: flat(1)})
	task := h.task(t, d)
	ctx := context.Background()

	require.True(t, task.Employ(ctx, agent("h1", "hauler", nil)))
	require.True(t, task.Employ(ctx, agent("m1", "miner", nil)))
	require.True(t, task.Employ(ctx, agent("h2", "hauler", nil)))

	assert.Equal(t, []string{"m1", "h1", "h2"}, task.Employees())
	assert.Equal(t, "hauler", task.RoleOf("h2"))
	assert.Equal(t, "", task.RoleOf("nobody"))
	assert.Nil(t, task.FetchEmployees("unknown"))
}
