package workforce

import (
	"context"
	"slices"
	"time"

	"github.com/BaSui01/workforce/events"
	"github.com/BaSui01/workforce/memory"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State 任务生命周期状态
type State string

const (
	StateWaiting State = "waiting"
	StateWorking State = "working"
	StateDead    State = "dead"
)

// TaskSpec identifies a task at construction.
type TaskSpec struct {
	// Key 稳定的任务 key；为空时生成 UUID
	Key string
	// Room 任务所在房间
	Room string
	// OwnerID 归属对象 ID（可选），每 tick 通过 Resolver 惰性解析
	OwnerID string
}

// EmploymentInfo 雇佣估算
type EmploymentInfo struct {
	ProfitPerTick  float64
	WorkingTicks   int
	CommutingTicks int
}

// EmployeeIdentity is the role decision for one candidate. An empty
// Role means no role qualifies.
type EmployeeIdentity struct {
	Role string
	Info EmploymentInfo
}

// Assigned reports whether a role was found.
func (e EmployeeIdentity) Assigned() bool {
	return e.Role != ""
}

type roleSlot struct {
	ids        []string
	sufficient bool
}

type ownerEntry struct {
	obj Candidate
	ok  bool
}

// Task 有状态的工作单元
type Task struct {
	key     string
	room    string
	ownerID string
	desc    *Descriptor
	env     Env
	logger  *zap.Logger

	employeeRoles map[string]string
	rolesInUse    map[string]*roleSlot
	employeeCount int

	// broken 记录配置错误的角色（按声明下标），这些角色永远不合格
	broken []error

	deadLatched bool
	reaped      bool

	allocation TickCache[string, EmployeeIdentity]
	owner      TickCache[string, ownerEntry]

	transactions map[string]*Transaction
	data         map[string]any
}

// NewTask binds d to a new task and registers one Demand per spawnable
// role with the environment's Registrar. Malformed roles are logged and
// stay permanently unqualifiable; only a shared descriptor is an error.
func NewTask(env Env, spec TaskSpec, d *Descriptor) (*Task, error) {
	env = env.withDefaults()
	key := spec.Key
	if key == "" {
		key = uuid.NewString()
	}

	t := &Task{
		key:           key,
		room:          spec.Room,
		ownerID:       spec.OwnerID,
		desc:          d,
		env:           env,
		employeeRoles: make(map[string]string),
		rolesInUse:    make(map[string]*roleSlot, len(d.roles)),
		transactions:  make(map[string]*Transaction),
		data:          make(map[string]any),
	}
	t.logger = env.Logger.With(
		zap.String("component", "task"),
		zap.String("task", key),
		zap.String("kind", d.Kind()),
	)
	if err := d.Bind(t); err != nil {
		return nil, err
	}

	t.broken = d.problems()
	for i, r := range d.roles {
		if t.broken[i] != nil {
			t.logger.Error("malformed role, it will never qualify",
				zap.String("role", r.Name),
				zap.Error(t.broken[i]),
			)
			continue
		}
		t.rolesInUse[r.Name] = &roleSlot{}
	}

	for i, r := range d.roles {
		if t.broken[i] != nil || !r.Spawnable() {
			continue
		}
		env.Registrar.Register(newDemand(t, r))
	}

	t.logger.Debug("task created", zap.String("room", spec.Room), zap.Int("roles", len(d.roles)))
	return t, nil
}

// Key returns the task's stable key.
func (t *Task) Key() string { return t.key }

// Room returns the room the task is scoped to.
func (t *Task) Room() string { return t.room }

// Descriptor returns the bound descriptor.
func (t *Task) Descriptor() *Descriptor { return t.desc }

// EmployeeCount returns the number of employed agents.
func (t *Task) EmployeeCount() int { return t.employeeCount }

// Data is the task-private side-channel bag used by its own closures.
func (t *Task) Data() map[string]any { return t.data }

// Memory returns the key-value store shared with the host.
func (t *Task) Memory() memory.Store { return t.env.Memory }

// Tick returns the current host tick.
func (t *Task) Tick() uint64 { return t.env.Clock.Tick() }

// Logger returns the task-scoped logger.
func (t *Task) Logger() *zap.Logger { return t.logger }

// Owner resolves the owning object, caching the result for this tick.
func (t *Task) Owner() (Candidate, bool) {
	if t.ownerID == "" {
		return nil, false
	}
	now := t.env.Clock.Tick()
	if e, ok := t.owner.Get(now, t.ownerID); ok {
		return e.obj, e.ok
	}
	obj, ok := t.env.Resolver.Resolve(t.ownerID)
	t.owner.Put(now, t.ownerID, ownerEntry{obj: obj, ok: ok})
	return obj, ok
}

// RoleOf returns the role id is employed under, or "".
func (t *Task) RoleOf(id string) string {
	return t.employeeRoles[id]
}

// Sufficient reports the hysteresis flag of a role.
func (t *Task) Sufficient(role string) bool {
	slot, ok := t.rolesInUse[role]
	return ok && slot.sufficient
}

// FetchEmployees returns the live id list for role; nil for unknown roles.
func (t *Task) FetchEmployees(role string) []string {
	if slot, ok := t.rolesInUse[role]; ok {
		return slot.ids
	}
	return nil
}

// Employees returns every employed id, grouped by role declaration order.
func (t *Task) Employees() []string {
	out := make([]string, 0, t.employeeCount)
	for _, r := range t.desc.roles {
		if slot, ok := t.rolesInUse[r.Name]; ok && t.desc.index[r.Name] == r {
			out = append(out, slot.ids...)
		}
	}
	return out
}

// State classifies the task. A dead verdict from the completion predicate
// is latched and never re-evaluated; no employees are fired here, that
// is Reconcile's job.
func (t *Task) State() State {
	if t.deadLatched {
		return StateDead
	}
	if t.desc.selfCheck != nil && t.desc.selfCheck(t) == VerdictDead {
		t.deadLatched = true
		t.logger.Info("task reached terminal state", zap.Int("employees", t.employeeCount))
		return StateDead
	}
	// 没有雇员时永远是 waiting，与角色最小人数无关
	if t.employeeCount == 0 {
		return StateWaiting
	}
	for _, r := range t.desc.roles {
		if r.Minimum <= 0 {
			continue
		}
		slot, ok := t.rolesInUse[r.Name]
		if !ok || !slot.sufficient {
			return StateWaiting
		}
	}
	return StateWorking
}

// Reconcile evaluates State and, once the task is dead, force-fires every
// remaining employee. It returns the state observed.
func (t *Task) Reconcile(ctx context.Context) State {
	state, _ := t.reconcile(ctx)
	return state
}

// reconcile is Reconcile that also reports the ids it force-fired.
func (t *Task) reconcile(ctx context.Context) (State, []string) {
	state := t.State()
	if state != StateDead || t.reaped {
		return state, nil
	}
	t.reaped = true

	fired := t.Employees()
	for _, id := range fired {
		t.fire(ctx, id, true)
	}
	t.env.Publisher.Publish(&events.TaskDeadEvent{
		TaskKey:    t.key,
		Room:       t.room,
		Fired:      len(fired),
		Tick_:      t.env.Clock.Tick(),
		Timestamp_: time.Now(),
	})
	if len(fired) > 0 {
		t.logger.Info("force-fired employees of dead task", zap.Strings("agents", fired))
	}
	return state, fired
}

// Identity is the memoized DetermineBestRole: estimators run at most once
// per candidate per tick unless employment changes in between.
func (t *Task) Identity(c Candidate) EmployeeIdentity {
	if c == nil {
		return EmployeeIdentity{}
	}
	now := t.env.Clock.Tick()
	if id, ok := t.allocation.Get(now, c.ID()); ok {
		return id
	}
	id := t.DetermineBestRole(c)
	t.allocation.Put(now, c.ID(), id)
	return id
}

// Employ hires c into its best role. It returns false when c is already
// employed here, when the task is dead, or when no role qualifies.
func (t *Task) Employ(ctx context.Context, c Candidate) bool {
	if c == nil || t.deadLatched {
		return false
	}
	id := c.ID()
	if _, ok := t.employeeRoles[id]; ok {
		return false
	}
	identity := t.Identity(c)
	if !identity.Assigned() {
		return false
	}
	slot := t.rolesInUse[identity.Role]
	role := t.desc.index[identity.Role]

	t.employeeRoles[id] = identity.Role
	slot.ids = append(slot.ids, id)
	if !slot.sufficient && len(slot.ids) >= role.Minimum {
		slot.sufficient = true
	}
	t.employeeCount++
	t.allocation.Invalidate()

	t.env.Publisher.Publish(&events.EmployEvent{
		TaskKey:    t.key,
		Room:       t.room,
		AgentID:    id,
		Role:       identity.Role,
		Tick_:      t.env.Clock.Tick(),
		Timestamp_: time.Now(),
	})

	if err := t.env.Memory.Set(ctx, id, memory.FieldTask, t.key); err != nil {
		t.logger.Warn("failed to record task on agent", zap.String("agent", id), zap.Error(err))
	}
	if err := t.env.Memory.Set(ctx, id, memory.FieldRole, identity.Role); err != nil {
		t.logger.Warn("failed to record role on agent", zap.String("agent", id), zap.Error(err))
	}

	t.logger.Debug("employed",
		zap.String("agent", id),
		zap.String("role", identity.Role),
		zap.Float64("profit_per_tick", identity.Info.ProfitPerTick),
	)
	return true
}

// Fire releases id from its role. It returns false when id is not employed.
// The agent's own task pointer is left untouched.
func (t *Task) Fire(ctx context.Context, id string) bool {
	return t.fire(ctx, id, false)
}

func (t *Task) fire(ctx context.Context, id string, forced bool) bool {
	roleName, ok := t.employeeRoles[id]
	if !ok {
		return false
	}
	slot := t.rolesInUse[roleName]
	role := t.desc.index[roleName]

	delete(t.employeeRoles, id)
	if i := slices.Index(slot.ids, id); i >= 0 {
		slot.ids = slices.Delete(slot.ids, i, i+1)
	}
	if slot.sufficient && len(slot.ids) < role.Minimum {
		slot.sufficient = false
	}
	t.employeeCount--
	t.allocation.Invalidate()

	if tx, ok := t.CloseTransaction(id); ok {
		t.logger.Debug("closed transaction on fire",
			zap.String("agent", id),
			zap.String("transaction", tx.ID),
		)
	}

	t.env.Publisher.Publish(&events.FireEvent{
		TaskKey:    t.key,
		Room:       t.room,
		AgentID:    id,
		Role:       roleName,
		Forced:     forced,
		Tick_:      t.env.Clock.Tick(),
		Timestamp_: time.Now(),
	})
	return true
}

// Run invokes the work closure and returns the employees it released.
// It is a no-op while nobody is employed.
func (t *Task) Run(ctx context.Context) []string {
	if t.employeeCount == 0 || t.desc.work == nil {
		return nil
	}
	released := t.desc.work(t)
	out := released[:0:0]
	for _, id := range released {
		if _, ok := t.employeeRoles[id]; ok && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
