package workforce

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/BaSui01/workforce/events"
	"github.com/BaSui01/workforce/memory"
	"go.uber.org/zap"
)

// Registry maps agent ids to the task that currently employs them and is
// the only place an agent's assignment changes. It also tracks the live
// tasks the host issued so Sweep can advance them every tick.
type Registry struct {
	env         Env
	logger      *zap.Logger
	assignments map[string]*Task
	tasks       map[string]*Task
	order       []string
}

// SweepReport summarises one Sweep.
type SweepReport struct {
	Tick     uint64
	Ran      int
	Dead     int
	Released int
	States   map[State]int
}

// NewRegistry 创建注册表
func NewRegistry(env Env) *Registry {
	env = env.withDefaults()
	return &Registry{
		env:         env,
		logger:      env.Logger.With(zap.String("component", "registry")),
		assignments: make(map[string]*Task),
		tasks:       make(map[string]*Task),
	}
}

// Env returns the environment tasks created through the registry share.
func (r *Registry) Env() Env { return r.env }

// NewTask creates a task in the registry's environment and tracks it.
func (r *Registry) NewTask(spec TaskSpec, d *Descriptor) (*Task, error) {
	t, err := NewTask(r.env, spec, d)
	if err != nil {
		return nil, err
	}
	if !r.Track(t) {
		return nil, errDuplicateTask(t.Key())
	}
	return t, nil
}

// Track starts sweeping t. It returns false if a task with the same key
// is already tracked.
func (r *Registry) Track(t *Task) bool {
	if _, ok := r.tasks[t.Key()]; ok {
		return false
	}
	r.tasks[t.Key()] = t
	r.order = append(r.order, t.Key())
	return true
}

// Task returns a tracked task by key.
func (r *Registry) Task(key string) (*Task, bool) {
	t, ok := r.tasks[key]
	return t, ok
}

// Tasks returns tracked tasks in the order they were tracked.
func (r *Registry) Tasks() []*Task {
	out := make([]*Task, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.tasks[key])
	}
	return out
}

// Assignments returns the number of live registrations.
func (r *Registry) Assignments() int { return len(r.assignments) }

// Lookup returns the task employing id. The task is reconciled first; if
// that finds it dead the registration is cleared and nil is returned.
func (r *Registry) Lookup(ctx context.Context, id string) *Task {
	t, ok := r.assignments[id]
	if !ok {
		return nil
	}
	if t.Reconcile(ctx) == StateDead {
		r.release(ctx, id, t)
		return nil
	}
	return t
}

// Assign moves c to t. Any live assignment of c is torn down first; a nil
// t only tears down. Assigning to a dead task, or to one with no role for
// c, returns false and leaves c unassigned.
func (r *Registry) Assign(ctx context.Context, c Candidate, t *Task) bool {
	if c == nil {
		return false
	}
	id := c.ID()
	r.Teardown(ctx, id)
	if t == nil {
		return true
	}
	if t.Reconcile(ctx) == StateDead {
		r.logger.Debug("refusing assignment to dead task",
			zap.String("agent", id),
			zap.String("task", t.Key()),
		)
		return false
	}
	if !t.Employ(ctx, c) {
		return false
	}
	r.assignments[id] = t
	r.env.Publisher.Publish(&events.TakeEvent{
		AgentID:    id,
		TaskKey:    t.Key(),
		Role:       t.RoleOf(id),
		Tick_:      r.env.Clock.Tick(),
		Timestamp_: time.Now(),
	})
	return true
}

// Teardown fires id from its task and clears the registration. It is a
// no-op when id has no registration.
func (r *Registry) Teardown(ctx context.Context, id string) {
	t, ok := r.assignments[id]
	if !ok {
		return
	}
	t.Fire(ctx, id)
	r.release(ctx, id, t)
}

// Forget tears down id and drops its whole memory record. Hosts call it
// when an agent dies.
func (r *Registry) Forget(ctx context.Context, id string) {
	r.Teardown(ctx, id)
	if err := r.env.Memory.Drop(ctx, id); err != nil {
		r.logger.Warn("failed to drop agent memory", zap.String("agent", id), zap.Error(err))
	}
}

// release clears the registration and the agent's task pointer.
func (r *Registry) release(ctx context.Context, id string, t *Task) {
	delete(r.assignments, id)
	if err := r.env.Memory.Delete(ctx, id, memory.FieldTask, memory.FieldRole); err != nil {
		r.logger.Warn("failed to clear agent task", zap.String("agent", id), zap.Error(err))
	}
	r.env.Publisher.Publish(&events.ReleaseEvent{
		AgentID:    id,
		TaskKey:    t.Key(),
		Tick_:      r.env.Clock.Tick(),
		Timestamp_: time.Now(),
	})
}

// Sweep advances every tracked task once: dead tasks are reaped and
// untracked along with their registrations, live tasks run and the
// employees they release are torn down.
func (r *Registry) Sweep(ctx context.Context) SweepReport {
	report := SweepReport{Tick: r.env.Clock.Tick(), States: make(map[State]int)}

	for _, key := range slices.Clone(r.order) {
		t := r.tasks[key]
		state, _ := t.reconcile(ctx)
		if state == StateDead {
			for _, id := range r.registeredTo(t) {
				r.release(ctx, id, t)
			}
			r.untrack(key)
			report.Dead++
			report.States[StateDead]++
			continue
		}

		released := t.Run(ctx)
		for _, id := range released {
			if r.assignments[id] == t {
				r.Teardown(ctx, id)
			} else {
				t.Fire(ctx, id)
			}
		}
		report.Ran++
		report.Released += len(released)
		report.States[t.State()]++
	}

	if report.Dead > 0 || report.Released > 0 {
		r.logger.Debug("sweep finished",
			zap.Uint64("tick", report.Tick),
			zap.Int("ran", report.Ran),
			zap.Int("dead", report.Dead),
			zap.Int("released", report.Released),
		)
	}
	return report
}

// registeredTo returns the ids registered to t, sorted.
func (r *Registry) registeredTo(t *Task) []string {
	var ids []string
	for id, at := range r.assignments {
		if at == t {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) untrack(key string) {
	delete(r.tasks, key)
	if i := slices.Index(r.order, key); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
}

// Reset drops every registration and tracked task without firing anyone.
func (r *Registry) Reset() {
	r.assignments = make(map[string]*Task)
	r.tasks = make(map[string]*Task)
	r.order = nil
}
