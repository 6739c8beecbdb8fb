package workforce

import (
	"testing"

	"github.com/BaSui01/workforce/events"
	"github.com/BaSui01/workforce/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// harness bundles a task with the collaborators tests inspect.
type harness struct {
	clock    *ManualClock
	store    *memory.MemoryStore
	recorder *events.Recorder
	demands  *demandSink
	env      Env
}

type demandSink struct {
	demands []*Demand
}

func (s *demandSink) Register(d *Demand) { s.demands = append(s.demands, d) }

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		clock:    NewManualClock(100),
		store:    memory.NewMemoryStore(),
		recorder: events.NewRecorder(),
		demands:  &demandSink{},
	}
	h.env = Env{
		Clock:     h.clock,
		Memory:    h.store,
		Publisher: h.recorder,
		Registrar: h.demands,
		Logger:    zaptest.NewLogger(t),
	}
	return h
}

func (h *harness) task(t *testing.T, d *Descriptor) *Task {
	t.Helper()
	task, err := NewTask(h.env, TaskSpec{Key: "task-" + d.Kind(), Room: "W1N1"}, d)
	require.NoError(t, err)
	return task
}

func agent(name, tag string, parts map[Capability]int) *Agent {
	return &Agent{
		Name:        name,
		Tag:         tag,
		Parts:       parts,
		Pos:         Position{Room: "W1N1", X: 25, Y: 25},
		TicksToLive: 1500,
	}
}

func flat(v float64) ProfitFunc {
	return func(*Task, Candidate) float64 { return v }
}

// workerDescriptor is the single-role descriptor of scenarios A and B.
func workerDescriptor() *Descriptor {
	return NewDescriptor("build").WithRole(RoleDescription{
		Name:         "worker",
		Minimum:      1,
		Maximum:      1,
		Tag:          "builder",
		Mode:         SpawnStatic,
		Requirements: map[Capability]int{Work: 2},
		Profit:       flat(1),
	})
}

// guardDescriptor is the two-minimum role of scenario C.
func guardDescriptor() *Descriptor {
	return NewDescriptor("defend").WithRole(RoleDescription{
		Name:         "guard",
		Minimum:      2,
		Maximum:      4,
		Tag:          "guard",
		Requirements: map[Capability]int{Attack: 1},
		Profit:       flat(2),
	})
}

func guardAgent(name string) *Agent {
	return agent(name, "guard", map[Capability]int{Attack: 2, Move: 2})
}

// assertCountInvariant checks employeeCount against the role tables.
func assertCountInvariant(t *testing.T, task *Task) {
	t.Helper()
	sum := 0
	for _, slot := range task.rolesInUse {
		sum += len(slot.ids)
	}
	require.Equal(t, task.employeeCount, sum)
	require.Len(t, task.employeeRoles, sum)
}
