package spawn

import (
	"context"
	"testing"

	"github.com/BaSui01/workforce/testutil/fixtures"
	"github.com/BaSui01/workforce/workforce"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newQueue(t *testing.T) (*Queue, workforce.Env) {
	t.Helper()
	q := NewQueue(nil, zaptest.NewLogger(t))
	return q, workforce.Env{Registrar: q, Logger: zaptest.NewLogger(t)}
}

func newTask(t *testing.T, env workforce.Env, key, room string, roles ...workforce.RoleDescription) *workforce.Task {
	t.Helper()
	d := workforce.NewDescriptor(key)
	for _, r := range roles {
		d.WithRole(r)
	}
	task, err := workforce.NewTask(env, workforce.TaskSpec{Key: key, Room: room}, d)
	require.NoError(t, err)
	return task
}

var budget = RoomBudget{Room: "W1N1", Available: 300, Capacity: 800}

func TestPoll_Static(t *testing.T) {
	q, env := newQueue(t)
	newTask(t, env, "build", "W1N1", workforce.RoleDescription{
		Name:         "builder",
		Minimum:      1,
		Maximum:      2,
		Tag:          "builder",
		Requirements: map[workforce.Capability]int{workforce.Work: 2, workforce.Move: 1},
		Boosts:       map[workforce.Capability]float64{workforce.Work: 1},
	})

	require.Equal(t, 1, q.Len())
	requests := q.Poll(budget)
	require.Len(t, requests, 1)
	r := requests[0]
	assert.Equal(t, "builder", r.Role)
	assert.Equal(t, "builder", r.Tag)
	assert.Equal(t, "W1N1", r.Room)
	assert.Equal(t, map[workforce.Capability]int{workforce.Work: 2, workforce.Move: 1}, r.Body)
	assert.Equal(t, 250, r.Cost)
	assert.Equal(t, 1.0, r.Boosts[workforce.Work])

	r.Body[workforce.Work] = 99
	assert.Equal(t, 2, r.Demand.Requirements()[workforce.Work], "bodies are copies")
}

func TestPoll_Shrink(t *testing.T) {
	tests := []struct {
		name     string
		mode     workforce.SpawnMode
		req      map[workforce.Capability]int
		budget   RoomBudget
		expected map[workforce.Capability]int
	}{
		{
			name:     "fits without shrinking",
			mode:     workforce.SpawnShrinkToAvailable,
			req:      map[workforce.Capability]int{workforce.Work: 2, workforce.Move: 1},
			budget:   budget,
			expected: map[workforce.Capability]int{workforce.Work: 2, workforce.Move: 1},
		},
		{
			name:     "scaled to available energy",
			mode:     workforce.SpawnShrinkToAvailable,
			req:      map[workforce.Capability]int{workforce.Work: 6, workforce.Move: 3},
			budget:   budget,
			expected: map[workforce.Capability]int{workforce.Work: 2, workforce.Move: 1},
		},
		{
			name:     "scaled to capacity",
			mode:     workforce.SpawnShrinkToCapacity,
			req:      map[workforce.Capability]int{workforce.Work: 6, workforce.Move: 3},
			budget:   RoomBudget{Room: "W1N1", Available: 100, Capacity: 550},
			expected: map[workforce.Capability]int{workforce.Work: 4, workforce.Move: 2},
		},
		{
			name:     "trimmed after rounding",
			mode:     workforce.SpawnShrinkToAvailable,
			req:      map[workforce.Capability]int{workforce.Work: 1, workforce.Carry: 10},
			budget:   budget,
			expected: map[workforce.Capability]int{workforce.Work: 1, workforce.Carry: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, env := newQueue(t)
			newTask(t, env, "mine", "W1N1", workforce.RoleDescription{
				Name:         "miner",
				Minimum:      1,
				Maximum:      1,
				Tag:          "miner",
				Mode:         tt.mode,
				Requirements: tt.req,
			})

			requests := q.Poll(tt.budget)
			require.Len(t, requests, 1)
			assert.Equal(t, tt.expected, requests[0].Body)
			assert.LessOrEqual(t, requests[0].Cost, tt.budget.Capacity)
		})
	}
}

func TestPoll_ShrinkUnaffordable(t *testing.T) {
	q, env := newQueue(t)
	newTask(t, env, "mine", "W1N1", workforce.RoleDescription{
		Name:         "miner",
		Minimum:      1,
		Maximum:      1,
		Tag:          "miner",
		Mode:         workforce.SpawnShrinkToAvailable,
		Requirements: map[workforce.Capability]int{workforce.Work: 1, workforce.Move: 1},
	})

	assert.Empty(t, q.Poll(RoomBudget{Room: "W1N1", Available: 100, Capacity: 300}))
	assert.Equal(t, 1, q.Len(), "unaffordable demands stay registered")
}

func TestPoll_StaticOverCapacity(t *testing.T) {
	q, env := newQueue(t)
	newTask(t, env, "claim", "W1N1", workforce.RoleDescription{
		Name:         "claimer",
		Minimum:      1,
		Maximum:      1,
		Requirements: map[workforce.Capability]int{workforce.Claim: 2},
	})

	assert.Empty(t, q.Poll(budget))
}

func TestPoll_Expand(t *testing.T) {
	q, env := newQueue(t)
	var seen int
	newTask(t, env, "upgrade", "W1N1", workforce.RoleDescription{
		Name:    "upgrader",
		Minimum: 1,
		Maximum: 3,
		Tag:     "upgrader",
		Mode:    workforce.SpawnExpand,
		Expand: func(_ *workforce.Task, capacity int) map[workforce.Capability]int {
			seen = capacity
			return map[workforce.Capability]int{workforce.Work: capacity / 200, workforce.Move: 1}
		},
	})

	requests := q.Poll(budget)
	require.Len(t, requests, 1)
	assert.Equal(t, 800, seen)
	assert.Equal(t, map[workforce.Capability]int{workforce.Work: 4, workforce.Move: 1}, requests[0].Body)
}

func TestPoll_SatisfiedAndDeadDemands(t *testing.T) {
	q, env := newQueue(t)
	dead := false
	d := workforce.NewDescriptor("defend").
		WithRole(workforce.RoleDescription{
			Name:         "guard",
			Minimum:      1,
			Maximum:      2,
			Tag:          "guard",
			Requirements: map[workforce.Capability]int{workforce.Attack: 1},
		}).
		WithSelfCheck(func(*workforce.Task) workforce.Verdict {
			if dead {
				return workforce.VerdictDead
			}
			return workforce.VerdictAlive
		})
	task, err := workforce.NewTask(env, workforce.TaskSpec{Key: "defend", Room: "W1N1"}, d)
	require.NoError(t, err)

	require.Len(t, q.Poll(budget), 1)
	require.True(t, task.Employ(context.Background(), &workforce.Agent{
		Name:  "g1",
		Tag:   "guard",
		Parts: map[workforce.Capability]int{workforce.Attack: 1},
	}))
	assert.Empty(t, q.Poll(budget), "minimum reached")

	dead = true
	assert.Empty(t, q.Poll(budget))
	assert.Equal(t, 0, q.Len())
}

func TestPoll_Confined(t *testing.T) {
	q, env := newQueue(t)
	req := map[workforce.Capability]int{workforce.Carry: 1, workforce.Move: 1}
	newTask(t, env, "local", "W1N1", workforce.RoleDescription{
		Name: "hauler", Minimum: 1, Maximum: 1, Tag: "hauler", Requirements: req, Confined: true,
	})
	newTask(t, env, "remote", "W1N1", workforce.RoleDescription{
		Name: "hauler", Minimum: 1, Maximum: 1, Tag: "hauler", Requirements: req,
	})

	elsewhere := q.Poll(RoomBudget{Room: "W2N2", Available: 300, Capacity: 300})
	require.Len(t, elsewhere, 1)
	assert.Equal(t, "remote", elsewhere[0].Demand.Task().Key())
	assert.Equal(t, "W2N2", elsewhere[0].Room)

	assert.Len(t, q.Poll(budget), 2)
}

func TestRegister_Idempotent(t *testing.T) {
	q, env := newQueue(t)
	newTask(t, env, "build", "W1N1", workforce.RoleDescription{
		Name: "builder", Minimum: 1, Maximum: 1, Requirements: map[workforce.Capability]int{workforce.Work: 1},
	})
	require.Equal(t, 1, q.Len())

	requests := q.Poll(budget)
	require.Len(t, requests, 1)
	q.Register(requests[0].Demand)
	assert.Equal(t, 1, q.Len())
	assert.Len(t, q.Poll(budget), 1)
}

func TestCosts(t *testing.T) {
	costs := DefaultCosts()
	assert.Equal(t, 0, costs.Cost(nil))
	assert.Equal(t, 250, costs.Cost(map[workforce.Capability]int{workforce.Work: 2, workforce.Move: 1}))
	assert.Equal(t, 0, Costs{}.Cost(map[workforce.Capability]int{workforce.Work: 5}))
}

func TestPoll_MiningFixture(t *testing.T) {
	q, env := newQueue(t)
	task, err := workforce.NewTask(env, workforce.TaskSpec{Key: "mining", Room: fixtures.DefaultRoom}, fixtures.MiningDescriptor())
	require.NoError(t, err)
	require.Equal(t, 2, q.Len())

	requests := q.Poll(budget)
	require.Len(t, requests, 2)
	assert.Equal(t, "miner", requests[0].Role)
	assert.Equal(t, 550, requests[0].Cost, "capacity fits the full miner body")
	assert.Equal(t, "hauler", requests[1].Role)
	assert.Equal(t, 300, requests[1].Cost)

	require.True(t, task.Employ(context.Background(), fixtures.Miner("m1")))
	requests = q.Poll(budget)
	require.Len(t, requests, 1)
	assert.Equal(t, "hauler", requests[0].Role)

	remote := q.Poll(RoomBudget{Room: "W2N2", Available: 800, Capacity: 800})
	require.Len(t, remote, 1, "haulers are not confined")
	assert.Equal(t, "W2N2", remote[0].Room)
}
