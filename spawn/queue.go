package spawn

import (
	"maps"
	"slices"

	"github.com/BaSui01/workforce/workforce"
	"go.uber.org/zap"
)

// Costs maps a body part to its energy cost.
type Costs map[workforce.Capability]int

// DefaultCosts returns the stock part prices.
func DefaultCosts() Costs {
	return Costs{
		workforce.Work:         100,
		workforce.Carry:        50,
		workforce.Move:         50,
		workforce.Attack:       80,
		workforce.RangedAttack: 150,
		workforce.Heal:         250,
		workforce.Claim:        600,
		workforce.Tough:        10,
	}
}

// Cost prices a body. Unknown parts are free.
func (c Costs) Cost(body map[workforce.Capability]int) int {
	total := 0
	for kind, n := range body {
		total += c[kind] * n
	}
	return total
}

// RoomBudget is the energy a room can spend on spawning this tick.
type RoomBudget struct {
	Room      string
	Available int
	Capacity  int
}

// Request asks the host to spawn one agent for a demand.
type Request struct {
	Demand *workforce.Demand
	Room   string
	Role   string
	Tag    string
	Body   map[workforce.Capability]int
	Boosts map[workforce.Capability]float64
	Cost   int
}

// Queue collects demands and turns the unmet ones into spawn requests.
// It is not safe for concurrent use; it runs on the tick goroutine.
type Queue struct {
	costs   Costs
	demands map[string]*workforce.Demand
	order   []string
	logger  *zap.Logger
}

// NewQueue 创建生产队列
func NewQueue(costs Costs, logger *zap.Logger) *Queue {
	if costs == nil {
		costs = DefaultCosts()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Queue{
		costs:   costs,
		demands: make(map[string]*workforce.Demand),
		logger:  logger.With(zap.String("component", "spawn_queue")),
	}
}

// Register stores d. Registering the same demand twice is a no-op.
func (q *Queue) Register(d *workforce.Demand) {
	if _, ok := q.demands[d.ID()]; ok {
		return
	}
	q.demands[d.ID()] = d
	q.order = append(q.order, d.ID())
	q.logger.Debug("demand registered",
		zap.String("demand", d.ID()),
		zap.String("task", d.Task().Key()),
		zap.String("role", d.Role()),
		zap.String("mode", d.Mode().String()),
	)
}

// Len returns the number of registered demands.
func (q *Queue) Len() int { return len(q.demands) }

// Poll drops demands whose task is dead and returns at most one request
// per unmet demand that budget's room may serve. Confined demands are
// only served by their own room. Requests whose planned body costs more
// than the room's capacity are skipped.
func (q *Queue) Poll(budget RoomBudget) []Request {
	var (
		requests []Request
		live     = q.order[:0]
		dropped  []string
	)
	for _, id := range q.order {
		d := q.demands[id]
		if !d.IsFunctioning() {
			delete(q.demands, id)
			dropped = append(dropped, id)
			continue
		}
		live = append(live, id)

		if d.Confined() && d.Room() != budget.Room {
			continue
		}
		current := d.CurrentAmount()
		if current >= d.MinimumAmount() || current >= d.MaximumAmount() {
			continue
		}
		body, ok := q.plan(d, budget)
		if !ok {
			q.logger.Debug("demand unaffordable",
				zap.String("demand", id),
				zap.String("role", d.Role()),
				zap.Int("capacity", budget.Capacity),
			)
			continue
		}
		requests = append(requests, Request{
			Demand: d,
			Room:   budget.Room,
			Role:   d.Role(),
			Tag:    d.Tag(),
			Body:   body,
			Boosts: d.Boosts(),
			Cost:   q.costs.Cost(body),
		})
	}
	q.order = live

	if len(dropped) > 0 {
		q.logger.Debug("dropped dead demands", zap.Strings("demands", dropped))
	}
	return requests
}

// plan chooses the body for one demand.
func (q *Queue) plan(d *workforce.Demand, budget RoomBudget) (map[workforce.Capability]int, bool) {
	var body map[workforce.Capability]int
	switch d.Mode() {
	case workforce.SpawnExpand:
		if fn := d.Expand(); fn != nil {
			body = maps.Clone(fn(d.Task(), budget.Capacity))
		}
	case workforce.SpawnShrinkToAvailable:
		body = q.shrink(d.Requirements(), budget.Available)
	case workforce.SpawnShrinkToCapacity:
		body = q.shrink(d.Requirements(), budget.Capacity)
	default:
		body = maps.Clone(d.Requirements())
	}
	if len(body) == 0 || q.costs.Cost(body) > budget.Capacity {
		return nil, false
	}
	return body, true
}

// shrink scales req down until it costs at most energy, keeping at least
// one part of every kind. It returns nil when even that is unaffordable.
func (q *Queue) shrink(req map[workforce.Capability]int, energy int) map[workforce.Capability]int {
	body := make(map[workforce.Capability]int, len(req))
	for kind, n := range req {
		if n > 0 {
			body[kind] = n
		}
	}
	cost := q.costs.Cost(body)
	if cost <= energy {
		return body
	}

	for kind, n := range body {
		body[kind] = max(1, n*energy/cost)
	}

	// 等比缩放后仍可能超预算，逐个削减数量最多的部件
	kinds := slices.Sorted(maps.Keys(body))
	for q.costs.Cost(body) > energy {
		var largest workforce.Capability
		for _, kind := range kinds {
			if body[kind] > 1 && (largest == "" || body[kind] > body[largest]) {
				largest = kind
			}
		}
		if largest == "" {
			return nil
		}
		body[largest]--
	}
	return body
}
