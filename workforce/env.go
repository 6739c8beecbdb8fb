package workforce

import (
	"github.com/BaSui01/workforce/events"
	"github.com/BaSui01/workforce/memory"
	"go.uber.org/zap"
)

// Clock supplies the host's current tick.
type Clock interface {
	Tick() uint64
}

// ManualClock is a Clock advanced explicitly by the host loop.
type ManualClock struct {
	now uint64
}

// NewManualClock returns a clock starting at tick start.
func NewManualClock(start uint64) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Tick() uint64 { return c.now }

// Advance moves the clock forward by n ticks and returns the new tick.
func (c *ManualClock) Advance(n uint64) uint64 {
	c.now += n
	return c.now
}

// Publisher receives lifecycle notifications. events.Bus satisfies it.
type Publisher interface {
	Publish(event events.Event)
}

// Registrar is the spawn-request subsystem. It receives one Demand per
// spawnable role when a task is constructed and polls it afterwards.
type Registrar interface {
	Register(d *Demand)
}

// Resolver looks up live world objects by id.
type Resolver interface {
	Resolve(id string) (Candidate, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(id string) (Candidate, bool)

func (f ResolverFunc) Resolve(id string) (Candidate, bool) { return f(id) }

// Env bundles the collaborators shared by every task and the registry.
type Env struct {
	Clock     Clock
	Memory    memory.Store
	Publisher Publisher
	Registrar Registrar
	Resolver  Resolver
	Logger    *zap.Logger
}

type nopPublisher struct{}

func (nopPublisher) Publish(events.Event) {}

type nopRegistrar struct{}

func (nopRegistrar) Register(*Demand) {}

// withDefaults fills unset collaborators with inert implementations.
func (e Env) withDefaults() Env {
	if e.Clock == nil {
		e.Clock = NewManualClock(0)
	}
	if e.Memory == nil {
		e.Memory = memory.NewMemoryStore()
	}
	if e.Publisher == nil {
		e.Publisher = nopPublisher{}
	}
	if e.Registrar == nil {
		e.Registrar = nopRegistrar{}
	}
	if e.Resolver == nil {
		e.Resolver = ResolverFunc(func(string) (Candidate, bool) { return nil, false })
	}
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	return e
}
