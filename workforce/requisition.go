package workforce

import "github.com/google/uuid"

// Demand adapts one spawnable role to the spawn subsystem. It is pushed
// once at task construction; the subsystem polls its accessors each tick.
type Demand struct {
	id   string
	task *Task
	role *RoleDescription
}

func newDemand(t *Task, r *RoleDescription) *Demand {
	return &Demand{id: uuid.NewString(), task: t, role: r}
}

// ID returns the demand's unique id.
func (d *Demand) ID() string { return d.id }

// Task returns the owning task.
func (d *Demand) Task() *Task { return d.task }

// Role returns the role name.
func (d *Demand) Role() string { return d.role.Name }

// Room returns the owning task's room.
func (d *Demand) Room() string { return d.task.room }

// Requirements returns the capability-requirement table.
func (d *Demand) Requirements() map[Capability]int { return d.role.Requirements }

// Expand returns the expansion function of expand-mode roles.
func (d *Demand) Expand() ExpandFunc { return d.role.Expand }

// Boosts returns the capability boost ratios.
func (d *Demand) Boosts() map[Capability]float64 { return d.role.Boosts }

// Tag returns the tag spawned agents must carry.
func (d *Demand) Tag() string { return d.role.Tag }

// Mode returns the role's spawn mode.
func (d *Demand) Mode() SpawnMode { return d.role.Mode }

// Confined reports whether agents must come from the task's own room.
func (d *Demand) Confined() bool { return d.role.Confined }

// WorkingPos returns the fixed working position, if any.
func (d *Demand) WorkingPos() (Position, bool) {
	if d.role.WorkingPos == nil {
		return Position{}, false
	}
	return *d.role.WorkingPos, true
}

// CurrentAmount returns how many agents hold the role now.
func (d *Demand) CurrentAmount() int { return len(d.task.FetchEmployees(d.role.Name)) }

// MinimumAmount returns the role's minimum headcount.
func (d *Demand) MinimumAmount() int { return d.role.Minimum }

// MaximumAmount returns the role's maximum headcount.
func (d *Demand) MaximumAmount() int { return d.role.Maximum }

// IsFunctioning reports whether the demand is still active; false once
// the owning task is dead.
func (d *Demand) IsFunctioning() bool { return d.task.State() != StateDead }
