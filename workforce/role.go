package workforce

import (
	"fmt"

	"github.com/BaSui01/workforce/types"
)

// SpawnMode 决定生产子系统如何为角色确定身体
type SpawnMode int

const (
	// SpawnStatic 按 Requirements 原样生产，资格检查为严格数量比较
	SpawnStatic SpawnMode = iota
	// SpawnExpand 由 Expand 函数决定身体，资格只看标签
	SpawnExpand
	// SpawnShrinkToAvailable 按房间当前可用能量缩小身体
	SpawnShrinkToAvailable
	// SpawnShrinkToCapacity 按房间能量上限缩小身体
	SpawnShrinkToCapacity
)

func (m SpawnMode) String() string {
	switch m {
	case SpawnStatic:
		return "static"
	case SpawnExpand:
		return "expand"
	case SpawnShrinkToAvailable:
		return "shrink_to_available"
	case SpawnShrinkToCapacity:
		return "shrink_to_capacity"
	default:
		return fmt.Sprintf("spawn_mode(%d)", int(m))
	}
}

// Shrinks reports whether the mode is one of the shrink-to-* modes.
func (m SpawnMode) Shrinks() bool {
	return m == SpawnShrinkToAvailable || m == SpawnShrinkToCapacity
}

// Duration 工期估算
type Duration struct {
	WorkingTicks   int
	CommutingTicks int
}

// ProfitFunc estimates the per-tick profit of putting c into the role.
type ProfitFunc func(t *Task, c Candidate) float64

// DurationFunc estimates how long c would work and commute in the role.
type DurationFunc func(t *Task, c Candidate) Duration

// ExpandFunc plans a body for an expand-mode role given an energy capacity.
type ExpandFunc func(t *Task, capacity int) map[Capability]int

// ObjectPredicate decides whether a generic object satisfies the role.
type ObjectPredicate func(t *Task, o *Object) bool

// RoleDescription 角色描述
type RoleDescription struct {
	Name    string
	Minimum int
	Maximum int

	Profit   ProfitFunc
	Duration DurationFunc

	// Requirements 最小能力需求表
	Requirements map[Capability]int
	// Boosts 能力强化比例，仅透传给生产子系统
	Boosts map[Capability]float64

	Tag           string
	AllowedTags   []string
	AllowEmptyTag bool

	Mode   SpawnMode
	Expand ExpandFunc

	// WorkingPos 固定工作位置（可选）
	WorkingPos *Position
	// Confined 只允许在任务所在房间生产
	Confined bool

	// Satisfies 用于 *Object 候选者的自定义判定
	Satisfies ObjectPredicate
}

// Spawnable reports whether the role asks the spawn subsystem for agents.
func (r *RoleDescription) Spawnable() bool {
	return len(r.Requirements) > 0 || r.Expand != nil
}

func (r *RoleDescription) profit(t *Task, c Candidate) float64 {
	if r.Profit == nil {
		return 0
	}
	return r.Profit(t, c)
}

func (r *RoleDescription) duration(t *Task, c Candidate) Duration {
	if r.Duration == nil {
		return Duration{}
	}
	return r.Duration(t, c)
}

// validate returns a configuration error for a malformed role, or nil.
func (r *RoleDescription) validate() error {
	invalid := func(msg string) error {
		return types.NewError(types.ErrInvalidDescriptor, msg).WithRole(r.Name)
	}
	switch {
	case r.Name == "":
		return invalid("role has no name")
	case r.Minimum < 0:
		return invalid("minimum must not be negative")
	case r.Maximum < 1:
		return invalid("maximum must be at least 1")
	case r.Minimum > r.Maximum:
		return invalid(fmt.Sprintf("minimum %d exceeds maximum %d", r.Minimum, r.Maximum))
	case (r.Mode.Shrinks() || r.Mode == SpawnExpand) && r.Tag == "":
		return invalid(fmt.Sprintf("%s role requires a tag", r.Mode))
	case r.Mode == SpawnExpand && r.Expand == nil:
		return invalid("expand role requires an expand function")
	}
	for c, n := range r.Requirements {
		if n < 0 {
			return invalid(fmt.Sprintf("negative requirement for %s", c))
		}
	}
	return nil
}
