package workforce

// Capability 能力种类（agent 的身体部件）
type Capability string

const (
	Work         Capability = "work"
	Carry        Capability = "carry"
	Move         Capability = "move"
	Attack       Capability = "attack"
	RangedAttack Capability = "ranged_attack"
	Heal         Capability = "heal"
	Claim        Capability = "claim"
	Tough        Capability = "tough"
)

// Position 世界坐标
type Position struct {
	Room string `json:"room" yaml:"room"`
	X    int    `json:"x" yaml:"x"`
	Y    int    `json:"y" yaml:"y"`
}

// Range returns the Chebyshev distance to other, or -1 across rooms.
func (p Position) Range(other Position) int {
	if p.Room != other.Room {
		return -1
	}
	dx, dy := p.X-other.X, p.Y-other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return max(dx, dy)
}

// Candidate is anything that can be employed by a task. The only
// implementations are *Agent and *Object.
type Candidate interface {
	ID() string
	// Label is the candidate's persistent tag; empty when it has none.
	Label() string
	Position() Position
	candidate()
}

// Agent 由生产子系统产出的、带能力部件的工人
type Agent struct {
	Name        string
	Tag         string
	Parts       map[Capability]int
	Pos         Position
	TicksToLive int
}

func (a *Agent) ID() string         { return a.Name }
func (a *Agent) Label() string      { return a.Tag }
func (a *Agent) Position() Position { return a.Pos }
func (a *Agent) candidate()         {}

// Count returns how many parts of kind c the agent carries.
func (a *Agent) Count(c Capability) int {
	return a.Parts[c]
}

// Size returns the total number of parts.
func (a *Agent) Size() int {
	n := 0
	for _, v := range a.Parts {
		n += v
	}
	return n
}

// Object 没有能力部件的通用世界对象（建筑、旗帜等）
type Object struct {
	Name string
	Tag  string
	Kind string
	Pos  Position
}

func (o *Object) ID() string         { return o.Name }
func (o *Object) Label() string      { return o.Tag }
func (o *Object) Position() Position { return o.Pos }
func (o *Object) candidate()         {}
