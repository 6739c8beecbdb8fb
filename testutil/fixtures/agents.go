// =============================================================================
// 📦 测试数据工厂 - 候选者与任务描述
// =============================================================================
// 提供预定义的 agent、对象与任务描述，用于测试
// =============================================================================
package fixtures

import (
	"github.com/BaSui01/workforce/workforce"
)

// DefaultRoom 测试默认房间
const DefaultRoom = "W1N1"

// =============================================================================
// 🤖 Agent 工厂
// =============================================================================

// NewAgent 创建位于默认房间中心的 agent
func NewAgent(name, tag string, parts map[workforce.Capability]int) *workforce.Agent {
	return &workforce.Agent{
		Name:        name,
		Tag:         tag,
		Parts:       parts,
		Pos:         workforce.Position{Room: DefaultRoom, X: 25, Y: 25},
		TicksToLive: 1500,
	}
}

// Miner 返回 5 WORK 1 MOVE 的静态采矿 agent
func Miner(name string) *workforce.Agent {
	return NewAgent(name, "miner", map[workforce.Capability]int{
		workforce.Work: 5,
		workforce.Move: 1,
	})
}

// Hauler 返回 4 CARRY 2 MOVE 的搬运 agent
func Hauler(name string) *workforce.Agent {
	return NewAgent(name, "hauler", map[workforce.Capability]int{
		workforce.Carry: 4,
		workforce.Move:  2,
	})
}

// Guard 返回 2 ATTACK 2 MOVE 1 TOUGH 的守卫 agent
func Guard(name string) *workforce.Agent {
	return NewAgent(name, "guard", map[workforce.Capability]int{
		workforce.Attack: 2,
		workforce.Move:   2,
		workforce.Tough:  1,
	})
}

// Untagged 返回没有标签的 agent
func Untagged(name string) *workforce.Agent {
	return NewAgent(name, "", map[workforce.Capability]int{
		workforce.Work:  1,
		workforce.Carry: 1,
		workforce.Move:  1,
	})
}

// =============================================================================
// 🏗️ 对象工厂
// =============================================================================

// Structure 返回指定种类的世界对象
func Structure(name, kind string) *workforce.Object {
	return &workforce.Object{
		Name: name,
		Kind: kind,
		Pos:  workforce.Position{Room: DefaultRoom, X: 20, Y: 20},
	}
}

// =============================================================================
// 📋 任务描述工厂
// =============================================================================

// Flat 返回固定收益估算
func Flat(v float64) workforce.ProfitFunc {
	return func(*workforce.Task, workforce.Candidate) float64 { return v }
}

// MiningDescriptor 返回一个 miner（shrink）加 hauler（static）的描述
func MiningDescriptor() *workforce.Descriptor {
	return workforce.NewDescriptor("mining").
		WithRole(workforce.RoleDescription{
			Name:         "miner",
			Minimum:      1,
			Maximum:      1,
			Tag:          "miner",
			Mode:         workforce.SpawnShrinkToCapacity,
			Requirements: map[workforce.Capability]int{workforce.Work: 5, workforce.Move: 1},
			Profit:       Flat(10),
			Confined:     true,
		}).
		WithRole(workforce.RoleDescription{
			Name:         "hauler",
			Minimum:      1,
			Maximum:      2,
			Tag:          "hauler",
			Requirements: map[workforce.Capability]int{workforce.Carry: 4, workforce.Move: 2},
			Profit:       Flat(4),
		})
}

// GuardDescriptor 返回至少两名守卫的描述
func GuardDescriptor() *workforce.Descriptor {
	return workforce.NewDescriptor("guard").
		WithRole(workforce.RoleDescription{
			Name:         "guard",
			Minimum:      2,
			Maximum:      4,
			Tag:          "guard",
			Requirements: map[workforce.Capability]int{workforce.Attack: 2, workforce.Move: 2},
			Profit:       Flat(3),
		})
}
