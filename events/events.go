package events

import "time"

// EventType 事件类型
type EventType string

const (
	// EventEmploy 任务雇佣了一个 agent
	EventEmploy EventType = "employ"
	// EventFire 任务解雇了一个 agent
	EventFire EventType = "fire"
	// EventTake agent 的当前任务被设置
	EventTake EventType = "take"
	// EventRelease agent 的当前任务被清除
	EventRelease EventType = "release"
	// EventTaskDead 任务进入终态
	EventTaskDead EventType = "task_dead"
)

// Event 事件接口
type Event interface {
	Type() EventType
	Timestamp() time.Time
	// Tick is the host tick the event was produced in.
	Tick() uint64
}

// EmployEvent 雇佣事件
type EmployEvent struct {
	TaskKey    string
	Room       string
	AgentID    string
	Role       string
	Tick_      uint64
	Timestamp_ time.Time
}

func (e *EmployEvent) Type() EventType      { return EventEmploy }
func (e *EmployEvent) Timestamp() time.Time { return e.Timestamp_ }
func (e *EmployEvent) Tick() uint64         { return e.Tick_ }

// FireEvent 解雇事件
type FireEvent struct {
	TaskKey string
	Room    string
	AgentID string
	Role    string
	// Forced is set when the fire came from the task dying.
	Forced     bool
	Tick_      uint64
	Timestamp_ time.Time
}

func (e *FireEvent) Type() EventType      { return EventFire }
func (e *FireEvent) Timestamp() time.Time { return e.Timestamp_ }
func (e *FireEvent) Tick() uint64         { return e.Tick_ }

// TakeEvent agent 接受任务
type TakeEvent struct {
	AgentID    string
	TaskKey    string
	Role       string
	Tick_      uint64
	Timestamp_ time.Time
}

func (e *TakeEvent) Type() EventType      { return EventTake }
func (e *TakeEvent) Timestamp() time.Time { return e.Timestamp_ }
func (e *TakeEvent) Tick() uint64         { return e.Tick_ }

// ReleaseEvent agent 离开任务
type ReleaseEvent struct {
	AgentID    string
	TaskKey    string
	Tick_      uint64
	Timestamp_ time.Time
}

func (e *ReleaseEvent) Type() EventType      { return EventRelease }
func (e *ReleaseEvent) Timestamp() time.Time { return e.Timestamp_ }
func (e *ReleaseEvent) Tick() uint64         { return e.Tick_ }

// TaskDeadEvent 任务死亡事件
type TaskDeadEvent struct {
	TaskKey string
	Room    string
	// Fired 死亡时被强制解雇的人数
	Fired      int
	Tick_      uint64
	Timestamp_ time.Time
}

func (e *TaskDeadEvent) Type() EventType      { return EventTaskDead }
func (e *TaskDeadEvent) Timestamp() time.Time { return e.Timestamp_ }
func (e *TaskDeadEvent) Tick() uint64         { return e.Tick_ }
