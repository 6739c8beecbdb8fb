package events

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// subscriptionCounter 用于生成唯一订阅 ID
var subscriptionCounter int64

// Handler 事件处理器
type Handler func(Event)

// Bus 定义事件总线接口
type Bus interface {
	Publish(event Event)
	Subscribe(eventType EventType, handler Handler) string
	Unsubscribe(subscriptionID string)
	Stop()
}

// SimpleBus 简单的事件总线实现
type SimpleBus struct {
	mu       sync.RWMutex
	handlers map[EventType]map[string]Handler
	queue    chan Event
	done     chan struct{}
	stopOnce sync.Once
	dropped  atomic.Int64
	logger   *zap.Logger
}

// DefaultBufferSize 默认事件通道容量
const DefaultBufferSize = 256

// NewBus 创建新的事件总线。bufferSize <= 0 时使用 DefaultBufferSize。
func NewBus(bufferSize int, logger *zap.Logger) *SimpleBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	bus := &SimpleBus{
		handlers: make(map[EventType]map[string]Handler),
		queue:    make(chan Event, bufferSize),
		done:     make(chan struct{}),
		logger:   logger.With(zap.String("component", "event_bus")),
	}
	go bus.processEvents()
	return bus
}

// Publish 发布事件；通道满或总线已停止时丢弃
func (b *SimpleBus) Publish(event Event) {
	select {
	case <-b.done:
		return
	default:
	}
	select {
	case b.queue <- event:
	default:
		if b.dropped.Add(1)%100 == 1 {
			b.logger.Warn("event queue full, dropping events",
				zap.String("type", string(event.Type())),
				zap.Int64("dropped_total", b.dropped.Load()),
			)
		}
	}
}

// Dropped 返回因通道满而丢弃的事件数
func (b *SimpleBus) Dropped() int64 {
	return b.dropped.Load()
}

// Subscribe 订阅事件
func (b *SimpleBus) Subscribe(eventType EventType, handler Handler) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[string]Handler)
	}

	id := fmt.Sprintf("%s-%d", eventType, atomic.AddInt64(&subscriptionCounter, 1))
	b.handlers[eventType][id] = handler
	return id
}

// Unsubscribe 取消订阅
func (b *SimpleBus) Unsubscribe(subscriptionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, handlers := range b.handlers {
		if _, ok := handlers[subscriptionID]; ok {
			delete(handlers, subscriptionID)
			if len(handlers) == 0 {
				delete(b.handlers, eventType)
			}
			return
		}
	}
}

// processEvents 按发布顺序逐个分发事件
func (b *SimpleBus) processEvents() {
	for {
		select {
		case event := <-b.queue:
			b.mu.RLock()
			src := b.handlers[event.Type()]
			handlers := make([]Handler, 0, len(src))
			for _, h := range src {
				handlers = append(handlers, h)
			}
			b.mu.RUnlock()

			for _, h := range handlers {
				b.dispatch(h, event)
			}
		case <-b.done:
			return
		}
	}
}

func (b *SimpleBus) dispatch(h Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("type", string(event.Type())),
				zap.Any("recover", r),
			)
		}
	}()
	h(event)
}

// Stop 停止事件总线
func (b *SimpleBus) Stop() {
	b.stopOnce.Do(func() {
		close(b.done)
	})
}

// Recorder 同步记录事件，不做任何分发
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// NewRecorder 创建事件记录器
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Publish 记录事件
func (r *Recorder) Publish(event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

// Events 返回已记录事件的副本
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// OfType 返回指定类型的事件
func (r *Recorder) OfType(t EventType) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type() == t {
			out = append(out, e)
		}
	}
	return out
}

// Reset 清空记录
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
