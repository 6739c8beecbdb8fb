// =============================================================================
// 🧠 MockStore - agent 记忆存储模拟实现
// =============================================================================
// 用于测试的 memory.Store 模拟，支持错误注入与调用计数
//
// 使用方法:
//
//	store := mocks.NewMockStore().WithSetError(errors.New("redis down"))
//	err := store.Set(ctx, "a1", memory.FieldTask, "harvest")
// =============================================================================
package mocks

import (
	"context"
	"maps"
	"sync"

	"github.com/BaSui01/workforce/memory"
)

// =============================================================================
// 🎯 MockStore 结构
// =============================================================================

// MockStore 是 memory.Store 的模拟实现
type MockStore struct {
	mu sync.RWMutex

	records map[string]map[string]string

	// 错误注入
	getErr    error
	setErr    error
	deleteErr error
	dropErr   error
	pingErr   error

	// 调用记录
	getCalls    int
	setCalls    int
	deleteCalls int
	dropCalls   int
}

var _ memory.Store = (*MockStore)(nil)

// =============================================================================
// 🔧 构造函数和 Builder 方法
// =============================================================================

// NewMockStore 创建新的 MockStore
func NewMockStore() *MockStore {
	return &MockStore{records: make(map[string]map[string]string)}
}

// WithRecord 预设一条记录
func (m *MockStore) WithRecord(entity string, fields map[string]string) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[entity] = maps.Clone(fields)
	return m
}

// WithGetError 设置 Get/Record 方法的错误
func (m *MockStore) WithGetError(err error) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getErr = err
	return m
}

// WithSetError 设置 Set 方法的错误
func (m *MockStore) WithSetError(err error) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
	return m
}

// WithDeleteError 设置 Delete 方法的错误
func (m *MockStore) WithDeleteError(err error) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteErr = err
	return m
}

// WithDropError 设置 Drop 方法的错误
func (m *MockStore) WithDropError(err error) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dropErr = err
	return m
}

// WithPingError 设置 Ping 方法的错误
func (m *MockStore) WithPingError(err error) *MockStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingErr = err
	return m
}

// =============================================================================
// 🎯 memory.Store 接口实现
// =============================================================================

// Get 读取单个字段
func (m *MockStore) Get(ctx context.Context, entity, field string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls++
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.records[entity][field]
	if !ok {
		return "", memory.ErrNotFound
	}
	return v, nil
}

// Set 写入单个字段
func (m *MockStore) Set(ctx context.Context, entity, field, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.setCalls++
	if m.setErr != nil {
		return m.setErr
	}
	rec, ok := m.records[entity]
	if !ok {
		rec = make(map[string]string)
		m.records[entity] = rec
	}
	rec[field] = value
	return nil
}

// Delete 删除字段
func (m *MockStore) Delete(ctx context.Context, entity string, fields ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.deleteCalls++
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, f := range fields {
		delete(m.records[entity], f)
	}
	if len(m.records[entity]) == 0 {
		delete(m.records, entity)
	}
	return nil
}

// Record 读取整条记录
func (m *MockStore) Record(ctx context.Context, entity string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	out := maps.Clone(m.records[entity])
	if out == nil {
		out = make(map[string]string)
	}
	return out, nil
}

// Drop 删除整条记录
func (m *MockStore) Drop(ctx context.Context, entity string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.dropCalls++
	if m.dropErr != nil {
		return m.dropErr
	}
	delete(m.records, entity)
	return nil
}

// Ping 健康检查
func (m *MockStore) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingErr
}

// Close 关闭（无操作）
func (m *MockStore) Close() error {
	return nil
}

// =============================================================================
// 📊 调用统计
// =============================================================================

// GetCalls 返回 Get/Record 调用次数
func (m *MockStore) GetCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getCalls
}

// SetCalls 返回 Set 调用次数
func (m *MockStore) SetCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.setCalls
}

// DeleteCalls 返回 Delete 调用次数
func (m *MockStore) DeleteCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.deleteCalls
}

// DropCalls 返回 Drop 调用次数
func (m *MockStore) DropCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dropCalls
}

// Reset 清空记录、错误与调用计数
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = make(map[string]map[string]string)
	m.getErr, m.setErr, m.deleteErr, m.dropErr, m.pingErr = nil, nil, nil, nil, nil
	m.getCalls, m.setCalls, m.deleteCalls, m.dropCalls = 0, 0, 0, 0
}
