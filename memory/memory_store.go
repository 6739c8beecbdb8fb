package memory

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store.
// Suitable for development and testing. Data is lost on restart.
type MemoryStore struct {
	records map[string]map[string]string
	mu      sync.RWMutex
	closed  bool
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]map[string]string),
	}
}

// Get returns a single field
func (s *MemoryStore) Get(ctx context.Context, entity, field string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return "", ErrStoreClosed
	}
	rec, ok := s.records[entity]
	if !ok {
		return "", ErrNotFound
	}
	v, ok := rec[field]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Set writes a single field
func (s *MemoryStore) Set(ctx context.Context, entity, field, value string) error {
	if entity == "" || field == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	rec, ok := s.records[entity]
	if !ok {
		rec = make(map[string]string)
		s.records[entity] = rec
	}
	rec[field] = value
	return nil
}

// Delete removes fields from a record
func (s *MemoryStore) Delete(ctx context.Context, entity string, fields ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	rec, ok := s.records[entity]
	if !ok {
		return nil
	}
	for _, f := range fields {
		delete(rec, f)
	}
	if len(rec) == 0 {
		delete(s.records, entity)
	}
	return nil
}

// Record returns a copy of every field of entity
func (s *MemoryStore) Record(ctx context.Context, entity string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}
	out := make(map[string]string, len(s.records[entity]))
	for k, v := range s.records[entity] {
		out[k] = v
	}
	return out, nil
}

// Drop removes the whole record
func (s *MemoryStore) Drop(ctx context.Context, entity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	delete(s.records, entity)
	return nil
}

// Len returns the number of records held
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Ping checks if the store is healthy
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return nil
}

// Close closes the store
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
