package memory

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrNotFound     = errors.New("not found")
	ErrStoreClosed  = errors.New("store is closed")
	ErrInvalidInput = errors.New("invalid input")
)

// Well-known record fields.
const (
	// FieldTask holds the key of the task the entity is employed by.
	FieldTask = "task"
	// FieldWorking is a per-agent working flag owned by task work closures.
	FieldWorking = "working"
	// FieldRole holds the role the entity was last employed under.
	FieldRole = "role"
)

// StoreType represents the type of storage backend
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

// Store is a field-addressed key-value store keyed by stable entity ids.
type Store interface {
	// Get returns the value of field on entity, or ErrNotFound.
	Get(ctx context.Context, entity, field string) (string, error)

	// Set writes a single field.
	Set(ctx context.Context, entity, field, value string) error

	// Delete removes the given fields; missing fields are ignored.
	Delete(ctx context.Context, entity string, fields ...string) error

	// Record returns every field of entity; an unknown entity yields an empty map.
	Record(ctx context.Context, entity string) (map[string]string, error)

	// Drop removes the whole record.
	Drop(ctx context.Context, entity string) error

	// Ping checks if the store is healthy
	Ping(ctx context.Context) error

	// Close closes the store and releases resources
	Close() error
}
