package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unified error code across the engine.
type ErrorCode string

// Descriptor error codes
const (
	ErrInvalidDescriptor ErrorCode = "INVALID_DESCRIPTOR"
	ErrDescriptorShared  ErrorCode = "DESCRIPTOR_SHARED"
	ErrDuplicateTask     ErrorCode = "DUPLICATE_TASK"
)

// Infrastructure error codes
const (
	ErrStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	ErrInvalidConfig    ErrorCode = "INVALID_CONFIG"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	// Task 出错的任务 key（可选）
	Task string `json:"task,omitempty"`
	// Role 出错的角色名（可选）
	Role  string `json:"role,omitempty"`
	Cause error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	prefix := fmt.Sprintf("[%s]", e.Code)
	if e.Task != "" {
		prefix += " task=" + e.Task
	}
	if e.Role != "" {
		prefix += " role=" + e.Role
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s %s", prefix, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithTask sets the task key.
func (e *Error) WithTask(key string) *Error {
	e.Task = key
	return e
}

// WithRole sets the role name.
func (e *Error) WithRole(role string) *Error {
	e.Role = role
	return e
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsErrorCode reports whether err (or any error it wraps) carries code.
func IsErrorCode(err error, code ErrorCode) bool {
	return GetErrorCode(err) == code
}
