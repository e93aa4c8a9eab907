package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	err := NewNotFoundError("task", "42")
	assert.Equal(t, "not_found: task not found: 42", err.Error())

	wrapped := NewStorageError("create session", fmt.Errorf("disk full"))
	assert.Contains(t, wrapped.Error(), "storage operation failed: create session")
	assert.Contains(t, wrapped.Error(), "disk full")
}

func TestUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := NewStorageError("create session", cause)
	assert.Equal(t, cause, err.Unwrap())
}

func TestIsErrorType(t *testing.T) {
	assert.True(t, IsErrorType(NewNotFoundError("task", "1"), ErrorTypeNotFound))
	assert.False(t, IsErrorType(NewNotFoundError("task", "1"), ErrorTypeStorage))
	assert.False(t, IsErrorType(fmt.Errorf("plain"), ErrorTypeStorage))

	// Works through wrapping.
	wrapped := fmt.Errorf("context: %w", NewSnapshotError("write", nil))
	assert.True(t, IsErrorType(wrapped, ErrorTypeSnapshot))
}

func TestGetUserMessage(t *testing.T) {
	assert.Equal(t, "task not found: 42", GetUserMessage(NewNotFoundError("task", "42")))
	assert.Equal(t, "A storage error occurred. Please try again.",
		GetUserMessage(NewStorageError("create", fmt.Errorf("boom"))))
	assert.Equal(t, "plain", GetUserMessage(fmt.Errorf("plain")))
}

func TestShouldLogError(t *testing.T) {
	assert.False(t, ShouldLogError(NewValidationError("bad", nil)))
	assert.False(t, ShouldLogError(NewNotFoundError("task", "1")))
	assert.False(t, ShouldLogError(NewInvalidInputError("taskID", 0, "must be positive")))
	assert.True(t, ShouldLogError(NewStorageError("create", nil)))
	assert.True(t, ShouldLogError(NewSnapshotError("write", nil)))
	assert.True(t, ShouldLogError(fmt.Errorf("plain")))
}

func TestWithContext(t *testing.T) {
	err := NewValidationError("bad input", nil).WithContext("field", "title")
	assert.Equal(t, "title", err.Context["field"])
}
