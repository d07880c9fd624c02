package subtask

import "errors"

var (
	// ErrSubTaskNotFound indicates the subtask doesn't exist.
	ErrSubTaskNotFound = errors.New("subtask not found")
	// ErrTaskNotFound indicates the parent task doesn't exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidInput indicates a missing or malformed field.
	ErrInvalidInput = errors.New("invalid subtask input")
)
