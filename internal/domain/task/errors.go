package task

import "errors"

var (
	// ErrTaskNotFound indicates the task doesn't exist.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidInput indicates a missing or malformed field.
	ErrInvalidInput = errors.New("invalid task input")
	// ErrInvalidStatus indicates an unknown status code.
	ErrInvalidStatus = errors.New("invalid status")
	// ErrProjectNotFound indicates the referenced project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrConflict indicates the project was reordered concurrently.
	ErrConflict = errors.New("project tasks were modified concurrently")
)
