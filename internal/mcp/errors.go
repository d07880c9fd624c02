package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/domain/subtask"
	"github.com/rpggio/tasker/internal/domain/task"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, project.ErrProjectNotFound), errors.Is(err, task.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects for valid IDs"}
	case errors.Is(err, project.ErrHasTasks):
		return &APIError{Code: "PROJECT_NOT_EMPTY", Message: err.Error(), RecoveryHint: "Delete or move its tasks first"}
	case errors.Is(err, task.ErrTaskNotFound), errors.Is(err, subtask.ErrTaskNotFound):
		return &APIError{Code: "TASK_NOT_FOUND", Message: "task not found", RecoveryHint: "Call list_tasks for valid IDs"}
	case errors.Is(err, subtask.ErrSubTaskNotFound):
		return &APIError{Code: "SUBTASK_NOT_FOUND", Message: "subtask not found"}
	case errors.Is(err, task.ErrConflict):
		return &APIError{Code: "CONFLICT", Message: "project tasks changed since they were read", RecoveryHint: "List tasks again and retry"}
	case errors.Is(err, task.ErrInvalidStatus):
		return &APIError{Code: "INVALID_STATUS", Message: err.Error(), RecoveryHint: "Use one of take, inProgress, check, blocked"}
	case errors.Is(err, project.ErrInvalidInput), errors.Is(err, task.ErrInvalidInput), errors.Is(err, subtask.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
