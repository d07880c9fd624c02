package task

import (
	"fmt"
	"strings"
)

// ValidateCreateInput validates fields required to create a task.
func ValidateCreateInput(req CreateRequest) error {
	fields := []struct {
		name  string
		value string
	}{
		{"date", req.Date},
		{"result", req.Result},
		{"object", req.Object},
		{"task", req.Task},
		{"assignee", req.Assignee},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is required", ErrInvalidInput, f.name)
		}
	}
	return nil
}

func validateUpdateInput(req UpdateRequest) error {
	fields := []struct {
		name  string
		value *string
	}{
		{"date", req.Date},
		{"result", req.Result},
		{"object", req.Object},
		{"task", req.Task},
		{"assignee", req.Assignee},
		{"projectId", req.ProjectID},
	}
	for _, f := range fields {
		if err := validateNotBlank(f.name, f.value); err != nil {
			return err
		}
	}
	return nil
}

func validateNotBlank(name string, value *string) error {
	if value != nil && strings.TrimSpace(*value) == "" {
		return fmt.Errorf("%w: %s must not be empty", ErrInvalidInput, name)
	}
	return nil
}
