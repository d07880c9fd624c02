package subtask

import (
	"context"

	"github.com/rpggio/tasker/internal/domain/task"
)

// Repository provides persistence for subtasks.
type Repository interface {
	Create(ctx context.Context, st *task.SubTask) error
	Get(ctx context.Context, id string) (*task.SubTask, error)
	// ListByTask returns subtasks oldest first.
	ListByTask(ctx context.Context, taskID string) ([]task.SubTask, error)
	Update(ctx context.Context, st *task.SubTask) error
	Delete(ctx context.Context, id string) error
}

// TaskLookup reports whether a parent task exists.
type TaskLookup interface {
	Get(ctx context.Context, id string) (*task.Task, error)
}

// Publisher receives change notifications.
type Publisher interface {
	Publish(eventType string, payload any)
}
