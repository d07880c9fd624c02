package task

import "context"

// Repository provides persistence for tasks.
type Repository interface {
	// Create inserts t at the end of its project and sets t.Order.
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	List(ctx context.Context, opts ListOptions) ([]Task, error)
	// Update writes t; when t.ProjectID differs from prevProjectID the task
	// is appended to the end of its new project.
	Update(ctx context.Context, t *Task, prevProjectID string) error
	Delete(ctx context.Context, id string) error
	// ApplyPositions writes updates in one transaction guarded by the
	// project tick and returns the new tick.
	ApplyPositions(ctx context.Context, projectID string, expectedTick int64, updates []PositionUpdate) (int64, error)
}

// ProjectRepository exposes the project tick.
type ProjectRepository interface {
	Tick(ctx context.Context, projectID string) (int64, error)
}

// Publisher receives change notifications.
type Publisher interface {
	Publish(eventType string, payload any)
}
