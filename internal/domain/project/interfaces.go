package project

import "context"

// Repository provides persistence for projects.
// Get and List populate TasksCount from the tasks table.
type Repository interface {
	Create(ctx context.Context, proj *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	List(ctx context.Context) ([]Project, error)
	Update(ctx context.Context, proj *Project) error
	Delete(ctx context.Context, id string) error
	CountTasks(ctx context.Context, id string) (int, error)
}

// Publisher receives change notifications.
type Publisher interface {
	Publish(eventType string, payload any)
}
