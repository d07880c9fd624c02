package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/repository"
)

// Event types published by the service.
const (
	EventCreated   = "task.created"
	EventUpdated   = "task.updated"
	EventDeleted   = "task.deleted"
	EventReordered = "tasks.reordered"
)

// Service handles task business logic.
type Service struct {
	tasks    Repository
	projects ProjectRepository
	events   Publisher
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a new task service. events and logger may be nil.
func NewService(tasks Repository, projects ProjectRepository, events Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		tasks:    tasks,
		projects: projects,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateRequest describes a task creation request.
type CreateRequest struct {
	Date      string
	Result    string
	Object    string
	Task      string
	Status    string
	Assignee  string
	ProjectID string
}

// UpdateRequest describes a partial task update.
type UpdateRequest struct {
	Date      *string
	Result    *string
	Object    *string
	Task      *string
	Status    *string
	Assignee  *string
	ProjectID *string
}

// ReorderRequest moves one task to a new position within its project.
type ReorderRequest struct {
	TaskID     string
	StartIndex int
	EndIndex   int
	// ExpectedTick rejects the move when the project changed since the
	// caller last read it. When nil the tick observed at load time is used.
	ExpectedTick *int64
}

// ReorderResult is the project task list after a move.
type ReorderResult struct {
	ProjectID string `json:"projectId"`
	Tick      int64  `json:"tick"`
	Tasks     []Task `json:"tasks"`
}

// Create creates a new task at the end of its project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Task, error) {
	if err := ValidateCreateInput(req); err != nil {
		return nil, err
	}

	status, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	projectID := req.ProjectID
	if projectID == "" {
		projectID = project.DefaultID
	}

	now := s.now()
	t := &Task{
		ID:          uuid.NewString(),
		Date:        req.Date,
		Result:      req.Result,
		Object:      req.Object,
		Task:        req.Task,
		Status:      status,
		StatusLabel: status.Label(),
		Assignee:    req.Assignee,
		ProjectID:   projectID,
		CreatedAt:   now,
		UpdatedAt:   now,
		SubTasks:    []SubTask{},
	}

	if err := s.tasks.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		return nil, fmt.Errorf("creating task: %w", err)
	}

	order, _ := t.OrderValue()
	s.logger.Info("task created", "task_id", t.ID, "project_id", t.ProjectID, "order", order)
	s.publish(EventCreated, t)
	return t, nil
}

// Get returns a task with its subtasks.
func (s *Service) Get(ctx context.Context, id string) (*Task, error) {
	t, err := s.tasks.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return t, nil
}

// List returns tasks with subtasks in display order.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Task, error) {
	tasks, err := s.tasks.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	return tasks, nil
}

// Update applies a partial update. The status label always follows the status.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Task, error) {
	if err := validateUpdateInput(req); err != nil {
		return nil, err
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.Result != nil {
		updated.Result = *req.Result
	}
	if req.Object != nil {
		updated.Object = *req.Object
	}
	if req.Task != nil {
		updated.Task = *req.Task
	}
	if req.Assignee != nil {
		updated.Assignee = *req.Assignee
	}
	if req.ProjectID != nil {
		updated.ProjectID = *req.ProjectID
	}
	if req.Status != nil {
		status, err := ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		updated.Status = status
	}
	updated.StatusLabel = updated.Status.Label()
	updated.UpdatedAt = s.now()

	if err := s.tasks.Update(ctx, &updated, current.ProjectID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrTaskNotFound
		case errors.Is(err, repository.ErrForeignKeyViolation):
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, updated.ProjectID)
		}
		return nil, fmt.Errorf("updating task: %w", err)
	}

	result, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(EventUpdated, result)
	return result, nil
}

// Delete removes a task and its subtasks.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("deleting task: %w", err)
	}

	s.logger.Info("task deleted", "task_id", id)
	s.publish(EventDeleted, map[string]string{"id": id})
	return nil
}

// Reorder moves a task to EndIndex within its project and renumbers the
// project densely. The stored order is authoritative; StartIndex is only
// recorded for diagnostics.
func (s *Service) Reorder(ctx context.Context, req ReorderRequest) (*ReorderResult, error) {
	if req.TaskID == "" {
		return nil, fmt.Errorf("%w: taskId is required", ErrInvalidInput)
	}

	moved, err := s.Get(ctx, req.TaskID)
	if err != nil {
		return nil, err
	}
	projectID := moved.ProjectID

	// Read the tick before the task list so a concurrent move after this
	// point fails the guarded write below.
	tick, err := s.projects.Tick(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
		}
		return nil, fmt.Errorf("loading project tick: %w", err)
	}
	if req.ExpectedTick != nil && *req.ExpectedTick != tick {
		return nil, ErrConflict
	}

	siblings, err := s.tasks.List(ctx, ListOptions{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("loading project tasks: %w", err)
	}

	_, updates, err := PlanMove(siblings, req.TaskID, req.EndIndex)
	if err != nil {
		// The task was deleted between the lookup and the listing.
		return nil, err
	}

	if len(updates) > 0 {
		tick, err = s.tasks.ApplyPositions(ctx, projectID, tick, updates)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return nil, ErrConflict
			}
			return nil, fmt.Errorf("applying positions: %w", err)
		}
	}

	s.logger.Debug("tasks reordered",
		"task_id", req.TaskID,
		"project_id", projectID,
		"start_index", req.StartIndex,
		"end_index", req.EndIndex,
		"rows_updated", len(updates),
	)

	tasks, err := s.tasks.List(ctx, ListOptions{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("reloading project tasks: %w", err)
	}

	result := &ReorderResult{ProjectID: projectID, Tick: tick, Tasks: tasks}
	if len(updates) > 0 {
		s.publish(EventReordered, result)
	}
	return result, nil
}

func (s *Service) publish(eventType string, payload any) {
	if s.events != nil {
		s.events.Publish(eventType, payload)
	}
}
