package subtask

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/repository"
)

// Event types published by the service.
const (
	EventCreated = "subtask.created"
	EventUpdated = "subtask.updated"
	EventDeleted = "subtask.deleted"
)

// Service handles subtask operations.
type Service struct {
	repo   Repository
	tasks  TaskLookup
	events Publisher
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a subtask service. events and logger may be nil.
func NewService(repo Repository, tasks TaskLookup, events Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, tasks: tasks, events: events, logger: logger, now: time.Now}
}

// CreateRequest describes a new subtask.
type CreateRequest struct {
	TaskID      string
	Object      string
	Description string
	Status      string
	Assignee    string
}

// UpdateRequest is a partial subtask update.
type UpdateRequest struct {
	Object      *string
	Description *string
	Status      *string
	Assignee    *string
}

// Create adds a subtask to an existing task.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*task.SubTask, error) {
	for _, f := range []struct{ name, value string }{
		{"taskId", req.TaskID},
		{"object", req.Object},
		{"description", req.Description},
		{"assignee", req.Assignee},
	} {
		if strings.TrimSpace(f.value) == "" {
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidInput, f.name)
		}
	}

	status, err := task.ParseStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if err := s.ensureTask(ctx, req.TaskID); err != nil {
		return nil, err
	}

	now := s.now()
	st := &task.SubTask{
		ID:          uuid.NewString(),
		TaskID:      req.TaskID,
		Object:      req.Object,
		Description: req.Description,
		Status:      status,
		StatusLabel: status.Label(),
		Assignee:    req.Assignee,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, st); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("creating subtask: %w", err)
	}

	s.logger.Info("subtask created", "subtask_id", st.ID, "task_id", st.TaskID)
	s.publish(EventCreated, st)
	return st, nil
}

// Get fetches a subtask by ID.
func (s *Service) Get(ctx context.Context, id string) (*task.SubTask, error) {
	st, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubTaskNotFound
		}
		return nil, fmt.Errorf("getting subtask: %w", err)
	}
	return st, nil
}

// ListByTask returns the subtasks of a task, oldest first.
func (s *Service) ListByTask(ctx context.Context, taskID string) ([]task.SubTask, error) {
	if err := s.ensureTask(ctx, taskID); err != nil {
		return nil, err
	}
	subtasks, err := s.repo.ListByTask(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}
	return subtasks, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*task.SubTask, error) {
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"object", req.Object},
		{"description", req.Description},
		{"assignee", req.Assignee},
	} {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return nil, fmt.Errorf("%w: %s must not be empty", ErrInvalidInput, f.name)
		}
	}

	st, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Object != nil {
		st.Object = *req.Object
	}
	if req.Description != nil {
		st.Description = *req.Description
	}
	if req.Assignee != nil {
		st.Assignee = *req.Assignee
	}
	if req.Status != nil {
		status, err := task.ParseStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		st.Status = status
	}
	st.StatusLabel = st.Status.Label()
	st.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, st); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSubTaskNotFound
		}
		return nil, fmt.Errorf("updating subtask: %w", err)
	}

	s.publish(EventUpdated, st)
	return st, nil
}

// Delete removes a subtask.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSubTaskNotFound
		}
		return fmt.Errorf("deleting subtask: %w", err)
	}

	s.logger.Info("subtask deleted", "subtask_id", id)
	s.publish(EventDeleted, map[string]string{"id": id})
	return nil
}

func (s *Service) ensureTask(ctx context.Context, taskID string) error {
	if _, err := s.tasks.Get(ctx, taskID); err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, task.ErrTaskNotFound) {
			return ErrTaskNotFound
		}
		return fmt.Errorf("getting task: %w", err)
	}
	return nil
}

func (s *Service) publish(eventType string, payload any) {
	if s.events != nil {
		s.events.Publish(eventType, payload)
	}
}
