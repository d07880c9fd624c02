package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/tasker/internal/repository"
)

// Event types published by the service.
const (
	EventCreated = "project.created"
	EventUpdated = "project.updated"
	EventDeleted = "project.deleted"
)

const maxCreateAttempts = 5

// Service handles project operations.
type Service struct {
	repo   Repository
	events Publisher
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new project service. events may be nil.
func NewService(repo Repository, events Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, events: events, logger: logger, now: time.Now}
}

// CreateRequest defines project creation inputs.
type CreateRequest struct {
	Name        string
	Description string
}

// UpdateRequest defines a partial project update.
type UpdateRequest struct {
	Name        *string
	Description *string
}

// NewID returns the identifier for a project created at t.
func NewID(t time.Time) string {
	return fmt.Sprintf("project-%d", t.UnixMilli())
}

// Create creates a new project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidInput
	}

	now := s.now()
	proj := &Project{
		ID:          NewID(now),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// IDs have millisecond resolution; step forward past a taken one.
	var err error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		proj.ID = NewID(now.Add(time.Duration(attempt) * time.Millisecond))
		if err = s.repo.Create(ctx, proj); !errors.Is(err, repository.ErrConflict) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created", "project_id", proj.ID)
	s.publish(EventCreated, proj)
	return proj, nil
}

// Get fetches a project by ID.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return proj, nil
}

// List returns all projects, newest first.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	projects, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) (*Project, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, ErrInvalidInput
	}

	proj, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		proj.Name = *req.Name
	}
	if req.Description != nil {
		proj.Description = *req.Description
	}
	proj.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, proj); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("updating project: %w", err)
	}

	s.publish(EventUpdated, proj)
	return proj, nil
}

// Delete removes a project that owns no tasks.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountTasks(ctx, id)
	if err != nil {
		return fmt.Errorf("counting tasks: %w", err)
	}
	if count > 0 {
		return ErrHasTasks
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProjectNotFound
		}
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return ErrHasTasks
		}
		return fmt.Errorf("deleting project: %w", err)
	}

	s.logger.Info("project deleted", "project_id", id)
	s.publish(EventDeleted, map[string]string{"id": id})
	return nil
}

func (s *Service) publish(eventType string, payload any) {
	if s.events != nil {
		s.events.Publish(eventType, payload)
	}
}
