package view

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/rpggio/tasker/internal/client"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/dto"
)

// API is the subset of the REST client the store needs.
type API interface {
	ListTasks(ctx context.Context, projectID string) ([]task.Task, error)
	CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*task.Task, error)
	UpdateTask(ctx context.Context, id string, req dto.UpdateTaskRequest) (*task.Task, error)
	DeleteTask(ctx context.Context, id string) error
	ReorderTasks(ctx context.Context, req dto.ReorderRequest) (*client.ReorderResult, error)
}

// Store holds the client's copy of the task list. Mutations go through the
// API first and only the server's response is merged locally.
type Store struct {
	api API

	mu       sync.RWMutex
	tasks    []task.Task
	criteria Criteria
}

// NewStore creates a store scoped to projectID ("" for every project).
func NewStore(api API, projectID string) *Store {
	return &Store{api: api, criteria: Criteria{ProjectID: projectID, ActiveFilter: ShowAll}}
}

// Criteria returns the current search, filter and project scope.
func (s *Store) Criteria() Criteria {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.criteria
}

func (s *Store) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.SearchTerm = term
}

func (s *Store) SetFilter(filter string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.ActiveFilter = filter
}

// SetProject changes the project scope. Call Refresh afterwards.
func (s *Store) SetProject(projectID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.criteria.ProjectID = projectID
}

// Tasks returns a copy of every loaded task.
func (s *Store) Tasks() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.tasks)
}

// Visible returns the derived view for the current criteria.
func (s *Store) Visible() []task.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Apply(s.tasks, s.criteria)
}

// FilterOptions lists the selectable filter values for the loaded tasks.
func (s *Store) FilterOptions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterOptions(s.tasks)
}

// Refresh replaces local state with the server's task list.
func (s *Store) Refresh(ctx context.Context) error {
	projectID := s.Criteria().ProjectID
	tasks, err := s.api.ListTasks(ctx, projectID)
	if err != nil {
		return fmt.Errorf("loading tasks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	return nil
}

// Add creates a task in the current project unless req names one.
func (s *Store) Add(ctx context.Context, req dto.CreateTaskRequest) (*task.Task, error) {
	if req.ProjectID == "" {
		req.ProjectID = s.Criteria().ProjectID
	}
	created, err := s.api.CreateTask(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, *created)
	return created, nil
}

// SetStatus changes a task's status.
func (s *Store) SetStatus(ctx context.Context, id string, status task.Status) (*task.Task, error) {
	raw := string(status)
	return s.update(ctx, id, dto.UpdateTaskRequest{Status: &raw})
}

// CycleStatus advances a task to the next status in the badge cycle.
func (s *Store) CycleStatus(ctx context.Context, id string) (*task.Task, error) {
	current, ok := s.find(id)
	if !ok {
		return nil, task.ErrTaskNotFound
	}
	return s.SetStatus(ctx, id, current.Status.Next())
}

// SetAssignee reassigns a task.
func (s *Store) SetAssignee(ctx context.Context, id, assignee string) (*task.Task, error) {
	return s.update(ctx, id, dto.UpdateTaskRequest{Assignee: &assignee})
}

// Move places a task at endIndex among its project's tasks in order.
func (s *Store) Move(ctx context.Context, id string, endIndex int) error {
	current, ok := s.find(id)
	if !ok {
		return task.ErrTaskNotFound
	}

	siblings := Apply(s.Tasks(), Criteria{ProjectID: current.ProjectID})
	start := slices.IndexFunc(siblings, func(t task.Task) bool { return t.ID == id })

	result, err := s.api.ReorderTasks(ctx, dto.ReorderRequest{
		TaskID:     id,
		StartIndex: start,
		EndIndex:   endIndex,
	})
	if err != nil {
		return fmt.Errorf("reordering tasks: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = slices.DeleteFunc(s.tasks, func(t task.Task) bool { return t.ProjectID == current.ProjectID })
	s.tasks = append(s.tasks, result.Tasks...)
	return nil
}

// MoveBy shifts a task delta places within its project.
func (s *Store) MoveBy(ctx context.Context, id string, delta int) error {
	current, ok := s.find(id)
	if !ok {
		return task.ErrTaskNotFound
	}
	siblings := Apply(s.Tasks(), Criteria{ProjectID: current.ProjectID})
	start := slices.IndexFunc(siblings, func(t task.Task) bool { return t.ID == id })
	end := start + delta
	if end < 0 || end >= len(siblings) || end == start {
		return nil
	}
	return s.Move(ctx, id, end)
}

// Delete removes a task.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = slices.DeleteFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
	return nil
}

func (s *Store) update(ctx context.Context, id string, req dto.UpdateTaskRequest) (*task.Task, error) {
	updated, err := s.api.UpdateTask(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id }); i >= 0 {
		s.tasks[i] = *updated
	} else {
		s.tasks = append(s.tasks, *updated)
	}
	return updated, nil
}

func (s *Store) find(id string) (task.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := slices.IndexFunc(s.tasks, func(t task.Task) bool { return t.ID == id })
	if i < 0 {
		return task.Task{}, false
	}
	return s.tasks[i], true
}
