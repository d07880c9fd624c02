package mocks

import (
	"context"

	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/stretchr/testify/mock"
)

// ProjectRepository is a mock for project.Repository and task.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProjectRepository) CountTasks(ctx context.Context, id string) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *ProjectRepository) Tick(ctx context.Context, projectID string) (int64, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(int64), args.Error(1)
}

// TaskRepository is a mock for task.Repository.
type TaskRepository struct {
	mock.Mock
}

func (m *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	args := m.Called(ctx, id)
	if t, ok := args.Get(0).(*task.Task); ok {
		return t, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) List(ctx context.Context, opts task.ListOptions) ([]task.Task, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]task.Task); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TaskRepository) Update(ctx context.Context, t *task.Task, prevProjectID string) error {
	args := m.Called(ctx, t, prevProjectID)
	return args.Error(0)
}

func (m *TaskRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TaskRepository) ApplyPositions(ctx context.Context, projectID string, expectedTick int64, updates []task.PositionUpdate) (int64, error) {
	args := m.Called(ctx, projectID, expectedTick, updates)
	return args.Get(0).(int64), args.Error(1)
}

// SubTaskRepository is a mock for subtask.Repository.
type SubTaskRepository struct {
	mock.Mock
}

func (m *SubTaskRepository) Create(ctx context.Context, st *task.SubTask) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *SubTaskRepository) Get(ctx context.Context, id string) (*task.SubTask, error) {
	args := m.Called(ctx, id)
	if st, ok := args.Get(0).(*task.SubTask); ok {
		return st, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SubTaskRepository) ListByTask(ctx context.Context, taskID string) ([]task.SubTask, error) {
	args := m.Called(ctx, taskID)
	if list, ok := args.Get(0).([]task.SubTask); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SubTaskRepository) Update(ctx context.Context, st *task.SubTask) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

func (m *SubTaskRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Publisher is a mock change-event sink.
type Publisher struct {
	mock.Mock
}

func (m *Publisher) Publish(eventType string, payload any) {
	m.Called(eventType, payload)
}
