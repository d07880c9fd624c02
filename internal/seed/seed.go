// Package seed loads a sample board into an empty database.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/domain/subtask"
	"github.com/rpggio/tasker/internal/domain/task"
	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleYAML []byte

// Data is a board to load.
type Data struct {
	Tasks []TaskData `yaml:"tasks"`
}

type TaskData struct {
	Date     string        `yaml:"date"`
	Result   string        `yaml:"result"`
	Object   string        `yaml:"object"`
	Task     string        `yaml:"task"`
	Status   string        `yaml:"status"`
	Assignee string        `yaml:"assignee"`
	SubTasks []SubTaskData `yaml:"subtasks"`
}

type SubTaskData struct {
	Object      string `yaml:"object"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
	Assignee    string `yaml:"assignee"`
}

// Sample returns the built-in sample board.
func Sample() (*Data, error) {
	return Parse(sampleYAML)
}

// Parse decodes a board from YAML.
func Parse(data []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	return &d, nil
}

// Resetter empties the database and reapplies the schema.
type Resetter interface {
	Reset(ctx context.Context) error
}

type TaskCreator interface {
	Create(ctx context.Context, req task.CreateRequest) (*task.Task, error)
}

type SubTaskCreator interface {
	Create(ctx context.Context, req subtask.CreateRequest) (*task.SubTask, error)
}

// Summary counts what a run created.
type Summary struct {
	Tasks    int
	SubTasks int
}

// Seeder loads boards through the domain services so IDs, order and labels
// are assigned the same way as for API writes.
type Seeder struct {
	db       Resetter
	tasks    TaskCreator
	subtasks SubTaskCreator
	logger   *slog.Logger
}

func New(db Resetter, tasks TaskCreator, subtasks SubTaskCreator, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Seeder{db: db, tasks: tasks, subtasks: subtasks, logger: logger}
}

// Run wipes the database and loads d into the main project.
func (s *Seeder) Run(ctx context.Context, d *Data) (Summary, error) {
	var sum Summary
	if err := s.db.Reset(ctx); err != nil {
		return sum, fmt.Errorf("reset database: %w", err)
	}
	s.logger.Info("database reset")

	for i, td := range d.Tasks {
		t, err := s.tasks.Create(ctx, task.CreateRequest{
			Date:      td.Date,
			Result:    td.Result,
			Object:    td.Object,
			Task:      td.Task,
			Status:    td.Status,
			Assignee:  td.Assignee,
			ProjectID: project.DefaultID,
		})
		if err != nil {
			return sum, fmt.Errorf("task %d: %w", i, err)
		}
		sum.Tasks++

		for j, sd := range td.SubTasks {
			if _, err := s.subtasks.Create(ctx, subtask.CreateRequest{
				TaskID:      t.ID,
				Object:      sd.Object,
				Description: sd.Description,
				Status:      sd.Status,
				Assignee:    sd.Assignee,
			}); err != nil {
				return sum, fmt.Errorf("task %d subtask %d: %w", i, j, err)
			}
			sum.SubTasks++
		}
	}

	s.logger.Info("database seeded", "tasks", sum.Tasks, "subtasks", sum.SubTasks)
	return sum, nil
}
