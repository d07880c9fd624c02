package project

import "time"

// DefaultID is the project tasks fall into when created without one.
const DefaultID = "project-1"

// Project is a named container scoping a set of tasks.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Tick        int64     `json:"tick"`
	TasksCount  int       `json:"tasksCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
