package task

import "time"

// Task is a top-level work item positioned within a project.
type Task struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Result      string    `json:"result"`
	Object      string    `json:"object"`
	Task        string    `json:"task"`
	Status      Status    `json:"status"`
	StatusLabel string    `json:"statusLabel"`
	Assignee    string    `json:"assignee"`
	Order       *int      `json:"order"`
	ProjectID   string    `json:"projectId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	SubTasks    []SubTask `json:"subTasks"`
}

// SubTask is a child work item owned by exactly one task.
type SubTask struct {
	ID          string    `json:"id"`
	TaskID      string    `json:"taskId"`
	Object      string    `json:"object"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	StatusLabel string    `json:"statusLabel"`
	Assignee    string    `json:"assignee"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OrderValue returns the task position, or ok=false when unordered.
func (t Task) OrderValue() (int, bool) {
	if t.Order == nil {
		return 0, false
	}
	return *t.Order, true
}

// ListOptions narrows a task listing.
type ListOptions struct {
	ProjectID string
}

// PositionUpdate assigns a new order value to one task.
type PositionUpdate struct {
	TaskID string
	Order  int
}
