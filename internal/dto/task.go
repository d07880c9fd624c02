package dto

import "github.com/rpggio/tasker/internal/domain/task"

// CreateTaskRequest is the POST /api/tasks body. StatusLabel is accepted
// for compatibility and ignored; the server derives it from Status.
type CreateTaskRequest struct {
	Date        string `json:"date"`
	Result      string `json:"result"`
	Object      string `json:"object"`
	Task        string `json:"task"`
	Status      string `json:"status,omitempty"`
	StatusLabel string `json:"statusLabel,omitempty"`
	Assignee    string `json:"assignee"`
	ProjectID   string `json:"projectId,omitempty"`
}

func (r CreateTaskRequest) ToDomain() task.CreateRequest {
	return task.CreateRequest{
		Date:      r.Date,
		Result:    r.Result,
		Object:    r.Object,
		Task:      r.Task,
		Status:    r.Status,
		Assignee:  r.Assignee,
		ProjectID: r.ProjectID,
	}
}

// UpdateTaskRequest is a partial task update. Order cannot be set here.
type UpdateTaskRequest struct {
	Date        *string `json:"date,omitempty"`
	Result      *string `json:"result,omitempty"`
	Object      *string `json:"object,omitempty"`
	Task        *string `json:"task,omitempty"`
	Status      *string `json:"status,omitempty"`
	StatusLabel *string `json:"statusLabel,omitempty"`
	Assignee    *string `json:"assignee,omitempty"`
	ProjectID   *string `json:"projectId,omitempty"`
}

func (r UpdateTaskRequest) ToDomain() task.UpdateRequest {
	return task.UpdateRequest{
		Date:      r.Date,
		Result:    r.Result,
		Object:    r.Object,
		Task:      r.Task,
		Status:    r.Status,
		Assignee:  r.Assignee,
		ProjectID: r.ProjectID,
	}
}

type ReorderRequest struct {
	TaskID       string `json:"taskId"`
	StartIndex   int    `json:"startIndex"`
	EndIndex     int    `json:"endIndex"`
	ExpectedTick *int64 `json:"expectedTick,omitempty"`
}

func (r ReorderRequest) ToDomain() task.ReorderRequest {
	return task.ReorderRequest{
		TaskID:       r.TaskID,
		StartIndex:   r.StartIndex,
		EndIndex:     r.EndIndex,
		ExpectedTick: r.ExpectedTick,
	}
}

// TickHeader carries the project tick after a reorder.
const TickHeader = "X-Project-Tick"
