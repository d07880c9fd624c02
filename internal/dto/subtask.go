package dto

import "github.com/rpggio/tasker/internal/domain/subtask"

type CreateSubTaskRequest struct {
	TaskID      string `json:"taskId"`
	Object      string `json:"object"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty"`
	Assignee    string `json:"assignee"`
}

func (r CreateSubTaskRequest) ToDomain() subtask.CreateRequest {
	return subtask.CreateRequest{
		TaskID:      r.TaskID,
		Object:      r.Object,
		Description: r.Description,
		Status:      r.Status,
		Assignee:    r.Assignee,
	}
}

type UpdateSubTaskRequest struct {
	Object      *string `json:"object,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Assignee    *string `json:"assignee,omitempty"`
}

func (r UpdateSubTaskRequest) ToDomain() subtask.UpdateRequest {
	return subtask.UpdateRequest{
		Object:      r.Object,
		Description: r.Description,
		Status:      r.Status,
		Assignee:    r.Assignee,
	}
}
