package mcp

type EmptyParams struct{}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"Project ID"`
}

type CreateProjectParams struct {
	Name        string `json:"name" jsonschema:"Project display name"`
	Description string `json:"description,omitempty" jsonschema:"Project description"`
}

type UpdateProjectParams struct {
	ID          string  `json:"id" jsonschema:"Project ID"`
	Name        *string `json:"name,omitempty" jsonschema:"New project name"`
	Description *string `json:"description,omitempty" jsonschema:"New project description"`
}

type DeleteParams struct {
	ID string `json:"id" jsonschema:"Identifier of the item to delete"`
}

type ListTasksParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Project ID (omit for every project)"`
	Search    string `json:"search,omitempty" jsonschema:"Case-insensitive text matched against task fields"`
	Filter    string `json:"filter,omitempty" jsonschema:"Exact field value (status label or assignee); 'all' disables"`
}

type GetTaskParams struct {
	ID string `json:"id" jsonschema:"Task ID"`
}

type CreateTaskParams struct {
	Date      string `json:"date" jsonschema:"Due date (YYYY-MM-DD)"`
	Result    string `json:"result" jsonschema:"Expected result"`
	Object    string `json:"object" jsonschema:"Object the task is about"`
	Task      string `json:"task" jsonschema:"Task description"`
	Status    string `json:"status,omitempty" jsonschema:"Status: take, inProgress, check or blocked"`
	Assignee  string `json:"assignee" jsonschema:"Responsible person"`
	ProjectID string `json:"project_id,omitempty" jsonschema:"Project ID (defaults to the main project)"`
}

type UpdateTaskParams struct {
	ID        string  `json:"id" jsonschema:"Task ID"`
	Date      *string `json:"date,omitempty" jsonschema:"Due date (YYYY-MM-DD)"`
	Result    *string `json:"result,omitempty"`
	Object    *string `json:"object,omitempty"`
	Task      *string `json:"task,omitempty"`
	Status    *string `json:"status,omitempty" jsonschema:"Status: take, inProgress, check or blocked"`
	Assignee  *string `json:"assignee,omitempty"`
	ProjectID *string `json:"project_id,omitempty" jsonschema:"Move the task to another project"`
}

type ReorderTasksParams struct {
	TaskID       string `json:"task_id" jsonschema:"Task to move"`
	StartIndex   int    `json:"start_index" jsonschema:"Current index of the task in its project"`
	EndIndex     int    `json:"end_index" jsonschema:"Target index in the project task list"`
	ExpectedTick *int64 `json:"expected_tick,omitempty" jsonschema:"Project tick last observed; the move fails if it changed"`
}

type CreateSubTaskParams struct {
	TaskID      string `json:"task_id" jsonschema:"Parent task ID"`
	Object      string `json:"object"`
	Description string `json:"description"`
	Status      string `json:"status,omitempty" jsonschema:"Status: take, inProgress, check or blocked"`
	Assignee    string `json:"assignee"`
}

type UpdateSubTaskParams struct {
	ID          string  `json:"id" jsonschema:"Subtask ID"`
	Object      *string `json:"object,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty" jsonschema:"Status: take, inProgress, check or blocked"`
	Assignee    *string `json:"assignee,omitempty"`
}

// PingResponse is returned by the ping tool.
type PingResponse struct {
	Message string `json:"message"`
}

// DeleteResponse acknowledges a delete.
type DeleteResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}
