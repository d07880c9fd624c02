package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `tasker tracks work as Projects → Tasks → Subtasks.

Core concepts:
- Project: a named group of tasks. "project-1" is the main project and always exists.
- Task: date, result, object, task text, status, assignee. Tasks have a dense position (order) within their project.
- Subtask: object, description, status, assignee. Belongs to exactly one task.
- Status: take, inProgress, check, blocked. New tasks default to take.
- Tick: every project carries a counter bumped on each create, delete and move of its tasks.

Workflow:
1) Orient: list_projects, then list_tasks with project_id (optionally search / filter).
2) Write: create_task / update_task / create_subtask / update_subtask.
3) Reorder: reorder_tasks with task_id and end_index. Pass expected_tick from the last reorder
   result to detect concurrent edits; on CONFLICT, list_tasks again and retry.

Docs:
- tasker://docs/index
- tasker://docs/ordering
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "tasker://docs/index",
		Name:        "docs_index",
		Title:       "tasker docs index",
		Description: "Entry point: data model, status codes and tool overview.",
		Content: `# tasker

## Data model

| Entity  | Fields |
|---------|--------|
| Project | id, name, description, tasksCount |
| Task    | id, date, result, object, task, status, statusLabel, assignee, order, projectId, subTasks |
| Subtask | id, taskId, object, description, status, statusLabel, assignee |

statusLabel is derived from status and cannot be set directly.

## Status codes

| Code | Label |
|------|-------|
| take | Взять |
| inProgress | В работе |
| check | Проверить |
| blocked | Блок софта |

## Tools

- Projects: list_projects, get_project, create_project, update_project, delete_project
- Tasks: list_tasks, get_task, create_task, update_task, delete_task, reorder_tasks
- Subtasks: create_subtask, update_subtask, delete_subtask

A project that still owns tasks cannot be deleted. Deleting a task deletes its subtasks.
`,
	},
	{
		URI:         "tasker://docs/ordering",
		Name:        "docs_ordering",
		Title:       "Task ordering",
		Description: "How task positions, reorder_tasks and conflicts work.",
		Content: `# Task ordering

Tasks in a project are listed by order ascending. Tasks without an order sort last, newest first.

- New tasks are appended: order = max(order in project) + 1.
- reorder_tasks removes the task from its current index and inserts it at end_index.
  end_index is clamped to the list bounds. Every task in the project is then
  renumbered 0..n-1, so orders stay dense.
- Example: A,B,C,D moving A to index 2 gives B,C,A,D.

## Conflicts

Each reorder is guarded by the project tick. The result carries the new tick;
pass it as expected_tick on the next reorder. If another client changed the
project in between, the call fails with CONFLICT and nothing is written.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
