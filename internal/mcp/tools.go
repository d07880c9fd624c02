package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/domain/subtask"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/view"
)

// registerTools adds the tool catalog to server.
func registerTools(server *sdkmcp.Server, svc Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "ping",
		Description: "Check that the server is reachable",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
		return textResult(PingResponse{Message: "pong"})
	})

	// Projects
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all projects, newest first, with their task counts",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ EmptyParams) (*sdkmcp.CallToolResult, any, error) {
		projects, err := svc.Projects.List(ctx)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return textResult(projects)
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project by ID",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, any, error) {
		p, err := svc.Projects.Get(ctx, in.ID)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return textResult(p)
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a new project to group tasks",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, any, error) {
		p, err := svc.Projects.Create(ctx, project.CreateRequest{
			Name:        in.Name,
			Description: in.Description,
		})
		if err != nil {
			return nil, nil, mapError(err)
		}
		return textResult(p)
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_project",
		Description: "Rename a project or change its description",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateProjectParams) (*sdkmcp.CallToolResult, any, error) {
		p, err := svc.Projects.Update(ctx, in.ID, project.UpdateRequest{
			Name:        in.Name,
			Description: in.Description,
		})
		if err != nil {
			return nil, nil, mapError(err)
		}
		return textResult(p)
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete an empty project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteParams) (*sdkmcp.CallToolResult, any, error) {
		if err := svc.Projects.Delete(ctx, in.ID); err != nil {
			return nil, nil, mapError(err)
		}
		return textResult(DeleteResponse{Success: true, ID: in.ID})
	})

	// Tasks
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks in display order, optionally narrowed by project, search text and filter value",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListTasksParams) (*sdkmcp.CallToolResult, any, error) {
		tasks, err := svc.Tasks.List(ctx, task.ListOptions{ProjectID: in.ProjectID})
		if err != nil {
			return nil, nil, mapError(err)
		}
		filter := in.Filter
		if filter == "" {
			filter = view.ShowAll
		}
		return textResult(view.Apply(tasks, view.Criteria{SearchTerm: in.Search, ActiveFilter: filter}))
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_task",
		Description: "Get a task with its subtasks",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetTaskParams) (*sdkmcp.CallToolResult, any, error) {
		t, err := svc.Tasks.Get(ctx, in.ID)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return textResult(t)
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_task",
		Description: "Create a task at the end of its project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateTaskParams) (*sdkmcp.CallToolResult, any, error) {
		t, err := svc.Tasks.Create(ctx, task.CreateRequest{
			Date:      in.Date,
			Result:    in.Result,
			Object:    in.Object,
			Task:      in.Task,
			Status:    in.Status,
			Assignee:  in.Assignee,
			ProjectID: in.ProjectID,
		})
		if err != nil {
			return nil, nil, mapError(err)
		}
		return textResult(t)
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_task",
		Description: "Update task fields; only provided fields change",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateTaskParams) (*sdkmcp.CallToolResult, any, error) {
		t, err := svc.Tasks.Update(ctx, in.ID, task.UpdateRequest{
			Date:      in.Date,
			Result:    in.Result,
			Object:    in.Object,
			Task:      in.Task,
			Status:    in.Status,
			Assignee:  in.Assignee,
			ProjectID: in.ProjectID,
		})
		if err != nil {
			return nil, nil, mapError(err)
		}
		return textResult(t)
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task and its subtasks",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteParams) (*sdkmcp.CallToolResult, any, error) {
		if err := svc.Tasks.Delete(ctx, in.ID); err != nil {
			return nil, nil, mapError(err)
		}
		return textResult(DeleteResponse{Success: true, ID: in.ID})
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reorder_tasks",
		Description: "Move a task to end_index within its project and renumber the project's tasks",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ReorderTasksParams) (*sdkmcp.CallToolResult, any, error) {
		res, err := svc.Tasks.Reorder(ctx, task.ReorderRequest{
			TaskID:       in.TaskID,
			StartIndex:   in.StartIndex,
			EndIndex:     in.EndIndex,
			ExpectedTick: in.ExpectedTick,
		})
		if err != nil {
			return nil, nil, mapError(err)
		}
		return textResult(res)
	})

	// Subtasks
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_subtask",
		Description: "Add a subtask to a task",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateSubTaskParams) (*sdkmcp.CallToolResult, any, error) {
		st, err := svc.SubTasks.Create(ctx, subtask.CreateRequest{
			TaskID:      in.TaskID,
			Object:      in.Object,
			Description: in.Description,
			Status:      in.Status,
			Assignee:    in.Assignee,
		})
		if err != nil {
			return nil, nil, mapError(err)
		}
		return textResult(st)
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_subtask",
		Description: "Update subtask fields; only provided fields change",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateSubTaskParams) (*sdkmcp.CallToolResult, any, error) {
		st, err := svc.SubTasks.Update(ctx, in.ID, subtask.UpdateRequest{
			Object:      in.Object,
			Description: in.Description,
			Status:      in.Status,
			Assignee:    in.Assignee,
		})
		if err != nil {
			return nil, nil, mapError(err)
		}
		return textResult(st)
	})
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_subtask",
		Description: "Delete a subtask",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteParams) (*sdkmcp.CallToolResult, any, error) {
		if err := svc.SubTasks.Delete(ctx, in.ID); err != nil {
			return nil, nil, mapError(err)
		}
		return textResult(DeleteResponse{Success: true, ID: in.ID})
	})
}

// textResult renders v as indented JSON text content.
func textResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
