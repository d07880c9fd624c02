package integration_test

import (
	"context"
	"encoding/json"
	"slices"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/tasker/internal/client"
	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/dto"
	"github.com/rpggio/tasker/internal/seed"
	"github.com/rpggio/tasker/internal/testserver"
	"github.com/rpggio/tasker/internal/view"
	"github.com/stretchr/testify/require"
)

func newTask(object string) dto.CreateTaskRequest {
	return dto.CreateTaskRequest{
		Date:     "2024-05-01",
		Result:   "Рабочий прототип",
		Object:   object,
		Task:     "Собрать " + object,
		Assignee: "Иван",
	}
}

func createTasks(t *testing.T, c *client.Client, objects ...string) []task.Task {
	t.Helper()
	out := make([]task.Task, 0, len(objects))
	for _, object := range objects {
		created, err := c.CreateTask(context.Background(), newTask(object))
		require.NoError(t, err)
		out = append(out, *created)
	}
	return out
}

// sequence lists the project's tasks by object in display order and checks
// that order values are exactly 0..n-1.
func sequence(t *testing.T, c *client.Client, projectID string) []string {
	t.Helper()
	tasks, err := c.ListTasks(context.Background(), projectID)
	require.NoError(t, err)
	tasks = view.Apply(tasks, view.Criteria{})

	objects := make([]string, len(tasks))
	for i, tk := range tasks {
		got, ok := tk.OrderValue()
		require.True(t, ok, "task %s has no order", tk.Object)
		require.Equal(t, i, got, "task %s", tk.Object)
		objects[i] = tk.Object
	}
	return objects
}

func TestScenario_CreateDefaultsAndAppends(t *testing.T) {
	ts := testserver.New(t)

	created := createTasks(t, ts.Client, "A", "B")

	require.Equal(t, project.DefaultID, created[0].ProjectID)
	require.Equal(t, 0, *created[0].Order)
	require.Equal(t, 1, *created[1].Order)
	require.Equal(t, task.StatusTake, created[0].Status)
	require.Equal(t, task.StatusTake.Label(), created[0].StatusLabel)
}

func TestScenario_MoveFirstToThird(t *testing.T) {
	ts := testserver.New(t)
	created := createTasks(t, ts.Client, "A", "B", "C", "D")

	_, err := ts.Client.ReorderTasks(context.Background(), dto.ReorderRequest{
		TaskID:     created[0].ID,
		StartIndex: 0,
		EndIndex:   2,
	})
	require.NoError(t, err)

	require.Equal(t, []string{"B", "C", "A", "D"}, sequence(t, ts.Client, project.DefaultID))
}

func TestProperty_ReorderKeepsOrderDense(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()
	objects := []string{"A", "B", "C", "D"}
	createTasks(t, ts.Client, objects...)

	for from := range objects {
		for to := -1; to <= len(objects); to++ {
			before := sequence(t, ts.Client, project.DefaultID)
			moved := before[from]

			tasks, err := ts.Client.ListTasks(ctx, project.DefaultID)
			require.NoError(t, err)
			i := slices.IndexFunc(tasks, func(tk task.Task) bool { return tk.Object == moved })
			require.GreaterOrEqual(t, i, 0)

			_, err = ts.Client.ReorderTasks(ctx, dto.ReorderRequest{
				TaskID:     tasks[i].ID,
				StartIndex: from,
				EndIndex:   to,
			})
			require.NoError(t, err, "move %d -> %d", from, to)

			after := sequence(t, ts.Client, project.DefaultID)
			want := min(max(to, 0), len(objects)-1)
			require.Equal(t, moved, after[want], "move %d -> %d", from, to)
			require.ElementsMatch(t, before, after)
		}
	}
}

func TestScenario_StaleReorderIsRejected(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()
	created := createTasks(t, ts.Client, "A", "B", "C")

	first, err := ts.Client.ReorderTasks(ctx, dto.ReorderRequest{TaskID: created[2].ID, EndIndex: 0})
	require.NoError(t, err)

	stale := first.Tick - 1
	_, err = ts.Client.ReorderTasks(ctx, dto.ReorderRequest{
		TaskID:       created[0].ID,
		EndIndex:     2,
		ExpectedTick: &stale,
	})
	require.True(t, client.IsConflict(err), "got %v", err)
	require.Equal(t, []string{"C", "A", "B"}, sequence(t, ts.Client, project.DefaultID))

	_, err = ts.Client.ReorderTasks(ctx, dto.ReorderRequest{
		TaskID:       created[0].ID,
		EndIndex:     2,
		ExpectedTick: &first.Tick,
	})
	require.NoError(t, err)
	require.Equal(t, []string{"C", "B", "A"}, sequence(t, ts.Client, project.DefaultID))
}

func TestScenario_ProjectDeleteGuard(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	empty, err := ts.Client.CreateProject(ctx, dto.CreateProjectRequest{Name: "Пустой"})
	require.NoError(t, err)
	require.NoError(t, ts.Client.DeleteProject(ctx, empty.ID))

	busy, err := ts.Client.CreateProject(ctx, dto.CreateProjectRequest{Name: "Занятый"})
	require.NoError(t, err)
	req := newTask("A")
	req.ProjectID = busy.ID
	kept, err := ts.Client.CreateTask(ctx, req)
	require.NoError(t, err)

	err = ts.Client.DeleteProject(ctx, busy.ID)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, 400, apiErr.StatusCode)

	got, err := ts.Client.GetProject(ctx, busy.ID)
	require.NoError(t, err)
	require.Equal(t, 1, got.TasksCount)
	_, err = ts.Client.GetTask(ctx, kept.ID)
	require.NoError(t, err)
}

func TestScenario_BoardsConvergeOverLiveFeed(t *testing.T) {
	ts := testserver.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	writer := view.NewStore(ts.Client, project.DefaultID)
	reader := view.NewStore(ts.Client, project.DefaultID)
	require.NoError(t, reader.Refresh(ctx))

	events, err := ts.Client.Subscribe(ctx)
	require.NoError(t, err)
	ts.WaitForClients(t, 1)

	created, err := writer.Add(ctx, newTask("A"))
	require.NoError(t, err)

	select {
	case ev := <-events:
		require.Equal(t, task.EventCreated, ev.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	require.NoError(t, reader.Refresh(ctx))
	visible := reader.Visible()
	require.Len(t, visible, 1)
	require.Equal(t, created.ID, visible[0].ID)
}

func TestScenario_AgentAndAPIShareState(t *testing.T) {
	ts := testserver.New(t)
	session := ts.ConnectMCP(t)
	ctx := context.Background()

	result, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name: "create_task",
		Arguments: map[string]any{
			"date":     "2024-05-01",
			"result":   "r",
			"object":   "Агент",
			"task":     "t",
			"assignee": "Мария",
			"status":   string(task.StatusCheck),
		},
	})
	require.NoError(t, err)
	require.False(t, result.IsError)

	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	var fromAgent task.Task
	require.NoError(t, json.Unmarshal([]byte(text.Text), &fromAgent))

	fromAPI, err := ts.Client.GetTask(ctx, fromAgent.ID)
	require.NoError(t, err)
	require.Equal(t, "Агент", fromAPI.Object)
	require.Equal(t, task.StatusCheck.Label(), fromAPI.StatusLabel)
	require.Equal(t, project.DefaultID, fromAPI.ProjectID)
}

func TestScenario_SeededBoard(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	data, err := seed.Sample()
	require.NoError(t, err)
	summary, err := seed.New(ts.DB, ts.Tasks, ts.SubTasks, nil).Run(ctx, data)
	require.NoError(t, err)
	require.Equal(t, len(data.Tasks), summary.Tasks)

	board := view.NewStore(ts.Client, project.DefaultID)
	require.NoError(t, board.Refresh(ctx))
	require.Len(t, board.Visible(), len(data.Tasks))
	require.Equal(t, data.Tasks[0].Object, board.Visible()[0].Object)

	for _, option := range board.FilterOptions()[1:] {
		board.SetFilter(option)
		visible := board.Visible()
		require.Equal(t, visible, board.Visible())
		require.True(t, slices.IsSortedFunc(visible, task.CompareOrder), "filter %s", option)
	}
}
