package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rpggio/tasker/internal/client"
	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/dto"
	"github.com/rpggio/tasker/internal/testserver"
	"github.com/stretchr/testify/require"
)

func sampleTask(object string) dto.CreateTaskRequest {
	return dto.CreateTaskRequest{
		Date:     "2024-05-01",
		Result:   "r",
		Object:   object,
		Task:     "t",
		Assignee: "Иван",
	}
}

func TestClient_Health(t *testing.T) {
	ts := testserver.New(t)

	health, err := ts.Client.Health(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ok", health.Status)
}

func TestClient_Projects(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	created, err := ts.Client.CreateProject(ctx, dto.CreateProjectRequest{Name: "Ops"})
	require.NoError(t, err)

	got, err := ts.Client.GetProject(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Ops", got.Name)

	_, err = ts.Client.GetProject(ctx, "missing")
	require.True(t, client.IsNotFound(err))

	_, err = ts.Client.CreateProject(ctx, dto.CreateProjectRequest{Name: ""})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.StatusCode)

	require.NoError(t, ts.Client.DeleteProject(ctx, created.ID))
	projects, err := ts.Client.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, project.DefaultID, projects[0].ID)
}

func TestClient_TasksAndReorder(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		created, err := ts.Client.CreateTask(ctx, sampleTask(name))
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	res, err := ts.Client.ReorderTasks(ctx, dto.ReorderRequest{TaskID: ids[2], StartIndex: 2, EndIndex: 0})
	require.NoError(t, err)
	require.Positive(t, res.Tick)
	require.Equal(t, ids[2], res.Tasks[0].ID)

	stale := res.Tick - 1
	_, err = ts.Client.ReorderTasks(ctx, dto.ReorderRequest{TaskID: ids[0], EndIndex: 2, ExpectedTick: &stale})
	require.True(t, client.IsConflict(err))

	tasks, err := ts.Client.ListTasks(ctx, project.DefaultID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	require.Equal(t, ids[2], tasks[0].ID)

	assignee := "Мария"
	updated, err := ts.Client.UpdateTask(ctx, ids[0], dto.UpdateTaskRequest{Assignee: &assignee})
	require.NoError(t, err)
	require.Equal(t, "Мария", updated.Assignee)

	require.NoError(t, ts.Client.DeleteTask(ctx, ids[0]))
	_, err = ts.Client.GetTask(ctx, ids[0])
	require.True(t, client.IsNotFound(err))
}

func TestClient_SubTasks(t *testing.T) {
	ts := testserver.New(t)
	ctx := context.Background()

	parent, err := ts.Client.CreateTask(ctx, sampleTask("A"))
	require.NoError(t, err)

	st, err := ts.Client.CreateSubTask(ctx, dto.CreateSubTaskRequest{
		TaskID:      parent.ID,
		Object:      "part",
		Description: "d",
		Status:      string(task.StatusBlocked),
		Assignee:    "Иван",
	})
	require.NoError(t, err)
	require.Equal(t, task.StatusBlocked.Label(), st.StatusLabel)

	status := string(task.StatusCheck)
	st, err = ts.Client.UpdateSubTask(ctx, st.ID, dto.UpdateSubTaskRequest{Status: &status})
	require.NoError(t, err)
	require.Equal(t, task.StatusCheck, st.Status)

	list, err := ts.Client.ListSubTasks(ctx, parent.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, ts.Client.DeleteSubTask(ctx, st.ID))
	list, err = ts.Client.ListSubTasks(ctx, parent.ID)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestClient_Subscribe(t *testing.T) {
	ts := testserver.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events, err := ts.Client.Subscribe(ctx)
	require.NoError(t, err)
	ts.WaitForClients(t, 1)

	created, err := ts.Client.CreateTask(ctx, sampleTask("A"))
	require.NoError(t, err)

	select {
	case ev := <-events:
		require.Equal(t, task.EventCreated, ev.Type)
		require.Contains(t, string(ev.Payload), created.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	cancel()
	require.Eventually(t, func() bool {
		_, ok := <-events
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClient_SubscribeServerHangup(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer server.Close()

	c := client.New(server.URL, time.Second, nil)
	baseline := runtime.NumGoroutine()
	events, err := c.Subscribe(context.Background())
	require.NoError(t, err)

	select {
	case _, ok := <-events:
		require.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("feed not closed after server hangup")
	}

	// Both feed goroutines exit without the context being cancelled.
	require.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= baseline
	}, 2*time.Second, 10*time.Millisecond)
}
