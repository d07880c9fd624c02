package transport_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/dto"
	"github.com/rpggio/tasker/internal/live"
	"github.com/rpggio/tasker/internal/testserver"
	"github.com/stretchr/testify/require"
)

func doRequest(t *testing.T, ts *testserver.TestServer, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		if raw, ok := body.(string); ok {
			reader = strings.NewReader(raw)
		} else {
			data, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func newTask(object string) dto.CreateTaskRequest {
	return dto.CreateTaskRequest{
		Date:     "2024-05-01",
		Result:   "result " + object,
		Object:   object,
		Task:     "task " + object,
		Assignee: "Иван",
	}
}

func createTask(t *testing.T, ts *testserver.TestServer, req dto.CreateTaskRequest) task.Task {
	t.Helper()
	resp := doRequest(t, ts, http.MethodPost, "/api/tasks", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[task.Task](t, resp)
}

func objects(tasks []task.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, tk := range tasks {
		out = append(out, tk.Object)
	}
	return out
}

func TestHealth(t *testing.T) {
	ts := testserver.New(t)

	resp := doRequest(t, ts, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", decode[dto.HealthResponse](t, resp).Status)
}

func TestProjects_CRUD(t *testing.T) {
	ts := testserver.New(t)

	resp := doRequest(t, ts, http.MethodPost, "/api/projects", dto.CreateProjectRequest{Name: "Backend"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[project.Project](t, resp)
	require.Equal(t, "Backend", created.Name)

	resp = doRequest(t, ts, http.MethodGet, "/api/projects", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	projects := decode[[]project.Project](t, resp)
	require.Len(t, projects, 2)

	name := "Platform"
	resp = doRequest(t, ts, http.MethodPut, "/api/projects/"+created.ID, dto.UpdateProjectRequest{Name: &name})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "Platform", decode[project.Project](t, resp).Name)

	resp = doRequest(t, ts, http.MethodDelete, "/api/projects/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, decode[dto.DeleteResponse](t, resp).Success)

	resp = doRequest(t, ts, http.MethodGet, "/api/projects/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	errResp := decode[dto.ErrorResponse](t, resp)
	require.True(t, errResp.Error)
	require.NotEmpty(t, errResp.Message)
}

func TestProjects_DeleteWithTasks(t *testing.T) {
	ts := testserver.New(t)
	createTask(t, ts, newTask("A"))

	resp := doRequest(t, ts, http.MethodDelete, "/api/projects/"+project.DefaultID, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, ts, http.MethodGet, "/api/projects/"+project.DefaultID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, 1, decode[project.Project](t, resp).TasksCount)
}

func TestTasks_CreateAppendsInOrder(t *testing.T) {
	ts := testserver.New(t)

	first := createTask(t, ts, newTask("A"))
	second := createTask(t, ts, newTask("B"))

	require.Equal(t, project.DefaultID, first.ProjectID)
	require.Equal(t, task.DefaultStatus, first.Status)
	require.Equal(t, task.DefaultStatus.Label(), first.StatusLabel)
	require.NotNil(t, first.Order)
	require.NotNil(t, second.Order)
	require.Equal(t, 0, *first.Order)
	require.Equal(t, 1, *second.Order)
	require.NotNil(t, first.SubTasks)
}

func TestTasks_CreateValidation(t *testing.T) {
	ts := testserver.New(t)

	req := newTask("A")
	req.Assignee = ""
	resp := doRequest(t, ts, http.MethodPost, "/api/tasks", req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, decode[dto.ErrorResponse](t, resp).Message, "assignee")

	req = newTask("A")
	req.Status = "bogus"
	resp = doRequest(t, ts, http.MethodPost, "/api/tasks", req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	req = newTask("A")
	req.ProjectID = "missing"
	resp = doRequest(t, ts, http.MethodPost, "/api/tasks", req)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, ts, http.MethodPost, "/api/tasks", `{"date":`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.True(t, decode[dto.ErrorResponse](t, resp).Error)
}

func TestTasks_UpdateAndDelete(t *testing.T) {
	ts := testserver.New(t)
	created := createTask(t, ts, newTask("A"))

	status := string(task.StatusCheck)
	resp := doRequest(t, ts, http.MethodPut, "/api/tasks/"+created.ID, dto.UpdateTaskRequest{Status: &status})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[task.Task](t, resp)
	require.Equal(t, task.StatusCheck, updated.Status)
	require.Equal(t, task.StatusCheck.Label(), updated.StatusLabel)
	require.Equal(t, created.Object, updated.Object)

	resp = doRequest(t, ts, http.MethodDelete, "/api/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, ts, http.MethodGet, "/api/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, ts, http.MethodDelete, "/api/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTasks_ListFilters(t *testing.T) {
	ts := testserver.New(t)

	a := newTask("Alpha")
	b := newTask("Beta")
	b.Assignee = "Мария"
	createTask(t, ts, a)
	createTask(t, ts, b)

	resp := doRequest(t, ts, http.MethodGet, "/api/tasks?projectId="+project.DefaultID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"Alpha", "Beta"}, objects(decode[[]task.Task](t, resp)))

	resp = doRequest(t, ts, http.MethodGet, "/api/tasks?search=beta", nil)
	require.Equal(t, []string{"Beta"}, objects(decode[[]task.Task](t, resp)))

	resp = doRequest(t, ts, http.MethodGet, "/api/tasks?filter=%D0%9C%D0%B0%D1%80%D0%B8%D1%8F", nil)
	require.Equal(t, []string{"Beta"}, objects(decode[[]task.Task](t, resp)))

	resp = doRequest(t, ts, http.MethodGet, "/api/tasks?filter=all", nil)
	require.Len(t, decode[[]task.Task](t, resp), 2)
}

func TestTasks_Reorder(t *testing.T) {
	ts := testserver.New(t)

	var created []task.Task
	for _, name := range []string{"A", "B", "C", "D"} {
		created = append(created, createTask(t, ts, newTask(name)))
	}

	resp := doRequest(t, ts, http.MethodPost, "/api/tasks/reorder", dto.ReorderRequest{
		TaskID:     created[0].ID,
		StartIndex: 0,
		EndIndex:   2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tick, err := strconv.ParseInt(resp.Header.Get(dto.TickHeader), 10, 64)
	require.NoError(t, err)

	tasks := decode[[]task.Task](t, resp)
	require.Equal(t, []string{"B", "C", "A", "D"}, objects(tasks))
	for i, tk := range tasks {
		require.Equal(t, i, *tk.Order)
	}

	stale := tick - 1
	resp = doRequest(t, ts, http.MethodPost, "/api/tasks/reorder", dto.ReorderRequest{
		TaskID:       created[0].ID,
		StartIndex:   2,
		EndIndex:     0,
		ExpectedTick: &stale,
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doRequest(t, ts, http.MethodPost, "/api/tasks/reorder", dto.ReorderRequest{
		TaskID:       created[3].ID,
		StartIndex:   3,
		EndIndex:     0,
		ExpectedTick: &tick,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, []string{"D", "B", "C", "A"}, objects(decode[[]task.Task](t, resp)))

	resp = doRequest(t, ts, http.MethodPost, "/api/tasks/reorder", dto.ReorderRequest{TaskID: "missing"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSubTasks_Routes(t *testing.T) {
	ts := testserver.New(t)
	parent := createTask(t, ts, newTask("A"))

	resp := doRequest(t, ts, http.MethodPost, "/api/tasks/subtasks", dto.CreateSubTaskRequest{
		TaskID:      parent.ID,
		Object:      "part",
		Description: "first",
		Assignee:    "Иван",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	st := decode[task.SubTask](t, resp)
	require.Equal(t, task.DefaultStatus, st.Status)

	resp = doRequest(t, ts, http.MethodGet, "/api/tasks/"+parent.ID+"/subtasks", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, decode[[]task.SubTask](t, resp), 1)

	desc := "second"
	resp = doRequest(t, ts, http.MethodPut, "/api/tasks/subtasks/"+st.ID, dto.UpdateSubTaskRequest{Description: &desc})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "second", decode[task.SubTask](t, resp).Description)

	resp = doRequest(t, ts, http.MethodPost, "/api/tasks/subtasks", dto.CreateSubTaskRequest{
		TaskID:      "missing",
		Object:      "part",
		Description: "first",
		Assignee:    "Иван",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Deleting the task removes its subtasks.
	resp = doRequest(t, ts, http.MethodDelete, "/api/tasks/"+parent.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doRequest(t, ts, http.MethodGet, "/api/tasks/subtasks/"+st.ID, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownRoute(t *testing.T) {
	ts := testserver.New(t)

	resp := doRequest(t, ts, http.MethodGet, "/api/nothing", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.True(t, decode[dto.ErrorResponse](t, resp).Error)
}

func TestCORS(t *testing.T) {
	ts := testserver.New(t)

	req, err := http.NewRequest(http.MethodGet, ts.Server.URL+"/api/projects", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	require.Contains(t, resp.Header.Get("Access-Control-Expose-Headers"), dto.TickHeader)
}

func TestMetrics(t *testing.T) {
	ts := testserver.New(t)
	doRequest(t, ts, http.MethodGet, "/api/projects", nil)

	resp := doRequest(t, ts, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "tasker_http_requests_total")
}

func TestLiveEvents(t *testing.T) {
	ts := testserver.New(t)

	wsURL := "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	resp.Body.Close()
	defer conn.Close()
	ts.WaitForClients(t, 1)

	created := createTask(t, ts, newTask("A"))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev live.Event
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, task.EventCreated, ev.Type)

	var payload task.Task
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	require.Equal(t, created.ID, payload.ID)
}
