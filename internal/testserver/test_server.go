package testserver

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/tasker/internal/client"
	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/domain/subtask"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/live"
	"github.com/rpggio/tasker/internal/mcp"
	"github.com/rpggio/tasker/internal/store"
	"github.com/rpggio/tasker/internal/transport"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	DB     *store.DB
	Hub    *live.Hub
	MCP    *sdkmcp.Server
	Client *client.Client

	Projects *project.Service
	Tasks    *task.Service
	SubTasks *subtask.Service
}

// New starts a fully wired server backed by an in-memory database.
func New(t *testing.T) *TestServer {
	t.Helper()

	db, err := store.New(store.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	ctx, cancel := context.WithCancel(context.Background())
	hub := live.NewHub(nil)
	go hub.Run(ctx)

	projectRepo := store.NewProjectRepository(db)
	taskRepo := store.NewTaskRepository(db)
	subTaskRepo := store.NewSubTaskRepository(db)

	projectSvc := project.NewService(projectRepo, hub, nil)
	taskSvc := task.NewService(taskRepo, projectRepo, hub, nil)
	subTaskSvc := subtask.NewService(subTaskRepo, taskSvc, hub, nil)

	mcpServer := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: projectSvc,
			Tasks:    taskSvc,
			SubTasks: subTaskSvc,
		},
	})

	server := httptest.NewServer(transport.NewServer(transport.Options{
		Projects:    projectSvc,
		Tasks:       taskSvc,
		SubTasks:    subTaskSvc,
		Development: true,
		Live:        live.NewHandler(hub, nil),
		MCP:         mcp.NewHTTPHandler(mcpServer, time.Minute),
	}))

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Hub:      hub,
		MCP:      mcpServer,
		Client:   client.New(server.URL, 5*time.Second, nil),
		Projects: projectSvc,
		Tasks:    taskSvc,
		SubTasks: subTaskSvc,
	}

	t.Cleanup(func() {
		server.Close()
		cancel()
		_ = db.Close()
	})

	return ts
}

// ConnectMCP opens an in-memory MCP client session against the server.
func (ts *TestServer) ConnectMCP(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	ctx := context.Background()
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()

	serverSession, err := ts.MCP.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	c := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "tasker-test", Version: "0.0.1"}, nil)
	session, err := c.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})
	return session
}

// WaitForClients blocks until n websocket clients are registered.
func (ts *TestServer) WaitForClients(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return ts.Hub.Clients() >= n
	}, 2*time.Second, 10*time.Millisecond)
}
