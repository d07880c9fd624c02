package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/domain/subtask"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/dto"
	"github.com/rs/cors"
)

// ProjectService is the project API used by the handlers.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
	Update(ctx context.Context, id string, req project.UpdateRequest) (*project.Project, error)
	Delete(ctx context.Context, id string) error
}

// TaskService is the task API used by the handlers.
type TaskService interface {
	Create(ctx context.Context, req task.CreateRequest) (*task.Task, error)
	Get(ctx context.Context, id string) (*task.Task, error)
	List(ctx context.Context, opts task.ListOptions) ([]task.Task, error)
	Update(ctx context.Context, id string, req task.UpdateRequest) (*task.Task, error)
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, req task.ReorderRequest) (*task.ReorderResult, error)
}

// SubTaskService is the subtask API used by the handlers.
type SubTaskService interface {
	Create(ctx context.Context, req subtask.CreateRequest) (*task.SubTask, error)
	Get(ctx context.Context, id string) (*task.SubTask, error)
	ListByTask(ctx context.Context, taskID string) ([]task.SubTask, error)
	Update(ctx context.Context, id string, req subtask.UpdateRequest) (*task.SubTask, error)
	Delete(ctx context.Context, id string) error
}

// Options configures the HTTP server.
type Options struct {
	Projects ProjectService
	Tasks    TaskService
	SubTasks SubTaskService

	Logger *slog.Logger
	// Development adds error details to 500 responses.
	Development bool
	// CORSOrigins defaults to every origin.
	CORSOrigins []string

	// Live serves the websocket change feed when set.
	Live http.Handler
	// MCP serves the MCP endpoint when set.
	MCP http.Handler
}

// Server wires HTTP handlers.
type Server struct {
	projects    ProjectService
	tasks       TaskService
	subtasks    SubTaskService
	logger      *slog.Logger
	development bool
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	srv := &Server{
		projects:    opts.Projects,
		tasks:       opts.Tasks,
		subtasks:    opts.SubTasks,
		logger:      logger,
		development: opts.Development,
	}

	origins := opts.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogging(logger))
	r.Use(Metrics)
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodPatch,
		},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{dto.TickHeader},
	}).Handler)

	r.Get("/health", srv.handleHealth)
	r.Handle("/metrics", MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/projects", func(r chi.Router) {
			r.Get("/", srv.listProjects)
			r.Post("/", srv.createProject)
			r.Get("/{id}", srv.getProject)
			r.Put("/{id}", srv.updateProject)
			r.Delete("/{id}", srv.deleteProject)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", srv.listTasks)
			r.Post("/", srv.createTask)
			r.Post("/reorder", srv.reorderTasks)

			r.Post("/subtasks", srv.createSubTask)
			r.Get("/subtasks/{id}", srv.getSubTask)
			r.Put("/subtasks/{id}", srv.updateSubTask)
			r.Delete("/subtasks/{id}", srv.deleteSubTask)

			r.Get("/{id}", srv.getTask)
			r.Put("/{id}", srv.updateTask)
			r.Delete("/{id}", srv.deleteTask)
			r.Get("/{id}/subtasks", srv.listSubTasks)
		})

		if opts.Live != nil {
			r.Handle("/ws", opts.Live)
		}
	})

	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "route not found", "")
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.HealthResponse{Status: "ok", Message: "Server is running"})
}
