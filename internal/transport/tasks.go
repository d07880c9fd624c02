package transport

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/dto"
	"github.com/rpggio/tasker/internal/view"
)

// listTasks returns tasks in display order. The optional projectId, search
// and filter query parameters narrow the list the same way the client view
// does.
func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	projectID := q.Get("projectId")

	tasks, err := s.tasks.List(r.Context(), task.ListOptions{ProjectID: projectID})
	if err != nil {
		s.fail(w, r, err, "failed to list tasks")
		return
	}

	if q.Has("search") || q.Has("filter") {
		tasks = view.Apply(tasks, view.Criteria{
			ProjectID:    projectID,
			SearchTerm:   q.Get("search"),
			ActiveFilter: q.Get("filter"),
		})
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.tasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, "failed to get task")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err, "failed to create task")
		return
	}

	t, err := s.tasks.Create(r.Context(), req.ToDomain())
	if err != nil {
		s.fail(w, r, err, "failed to create task")
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err, "failed to update task")
		return
	}

	t, err := s.tasks.Update(r.Context(), chi.URLParam(r, "id"), req.ToDomain())
	if err != nil {
		s.fail(w, r, err, "failed to update task")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err, "failed to delete task")
		return
	}
	writeJSON(w, http.StatusOK, dto.DeleteResponse{Success: true, Message: "task deleted"})
}

func (s *Server) reorderTasks(w http.ResponseWriter, r *http.Request) {
	var req dto.ReorderRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err, "failed to reorder tasks")
		return
	}

	result, err := s.tasks.Reorder(r.Context(), req.ToDomain())
	if err != nil {
		s.fail(w, r, err, "failed to reorder tasks")
		return
	}
	w.Header().Set(dto.TickHeader, strconv.FormatInt(result.Tick, 10))
	writeJSON(w, http.StatusOK, result.Tasks)
}
