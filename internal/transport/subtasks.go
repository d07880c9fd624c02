package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/tasker/internal/dto"
)

func (s *Server) listSubTasks(w http.ResponseWriter, r *http.Request) {
	subtasks, err := s.subtasks.ListByTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, "failed to list subtasks")
		return
	}
	writeJSON(w, http.StatusOK, subtasks)
}

func (s *Server) getSubTask(w http.ResponseWriter, r *http.Request) {
	st, err := s.subtasks.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, "failed to get subtask")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) createSubTask(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateSubTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err, "failed to create subtask")
		return
	}

	st, err := s.subtasks.Create(r.Context(), req.ToDomain())
	if err != nil {
		s.fail(w, r, err, "failed to create subtask")
		return
	}
	writeJSON(w, http.StatusCreated, st)
}

func (s *Server) updateSubTask(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSubTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err, "failed to update subtask")
		return
	}

	st, err := s.subtasks.Update(r.Context(), chi.URLParam(r, "id"), req.ToDomain())
	if err != nil {
		s.fail(w, r, err, "failed to update subtask")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) deleteSubTask(w http.ResponseWriter, r *http.Request) {
	if err := s.subtasks.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err, "failed to delete subtask")
		return
	}
	writeJSON(w, http.StatusOK, dto.DeleteResponse{Success: true, Message: "subtask deleted"})
}
