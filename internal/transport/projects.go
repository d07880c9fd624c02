package transport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rpggio/tasker/internal/dto"
)

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.projects.List(r.Context())
	if err != nil {
		s.fail(w, r, err, "failed to list projects")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	proj, err := s.projects.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err, "failed to get project")
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err, "failed to create project")
		return
	}

	proj, err := s.projects.Create(r.Context(), req.ToDomain())
	if err != nil {
		s.fail(w, r, err, "failed to create project")
		return
	}
	writeJSON(w, http.StatusCreated, proj)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProjectRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err, "failed to update project")
		return
	}

	proj, err := s.projects.Update(r.Context(), chi.URLParam(r, "id"), req.ToDomain())
	if err != nil {
		s.fail(w, r, err, "failed to update project")
		return
	}
	writeJSON(w, http.StatusOK, proj)
}

func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, r, err, "failed to delete project")
		return
	}
	writeJSON(w, http.StatusOK, dto.DeleteResponse{Success: true, Message: "project deleted"})
}
