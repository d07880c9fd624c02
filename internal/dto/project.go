package dto

import "github.com/rpggio/tasker/internal/domain/project"

type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (r CreateProjectRequest) ToDomain() project.CreateRequest {
	return project.CreateRequest{Name: r.Name, Description: r.Description}
}

type UpdateProjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

func (r UpdateProjectRequest) ToDomain() project.UpdateRequest {
	return project.UpdateRequest{Name: r.Name, Description: r.Description}
}
