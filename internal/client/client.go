// Package client is a typed HTTP client for the tasker REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/dto"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsConflict reports whether err is a 409 from the server.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
}

// Client talks to a tasker server.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a client for baseURL (for example http://localhost:3001).
func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: timeout,
		logger:  logger,
	}
}

// ReorderResult is the server response to a move.
type ReorderResult struct {
	Tick  int64
	Tasks []task.Task
}

func (c *Client) Health(ctx context.Context) (*dto.HealthResponse, error) {
	var out dto.HealthResponse
	_, err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return &out, err
}

func (c *Client) ListProjects(ctx context.Context) ([]project.Project, error) {
	var out []project.Project
	_, err := c.do(ctx, http.MethodGet, "/api/projects", nil, &out)
	return out, err
}

func (c *Client) GetProject(ctx context.Context, id string) (*project.Project, error) {
	var out project.Project
	if _, err := c.do(ctx, http.MethodGet, "/api/projects/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProject(ctx context.Context, req dto.CreateProjectRequest) (*project.Project, error) {
	var out project.Project
	if _, err := c.do(ctx, http.MethodPost, "/api/projects", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateProject(ctx context.Context, id string, req dto.UpdateProjectRequest) (*project.Project, error) {
	var out project.Project
	if _, err := c.do(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil)
	return err
}

// ListTasks returns tasks in display order. An empty projectID lists every
// project.
func (c *Client) ListTasks(ctx context.Context, projectID string) ([]task.Task, error) {
	path := "/api/tasks"
	if projectID != "" {
		path += "?" + url.Values{"projectId": {projectID}}.Encode()
	}
	var out []task.Task
	_, err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) GetTask(ctx context.Context, id string) (*task.Task, error) {
	var out task.Task
	if _, err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateTask(ctx context.Context, req dto.CreateTaskRequest) (*task.Task, error) {
	var out task.Task
	if _, err := c.do(ctx, http.MethodPost, "/api/tasks", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, req dto.UpdateTaskRequest) (*task.Task, error) {
	var out task.Task
	if _, err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) ReorderTasks(ctx context.Context, req dto.ReorderRequest) (*ReorderResult, error) {
	var out []task.Task
	header, err := c.do(ctx, http.MethodPost, "/api/tasks/reorder", req, &out)
	if err != nil {
		return nil, err
	}
	tick, _ := strconv.ParseInt(header.Get(dto.TickHeader), 10, 64)
	return &ReorderResult{Tick: tick, Tasks: out}, nil
}

func (c *Client) ListSubTasks(ctx context.Context, taskID string) ([]task.SubTask, error) {
	var out []task.SubTask
	_, err := c.do(ctx, http.MethodGet, "/api/tasks/"+url.PathEscape(taskID)+"/subtasks", nil, &out)
	return out, err
}

func (c *Client) CreateSubTask(ctx context.Context, req dto.CreateSubTaskRequest) (*task.SubTask, error) {
	var out task.SubTask
	if _, err := c.do(ctx, http.MethodPost, "/api/tasks/subtasks", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateSubTask(ctx context.Context, id string, req dto.UpdateSubTaskRequest) (*task.SubTask, error) {
	var out task.SubTask
	if _, err := c.do(ctx, http.MethodPut, "/api/tasks/subtasks/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSubTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/tasks/subtasks/"+url.PathEscape(id), nil, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (http.Header, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id := middleware.GetReqID(ctx); id != "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("api request failed", "method", method, "path", path, "error", err)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= 300 {
		var apiErr dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return resp.Header, &APIError{StatusCode: resp.StatusCode, Message: apiErr.Message, Details: apiErr.Details}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.Header, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp.Header, nil
}
