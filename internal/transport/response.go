package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/domain/subtask"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/dto"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

var errBadBody = errors.New("invalid request body")

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{Error: true, Message: message, Details: details})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadBody, err)
	}
	return nil
}

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, task.ErrTaskNotFound),
		errors.Is(err, subtask.ErrSubTaskNotFound),
		errors.Is(err, subtask.ErrTaskNotFound):
		return http.StatusNotFound
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, project.ErrHasTasks),
		errors.Is(err, task.ErrInvalidInput),
		errors.Is(err, task.ErrInvalidStatus),
		errors.Is(err, task.ErrProjectNotFound),
		errors.Is(err, subtask.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, task.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope for err. Client errors carry the error
// text; server errors carry fallback and, in development, the cause.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := statusFor(err)
	if status < http.StatusInternalServerError {
		writeError(w, status, err.Error(), "")
		return
	}

	s.logger.Error(fallback,
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	)
	details := ""
	if s.development {
		details = err.Error()
	}
	writeError(w, status, fallback, details)
}
