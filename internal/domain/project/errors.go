package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("project name is required")
	// ErrHasTasks indicates the project still owns tasks and cannot be deleted.
	ErrHasTasks = errors.New("cannot delete a project that contains tasks")
)
