package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/repository"
)

// SubTaskRepository implements subtask.Repository.
type SubTaskRepository struct {
	db *DB
}

// NewSubTaskRepository creates a new SubTaskRepository
func NewSubTaskRepository(db *DB) *SubTaskRepository {
	return &SubTaskRepository{db: db}
}

const subtaskColumns = `
	id, task_id, object, description, status, status_label, assignee, created_at, updated_at
`

func scanSubTask(row interface{ Scan(...any) error }) (*task.SubTask, error) {
	var st task.SubTask
	err := row.Scan(
		&st.ID,
		&st.TaskID,
		&st.Object,
		&st.Description,
		&st.Status,
		&st.StatusLabel,
		&st.Assignee,
		&st.CreatedAt,
		&st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

// listSubTasks returns subtasks matching where, oldest first.
func listSubTasks(ctx context.Context, db *DB, where string, args ...any) ([]task.SubTask, error) {
	query := db.Rebind(`SELECT ` + subtaskColumns + ` FROM subtasks ` + where + ` ORDER BY created_at ASC, id`)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks: %w", err)
	}
	defer rows.Close()

	subtasks := []task.SubTask{}
	for rows.Next() {
		st, err := scanSubTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subtask: %w", err)
		}
		subtasks = append(subtasks, *st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subtask rows: %w", err)
	}
	return subtasks, nil
}

// Create inserts a subtask.
func (r *SubTaskRepository) Create(ctx context.Context, st *task.SubTask) error {
	query := r.db.Rebind(`
		INSERT INTO subtasks (` + subtaskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		st.ID,
		st.TaskID,
		st.Object,
		st.Description,
		st.Status,
		st.StatusLabel,
		st.Assignee,
		st.CreatedAt.UTC(),
		st.UpdatedAt.UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create subtask: %w", err)
	}
	return nil
}

// Get retrieves a subtask by ID.
func (r *SubTaskRepository) Get(ctx context.Context, id string) (*task.SubTask, error) {
	query := r.db.Rebind(`SELECT ` + subtaskColumns + ` FROM subtasks WHERE id = ?`)

	st, err := scanSubTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subtask: %w", err)
	}
	return st, nil
}

// ListByTask returns the subtasks of a task, oldest first.
func (r *SubTaskRepository) ListByTask(ctx context.Context, taskID string) ([]task.SubTask, error) {
	return listSubTasks(ctx, r.db, `WHERE task_id = ?`, taskID)
}

// Update writes the editable subtask fields.
func (r *SubTaskRepository) Update(ctx context.Context, st *task.SubTask) error {
	query := r.db.Rebind(`
		UPDATE subtasks
		SET object = ?, description = ?, status = ?, status_label = ?, assignee = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query,
		st.Object,
		st.Description,
		st.Status,
		st.StatusLabel,
		st.Assignee,
		st.UpdatedAt.UTC(),
		st.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subtask: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a subtask.
func (r *SubTaskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM subtasks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete subtask: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
