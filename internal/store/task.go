package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/repository"
)

// TaskRepository implements task.Repository.
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `
	id, project_id, date, result, object, task, status, status_label,
	assignee, position, created_at, updated_at
`

// Display order: positioned tasks first, then newest.
const taskOrder = `ORDER BY position IS NULL, position, created_at DESC`

func scanTask(row interface{ Scan(...any) error }) (*task.Task, error) {
	var t task.Task
	var position sql.NullInt64
	err := row.Scan(
		&t.ID,
		&t.ProjectID,
		&t.Date,
		&t.Result,
		&t.Object,
		&t.Task,
		&t.Status,
		&t.StatusLabel,
		&t.Assignee,
		&position,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if position.Valid {
		v := int(position.Int64)
		t.Order = &v
	}
	t.SubTasks = []task.SubTask{}
	return &t, nil
}

// nextPosition returns the position after the last task in a project.
func (r *TaskRepository) nextPosition(ctx context.Context, tx *sql.Tx, projectID string) (int, error) {
	var next int
	query := r.db.Rebind(`SELECT COALESCE(MAX(position), -1) + 1 FROM tasks WHERE project_id = ?`)
	if err := tx.QueryRowContext(ctx, query, projectID).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to compute next position: %w", err)
	}
	return next, nil
}

// Create inserts t at the end of its project. The project tick is bumped
// first so concurrent creates in one project serialize on its row.
func (r *TaskRepository) Create(ctx context.Context, t *task.Task) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := r.db.bumpTick(ctx, tx, t.ProjectID); err != nil {
		return err
	}

	pos, err := r.nextPosition(ctx, tx, t.ProjectID)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err = tx.ExecContext(ctx, query,
		t.ID,
		t.ProjectID,
		t.Date,
		t.Result,
		t.Object,
		t.Task,
		t.Status,
		t.StatusLabel,
		t.Assignee,
		pos,
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create task: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	t.Order = &pos
	return nil
}

// Get retrieves a task with its subtasks.
func (r *TaskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	query := r.db.Rebind(`SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`)

	t, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	subtasks, err := listSubTasks(ctx, r.db, `WHERE task_id = ?`, id)
	if err != nil {
		return nil, err
	}
	t.SubTasks = append(t.SubTasks, subtasks...)

	return t, nil
}

// List returns tasks in display order with their subtasks attached.
func (r *TaskRepository) List(ctx context.Context, opts task.ListOptions) ([]task.Task, error) {
	where, args := "", []any{}
	subWhere := ""
	if opts.ProjectID != "" {
		where = `WHERE project_id = ?`
		subWhere = `WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)`
		args = append(args, opts.ProjectID)
	}

	query := r.db.Rebind(`SELECT ` + taskColumns + ` FROM tasks ` + where + ` ` + taskOrder)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := []task.Task{}
	index := map[string]int{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		index[t.ID] = len(tasks)
		tasks = append(tasks, *t)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("error iterating task rows: %w", err)
	}

	subtasks, err := listSubTasks(ctx, r.db, subWhere, args...)
	if err != nil {
		return nil, err
	}
	for _, st := range subtasks {
		if i, ok := index[st.TaskID]; ok {
			tasks[i].SubTasks = append(tasks[i].SubTasks, st)
		}
	}

	return tasks, nil
}

// Update writes every editable field of t. A task moved to another project
// is appended to the end of that project and both project ticks advance.
func (r *TaskRepository) Update(ctx context.Context, t *task.Task, prevProjectID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE tasks
		SET project_id = ?, date = ?, result = ?, object = ?, task = ?,
			status = ?, status_label = ?, assignee = ?, updated_at = ?
		WHERE id = ?
	`
	args := []any{
		t.ProjectID, t.Date, t.Result, t.Object, t.Task,
		t.Status, t.StatusLabel, t.Assignee, t.UpdatedAt.UTC(),
		t.ID,
	}

	moved := t.ProjectID != prevProjectID
	var pos int
	if moved {
		if err := r.db.bumpTick(ctx, tx, t.ProjectID); err != nil {
			return err
		}
		if pos, err = r.nextPosition(ctx, tx, t.ProjectID); err != nil {
			return err
		}
		query = `
			UPDATE tasks
			SET project_id = ?, date = ?, result = ?, object = ?, task = ?,
				status = ?, status_label = ?, assignee = ?, updated_at = ?, position = ?
			WHERE id = ?
		`
		args = append(args[:len(args)-1], pos, t.ID)
	}

	result, err := tx.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	if moved {
		if err := r.db.bumpTick(ctx, tx, prevProjectID); err != nil && !errors.Is(err, repository.ErrForeignKeyViolation) {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if moved {
		t.Order = &pos
	}
	return nil
}

// Delete removes a task; its subtasks cascade. Remaining positions are
// left as they are.
func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var projectID string
	err = tx.QueryRowContext(ctx, r.db.Rebind(`SELECT project_id FROM tasks WHERE id = ?`), id).Scan(&projectID)
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	if _, err := tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM tasks WHERE id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	if err := r.db.bumpTick(ctx, tx, projectID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ApplyPositions writes new positions for tasks in projectID. The write only
// happens while the project tick still equals expectedTick; otherwise it
// returns repository.ErrConflict and nothing changes.
func (r *TaskRepository) ApplyPositions(ctx context.Context, projectID string, expectedTick int64, updates []task.PositionUpdate) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		r.db.Rebind(`UPDATE projects SET tick = tick + 1 WHERE id = ? AND tick = ?`),
		projectID, expectedTick,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to increment tick: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, r.db.Rebind(`SELECT 1 FROM projects WHERE id = ?`), projectID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		if err != nil {
			return 0, fmt.Errorf("failed to check project: %w", err)
		}
		return 0, repository.ErrConflict
	}

	if err := writePositions(ctx, r.db, tx, projectID, updates); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return expectedTick + 1, nil
}

func writePositions(ctx context.Context, db *DB, tx *sql.Tx, projectID string, updates []task.PositionUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, db.Rebind(`UPDATE tasks SET position = ? WHERE id = ? AND project_id = ?`))
	if err != nil {
		return fmt.Errorf("failed to prepare position update: %w", err)
	}
	defer stmt.Close()

	for _, u := range updates {
		if _, err := stmt.ExecContext(ctx, u.Order, u.TaskID, projectID); err != nil {
			return fmt.Errorf("failed to update position of %s: %w", u.TaskID, err)
		}
	}
	return nil
}

// orderingRows loads the fields needed to renumber a project.
func orderingRows(ctx context.Context, db *DB, tx *sql.Tx, projectID string) ([]task.Task, error) {
	rows, err := tx.QueryContext(ctx,
		db.Rebind(`SELECT id, position, created_at FROM tasks WHERE project_id = ? `+taskOrder),
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load positions: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var (
			t         task.Task
			position  sql.NullInt64
			createdAt time.Time
		)
		if err := rows.Scan(&t.ID, &position, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		if position.Valid {
			v := int(position.Int64)
			t.Order = &v
		}
		t.CreatedAt = createdAt
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
