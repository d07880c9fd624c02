package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/repository"
)

// ProjectRepository implements project.Repository.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	p.id, p.name, p.description, p.tick, p.created_at, p.updated_at,
	(SELECT COUNT(*) FROM tasks t WHERE t.project_id = p.id) AS tasks_count
`

func scanProject(row interface{ Scan(...any) error }) (*project.Project, error) {
	var proj project.Project
	err := row.Scan(
		&proj.ID,
		&proj.Name,
		&proj.Description,
		&proj.Tick,
		&proj.CreatedAt,
		&proj.UpdatedAt,
		&proj.TasksCount,
	)
	if err != nil {
		return nil, err
	}
	return &proj, nil
}

// Create creates a new project
func (r *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	query := r.db.Rebind(`
		INSERT INTO projects (id, name, description, tick, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		proj.ID,
		proj.Name,
		proj.Description,
		proj.Tick,
		proj.CreatedAt.UTC(),
		proj.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConflict
		}
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID with a fresh task count.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	query := r.db.Rebind(`SELECT ` + projectColumns + ` FROM projects p WHERE p.id = ?`)

	proj, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	return proj, nil
}

// List returns all projects, newest first.
func (r *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p ORDER BY p.created_at DESC, p.id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		proj, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *proj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// Update writes name and description. TasksCount on proj is refreshed.
func (r *ProjectRepository) Update(ctx context.Context, proj *project.Project) error {
	query := r.db.Rebind(`
		UPDATE projects
		SET name = ?, description = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query, proj.Name, proj.Description, proj.UpdatedAt.UTC(), proj.ID)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	count, err := r.CountTasks(ctx, proj.ID)
	if err != nil {
		return err
	}
	proj.TasksCount = count
	return nil
}

// Delete removes a project. Projects that still own tasks fail with
// repository.ErrForeignKeyViolation.
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM projects WHERE id = ?`), id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to delete project: %w", err)
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

// CountTasks returns the number of tasks in a project.
func (r *ProjectRepository) CountTasks(ctx context.Context, id string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT COUNT(*) FROM tasks WHERE project_id = ?`), id).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count tasks: %w", err)
	}
	return count, nil
}

// Tick returns the current project tick.
func (r *ProjectRepository) Tick(ctx context.Context, projectID string) (int64, error) {
	var tick int64
	err := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT tick FROM projects WHERE id = ?`), projectID).Scan(&tick)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get project tick: %w", err)
	}
	return tick, nil
}
