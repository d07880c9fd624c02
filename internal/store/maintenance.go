package store

import (
	"context"
	"fmt"

	"github.com/rpggio/tasker/internal/domain/task"
)

// Maintenance runs bulk repairs over the task tables.
type Maintenance struct {
	db *DB
}

// NewMaintenance creates a Maintenance bound to db.
func NewMaintenance(db *DB) *Maintenance {
	return &Maintenance{db: db}
}

// NormalizeOrder renumbers every project densely from zero, filling NULL
// positions and closing gaps. Projects that change get their tick bumped.
// It returns the number of task rows rewritten.
func (m *Maintenance) NormalizeOrder(ctx context.Context) (int, error) {
	projectIDs, err := m.projectIDs(ctx)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, projectID := range projectIDs {
		n, err := m.normalizeProject(ctx, projectID)
		if err != nil {
			return total, fmt.Errorf("normalizing %s: %w", projectID, err)
		}
		total += n
	}
	return total, nil
}

func (m *Maintenance) normalizeProject(ctx context.Context, projectID string) (int, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	tasks, err := orderingRows(ctx, m.db, tx, projectID)
	if err != nil {
		return 0, err
	}
	task.SortByOrder(tasks)

	updates := task.Renumber(tasks)
	if len(updates) == 0 {
		return 0, nil
	}

	if err := m.db.bumpTick(ctx, tx, projectID); err != nil {
		return 0, err
	}
	if err := writePositions(ctx, m.db, tx, projectID, updates); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(updates), nil
}

// RefreshTaskCounts rewrites the cached tasks_count column of every project.
func (m *Maintenance) RefreshTaskCounts(ctx context.Context) (int64, error) {
	result, err := m.db.ExecContext(ctx, `
		UPDATE projects
		SET tasks_count = (SELECT COUNT(*) FROM tasks WHERE tasks.project_id = projects.id)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh task counts: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

func (m *Maintenance) projectIDs(ctx context.Context) ([]string, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT id FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan project id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
