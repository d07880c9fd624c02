package store

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/repository"
	"github.com/stretchr/testify/require"
)

func createTask(t *testing.T, db *DB, id, projectID string, created time.Time) *task.Task {
	t.Helper()
	tk := &task.Task{
		ID:          id,
		ProjectID:   projectID,
		Date:        "01.02.2024",
		Result:      "result " + id,
		Object:      "object " + id,
		Task:        "task " + id,
		Status:      task.StatusTake,
		StatusLabel: task.StatusTake.Label(),
		Assignee:    "Анна",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, NewTaskRepository(db).Create(context.Background(), tk))
	return tk
}

func createSubTask(t *testing.T, db *DB, id, taskID string, created time.Time) {
	t.Helper()
	st := &task.SubTask{
		ID:          id,
		TaskID:      taskID,
		Object:      "sub " + id,
		Description: "desc",
		Status:      task.StatusCheck,
		StatusLabel: task.StatusCheck.Label(),
		Assignee:    "Олег",
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	require.NoError(t, NewSubTaskRepository(db).Create(context.Background(), st))
}

func taskIDs(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func positions(t *testing.T, db *DB, projectID string) map[string]*int {
	t.Helper()
	rows, err := db.Query(`SELECT id, position FROM tasks WHERE project_id = ?`, projectID)
	require.NoError(t, err)
	defer rows.Close()

	out := map[string]*int{}
	for rows.Next() {
		var id string
		var pos *int
		require.NoError(t, rows.Scan(&id, &pos))
		out[id] = pos
	}
	require.NoError(t, rows.Err())
	return out
}

func TestTaskRepository_CreateAppendsPerProject(t *testing.T) {
	db := NewTestDB(t)
	now := time.Now()
	createProject(t, db, "p2", now)

	a := createTask(t, db, "a", "p2", now)
	b := createTask(t, db, "b", "p2", now)
	other := createTask(t, db, "c", "project-1", now)

	require.Equal(t, 0, *a.Order)
	require.Equal(t, 1, *b.Order)
	require.Equal(t, 0, *other.Order)
}

func TestTaskRepository_CreateUnknownProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)

	err := repo.Create(context.Background(), &task.Task{
		ID: "x", ProjectID: "ghost", Status: task.StatusTake, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	})
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
}

func TestTaskRepository_ListOrderAndSubtasks(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	createTask(t, db, "a", "project-1", base)
	createTask(t, db, "b", "project-1", base.Add(time.Second))
	createTask(t, db, "c", "project-1", base.Add(2*time.Second))
	createTask(t, db, "d", "project-1", base.Add(3*time.Second))
	// a and d lose their positions: unordered rows go last, newest first.
	_, err := db.Exec(`UPDATE tasks SET position = NULL WHERE id IN ('a', 'd')`)
	require.NoError(t, err)

	createSubTask(t, db, "s2", "b", base.Add(time.Minute))
	createSubTask(t, db, "s1", "b", base)

	tasks, err := repo.List(ctx, task.ListOptions{ProjectID: "project-1"})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "c", "d", "a"}, taskIDs(tasks))
	require.Nil(t, tasks[2].Order)

	require.Len(t, tasks[0].SubTasks, 2)
	require.Equal(t, "s1", tasks[0].SubTasks[0].ID)
	require.Equal(t, "s2", tasks[0].SubTasks[1].ID)
	require.NotNil(t, tasks[1].SubTasks)
	require.Empty(t, tasks[1].SubTasks)

	all, err := repo.List(ctx, task.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 4)
}

func TestTaskRepository_GetWithSubtasks(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	createTask(t, db, "a", "project-1", time.Now())
	createSubTask(t, db, "s1", "a", time.Now())

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, task.StatusTake, got.Status)
	require.Equal(t, "Взять", got.StatusLabel)
	require.Len(t, got.SubTasks, 1)
	require.Equal(t, task.StatusCheck, got.SubTasks[0].Status)

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTaskRepository_UpdateMovesToEndOfNewProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()
	now := time.Now()

	createProject(t, db, "p2", now)
	createTask(t, db, "x", "p2", now)
	createTask(t, db, "y", "p2", now)
	moving := createTask(t, db, "m", "project-1", now)

	moving.ProjectID = "p2"
	moving.Assignee = "Борис"
	require.NoError(t, repo.Update(ctx, moving, "project-1"))
	require.Equal(t, 2, *moving.Order)

	got, err := repo.Get(ctx, "m")
	require.NoError(t, err)
	require.Equal(t, "p2", got.ProjectID)
	require.Equal(t, "Борис", got.Assignee)
	require.Equal(t, 2, *got.Order)

	moving.ProjectID = "ghost"
	require.ErrorIs(t, repo.Update(ctx, moving, "p2"), repository.ErrForeignKeyViolation)
}

func TestTaskRepository_UpdateKeepsPosition(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	createTask(t, db, "a", "project-1", time.Now())
	b := createTask(t, db, "b", "project-1", time.Now())

	b.Status = task.StatusBlocked
	b.StatusLabel = task.StatusBlocked.Label()
	require.NoError(t, repo.Update(ctx, b, "project-1"))

	got, err := repo.Get(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, task.StatusBlocked, got.Status)
	require.Equal(t, 1, *got.Order)

	require.ErrorIs(t, repo.Update(ctx, &task.Task{ID: "ghost", ProjectID: "project-1"}, "project-1"), repository.ErrNotFound)
}

func TestTaskRepository_DeleteCascadesSubtasks(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	createTask(t, db, "a", "project-1", time.Now())
	createSubTask(t, db, "s1", "a", time.Now())

	require.NoError(t, repo.Delete(ctx, "a"))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM subtasks`).Scan(&count))
	require.Equal(t, 0, count)

	require.ErrorIs(t, repo.Delete(ctx, "a"), repository.ErrNotFound)
}

func TestTaskRepository_ApplyPositions(t *testing.T) {
	db := NewTestDB(t)
	repo := NewTaskRepository(db)
	projects := NewProjectRepository(db)
	ctx := context.Background()

	createTask(t, db, "a", "project-1", time.Now())
	createTask(t, db, "b", "project-1", time.Now())

	tick, err := projects.Tick(ctx, "project-1")
	require.NoError(t, err)

	updates := []task.PositionUpdate{{TaskID: "b", Order: 0}, {TaskID: "a", Order: 1}}
	newTick, err := repo.ApplyPositions(ctx, "project-1", tick, updates)
	require.NoError(t, err)
	require.Equal(t, tick+1, newTick)

	pos := positions(t, db, "project-1")
	require.Equal(t, 0, *pos["b"])
	require.Equal(t, 1, *pos["a"])

	// A second writer holding the old tick loses.
	_, err = repo.ApplyPositions(ctx, "project-1", tick, []task.PositionUpdate{{TaskID: "a", Order: 0}})
	require.ErrorIs(t, err, repository.ErrConflict)
	pos = positions(t, db, "project-1")
	require.Equal(t, 1, *pos["a"])

	_, err = repo.ApplyPositions(ctx, "ghost", 0, nil)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
