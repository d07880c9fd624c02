package store

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/repository"
	"github.com/stretchr/testify/require"
)

func createProject(t *testing.T, db *DB, id string, created time.Time) *project.Project {
	t.Helper()
	proj := &project.Project{ID: id, Name: "Project " + id, CreatedAt: created, UpdatedAt: created}
	require.NoError(t, NewProjectRepository(db).Create(context.Background(), proj))
	return proj
}

func TestProjectRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	created := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	createProject(t, db, "p1", created)

	proj, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Project p1", proj.Name)
	require.Equal(t, 0, proj.TasksCount)
	require.True(t, proj.CreatedAt.Equal(created))

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	err = repo.Create(ctx, &project.Project{ID: "p1", Name: "dup", CreatedAt: created, UpdatedAt: created})
	require.ErrorIs(t, err, repository.ErrConflict)
}

func TestProjectRepository_ListNewestFirstWithCounts(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	createProject(t, db, "old", base)
	createProject(t, db, "new", base.Add(time.Hour))
	createTask(t, db, "t1", "old", base)
	createTask(t, db, "t2", "old", base)

	projects, err := repo.List(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(projects), 3)
	require.Equal(t, "new", projects[0].ID)
	require.Equal(t, "old", projects[1].ID)
	require.Equal(t, 2, projects[1].TasksCount)
}

func TestProjectRepository_Update(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := createProject(t, db, "p1", time.Now())
	proj.Name = "Renamed"
	proj.Description = "Now with description"
	require.NoError(t, repo.Update(ctx, proj))

	got, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", got.Name)
	require.Equal(t, "Now with description", got.Description)

	require.ErrorIs(t, repo.Update(ctx, &project.Project{ID: "ghost", Name: "x"}), repository.ErrNotFound)
}

func TestProjectRepository_DeleteWithTasks(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	createProject(t, db, "p1", time.Now())
	createTask(t, db, "t1", "p1", time.Now())

	require.ErrorIs(t, repo.Delete(ctx, "p1"), repository.ErrForeignKeyViolation)

	require.NoError(t, NewTaskRepository(db).Delete(ctx, "t1"))
	require.NoError(t, repo.Delete(ctx, "p1"))
	require.ErrorIs(t, repo.Delete(ctx, "p1"), repository.ErrNotFound)
}

func TestProjectRepository_Tick(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	createProject(t, db, "p1", time.Now())
	tick, err := repo.Tick(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, int64(0), tick)

	createTask(t, db, "t1", "p1", time.Now())
	tick, err = repo.Tick(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, int64(1), tick)

	_, err = repo.Tick(ctx, "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
