package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(DriverSQLite, ":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	for _, table := range []string{"projects", "tasks", "subtasks"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}

	// Rerunning is harmless and keeps the default project.
	require.NoError(t, db.RunMigrations())

	var name string
	require.NoError(t, db.QueryRow("SELECT name FROM projects WHERE id = 'project-1'").Scan(&name))
	require.Equal(t, "Основной проект", name)
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

func TestReset(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO projects (id, name) VALUES ('p-x', 'X')`)
	require.NoError(t, err)

	require.NoError(t, db.Reset(ctx))

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM projects").Scan(&count))
	require.Equal(t, 1, count)
}

func TestRebind(t *testing.T) {
	pg := &DB{driver: DriverPostgres}
	require.Equal(t,
		"UPDATE tasks SET position = $1 WHERE id = $2 AND project_id = $3",
		pg.Rebind("UPDATE tasks SET position = ? WHERE id = ? AND project_id = ?"),
	)

	lite := &DB{driver: DriverSQLite}
	require.Equal(t, "SELECT ? ", lite.Rebind("SELECT ? "))
}

func TestNewRejectsUnknownDriver(t *testing.T) {
	_, err := New("oracle", "")
	require.Error(t, err)
}
