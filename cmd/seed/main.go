// Command seed resets the database and loads the sample board, or a board
// read from a YAML file.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rpggio/tasker/internal/config"
	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/domain/subtask"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/logging"
	"github.com/rpggio/tasker/internal/seed"
	"github.com/rpggio/tasker/internal/store"
)

func main() {
	file := flag.String("file", "", "YAML board to load instead of the built-in sample")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := logging.New(cfg.Log.Level, "", os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	data, err := loadData(*file)
	if err != nil {
		logger.Error("failed to load seed data", "error", err)
		os.Exit(1)
	}

	db, err := store.New(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	projectRepo := store.NewProjectRepository(db)
	taskSvc := task.NewService(store.NewTaskRepository(db), projectRepo, nil, logger)
	subTaskSvc := subtask.NewService(store.NewSubTaskRepository(db), taskSvc, nil, logger)

	summary, err := seed.New(db, taskSvc, subTaskSvc, logger).Run(context.Background(), data)
	if err != nil {
		logger.Error("seed failed", "error", err)
		db.Close()
		os.Exit(1)
	}

	fmt.Printf("seeded %d tasks and %d subtasks into %s\n", summary.Tasks, summary.SubTasks, project.DefaultID)
}

func loadData(path string) (*seed.Data, error) {
	if path == "" {
		return seed.Sample()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.Parse(raw)
}
