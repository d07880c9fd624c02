package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rpggio/tasker/internal/config"
	"github.com/rpggio/tasker/internal/domain/project"
	"github.com/rpggio/tasker/internal/domain/subtask"
	"github.com/rpggio/tasker/internal/domain/task"
	"github.com/rpggio/tasker/internal/live"
	"github.com/rpggio/tasker/internal/logging"
	"github.com/rpggio/tasker/internal/maintenance"
	"github.com/rpggio/tasker/internal/mcp"
	"github.com/rpggio/tasker/internal/store"
	"github.com/rpggio/tasker/internal/transport"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := logging.New(cfg.Log.Level, cfg.Log.Path, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	if cfg.DB.Driver == store.DriverSQLite {
		if err := ensureDBDir(cfg.DB.DSN); err != nil {
			return fmt.Errorf("prepare database path: %w", err)
		}
	}

	db, err := store.New(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := live.NewHub(logger)
	go hub.Run(ctx)

	projectRepo := store.NewProjectRepository(db)
	taskRepo := store.NewTaskRepository(db)
	subTaskRepo := store.NewSubTaskRepository(db)

	projectSvc := project.NewService(projectRepo, hub, logger)
	taskSvc := task.NewService(taskRepo, projectRepo, hub, logger)
	subTaskSvc := subtask.NewService(subTaskRepo, taskSvc, hub, logger)

	opts := transport.Options{
		Projects:    projectSvc,
		Tasks:       taskSvc,
		SubTasks:    subTaskSvc,
		Logger:      logger,
		Development: cfg.Development(),
		CORSOrigins: cfg.CORS.Origins,
		Live:        live.NewHandler(hub, nil),
	}

	if cfg.MCP.Enabled {
		mcpServer := mcp.NewServer(mcp.Config{
			Services: mcp.Services{
				Projects: projectSvc,
				Tasks:    taskSvc,
				SubTasks: subTaskSvc,
			},
			Version: version,
			Logger:  logger,
		})
		opts.MCP = mcp.NewHTTPHandler(mcpServer, cfg.MCP.SessionTimeout)
	}

	scheduler, err := maintenance.New(store.NewMaintenance(db), cfg.Maintenance.Schedule, logger)
	if err != nil {
		return fmt.Errorf("maintenance: %w", err)
	}
	if cfg.Maintenance.OnStartup {
		if err := scheduler.RunOnce(ctx); err != nil {
			logger.Warn("startup maintenance failed", "error", err)
		}
	}
	scheduler.Start()

	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      transport.NewServer(opts),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			"addr", cfg.Addr(),
			"env", cfg.Env,
			"db", cfg.DB.Driver,
			"mcp", cfg.MCP.Enabled,
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	err = waitForShutdown(logger, httpServer, scheduler, errCh)
	cancel()
	return err
}

func ensureDBDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// waitForShutdown blocks until a signal arrives or the listener fails, then
// drains the server and the scheduler. It returns the listener error, if any.
func waitForShutdown(logger *slog.Logger, server *http.Server, scheduler *maintenance.Scheduler, errCh <-chan error) error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	var listenErr error
	select {
	case <-stop:
	case listenErr = <-errCh:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	scheduler.Stop(ctx)
	return listenErr
}
