// Package maintenance runs periodic repairs over the task store.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs the jobs every five minutes.
const DefaultSchedule = "@every 5m"

// Store is the set of repairs the scheduler runs.
type Store interface {
	NormalizeOrder(ctx context.Context) (int, error)
	RefreshTaskCounts(ctx context.Context) (int64, error)
}

// Scheduler runs the maintenance jobs on a cron schedule.
type Scheduler struct {
	store  Store
	cron   *cron.Cron
	logger *slog.Logger

	// mu keeps scheduled and manual runs from overlapping.
	mu sync.Mutex
}

// New creates a scheduler for schedule. An empty schedule disables periodic
// runs; RunOnce still works.
func New(store Store, schedule string, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Scheduler{store: store, logger: logger}
	if schedule == "" {
		return s, nil
	}

	s.cron = cron.New()
	if _, err := s.cron.AddFunc(schedule, func() {
		if err := s.RunOnce(context.Background()); err != nil {
			s.logger.Error("maintenance run failed", "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid maintenance schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start begins the periodic runs in the background.
func (s *Scheduler) Start() {
	if s.cron == nil {
		s.logger.Info("maintenance scheduler disabled")
		return
	}
	s.cron.Start()
	s.logger.Info("maintenance scheduler started")
}

// Stop halts the schedule and waits for a running job to finish or ctx to
// expire.
func (s *Scheduler) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("maintenance job still running at shutdown")
	}
}

// RunOnce normalizes task order and refreshes the cached task counts.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rewritten, err := s.store.NormalizeOrder(ctx)
	if err != nil {
		return fmt.Errorf("normalizing order: %w", err)
	}
	counted, err := s.store.RefreshTaskCounts(ctx)
	if err != nil {
		return fmt.Errorf("refreshing task counts: %w", err)
	}

	if rewritten > 0 {
		s.logger.Info("maintenance run", "positions_rewritten", rewritten, "projects_counted", counted)
	} else {
		s.logger.Debug("maintenance run", "positions_rewritten", rewritten, "projects_counted", counted)
	}
	return nil
}
