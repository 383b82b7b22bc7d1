// Package scheduler runs the periodic statistics refresh and history cache
// warm-up jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/rookscore/internal/models"
	"github.com/yourusername/rookscore/internal/service"
)

const minWarmInterval = 5

// StatisticsRefresher recomputes aggregate statistics
type StatisticsRefresher interface {
	Refresh(ctx context.Context, trigger string) (models.GameStatistics, error)
}

// CacheWarmer reloads the historical game cache
type CacheWarmer interface {
	Warm(ctx context.Context) (int, error)
}

// Scheduler manages the periodic jobs
type Scheduler struct {
	cron       *cron.Cron
	statistics StatisticsRefresher
	warmer     CacheWarmer
	logger     *logrus.Entry
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
	jobTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(statistics StatisticsRefresher, warmer CacheWarmer, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		statistics: statistics,
		warmer:     warmer,
		logger:     logger.WithField("component", "scheduler"),
		jobIDs:     make([]cron.EntryID, 0),
		jobTimeout: time.Minute,
	}
}

// ScheduleStatisticsRefresh recomputes statistics on a standard cron expression
func (s *Scheduler) ScheduleStatisticsRefresh(cronExpression string) error {
	if s.statistics == nil {
		return fmt.Errorf("no statistics refresher configured")
	}
	if err := s.add(cronExpression, s.refreshStatistics); err != nil {
		return err
	}
	s.logger.WithField("cron", cronExpression).Info("Scheduled statistics refresh")
	return nil
}

// ScheduleCacheWarm reloads the history cache every intervalSeconds
func (s *Scheduler) ScheduleCacheWarm(intervalSeconds int) error {
	if s.warmer == nil {
		return fmt.Errorf("no cache warmer configured")
	}
	if intervalSeconds < minWarmInterval {
		intervalSeconds = minWarmInterval
	}
	if err := s.add(fmt.Sprintf("@every %ds", intervalSeconds), s.warmCache); err != nil {
		return err
	}
	s.logger.WithField("interval_seconds", intervalSeconds).Info("Scheduled history cache warm-up")
	return nil
}

func (s *Scheduler) add(spec string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}
	s.jobIDs = append(s.jobIDs, entryID)
	return nil
}

func (s *Scheduler) refreshStatistics() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	stats, err := s.statistics.Refresh(ctx, service.TriggerScheduled)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled statistics refresh failed")
		return
	}
	s.logger.WithField("total_games", stats.TotalGames).Debug("Scheduled statistics refresh completed")
}

func (s *Scheduler) warmCache() {
	ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
	defer cancel()

	n, err := s.warmer.Warm(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("History cache warm-up failed")
		return
	}
	s.logger.WithField("games", n).Debug("History cache warmed")
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, entry := range s.entries() {
		if nextRun.IsZero() || entry.Next.Before(nextRun) {
			nextRun = entry.Next
		}
	}
	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries()
}

func (s *Scheduler) entries() []cron.Entry {
	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		if entry := s.cron.Entry(jobID); entry.Valid() {
			entries = append(entries, entry)
		}
	}
	return entries
}
