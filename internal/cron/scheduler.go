package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"payflow/internal/stats"
)

// APILogStore is the part of the request log store the scheduler needs.
type APILogStore interface {
	CountSince(ctx context.Context, since time.Time) (int64, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler manages all cron jobs.
type Scheduler struct {
	cron      *cron.Cron
	logger    *zap.Logger
	apiLogs   APILogStore
	stats     stats.Recorder
	retention time.Duration
	now       func() time.Time
}

// New creates a new cron scheduler. apiLogs and recorder may be nil.
func New(apiLogs APILogStore, recorder stats.Recorder, retention time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger,
		apiLogs:   apiLogs,
		stats:     recorder,
		retention: retention,
		now:       time.Now,
	}
}

// Start registers and starts all cron jobs.
func (s *Scheduler) Start() error {
	s.logger.Info("Starting cron scheduler...")

	// API log retention - every hour
	if _, err := s.cron.AddFunc("0 0 * * * *", func() {
		s.logger.Debug("Running: api log retention")
		s.purgeAPILogs()
	}); err != nil {
		return err
	}

	// Routing stats snapshot - every 5 minutes
	if _, err := s.cron.AddFunc("0 */5 * * * *", func() {
		s.logger.Debug("Running: stats snapshot")
		s.reportStats()
	}); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Cron scheduler started")
	return nil
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) purgeAPILogs() {
	defer s.recoverFromPanic("purgeAPILogs")

	if s.apiLogs == nil || s.retention <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := s.now().Add(-s.retention)
	deleted, err := s.apiLogs.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.logger.Error("Failed to purge API logs", zap.Error(err))
		return
	}
	s.logger.Debug("API log retention completed", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
}

func (s *Scheduler) reportStats() {
	defer s.recoverFromPanic("reportStats")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	fields := make([]zap.Field, 0, 8)
	if s.stats != nil {
		snap, err := s.stats.Snapshot(ctx)
		if err != nil {
			s.logger.Warn("Failed to read stats", zap.Error(err))
			return
		}
		for outcome, n := range snap {
			fields = append(fields, zap.Int64(string(outcome), n))
		}
	}
	if s.apiLogs != nil {
		count, err := s.apiLogs.CountSince(ctx, s.now().Add(-5*time.Minute))
		if err == nil {
			fields = append(fields, zap.Int64("requests_last_5m", count))
		}
	}
	if len(fields) == 0 {
		return
	}
	s.logger.Info("Routing stats", fields...)
}

func (s *Scheduler) recoverFromPanic(jobName string) {
	if r := recover(); r != nil {
		s.logger.Error("Cron job panicked", zap.String("job", jobName), zap.Any("error", r))
	}
}
