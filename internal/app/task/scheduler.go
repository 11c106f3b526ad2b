package task

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/inkwell-cms/inkwell/pkg/domain/repository"
	"github.com/inkwell-cms/inkwell/pkg/service/article"
	"github.com/inkwell-cms/inkwell/pkg/service/viewcount"
)

// purgeRetention is how long soft-deleted rows survive before the nightly
// purge hard-deletes them.
const purgeRetention = 30 * 24 * time.Hour

// Scheduler owns the background jobs: scheduled publishing, view-counter
// flushing and soft-delete purging.
type Scheduler struct {
	cron     *cron.Cron
	logger   *slog.Logger
	articles *article.Service
	views    *viewcount.Service
	purgable []repository.Purger
}

// NewScheduler wires the jobs. purgable lists every repository whose
// soft-deleted rows age out.
func NewScheduler(logger *slog.Logger, articles *article.Service, views *viewcount.Service, purgable []repository.Purger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		logger:   logger,
		articles: articles,
		views:    views,
		purgable: purgable,
	}
}

// Start registers and launches the jobs. Errors here are programmer errors
// in the cron expressions, surfaced immediately.
func (s *Scheduler) Start() error {
	jobs := []struct {
		name string
		spec string
		run  func()
	}{
		{"scheduled_publish", "* * * * *", s.runScheduledPublish},
		{"sync_views", "*/5 * * * *", s.runSyncViews},
		{"purge_deleted", "30 3 * * *", s.runPurgeDeleted},
	}
	for _, j := range jobs {
		job := withLogging(s.logger, j.name, withRecovery(s.logger, j.name, cron.FuncJob(j.run)))
		if _, err := s.cron.AddJob(j.spec, job); err != nil {
			return err
		}
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler, waits for running jobs and flushes any pending
// view counts.
func (s *Scheduler) Stop(ctx context.Context) {
	stopped := s.cron.Stop()
	select {
	case <-stopped.Done():
	case <-ctx.Done():
	}
	if _, err := s.views.Flush(ctx); err != nil {
		s.logger.Error("final view flush failed", "err", err)
	}
}

func (s *Scheduler) runScheduledPublish() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := s.articles.PublishDueScheduled(ctx, time.Now().UTC())
	if err != nil {
		s.logger.Error("scheduled publish failed", "err", err)
		return
	}
	if n > 0 {
		s.logger.Info("articles published on schedule", "count", n)
	}
}

func (s *Scheduler) runSyncViews() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	n, err := s.views.Flush(ctx)
	if err != nil {
		s.logger.Error("view sync failed", "err", err)
		return
	}
	if n > 0 {
		s.logger.Info("view counters flushed", "articles", n)
	}
}

func (s *Scheduler) runPurgeDeleted() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	cutoff := time.Now().UTC().Add(-purgeRetention)
	var total int64
	for _, repo := range s.purgable {
		n, err := repo.PurgeDeletedBefore(ctx, cutoff)
		if err != nil {
			s.logger.Error("purge failed", "err", err)
			continue
		}
		total += n
	}
	if total > 0 {
		s.logger.Info("soft-deleted rows purged", "rows", total)
	}
}
