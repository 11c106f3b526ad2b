package task

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// withLogging decorates a job with start/finish log lines carrying a unique
// execution id, so overlapping runs stay distinguishable in the logs.
func withLogging(logger *slog.Logger, name string, job cron.Job) cron.Job {
	return cron.FuncJob(func() {
		execID := uuid.NewString()[:8]
		start := time.Now()
		logger.Info("job started", "job", name, "exec", execID)
		job.Run()
		logger.Info("job finished", "job", name, "exec", execID, "took", time.Since(start).String())
	})
}

// withRecovery keeps one panicking job from taking down the scheduler.
func withRecovery(logger *slog.Logger, name string, job cron.Job) cron.Job {
	return cron.FuncJob(func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("job panicked", "job", name, "panic", r)
			}
		}()
		job.Run()
	})
}
