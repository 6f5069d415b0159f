// internal/app/system/tasks/jobs.go

// Package tasks runs periodic background jobs on their own tickers.
package tasks

import (
	"context"
	"time"

	notifications "github.com/dalemusser/collabhub/internal/app/store/notifications"
	"go.uber.org/zap"
)

// Job is a named function run on a fixed interval.
type Job struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Start launches one goroutine per job. Each goroutine ticks on the
// job's interval until ctx is canceled. Job errors are logged and the
// ticker keeps going.
func Start(ctx context.Context, logger *zap.Logger, jobs ...Job) {
	for _, job := range jobs {
		go func(j Job) {
			ticker := time.NewTicker(j.Interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					logger.Info("background job stopped", zap.String("job", j.Name))
					return
				case <-ticker.C:
					if err := j.Run(ctx); err != nil {
						logger.Error("background job failed",
							zap.String("job", j.Name),
							zap.Error(err))
					}
				}
			}
		}(job)
	}
}

// NotificationCleanupJob creates a job that deletes read notifications
// older than the retention window. Unread notifications are kept
// indefinitely; a user who has not seen an assignment yet must still
// find it.
func NotificationCleanupJob(noteStore *notifications.Store, logger *zap.Logger, retention time.Duration) Job {
	return Job{
		Name:     "notification-cleanup",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			count, err := noteStore.DeleteReadOlderThan(ctx, time.Now().UTC().Add(-retention))
			if err != nil {
				return err
			}
			if count > 0 {
				logger.Info("deleted read notifications",
					zap.Int64("count", count),
					zap.Duration("retention", retention))
			}
			return nil
		},
	}
}
