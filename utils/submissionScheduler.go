package utils

import (
	"context"
	"time"

	"lingo/dbctx"
	"lingo/logger"
	"lingo/repositories"

	"github.com/jinzhu/now"
	"github.com/robfig/cron/v3"
)

// InitializeSubmissionScheduler prunes the answer submission log on schedule (standard 5-field cron).
func InitializeSubmissionScheduler(submissions repositories.SubmissionRepo, schedule string, retentionDays int, log *logger.Logger) (*cron.Cron, error) {
	log = log.With("service", "SubmissionScheduler")
	log.Info("initializing submission scheduler", "cron", schedule, "retention_days", retentionDays)

	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if _, err := PruneSubmissions(context.Background(), submissions, retentionDays, time.Now(), log); err != nil {
			log.Error("submission prune failed", "error", err)
		}
	}); err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}

// RetentionCutoff is the start of the day retentionDays before at.
func RetentionCutoff(at time.Time, retentionDays int) time.Time {
	if retentionDays < 1 {
		retentionDays = 1
	}
	return now.With(at).BeginningOfDay().AddDate(0, 0, -retentionDays)
}

// PruneSubmissions deletes idempotency records older than the retention window.
func PruneSubmissions(ctx context.Context, submissions repositories.SubmissionRepo, retentionDays int, at time.Time, log *logger.Logger) (int64, error) {
	cutoff := RetentionCutoff(at, retentionDays)
	n, err := submissions.DeleteOlderThan(dbctx.Context{Ctx: ctx}, cutoff)
	if err != nil {
		return 0, err
	}
	log.Info("pruned answer submissions", "deleted", n, "cutoff", cutoff)
	return n, nil
}
