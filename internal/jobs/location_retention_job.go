package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// LocationPruner deletes agent location rows that newer samples have
// superseded.
type LocationPruner interface {
	DeleteSuperseded(ctx context.Context) (int64, error)
}

// LocationRetentionJob periodically prunes superseded agent locations.
// Only the most recent sample per agent carries tracking value; everything
// older is noise the upsert path leaves behind on agent churn.
type LocationRetentionJob struct {
	pruner LocationPruner
	cron   *cron.Cron
	logger *slog.Logger
}

// NewLocationRetentionJob creates a retention job over the pruner.
func NewLocationRetentionJob(pruner LocationPruner, logger *slog.Logger) *LocationRetentionJob {
	return &LocationRetentionJob{
		pruner: pruner,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With("component", "location_retention_job"),
	}
}

// Start begins the retention job, pruning at the top of every hour.
func (j *LocationRetentionJob) Start() error {
	_, err := j.cron.AddFunc("0 0 * * * *", func() {
		j.runOnce(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Location retention job started (running hourly)")
	return nil
}

// Stop stops the retention job.
func (j *LocationRetentionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Location retention job stopped")
}

func (j *LocationRetentionJob) runOnce(ctx context.Context) {
	deleted, err := j.pruner.DeleteSuperseded(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Location retention job failed", "error", err)
		return
	}

	if deleted > 0 {
		j.logger.InfoContext(ctx, "Pruned superseded agent locations", "deleted", deleted)
	}
}
