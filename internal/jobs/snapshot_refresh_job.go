package jobs

import (
	"context"
	"log/slog"

	"traceflow/internal/core/application/usecases/queries"

	"github.com/robfig/cron/v3"
)

// snapshotRefreshSchedule rebuilds the dashboard cache every 30 seconds,
// comfortably inside the snapshot TTL so interactive reads stay warm.
const snapshotRefreshSchedule = "*/30 * * * * *"

// SnapshotRefreshJob keeps the dashboard snapshot cache warm.
// Runs on a fixed schedule and rebuilds the snapshots for every period,
// so polling clients never pay the aggregation cost themselves.
type SnapshotRefreshJob struct {
	handler *queries.GetDashboardSnapshotQueryHandler
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewSnapshotRefreshJob creates a new job for refreshing dashboard snapshots.
func NewSnapshotRefreshJob(
	handler *queries.GetDashboardSnapshotQueryHandler,
	logger *slog.Logger,
) *SnapshotRefreshJob {
	return &SnapshotRefreshJob{
		handler: handler,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "snapshot_refresh_job"),
	}
}

// Start begins the snapshot refresh job.
func (j *SnapshotRefreshJob) Start() error {
	_, err := j.cron.AddFunc(snapshotRefreshSchedule, func() {
		ctx := context.Background()

		if err := j.handler.Refresh(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Snapshot refresh job failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Snapshot refresh job started (running every 30 seconds)")
	return nil
}

// Stop stops the snapshot refresh job.
func (j *SnapshotRefreshJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Snapshot refresh job stopped")
}
