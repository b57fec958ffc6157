package jobs

import (
	"fmt"
	"log/slog"

	"traceflow/internal/core/application/usecases/queries"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	snapshotRefreshJob *SnapshotRefreshJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the dashboard snapshot handler as a dependency to wire up the
// cache refresh.
func NewJobManager(
	dashboardHandler *queries.GetDashboardSnapshotQueryHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		snapshotRefreshJob: NewSnapshotRefreshJob(dashboardHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.snapshotRefreshJob.Start(); err != nil {
		return fmt.Errorf("failed to start snapshot refresh job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.snapshotRefreshJob.Stop()
}
