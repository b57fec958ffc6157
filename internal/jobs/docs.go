// Package jobs provides scheduled background tasks for the workflow engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations behind the dashboard.
//
// # Available Jobs
//
// 1. SnapshotRefreshJob - Rebuilds the dashboard snapshot cache every 30 seconds
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(dashboardHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The refresh job uses the cron expression "*/30 * * * * *": a rebuild every
// 30 seconds keeps every period's snapshot inside its TTL, so clients polling
// the dashboard are always served from the warm cache.
//
// # Error Handling
//
//   - Refresh failures are logged and retried on the next tick; the stale
//     snapshot keeps serving in the meantime
//   - Failed job starts abort application startup
package jobs
