// Package jobs provides scheduled background tasks for the gate transport
// coordination service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle the periodic operations the coordination core depends on.
//
// # Available Jobs
//
// 1. ExpirySweeperJob - Runs every SWEEP_INTERVAL to reclaim timed-out
// assignments, retire tokens of completed trips and expire tokens whose
// shift ended
// 2. OutboxDispatcherJob - Runs every second to forward pending outbox
// messages to the notifier
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(sweepHandler, sweepInterval, outbox, notifier, logger)
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
// The sweeper runs on the interval the deployment configures (60s by
// default); reclamation tolerates delay, so a missed tick only postpones it.
// The dispatcher runs every second because queued notifications should reach
// subscribers with sub-second latency under normal operation.
//
// # Error Handling
//
// - Sweeper errors abort the tick and are logged; per-pair reclaim failures
// are already contained inside the handler and never surface here
// - Dispatcher errors stop the current batch so append order is preserved;
// unacknowledged messages stay pending and are retried next tick
// - Failed job starts will stop any already running jobs
package jobs
