package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/application/usecases/commands"
	"github.com/npcoderes/GTS-sub002/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	expirySweeperJob    *ExpirySweeperJob
	outboxDispatcherJob *OutboxDispatcherJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the sweep handler and the outbox plumbing as dependencies to wire up
// the job execution.
func NewJobManager(
	sweepHandler commands.SweepExpiredCommandHandler,
	sweepInterval time.Duration,
	outbox ports.OutboxRepository,
	notifier ports.Notifier,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		expirySweeperJob:    NewExpirySweeperJob(sweepHandler, sweepInterval, logger),
		outboxDispatcherJob: NewOutboxDispatcherJob(outbox, notifier, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.expirySweeperJob.Start(); err != nil {
		return fmt.Errorf("failed to start expiry sweeper job: %w", err)
	}

	if err := jm.outboxDispatcherJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.expirySweeperJob.Stop()
		return fmt.Errorf("failed to start outbox dispatcher job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.outboxDispatcherJob.Stop()
	jm.expirySweeperJob.Stop()
}
