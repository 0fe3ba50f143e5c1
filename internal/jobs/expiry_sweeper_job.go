package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// ExpirySweeperJob runs the reclamation sweep on a fixed interval. The sweep
// returns timed-out assignments to the pool, retires tokens of completed
// trips and expires tokens whose shift ended, so a missed pass only delays
// reclamation until the next tick.
type ExpirySweeperJob struct {
	handler  commands.SweepExpiredCommandHandler
	interval time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewExpirySweeperJob creates a job that triggers the sweep every interval.
// Uses SweepExpiredCommandHandler to run the three reclamation passes.
func NewExpirySweeperJob(
	handler commands.SweepExpiredCommandHandler,
	interval time.Duration,
	logger *slog.Logger,
) *ExpirySweeperJob {
	return &ExpirySweeperJob{
		handler:  handler,
		interval: interval,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "expiry_sweeper_job"),
	}
}

// Start begins the sweeper on its configured interval.
func (j *ExpirySweeperJob) Start() error {
	_, err := j.cron.AddFunc(fmt.Sprintf("@every %s", j.interval), func() {
		ctx := context.Background()
		cmd := commands.NewSweepExpiredCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Expiry sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Expiry sweeper job started", "interval", j.interval.String())
	return nil
}

// Stop stops the sweeper job.
func (j *ExpirySweeperJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Expiry sweeper job stopped")
}
