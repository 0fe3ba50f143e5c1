package jobs

import (
	"context"
	"log/slog"

	"github.com/npcoderes/GTS-sub002/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// dispatchBatchSize bounds one drain pass; anything left over is picked up
// on the next tick, one second later.
const dispatchBatchSize = 100

// OutboxDispatcherJob drains the notification outbox every second and hands
// pending messages to the notifier in append order. A message is marked
// dispatched only after the broker acknowledged it, so a crash between the
// two writes re-delivers rather than drops.
type OutboxDispatcherJob struct {
	outbox   ports.OutboxRepository
	notifier ports.Notifier
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOutboxDispatcherJob creates a job that forwards outbox messages to the
// notifier.
func NewOutboxDispatcherJob(
	outbox ports.OutboxRepository,
	notifier ports.Notifier,
	logger *slog.Logger,
) *OutboxDispatcherJob {
	return &OutboxDispatcherJob{
		outbox:   outbox,
		notifier: notifier,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "outbox_dispatcher_job"),
	}
}

// Start begins draining the outbox every second.
func (j *OutboxDispatcherJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()

		if err := j.dispatchPending(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Outbox dispatch failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox dispatcher job started (running every second)")
	return nil
}

// Stop stops the dispatcher job.
func (j *OutboxDispatcherJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Outbox dispatcher job stopped")
}

// dispatchPending forwards one batch. The pass stops at the first failure to
// keep per-topic ordering; the failed message and everything behind it stay
// pending for the next tick.
func (j *OutboxDispatcherJob) dispatchPending(ctx context.Context) error {
	pending, err := j.outbox.GetPending(ctx, dispatchBatchSize)
	if err != nil {
		return err
	}

	for _, message := range pending {
		if err := j.notifier.Publish(ctx, message.EventType, message.Payload); err != nil {
			return err
		}

		if err := j.outbox.MarkDispatched(ctx, message.ID); err != nil {
			return err
		}
	}

	return nil
}
