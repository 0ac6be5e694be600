package producer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/parryG11/hr/internal/messaging/kafka"
)

const dispatchBatchSize = 50

// ProcessOutboxEvents drains queued notification dispatches into Kafka
// until the context is cancelled. Rows that fail to publish stay queued
// with a growing retry delay; the emitter keeps writing new rows while
// this loop runs.
func ProcessOutboxEvents(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.dispatch")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("notification dispatch worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("notification dispatch worker stopped")
			return
		case <-ticker.C:
			if err := dispatchPending(ctx, repo, writer, log); err != nil {
				log.Error("drain notification outbox failed", zap.Error(err))
			}
		}
	}
}

func dispatchPending(
	ctx context.Context,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) error {
	pending, err := repo.ListPending(ctx, dispatchBatchSize)
	if err != nil {
		return err
	}

	if len(pending) == 0 {
		return nil
	}

	logger.Info("dispatching queued notifications", zap.Int("count", len(pending)))

	for _, event := range pending {
		if err := publishDispatch(ctx, writer, event); err != nil {
			logger.Error("publish notification dispatch failed",
				zap.String("outbox_id", event.ID),
				zap.String("notification_id", event.NotificationID),
				zap.String("event_type", event.EventType),
				zap.Error(err),
			)
			_ = repo.MarkFailed(ctx, event.ID, err.Error())
			continue
		}

		if err := repo.MarkSent(ctx, event.ID); err != nil {
			logger.Error("mark notification dispatch sent failed",
				zap.String("outbox_id", event.ID),
				zap.String("notification_id", event.NotificationID),
				zap.Error(err),
			)
			continue
		}

		logger.Info("notification dispatch published",
			zap.String("outbox_id", event.ID),
			zap.String("notification_id", event.NotificationID),
			zap.String("event_type", event.EventType),
		)
	}

	return nil
}
