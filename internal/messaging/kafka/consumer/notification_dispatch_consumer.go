package consumer

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/parryG11/hr/internal/events"
	"github.com/parryG11/hr/internal/notification"
)

// ConsumeNotificationDispatch delivers queued notification events. The
// repo row already exists; delivery here means pushing to the user's
// channel (currently the delivery log) and stamping dispatched_at.
func ConsumeNotificationDispatch(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.notification_dispatch")
	log.Info("notification dispatch consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("notification dispatch consumer stopped")
				return
			}
			log.Error("fetch notification dispatch message failed", zap.Error(err))
			continue
		}

		var event events.NotificationDispatchEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode notification dispatch event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		log.Info("delivering notification",
			zap.String("notification_id", event.NotificationID),
			zap.String("recipient_user_id", event.RecipientUserID),
			zap.String("type", event.Type),
			zap.String("message", event.Message),
		)

		if err := notificationService.MarkDispatched(ctx, event.NotificationID); err != nil {
			log.Error("mark notification dispatched failed",
				zap.String("notification_id", event.NotificationID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit notification dispatch message failed", zap.Error(err))
			continue
		}
	}
}
