package producer

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/parryG11/hr/internal/messaging/kafka"
)

// MessageWriter is the slice of *kafkago.Writer the dispatch loop uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// publishDispatch keys the message on the notification id so retries of
// the same notification land on the same partition in order.
func publishDispatch(ctx context.Context, writer MessageWriter, event kafka.OutboxEvent) error {
	msg := kafkago.Message{
		Topic: event.Topic,
		Key:   []byte(event.NotificationID),
		Value: event.Payload,
		Headers: []kafkago.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "request_id", Value: []byte(event.RequestID)},
		},
	}

	return writer.WriteMessages(ctx, msg)
}
