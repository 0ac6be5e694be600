package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/parryG11/hr/internal/events"
	"github.com/parryG11/hr/internal/messaging/kafka"
)

func dispatchFixture(t *testing.T) kafka.OutboxEvent {
	t.Helper()
	event, err := kafka.NewDispatchEvent("req-42", events.NotificationDispatchEvent{
		EventType:       "leave_request.approved",
		NotificationID:  "aaaaaaaa-1111-4111-8111-111111111111",
		RecipientUserID: "4f6a2e6c-0b6d-4af0-9f59-4e1d7a6a0c21",
		Type:            "leave_request.approved",
		Message:         "approved",
		OccurredAt:      time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	assert.NoError(t, err)
	return event
}

func TestNewDispatchEvent(t *testing.T) {
	t.Run("success carries the notification id and serialized payload", func(t *testing.T) {
		event := dispatchFixture(t)

		assert.NotEmpty(t, event.ID)
		assert.Equal(t, "aaaaaaaa-1111-4111-8111-111111111111", event.NotificationID)
		assert.Equal(t, events.NotificationDispatchTopic, event.Topic)
		assert.Equal(t, kafka.OutboxStatusPending, event.Status)
		assert.Contains(t, string(event.Payload), "leave_request.approved")
	})

	t.Run("negative missing notification id is rejected", func(t *testing.T) {
		_, err := kafka.NewDispatchEvent("req-42", events.NotificationDispatchEvent{
			EventType: "leave_request.approved",
			Type:      "leave_request.approved",
		})

		assert.Error(t, err)
	})
}

func TestOutboxRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create inserts the queue row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		event := dispatchFixture(t)
		mock.ExpectExec(`INSERT INTO notification_outbox`).
			WithArgs(
				event.ID, event.RequestID, event.NotificationID,
				event.EventType, event.Topic, event.Payload, event.Status,
			).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := kafka.NewOutboxRepository(db)
		assert.NoError(t, repo.Create(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("list pending scans queued rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		event := dispatchFixture(t)
		rows := sqlmock.NewRows([]string{
			"id", "notification_id", "event_type", "topic",
			"payload", "status", "retry_count", "next_retry_at",
		}).AddRow(
			event.ID, event.NotificationID, event.EventType, event.Topic,
			event.Payload, event.Status, 0, time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		)
		mock.ExpectQuery(`FROM notification_outbox`).
			WithArgs(kafka.OutboxStatusPending, kafka.OutboxStatusFailed, 50).
			WillReturnRows(rows)

		repo := kafka.NewOutboxRepository(db)
		pending, err := repo.ListPending(ctx, 50)

		assert.NoError(t, err)
		assert.Len(t, pending, 1)
		assert.Equal(t, event.NotificationID, pending[0].NotificationID)
		assert.Equal(t, event.Payload, pending[0].Payload)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("mark failed bumps the retry counter", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE notification_outbox`).
			WithArgs("outbox-1", kafka.OutboxStatusFailed, "broker unreachable").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := kafka.NewOutboxRepository(db)
		assert.NoError(t, repo.MarkFailed(ctx, "outbox-1", "broker unreachable"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
