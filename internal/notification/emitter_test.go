package notification_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	kafkaoutbox "github.com/parryG11/hr/internal/messaging/kafka"
	"github.com/parryG11/hr/internal/notification"
)

type fakeOutboxRepository struct {
	created  []kafkaoutbox.OutboxEvent
	createFn func(event kafkaoutbox.OutboxEvent) error
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafkaoutbox.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafkaoutbox.OutboxEvent) error {
	f.created = append(f.created, event)
	if f.createFn != nil {
		return f.createFn(event)
	}
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafkaoutbox.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func TestEmitter_Emit(t *testing.T) {
	ctx := context.Background()
	recipient := uuid.New().String()

	t.Run("success stores the row and queues a dispatch event", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		repo := &fakeNotificationRepository{}
		var stored *notification.Notification
		repo.createFn = func(ctx context.Context, n *notification.Notification) error {
			stored = n
			return nil
		}
		outbox := &fakeOutboxRepository{}

		emitter := notification.NewEmitter(db, repo, outbox)
		emitter.Emit(ctx, recipient, notification.TypeLeaveRequestCreated, "filed a request", "/leave-requests/abc")

		assert.NotNil(t, stored)
		assert.Equal(t, recipient, stored.RecipientUserID.String())

		assert.Len(t, outbox.created, 1)
		event := outbox.created[0]
		assert.Equal(t, stored.ID.String(), event.NotificationID)
		assert.Equal(t, notification.TypeLeaveRequestCreated, event.EventType)
		assert.Equal(t, kafkaoutbox.OutboxStatusPending, event.Status)
		assert.NotEmpty(t, event.Topic)
		assert.NotEmpty(t, event.Payload)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failure is swallowed and rolled back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		repo := &fakeNotificationRepository{}
		repo.createFn = func(ctx context.Context, n *notification.Notification) error {
			return errors.New("connection reset")
		}
		outbox := &fakeOutboxRepository{}

		emitter := notification.NewEmitter(db, repo, outbox)
		// Emit never propagates the failure to the caller.
		emitter.Emit(ctx, recipient, notification.TypeLeaveRequestRejected, "rejected", "/leave-requests/abc")

		assert.Empty(t, outbox.created)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bad recipient id is dropped without touching the database", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		emitter := notification.NewEmitter(db, &fakeNotificationRepository{}, &fakeOutboxRepository{})
		emitter.Emit(ctx, "nobody", notification.TypeAppointmentCreated, "hi", "")

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
