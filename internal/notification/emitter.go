package notification

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/parryG11/hr/internal/events"
	"github.com/parryG11/hr/internal/messaging/kafka"
	"github.com/parryG11/hr/internal/shared/contextutil"
)

const emitTimeout = 3 * time.Second

// Emitter records a notification and queues its dispatch event on the
// outbox. It is called strictly after the caller's own transaction has
// committed; every failure here is logged and swallowed so the already
// committed mutation is never reported as an error.
type Emitter struct {
	db     *sql.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewEmitter(db *sql.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) *Emitter {
	l := zap.L().Named("notification.emitter")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.emitter")
	}
	return &Emitter{db: db, repo: repo, outbox: outbox, logger: l}
}

func (e *Emitter) Emit(ctx context.Context, recipientUserID, notifType, message, link string) {
	rid := contextutil.GetRequestID(ctx)

	// The caller's request may already be finishing; detach from its
	// cancellation and bound the attempt instead.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emitTimeout)
	defer cancel()

	recipient, err := uuid.Parse(recipientUserID)
	if err != nil {
		e.logger.Error("emit notification dropped, bad recipient",
			zap.String("request_id", rid),
			zap.String("recipient_user_id", recipientUserID),
			zap.String("type", notifType),
		)
		return
	}

	n := &Notification{
		ID:              uuid.New(),
		RecipientUserID: recipient,
		Type:            notifType,
		Message:         message,
		Link:            link,
	}

	if err := e.persist(ctx, rid, n); err != nil {
		e.logger.Error("emit notification failed",
			zap.String("request_id", rid),
			zap.String("recipient_user_id", recipientUserID),
			zap.String("type", notifType),
			zap.Error(err),
		)
		return
	}

	e.logger.Info("notification emitted",
		zap.String("request_id", rid),
		zap.String("notification_id", n.ID.String()),
		zap.String("recipient_user_id", recipientUserID),
		zap.String("type", notifType),
	)
}

// persist writes the row and its dispatch event in one transaction so
// the outbox never references a notification that was rolled back.
func (e *Emitter) persist(ctx context.Context, requestID string, n *Notification) error {
	event, err := kafka.NewDispatchEvent(requestID, events.NotificationDispatchEvent{
		EventType:       n.Type,
		NotificationID:  n.ID.String(),
		RecipientUserID: n.RecipientUserID.String(),
		Type:            n.Type,
		Message:         n.Message,
		Link:            n.Link,
		OccurredAt:      time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	tx, err := e.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := e.repo.WithTx(tx).Create(ctx, n); err != nil {
		return err
	}
	if err := e.outbox.WithTx(tx).Create(ctx, event); err != nil {
		return err
	}

	return tx.Commit()
}
