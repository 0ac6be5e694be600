package notification

import (
	"context"
	"database/sql"

	notificationerrors "github.com/parryG11/hr/internal/notification/errors"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, n *Notification) error
	ListByRecipient(ctx context.Context, recipientUserID string, unreadOnly bool) ([]Notification, error)
	CountUnread(ctx context.Context, recipientUserID string) (int64, error)
	MarkRead(ctx context.Context, recipientUserID, id string) error
	MarkAllRead(ctx context.Context, recipientUserID string) error
	MarkDispatched(ctx context.Context, id string) error
}

type repository struct {
	db *sql.DB
	tx *sql.Tx
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

type querier interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func (r *repository) querier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	query := `
INSERT INTO notifications (id, recipient_user_id, type, message, link, read, created_at)
VALUES ($1, $2, $3, $4, $5, FALSE, NOW())
`

	_, err := r.querier().ExecContext(ctx, query,
		n.ID, n.RecipientUserID, n.Type, n.Message, n.Link,
	)
	return err
}

func (r *repository) ListByRecipient(ctx context.Context, recipientUserID string, unreadOnly bool) ([]Notification, error) {
	query := `
SELECT id, recipient_user_id, type, message, link, read, dispatched_at, created_at
FROM notifications
WHERE recipient_user_id = $1
`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.querier().QueryContext(ctx, query, recipientUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(
			&n.ID,
			&n.RecipientUserID,
			&n.Type,
			&n.Message,
			&n.Link,
			&n.Read,
			&n.DispatchedAt,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *repository) CountUnread(ctx context.Context, recipientUserID string) (int64, error) {
	query := `SELECT COUNT(1) FROM notifications WHERE recipient_user_id = $1 AND read = FALSE`

	var count int64
	err := r.querier().QueryRowContext(ctx, query, recipientUserID).Scan(&count)
	return count, err
}

// MarkRead is scoped to the recipient so a user cannot flip another
// user's notifications.
func (r *repository) MarkRead(ctx context.Context, recipientUserID, id string) error {
	query := `
UPDATE notifications
SET read = TRUE
WHERE id = $1 AND recipient_user_id = $2
`

	res, err := r.querier().ExecContext(ctx, query, id, recipientUserID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}

func (r *repository) MarkAllRead(ctx context.Context, recipientUserID string) error {
	query := `
UPDATE notifications
SET read = TRUE
WHERE recipient_user_id = $1 AND read = FALSE
`
	_, err := r.querier().ExecContext(ctx, query, recipientUserID)
	return err
}

func (r *repository) MarkDispatched(ctx context.Context, id string) error {
	query := `
UPDATE notifications
SET dispatched_at = NOW()
WHERE id = $1 AND dispatched_at IS NULL
`
	_, err := r.querier().ExecContext(ctx, query, id)
	return err
}
