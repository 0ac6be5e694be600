package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	notificationerrors "github.com/parryG11/hr/internal/notification/errors"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	ListMine(ctx context.Context, recipientUserID string, unreadOnly bool) ([]NotificationResponse, error)
	UnreadCount(ctx context.Context, recipientUserID string) (UnreadCountResponse, error)
	MarkRead(ctx context.Context, recipientUserID, id string) error
	MarkAllRead(ctx context.Context, recipientUserID string) error
	MarkDispatched(ctx context.Context, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) ListMine(ctx context.Context, recipientUserID string, unreadOnly bool) ([]NotificationResponse, error) {
	if _, err := uuid.Parse(recipientUserID); err != nil {
		return nil, notificationerrors.ErrInvalidRecipientID
	}

	notifications, err := s.repo.ListByRecipient(ctx, recipientUserID, unreadOnly)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		resp[i] = mapToResponse(n)
	}
	return resp, nil
}

func (s *service) UnreadCount(ctx context.Context, recipientUserID string) (UnreadCountResponse, error) {
	if _, err := uuid.Parse(recipientUserID); err != nil {
		return UnreadCountResponse{}, notificationerrors.ErrInvalidRecipientID
	}

	count, err := s.repo.CountUnread(ctx, recipientUserID)
	if err != nil {
		return UnreadCountResponse{}, err
	}
	return UnreadCountResponse{Unread: count}, nil
}

func (s *service) MarkRead(ctx context.Context, recipientUserID, id string) error {
	if _, err := uuid.Parse(recipientUserID); err != nil {
		return notificationerrors.ErrInvalidRecipientID
	}
	if _, err := uuid.Parse(id); err != nil {
		return notificationerrors.ErrNotificationNotFound
	}
	return s.repo.MarkRead(ctx, recipientUserID, id)
}

func (s *service) MarkAllRead(ctx context.Context, recipientUserID string) error {
	if _, err := uuid.Parse(recipientUserID); err != nil {
		return notificationerrors.ErrInvalidRecipientID
	}
	return s.repo.MarkAllRead(ctx, recipientUserID)
}

func (s *service) MarkDispatched(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notificationerrors.ErrNotificationNotFound
	}
	return s.repo.MarkDispatched(ctx, id)
}
