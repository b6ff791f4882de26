package notification

import (
	"context"

	"creatorhub/models"
)

// NotificationAPI is the backend surface the store reconciles against.
type NotificationAPI interface {
	ListNotifications(ctx context.Context, userID string) ([]models.Notification, error)
	CreateNotification(ctx context.Context, n models.Notification) error
	MarkNotificationRead(ctx context.Context, id string) error
	ClearNotifications(ctx context.Context, userID string) error
}

// SessionSource exposes the live session and its generation.
type SessionSource interface {
	Current() *models.Session
	Generation() uint64
}
