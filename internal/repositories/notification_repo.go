package repositories

import (
	"context"

	"storefront/internal/models"
)

// NotificationRepository defines the interface for notification data access.
// A nil userID addresses the admin inbox (notifications without an owner).
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	List(ctx context.Context, userID *string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string, userID *string) (*models.Notification, error)
	Delete(ctx context.Context, id string, userID *string) error
}
