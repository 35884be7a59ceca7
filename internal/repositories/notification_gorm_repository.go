package repositories

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMNotificationRepository is a GORM implementation of NotificationRepository.
type GORMNotificationRepository struct {
	db *gorm.DB
}

// NewGORMNotificationRepository creates a new instance of GORMNotificationRepository.
func NewGORMNotificationRepository(db *gorm.DB) *GORMNotificationRepository {
	return &GORMNotificationRepository{db: db}
}

func scopeOwner(db *gorm.DB, userID *string) *gorm.DB {
	if userID == nil {
		return db.Where("user_id IS NULL")
	}
	return db.Where("user_id = ?", *userID)
}

func (r *GORMNotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// List returns the newest notifications of one inbox.
func (r *GORMNotificationRepository) List(ctx context.Context, userID *string, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := scopeOwner(r.db.WithContext(ctx), userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *GORMNotificationRepository) MarkRead(ctx context.Context, id string, userID *string) (*models.Notification, error) {
	db := r.db.WithContext(ctx)
	res := scopeOwner(db.Model(&models.Notification{}).Where("id = ?", id), userID).Update("read", true)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to mark notification %s as read: %w", id, res.Error)
	}

	var notification models.Notification
	if err := scopeOwner(db.Where("id = ?", id), userID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("notification %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get notification %s: %w", id, err)
	}
	return &notification, nil
}

func (r *GORMNotificationRepository) Delete(ctx context.Context, id string, userID *string) error {
	res := scopeOwner(r.db.WithContext(ctx).Where("id = ?", id), userID).Delete(&models.Notification{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete notification %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	return nil
}
