package models

import "time"

// NotificationType classifies what a notification is about.
type NotificationType string

const (
	NotificationTypeOrder   NotificationType = "order"
	NotificationTypeReview  NotificationType = "review"
	NotificationTypeUser    NotificationType = "user"
	NotificationTypePayment NotificationType = "payment"
)

// Notification is an inbox entry. A nil UserID marks an admin-directed notification.
type Notification struct {
	ID        string                 `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Type      NotificationType       `json:"type" gorm:"type:varchar(16);not null"`
	Message   string                 `json:"message" gorm:"type:text;not null"`
	Read      bool                   `json:"read" gorm:"not null;default:false"`
	UserID    *string                `json:"user_id" gorm:"type:varchar(36);index"`
	Link      string                 `json:"link,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" gorm:"serializer:json"`
	CreatedAt time.Time              `json:"created_at" gorm:"index"`
	UpdatedAt time.Time              `json:"updated_at"`
}
