package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

const (
	inboxLimit  = 50
	stampLayout = "January 2, 2006, Monday, 03:04 PM"
)

// Audience selects an inbox: the shared admin inbox or one user's inbox.
type Audience struct {
	userID string
}

// AdminAudience addresses notifications with no owning user.
func AdminAudience() Audience { return Audience{} }

// UserAudience addresses the notifications owned by userID.
func UserAudience(userID string) Audience { return Audience{userID: userID} }

// IsAdmin reports whether a is the admin inbox.
func (a Audience) IsAdmin() bool { return a.userID == "" }

// UserID returns the owning user, empty for the admin inbox.
func (a Audience) UserID() string { return a.userID }

func (a Audience) owner() *string {
	if a.IsAdmin() {
		return nil
	}
	id := a.userID
	return &id
}

// NotifyOptions carries the optional fields of a notification.
type NotifyOptions struct {
	Link     string
	Metadata map[string]interface{}
}

// NotificationService creates and serves inbox notifications.
type NotificationService struct {
	repo repositories.NotificationRepository
	now  func() time.Time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repositories.NotificationRepository) *NotificationService {
	return &NotificationService{repo: repo, now: time.Now}
}

// Stamp formats t the way notification messages embed dates.
func Stamp(t time.Time) string {
	return t.Format(stampLayout)
}

// Notify stores a notification for the given audience.
func (s *NotificationService) Notify(ctx context.Context, kind models.NotificationType, message string, to Audience, opts NotifyOptions) (*models.Notification, error) {
	notification := &models.Notification{
		Type:     kind,
		Message:  message,
		UserID:   to.owner(),
		Link:     opts.Link,
		Metadata: opts.Metadata,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}
	return notification, nil
}

// notifyQuietly is used by flows where the notification must not affect the outcome.
func (s *NotificationService) notifyQuietly(ctx context.Context, kind models.NotificationType, message string, to Audience, opts NotifyOptions) {
	if s == nil {
		return
	}
	if _, err := s.Notify(ctx, kind, message, to, opts); err != nil {
		log.Printf("Error creating %s notification: %v", kind, err)
	}
}

// Inbox returns the newest notifications of an audience.
func (s *NotificationService) Inbox(ctx context.Context, of Audience) ([]models.Notification, error) {
	return s.repo.List(ctx, of.owner(), inboxLimit)
}

// MarkRead flags a notification of the audience as read.
func (s *NotificationService) MarkRead(ctx context.Context, id string, of Audience) (*models.Notification, error) {
	notification, err := s.repo.MarkRead(ctx, id, of.owner())
	if err != nil {
		return nil, translateRepoError(err, "Notification")
	}
	return notification, nil
}

// Delete removes a notification of the audience.
func (s *NotificationService) Delete(ctx context.Context, id string, of Audience) error {
	if err := s.repo.Delete(ctx, id, of.owner()); err != nil {
		return translateRepoError(err, "Notification")
	}
	return nil
}

// translateRepoError maps repository sentinels onto service errors.
func translateRepoError(err error, what string) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return fmt.Errorf("%s %w", what, ErrNotFound)
	}
	return err
}
