package repositories

import (
	"context"

	"storefront/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll(ctx context.Context) ([]models.Order, error)
	GetByUser(ctx context.Context, userID string) ([]models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)
	// Create inserts the order together with its line items.
	Create(ctx context.Context, order *models.Order) error
	// Update persists the mutable state of an order: both statuses and the payment link.
	Update(ctx context.Context, order *models.Order) error
	// Delete removes the order and its line items.
	Delete(ctx context.Context, id string) error
}
