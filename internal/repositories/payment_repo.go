package repositories

import (
	"context"

	"storefront/internal/models"
)

// PaymentRepository defines the interface for payment data access.
type PaymentRepository interface {
	GetAll(ctx context.Context) ([]models.Payment, error)
	GetByID(ctx context.Context, id string) (*models.Payment, error)
	PaymentIDExists(ctx context.Context, paymentID string) (bool, error)
	Create(ctx context.Context, payment *models.Payment) error
	// Update persists status, confirmation and QR fields.
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id string) error
	DeleteByOrderID(ctx context.Context, orderID string) error
}
