package repositories

import (
	"context"

	"storefront/internal/models"
)

// ReviewRepository defines the interface for product review data access.
type ReviewRepository interface {
	Create(ctx context.Context, review *models.Review) error
	GetByProduct(ctx context.Context, productID string) ([]models.Review, error)
}
