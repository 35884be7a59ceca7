package repositories

import (
	"context"

	"storefront/internal/models"
)

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll(ctx context.Context, activeOnly bool) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	// DecrementStock atomically subtracts quantity from an active product's stock.
	// It returns ErrInsufficientStock when the product is inactive or short on stock.
	DecrementStock(ctx context.Context, id string, quantity int) (*models.Product, error)
}
