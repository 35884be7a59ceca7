package services

import (
	"context"
	"errors"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// GetAllProducts retrieves the catalog. Customers only see active products.
func (s *ProductService) GetAllProducts(ctx context.Context, includeInactive bool) ([]models.Product, error) {
	return s.repo.GetAll(ctx, !includeInactive)
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "Product")
	}
	return product, nil
}

// CreateProduct creates a new product.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	return s.repo.Create(ctx, product)
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := validateProduct(product); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return translateRepoError(err, "Product")
	}
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return translateRepoError(err, "Product")
	}
	return nil
}

// ReserveStock decrements stock for a single product outside of a checkout.
func (s *ProductService) ReserveStock(ctx context.Context, productID string, quantity int) (*models.Product, error) {
	return reserveStock(ctx, s.repo, productID, quantity)
}

func validateProduct(product *models.Product) error {
	if !product.Price.IsPositive() {
		return validationError("price must be greater than 0")
	}
	if product.Status == "" {
		product.Status = models.ProductStatusActive
	}
	if product.Status != models.ProductStatusActive && product.Status != models.ProductStatusInactive {
		return validationError("unknown product status %q", product.Status)
	}
	return nil
}

// reserveStock is the inventory adjustment used by checkout: the product must exist,
// be active and hold at least quantity units. The decrement is persisted immediately
// through a conditional update.
func reserveStock(ctx context.Context, repo repositories.ProductRepository, productID string, quantity int) (*models.Product, error) {
	if quantity < 1 {
		return nil, validationError("quantity must be at least 1")
	}
	product, err := repo.DecrementStock(ctx, productID, quantity)
	if err == nil {
		return product, nil
	}
	if errors.Is(err, repositories.ErrInsufficientStock) && product != nil {
		if !product.IsActive() {
			return nil, validationError("%s is not available", product.Name)
		}
		return nil, &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Requested:   quantity,
			Available:   product.Stock,
		}
	}
	return nil, translateRepoError(err, "Product")
}
