package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// CartService manages a user's persisted cart.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
}

// NewCartService creates a new CartService.
func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

func (s *CartService) GetCart(ctx context.Context, userID string) ([]models.CartItem, error) {
	return s.carts.ListByUser(ctx, userID)
}

// AddItem puts a product into the cart, merging with an existing line.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) ([]models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return nil, translateRepoError(err, "Product")
	}
	if _, err := s.carts.Add(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}
	return s.carts.ListByUser(ctx, userID)
}

// UpdateItem changes a line's quantity; zero or less removes it.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID string, quantity int) ([]models.CartItem, error) {
	var err error
	if quantity <= 0 {
		err = s.carts.Remove(ctx, userID, itemID)
	} else {
		err = s.carts.UpdateQuantity(ctx, userID, itemID, quantity)
	}
	if err != nil {
		return nil, translateRepoError(err, "Cart item")
	}
	return s.carts.ListByUser(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID string) ([]models.CartItem, error) {
	if err := s.carts.Remove(ctx, userID, itemID); err != nil {
		return nil, translateRepoError(err, "Cart item")
	}
	return s.carts.ListByUser(ctx, userID)
}

func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.carts.Clear(ctx, userID)
}
