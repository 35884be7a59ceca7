package services

import (
	"context"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// ReviewService records product reviews and tells the admins about them.
type ReviewService struct {
	reviews  repositories.ReviewRepository
	products repositories.ProductRepository
	notifier *NotificationService
}

// NewReviewService creates a new ReviewService.
func NewReviewService(reviews repositories.ReviewRepository, products repositories.ProductRepository, notifier *NotificationService) *ReviewService {
	return &ReviewService{reviews: reviews, products: products, notifier: notifier}
}

// Submit stores a review by author on productID.
func (s *ReviewService) Submit(ctx context.Context, author CurrentUser, productID string, rating int, comment string) (*models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, validationError("rating must be between 1 and 5")
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, translateRepoError(err, "Product")
	}

	review := &models.Review{
		ProductID: product.ID,
		UserID:    author.ID,
		UserName:  author.Name,
		Rating:    rating,
		Comment:   comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	s.notifier.notifyQuietly(ctx, models.NotificationTypeReview,
		fmt.Sprintf("New review on %q by %s", product.Name, author.Name),
		AdminAudience(),
		NotifyOptions{
			Link: "/admin",
			Metadata: map[string]interface{}{
				"productId":   product.ID,
				"productName": product.Name,
				"userId":      author.ID,
				"userName":    author.Name,
			},
		})
	return review, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID string) ([]models.Review, error) {
	return s.reviews.GetByProduct(ctx, productID)
}
