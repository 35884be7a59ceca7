package services_test

import (
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_Submit(t *testing.T) {
	f := newFixture(t)
	reviews := services.NewReviewService(f.store.Reviews(), f.store.Products(), f.notifier)
	lamp := f.seedProduct(t, "Lamp", 300, 10, models.ProductStatusActive)

	review, err := reviews.Submit(f.ctx, f.customer, lamp.ID, 5, "Bright and sturdy")
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)
	assert.Equal(t, "Jane Customer", review.UserName)

	listed, err := reviews.ListByProduct(f.ctx, lamp.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, 5, listed[0].Rating)

	admin := f.inbox(t, services.AdminAudience())
	require.Len(t, admin, 1)
	assert.Equal(t, models.NotificationTypeReview, admin[0].Type)
	assert.Equal(t, `New review on "Lamp" by Jane Customer`, admin[0].Message)
	assert.Equal(t, lamp.ID, admin[0].Metadata["productId"])
	assert.Empty(t, f.inbox(t, services.UserAudience(f.customer.ID)))
}

func TestReviewService_SubmitErrors(t *testing.T) {
	f := newFixture(t)
	reviews := services.NewReviewService(f.store.Reviews(), f.store.Products(), f.notifier)
	lamp := f.seedProduct(t, "Lamp", 300, 10, models.ProductStatusActive)

	tests := []struct {
		name      string
		productID string
		rating    int
		want      error
	}{
		{"rating too low", lamp.ID, 0, services.ErrValidation},
		{"rating too high", lamp.ID, 6, services.ErrValidation},
		{"unknown product", "missing", 4, services.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := reviews.Submit(f.ctx, f.customer, tt.productID, tt.rating, "")
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, f.inbox(t, services.AdminAudience()))
}
