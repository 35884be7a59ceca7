package services_test

import (
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartService_AddMergesLines(t *testing.T) {
	f := newFixture(t)
	carts := services.NewCartService(f.store.Carts(), f.store.Products())
	lamp := f.seedProduct(t, "Lamp", 300, 10, models.ProductStatusActive)

	_, err := carts.AddItem(f.ctx, f.customer.ID, lamp.ID, 2)
	require.NoError(t, err)
	items, err := carts.AddItem(f.ctx, f.customer.ID, lamp.ID, 0)
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity, "a non-positive quantity adds one unit")
	require.NotNil(t, items[0].Product)
	assert.Equal(t, "Lamp", items[0].Product.Name)
}

func TestCartService_AddUnknownProduct(t *testing.T) {
	f := newFixture(t)
	carts := services.NewCartService(f.store.Carts(), f.store.Products())

	_, err := carts.AddItem(f.ctx, f.customer.ID, "missing", 1)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.EqualError(t, err, "Product not found")
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	f := newFixture(t)
	carts := services.NewCartService(f.store.Carts(), f.store.Products())
	lamp := f.seedProduct(t, "Lamp", 300, 10, models.ProductStatusActive)
	rug := f.seedProduct(t, "Rug", 900, 10, models.ProductStatusActive)

	items, err := carts.AddItem(f.ctx, f.customer.ID, lamp.ID, 1)
	require.NoError(t, err)
	lampLine := items[0].ID
	items, err = carts.AddItem(f.ctx, f.customer.ID, rug.ID, 1)
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = carts.UpdateItem(f.ctx, f.customer.ID, lampLine, 4)
	require.NoError(t, err)
	for _, item := range items {
		if item.ID == lampLine {
			assert.Equal(t, 4, item.Quantity)
		}
	}

	// Another user cannot touch the line.
	_, err = carts.UpdateItem(f.ctx, f.other.ID, lampLine, 2)
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = carts.RemoveItem(f.ctx, f.other.ID, lampLine)
	assert.ErrorIs(t, err, services.ErrNotFound)

	items, err = carts.UpdateItem(f.ctx, f.customer.ID, lampLine, 0)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, rug.ID, items[0].ProductID)

	items, err = carts.RemoveItem(f.ctx, f.customer.ID, items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCartService_Clear(t *testing.T) {
	f := newFixture(t)
	carts := services.NewCartService(f.store.Carts(), f.store.Products())
	lamp := f.seedProduct(t, "Lamp", 300, 10, models.ProductStatusActive)
	f.addToCart(t, f.customer, lamp.ID, 2)
	f.addToCart(t, f.other, lamp.ID, 1)

	require.NoError(t, carts.Clear(f.ctx, f.customer.ID))

	mine, err := carts.GetCart(f.ctx, f.customer.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)
	theirs, err := carts.GetCart(f.ctx, f.other.ID)
	require.NoError(t, err)
	assert.Len(t, theirs, 1)
}
