package services

import (
	"github.com/shopspring/decimal"

	"storefront/internal/models"
)

// ShippingPolicy charges a flat fee unless the subtotal is strictly above the threshold.
type ShippingPolicy struct {
	FreeThreshold decimal.Decimal
	FlatFee       decimal.Decimal
}

// DefaultShippingPolicy is free shipping above 1000, otherwise 100.
func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		FreeThreshold: decimal.NewFromInt(1000),
		FlatFee:       decimal.NewFromInt(100),
	}
}

// Totals holds the computed money fields of an order.
type Totals struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Total       decimal.Decimal
}

// Quote computes totals for a set of order lines.
func (p ShippingPolicy) Quote(items []models.OrderItem) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	fee := p.FlatFee
	if subtotal.GreaterThan(p.FreeThreshold) {
		fee = decimal.Zero
	}
	return Totals{
		Subtotal:    subtotal,
		ShippingFee: fee,
		Total:       subtotal.Add(fee),
	}
}
