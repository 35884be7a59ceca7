package services_test

import (
	"encoding/json"
	"strings"
	"testing"

	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) onlineOrder(t *testing.T) *services.CheckoutResult {
	t.Helper()
	product := f.seedProduct(t, "Speaker", 600, 5, models.ProductStatusActive)
	return f.checkout(t, models.PaymentMethodOnline, services.OrderItemInput{ProductID: product.ID, Quantity: 1})
}

func (f *fixture) codOrder(t *testing.T) *services.CheckoutResult {
	t.Helper()
	product := f.seedProduct(t, "Fan", 600, 5, models.ProductStatusActive)
	return f.checkout(t, models.PaymentMethodCOD, services.OrderItemInput{ProductID: product.ID, Quantity: 1})
}

func TestConfirmPayment(t *testing.T) {
	f := newFixture(t)
	checkout := f.onlineOrder(t)

	result, err := f.payments.ConfirmPayment(f.ctx, f.customer, checkout.Payment.ID)
	require.NoError(t, err)

	assert.Equal(t, models.PaymentStatusPaid, result.Payment.Status)
	require.NotNil(t, result.Payment.PaymentDate)
	assert.True(t, strings.HasPrefix(result.Payment.TransactionID, "TXN-"))
	assert.Equal(t, models.PaymentStatusPaid, result.Order.PaymentStatus)
	assert.Equal(t, models.OrderStatusConfirmed, result.Order.OrderStatus)
	assert.Equal(t, checkout.Order.OrderNumber, result.OrderNumber)

	order, err := f.store.Orders().GetByID(f.ctx, checkout.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)
	assert.Equal(t, models.OrderStatusConfirmed, order.OrderStatus)
	assert.Equal(t, 1, f.publisher.published(services.EventPaymentConfirmed))
}

func TestConfirmPayment_AlreadyConfirmedKeepsProof(t *testing.T) {
	f := newFixture(t)
	checkout := f.onlineOrder(t)

	first, err := f.payments.ConfirmPayment(f.ctx, f.customer, checkout.Payment.ID)
	require.NoError(t, err)

	_, err = f.payments.ConfirmPayment(f.ctx, f.customer, checkout.Payment.ID)
	assert.ErrorIs(t, err, services.ErrAlreadyConfirmed)

	stored, err := f.store.Payments().GetByID(f.ctx, checkout.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Payment.TransactionID, stored.TransactionID)
	require.NotNil(t, stored.PaymentDate)
	assert.True(t, first.Payment.PaymentDate.Equal(*stored.PaymentDate))
}

func TestConfirmPayment_Preconditions(t *testing.T) {
	f := newFixture(t)
	online := f.onlineOrder(t)
	cod := f.codOrder(t)

	_, err := f.payments.ConfirmPayment(f.ctx, f.customer, "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)

	_, err = f.payments.ConfirmPayment(f.ctx, f.other, online.Payment.ID)
	assert.ErrorIs(t, err, services.ErrAccessDenied)

	_, err = f.payments.ConfirmPayment(f.ctx, f.customer, cod.Payment.ID)
	assert.ErrorIs(t, err, services.ErrValidation)

	stored, err := f.store.Payments().GetByID(f.ctx, online.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, stored.Status)
}

func TestSetPaymentStatus_NotificationRules(t *testing.T) {
	tests := []struct {
		name        string
		cod         bool
		status      models.PaymentStatus
		opts        services.PaymentStatusOptions
		wantNotify  bool
		wantOrder   models.OrderStatus
		wantMessage string
	}{
		{
			name:        "online paid confirms",
			status:      models.PaymentStatusPaid,
			wantNotify:  true,
			wantOrder:   models.OrderStatusConfirmed,
			wantMessage: "Payment successful! Your payment for Order #",
		},
		{
			name:        "online paid with processing",
			status:      models.PaymentStatusPaid,
			opts:        services.PaymentStatusOptions{SetOrderStatus: models.OrderStatusProcessing},
			wantNotify:  true,
			wantOrder:   models.OrderStatusProcessing,
			wantMessage: "Payment has been received, so we are processing your order. Order #",
		},
		{
			name:      "online paid skip notification",
			status:    models.PaymentStatusPaid,
			opts:      services.PaymentStatusOptions{SkipNotification: true},
			wantOrder: models.OrderStatusConfirmed,
		},
		{
			name:      "cod paid never notifies",
			cod:       true,
			status:    models.PaymentStatusPaid,
			opts:      services.PaymentStatusOptions{SetOrderStatus: models.OrderStatusProcessing},
			wantOrder: models.OrderStatusProcessing,
		},
		{
			name:      "online failed leaves order status",
			status:    models.PaymentStatusFailed,
			wantOrder: models.OrderStatusPending,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			checkout := f.onlineOrder(t)
			if tt.cod {
				checkout = f.codOrder(t)
			}

			payment, err := f.payments.SetPaymentStatus(f.ctx, checkout.Payment.ID, tt.status, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.status, payment.Status)

			order, err := f.store.Orders().GetByID(f.ctx, checkout.Order.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.status, order.PaymentStatus)
			assert.Equal(t, tt.wantOrder, order.OrderStatus)

			inbox := f.inbox(t, services.UserAudience(f.customer.ID))
			if !tt.wantNotify {
				assert.Empty(t, inbox)
				return
			}
			require.Len(t, inbox, 1)
			assert.Equal(t, models.NotificationTypePayment, inbox[0].Type)
			assert.True(t, strings.HasPrefix(inbox[0].Message, tt.wantMessage+order.OrderNumber))
			assert.Equal(t, "/orders/"+order.ID, inbox[0].Link)
			assert.Equal(t, "verified", inbox[0].Metadata["paymentStatus"])
		})
	}
}

func TestSetPaymentStatus_PaidSetsPaymentDateOnce(t *testing.T) {
	f := newFixture(t)
	checkout := f.codOrder(t)

	paid, err := f.payments.SetPaymentStatus(f.ctx, checkout.Payment.ID, models.PaymentStatusPaid, services.PaymentStatusOptions{})
	require.NoError(t, err)
	require.NotNil(t, paid.PaymentDate)
	first := *paid.PaymentDate

	again, err := f.payments.SetPaymentStatus(f.ctx, checkout.Payment.ID, models.PaymentStatusPaid, services.PaymentStatusOptions{})
	require.NoError(t, err)
	assert.True(t, first.Equal(*again.PaymentDate))
}

func TestSetPaymentStatus_Errors(t *testing.T) {
	f := newFixture(t)
	checkout := f.onlineOrder(t)

	_, err := f.payments.SetPaymentStatus(f.ctx, checkout.Payment.ID, "settled", services.PaymentStatusOptions{})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = f.payments.SetPaymentStatus(f.ctx, "missing", models.PaymentStatusPaid, services.PaymentStatusOptions{})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestGenerateQR(t *testing.T) {
	f := newFixture(t)
	online := f.onlineOrder(t)
	cod := f.codOrder(t)

	result, err := f.payments.GenerateQR(f.ctx, f.customer, online.Payment.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.QRCode, "data:image/png;base64,"))
	assert.Equal(t, online.Payment.PaymentID, result.PaymentID)
	assert.Equal(t, online.Order.OrderNumber, result.PaymentData.OrderNumber)
	assert.Equal(t, "E-Commerce Store", result.PaymentData.Merchant)
	assert.True(t, online.Order.Total.Equal(result.PaymentData.Amount))

	stored, err := f.store.Payments().GetByID(f.ctx, online.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, result.QRCode, stored.QRCode)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stored.QRCodeData), &payload))
	assert.Equal(t, online.Payment.PaymentID, payload["paymentId"])
	assert.Equal(t, online.Order.OrderNumber, payload["orderNumber"])
	assert.Equal(t, float64(700), payload["amount"])
	assert.Equal(t, "E-Commerce Store", payload["merchant"])

	_, err = f.payments.GenerateQR(f.ctx, f.customer, cod.Payment.ID)
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = f.payments.GenerateQR(f.ctx, f.other, online.Payment.ID)
	assert.ErrorIs(t, err, services.ErrAccessDenied)
}

func TestGetPayment_Ownership(t *testing.T) {
	f := newFixture(t)
	checkout := f.onlineOrder(t)

	_, err := f.payments.GetPayment(f.ctx, f.customer, checkout.Payment.ID)
	assert.NoError(t, err)
	_, err = f.payments.GetPayment(f.ctx, f.admin, checkout.Payment.ID)
	assert.NoError(t, err)
	_, err = f.payments.GetPayment(f.ctx, f.other, checkout.Payment.ID)
	assert.ErrorIs(t, err, services.ErrAccessDenied)
}

func TestDeletePayment_KeepsOrder(t *testing.T) {
	f := newFixture(t)
	checkout := f.onlineOrder(t)

	require.NoError(t, f.payments.DeletePayment(f.ctx, checkout.Payment.ID))

	order, err := f.store.Orders().GetByID(f.ctx, checkout.Order.ID)
	require.NoError(t, err)
	assert.Nil(t, order.PaymentID)
	assert.Nil(t, order.Payment)

	_, err = f.store.Payments().GetByID(f.ctx, checkout.Payment.ID)
	assert.Error(t, err)
	assert.ErrorIs(t, f.payments.DeletePayment(f.ctx, checkout.Payment.ID), services.ErrNotFound)
}
