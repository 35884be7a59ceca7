package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/pkg/qrcode"

	"github.com/shopspring/decimal"
)

// QRPayload is the JSON encoded into a payment's QR artifact.
type QRPayload struct {
	PaymentID   string          `json:"paymentId"`
	OrderNumber string          `json:"orderNumber"`
	Amount      decimal.Decimal `json:"amount"`
	Merchant    string          `json:"merchant"`
}

// QRResult is returned by GenerateQR.
type QRResult struct {
	QRCode      string    `json:"qrCode"`
	PaymentData QRPayload `json:"paymentData"`
	PaymentID   string    `json:"paymentId"`
}

// ConfirmResult is returned by ConfirmPayment.
type ConfirmResult struct {
	Payment     *models.Payment `json:"payment"`
	Order       *models.Order   `json:"order"`
	OrderNumber string          `json:"orderNumber"`
}

// PaymentStatusOptions are the admin flags accepted by SetPaymentStatus.
type PaymentStatusOptions struct {
	SetOrderStatus   models.OrderStatus
	SkipNotification bool
}

// PaymentService drives the payment side of the order lifecycle.
type PaymentService struct {
	store     repositories.Store
	notifier  *NotificationService
	publisher EventPublisher
	merchant  string
	ids       *IdentifierGenerator
	now       func() time.Time
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(store repositories.Store, notifier *NotificationService, publisher EventPublisher, merchant string) *PaymentService {
	return &PaymentService{
		store:     store,
		notifier:  notifier,
		publisher: publisher,
		merchant:  merchant,
		ids:       NewIdentifierGenerator(),
		now:       time.Now,
	}
}

func (s *PaymentService) load(ctx context.Context, repo repositories.PaymentRepository, id string) (*models.Payment, error) {
	payment, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "Payment")
	}
	return payment, nil
}

// GetPayment returns a payment to its owner or to an admin.
func (s *PaymentService) GetPayment(ctx context.Context, caller CurrentUser, id string) (*models.Payment, error) {
	payment, err := s.load(ctx, s.store.Payments(), id)
	if err != nil {
		return nil, err
	}
	if payment.UserID != caller.ID && !caller.IsAdmin() {
		return nil, ErrAccessDenied
	}
	return payment, nil
}

// ListAll returns every payment, newest first.
func (s *PaymentService) ListAll(ctx context.Context) ([]models.Payment, error) {
	return s.store.Payments().GetAll(ctx)
}

// GenerateQR renders and stores the QR artifact of an online payment.
func (s *PaymentService) GenerateQR(ctx context.Context, caller CurrentUser, id string) (*QRResult, error) {
	payment, err := s.load(ctx, s.store.Payments(), id)
	if err != nil {
		return nil, err
	}
	if payment.UserID != caller.ID {
		return nil, ErrAccessDenied
	}
	if payment.Method != models.PaymentMethodOnline {
		return nil, validationError("QR code only for online payments")
	}

	data := QRPayload{
		PaymentID: payment.PaymentID,
		Amount:    payment.Amount,
		Merchant:  s.merchant,
	}
	if payment.Order != nil {
		data.OrderNumber = payment.Order.OrderNumber
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode QR payload: %w", err)
	}
	image, err := qrcode.DataURL(string(encoded))
	if err != nil {
		return nil, err
	}

	payment.QRCode = image
	payment.QRCodeData = string(encoded)
	if err := s.store.Payments().Update(ctx, payment); err != nil {
		return nil, translateRepoError(err, "Payment")
	}
	return &QRResult{QRCode: image, PaymentData: data, PaymentID: payment.PaymentID}, nil
}

// ConfirmPayment is the customer's own confirmation of an online payment.
func (s *PaymentService) ConfirmPayment(ctx context.Context, caller CurrentUser, id string) (*ConfirmResult, error) {
	var payment *models.Payment
	var order *models.Order
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		var err error
		payment, err = s.load(ctx, tx.Payments(), id)
		if err != nil {
			return err
		}
		if payment.UserID != caller.ID {
			return ErrAccessDenied
		}
		if payment.Status == models.PaymentStatusPaid {
			return ErrAlreadyConfirmed
		}
		if payment.Method != models.PaymentMethodOnline {
			return validationError("confirmation is only for online payments")
		}

		paidAt := s.now()
		payment.Status = models.PaymentStatusPaid
		payment.PaymentDate = &paidAt
		payment.TransactionID = s.ids.Generate(transactionIDPrefix, nil)
		if err := tx.Payments().Update(ctx, payment); err != nil {
			return err
		}

		order, err = tx.Orders().GetByID(ctx, payment.OrderID)
		if err != nil {
			return translateRepoError(err, "Order")
		}
		order.PaymentStatus = models.PaymentStatusPaid
		order.OrderStatus = models.OrderStatusConfirmed
		return tx.Orders().Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Payment %s confirmed by user %s (transaction %s)", payment.PaymentID, caller.ID, payment.TransactionID)
	publishEvent(ctx, s.publisher, EventPaymentConfirmed, payment.ID, map[string]interface{}{
		"paymentId":     payment.PaymentID,
		"orderId":       order.ID,
		"orderNumber":   order.OrderNumber,
		"transactionId": payment.TransactionID,
	})

	// The payment was loaded before the order changed; drop the stale copy.
	payment.Order = nil
	return &ConfirmResult{Payment: payment, Order: order, OrderNumber: order.OrderNumber}, nil
}

// SetPaymentStatus is the admin override of a payment's status. Marking a payment paid
// confirms its order, or moves it to processing when requested.
func (s *PaymentService) SetPaymentStatus(ctx context.Context, id string, newStatus models.PaymentStatus, opts PaymentStatusOptions) (*models.Payment, error) {
	if !newStatus.Valid() {
		return nil, validationError("invalid payment status %q", newStatus)
	}

	var payment *models.Payment
	var order *models.Order
	var processing bool
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		var err error
		payment, err = s.load(ctx, tx.Payments(), id)
		if err != nil {
			return err
		}
		payment.Status = newStatus
		if newStatus == models.PaymentStatusPaid && payment.PaymentDate == nil {
			paidAt := s.now()
			payment.PaymentDate = &paidAt
		}
		if err := tx.Payments().Update(ctx, payment); err != nil {
			return err
		}

		order = payment.Order
		if order == nil {
			return nil
		}
		order.PaymentStatus = newStatus
		if newStatus == models.PaymentStatusPaid {
			if opts.SetOrderStatus == models.OrderStatusProcessing {
				order.OrderStatus = models.OrderStatusProcessing
				processing = true
			} else {
				order.OrderStatus = models.OrderStatusConfirmed
			}
		}
		return tx.Orders().Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Payment %s status set to %s (method %s, skipNotification %t)", payment.PaymentID, newStatus, payment.Method, opts.SkipNotification)

	if shouldNotifyPaymentPaid(newStatus, payment, order, opts) {
		s.notifier.notifyQuietly(ctx, models.NotificationTypePayment,
			paymentPaidMessage(order.OrderNumber, processing, Stamp(s.now())),
			UserAudience(payment.UserID),
			NotifyOptions{
				Link: "/orders/" + order.ID,
				Metadata: map[string]interface{}{
					"orderId":       order.ID,
					"paymentId":     payment.ID,
					"paymentStatus": "verified",
				},
			})
	}
	publishEvent(ctx, s.publisher, EventPaymentStatusChanged, payment.ID, map[string]interface{}{
		"paymentId": payment.PaymentID,
		"orderId":   payment.OrderID,
		"status":    newStatus,
	})
	return payment, nil
}

// shouldNotifyPaymentPaid holds the customer notification rule for admin payment updates.
// Cash on delivery is bookkeeping and never notifies.
func shouldNotifyPaymentPaid(newStatus models.PaymentStatus, payment *models.Payment, order *models.Order, opts PaymentStatusOptions) bool {
	return newStatus == models.PaymentStatusPaid &&
		payment.UserID != "" &&
		!opts.SkipNotification &&
		payment.Method != models.PaymentMethodCOD &&
		order != nil && order.OrderNumber != ""
}

func paymentPaidMessage(orderNumber string, processing bool, stamp string) string {
	if processing {
		return fmt.Sprintf("Payment has been received, so we are processing your order. Order #%s - %s", orderNumber, stamp)
	}
	return fmt.Sprintf("Payment successful! Your payment for Order #%s has been verified. Order confirmed. - %s", orderNumber, stamp)
}

// DeletePayment removes a payment on its own and unlinks it from its order.
func (s *PaymentService) DeletePayment(ctx context.Context, id string) error {
	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		payment, err := s.load(ctx, tx.Payments(), id)
		if err != nil {
			return err
		}
		if order := payment.Order; order != nil {
			order.PaymentID = nil
			if err := tx.Orders().Update(ctx, order); err != nil {
				return err
			}
		}
		return tx.Payments().Delete(ctx, payment.ID)
	})
}
