package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
)

// OrderItemInput is one "buy now" line of a checkout request.
type OrderItemInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// CreateOrderInput is a checkout request. Without Items the caller's cart is consumed.
// Totals are always computed here; any client-side figures are ignored.
type CreateOrderInput struct {
	Items           []OrderItemInput       `json:"items" validate:"omitempty,dive"`
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   models.PaymentMethod   `json:"payment_method" validate:"required,oneof=cod online"`
}

// CheckoutResult is the outcome of CreateOrder.
type CheckoutResult struct {
	Order   *models.Order   `json:"order"`
	Payment *models.Payment `json:"payment"`
}

// statusMessages are the user-facing phrases for order status changes that notify the owner.
var statusMessages = map[models.OrderStatus]string{
	models.OrderStatusProcessing: "Your order is being processed",
	models.OrderStatusDelivered:  "Your order has been delivered",
}

// OrderService coordinates checkout and the order lifecycle.
type OrderService struct {
	store     repositories.Store
	notifier  *NotificationService
	publisher EventPublisher
	shipping  ShippingPolicy
	ids       *IdentifierGenerator
	now       func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(store repositories.Store, notifier *NotificationService, publisher EventPublisher, shipping ShippingPolicy) *OrderService {
	return &OrderService{
		store:     store,
		notifier:  notifier,
		publisher: publisher,
		shipping:  shipping,
		ids:       NewIdentifierGenerator(),
		now:       time.Now,
	}
}

// WithIdentifierGenerator replaces the id source, mostly for tests.
func (s *OrderService) WithIdentifierGenerator(ids *IdentifierGenerator) *OrderService {
	s.ids = ids
	return s
}

// CreateOrder reserves stock, writes the order and its payment, links them and clears the
// cart as one transaction. The admin notification and the event follow the commit.
func (s *OrderService) CreateOrder(ctx context.Context, customer CurrentUser, input CreateOrderInput) (*CheckoutResult, error) {
	if err := validateCheckout(input); err != nil {
		return nil, err
	}
	fromCart := len(input.Items) == 0

	var order *models.Order
	var payment *models.Payment
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		var (
			lines []models.OrderItem
			err   error
		)
		if fromCart {
			lines, err = cartLines(ctx, tx, customer.ID)
		} else {
			lines, err = directLines(ctx, tx, input.Items)
		}
		if err != nil {
			return err
		}

		totals := s.shipping.Quote(lines)
		orderStatus := models.OrderStatusPending
		if input.PaymentMethod == models.PaymentMethodCOD {
			orderStatus = models.OrderStatusConfirmed
		}

		order = &models.Order{
			ID: uuid.New().String(),
			OrderNumber: s.ids.Generate(orderNumberPrefix, func(candidate string) (bool, error) {
				return tx.Orders().OrderNumberExists(ctx, candidate)
			}),
			UserID:          customer.ID,
			Items:           lines,
			ShippingAddress: input.ShippingAddress,
			PaymentMethod:   input.PaymentMethod,
			PaymentStatus:   models.PaymentStatusPending,
			OrderStatus:     orderStatus,
			Subtotal:        totals.Subtotal,
			ShippingFee:     totals.ShippingFee,
			Total:           totals.Total,
		}
		if err := tx.Orders().Create(ctx, order); err != nil {
			return err
		}

		payment = &models.Payment{
			ID: uuid.New().String(),
			PaymentID: s.ids.Generate(paymentIDPrefix, func(candidate string) (bool, error) {
				return tx.Payments().PaymentIDExists(ctx, candidate)
			}),
			OrderID: order.ID,
			UserID:  customer.ID,
			Method:  input.PaymentMethod,
			Amount:  totals.Total,
			Status:  models.PaymentStatusPending,
		}
		if err := tx.Payments().Create(ctx, payment); err != nil {
			return err
		}

		order.PaymentID = &payment.ID
		if err := tx.Orders().Update(ctx, order); err != nil {
			return err
		}

		if fromCart {
			return tx.Carts().Clear(ctx, customer.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Order %s created for user %s (%s, total %s)", order.OrderNumber, customer.ID, order.PaymentMethod, order.Total.StringFixed(2))

	s.notifier.notifyQuietly(ctx, models.NotificationTypeOrder,
		fmt.Sprintf("New order #%s from %s - Rs. %s (%s)",
			order.OrderNumber, customer.Name, order.Total.StringFixed(2), strings.ToUpper(string(order.PaymentMethod))),
		AdminAudience(),
		NotifyOptions{
			Link:     "/admin",
			Metadata: map[string]interface{}{"orderId": order.ID, "userId": customer.ID},
		})
	publishEvent(ctx, s.publisher, EventOrderCreated, order.ID, map[string]interface{}{
		"orderNumber":   order.OrderNumber,
		"paymentId":     payment.PaymentID,
		"userId":        customer.ID,
		"paymentMethod": order.PaymentMethod,
		"total":         order.Total,
	})

	return s.expandCheckout(ctx, order, payment), nil
}

// expandCheckout reloads both records with their relations. The commit already
// happened, so a failed reload falls back to the in-memory copies.
func (s *OrderService) expandCheckout(ctx context.Context, order *models.Order, payment *models.Payment) *CheckoutResult {
	result := &CheckoutResult{Order: order, Payment: payment}
	if loaded, err := s.store.Orders().GetByID(ctx, order.ID); err == nil {
		result.Order = loaded
	} else {
		log.Printf("Error reloading order %s: %v", order.ID, err)
	}
	if loaded, err := s.store.Payments().GetByID(ctx, payment.ID); err == nil {
		result.Payment = loaded
	} else {
		log.Printf("Error reloading payment %s: %v", payment.ID, err)
	}
	return result
}

func validateCheckout(input CreateOrderInput) error {
	if !input.PaymentMethod.Valid() {
		return validationError("payment method must be cod or online")
	}
	addr := input.ShippingAddress
	if addr.FullName == "" || addr.Phone == "" || addr.Address == "" || addr.City == "" {
		return validationError("shipping address requires full name, phone, address and city")
	}
	for _, item := range input.Items {
		if item.ProductID == "" {
			return validationError("product id is required")
		}
		if item.Quantity < 1 {
			return validationError("quantity must be at least 1")
		}
	}
	return nil
}

// cartLines consumes the persisted cart. Lines whose product is gone or inactive are skipped.
func cartLines(ctx context.Context, tx repositories.Store, userID string) ([]models.OrderItem, error) {
	cart, err := tx.Carts().ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	lines := make([]models.OrderItem, 0, len(cart))
	for _, entry := range cart {
		if entry.Product == nil || !entry.Product.IsActive() {
			continue
		}
		product, err := reserveStock(ctx, tx.Products(), entry.ProductID, entry.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, snapshot(product, entry.Quantity))
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	return lines, nil
}

func directLines(ctx context.Context, tx repositories.Store, items []OrderItemInput) ([]models.OrderItem, error) {
	lines := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		product, err := reserveStock(ctx, tx.Products(), item.ProductID, item.Quantity)
		if err != nil {
			return nil, err
		}
		lines = append(lines, snapshot(product, item.Quantity))
	}
	return lines, nil
}

func snapshot(product *models.Product, quantity int) models.OrderItem {
	return models.OrderItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  quantity,
		Image:     product.Image,
	}
}

// GetOrder returns an order to its owner or to an admin.
func (s *OrderService) GetOrder(ctx context.Context, caller CurrentUser, id string) (*models.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "Order")
	}
	if order.UserID != caller.ID && !caller.IsAdmin() {
		return nil, ErrAccessDenied
	}
	return order, nil
}

// ListMine returns the caller's orders, newest first.
func (s *OrderService) ListMine(ctx context.Context, caller CurrentUser) ([]models.Order, error) {
	return s.store.Orders().GetByUser(ctx, caller.ID)
}

// ListAll returns every order, newest first.
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.store.Orders().GetAll(ctx)
}

// SetOrderStatus moves an order to newStatus. The owner is told when the order enters
// processing or delivered from a different status.
func (s *OrderService) SetOrderStatus(ctx context.Context, id string, newStatus models.OrderStatus) (*models.Order, error) {
	if !newStatus.Valid() {
		return nil, validationError("invalid order status %q", newStatus)
	}
	order, err := s.store.Orders().GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, "Order")
	}

	oldStatus := order.OrderStatus
	order.OrderStatus = newStatus
	if err := s.store.Orders().Update(ctx, order); err != nil {
		return nil, translateRepoError(err, "Order")
	}

	if phrase, ok := statusMessages[newStatus]; ok && oldStatus != newStatus {
		s.notifier.notifyQuietly(ctx, models.NotificationTypeOrder,
			fmt.Sprintf("%s. Order #%s - %s", phrase, order.OrderNumber, Stamp(s.now())),
			UserAudience(order.UserID),
			NotifyOptions{
				Link: "/orders/" + order.ID,
				Metadata: map[string]interface{}{
					"orderId":     order.ID,
					"orderNumber": order.OrderNumber,
					"oldStatus":   oldStatus,
					"newStatus":   newStatus,
				},
			})
	}
	if oldStatus != newStatus {
		publishEvent(ctx, s.publisher, EventOrderStatusChanged, order.ID, map[string]interface{}{
			"orderNumber": order.OrderNumber,
			"oldStatus":   oldStatus,
			"newStatus":   newStatus,
		})
	}
	return order, nil
}

// DeleteOrder removes an order together with its line items and its payment.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) error {
	var orderNumber string
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		order, err := tx.Orders().GetByID(ctx, id)
		if err != nil {
			return translateRepoError(err, "Order")
		}
		orderNumber = order.OrderNumber
		if err := tx.Payments().DeleteByOrderID(ctx, order.ID); err != nil {
			return err
		}
		return tx.Orders().Delete(ctx, order.ID)
	})
	if err != nil {
		return err
	}
	log.Printf("Order %s deleted", orderNumber)
	publishEvent(ctx, s.publisher, EventOrderDeleted, id, map[string]interface{}{"orderNumber": orderNumber})
	return nil
}
