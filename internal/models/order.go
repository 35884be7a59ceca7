package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer settles an order.
type PaymentMethod string

const (
	PaymentMethodCOD    PaymentMethod = "cod"
	PaymentMethodOnline PaymentMethod = "online"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCOD || m == PaymentMethodOnline
}

// PaymentStatus is shared by Payment.Status and Order.PaymentStatus.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// OrderStatus is the fulfilment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a snapshot of a product at the time the order was placed.
type OrderItem struct {
	ID        uint            `json:"-" gorm:"primaryKey"`
	OrderID   string          `json:"-" gorm:"type:varchar(36);index;not null"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36);not null"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"` // Price at the time of order
	Quantity  int             `json:"quantity" gorm:"not null"`
	Image     string          `json:"image"`
}

// ShippingAddress is embedded into the orders table.
type ShippingAddress struct {
	FullName   string `json:"full_name" validate:"required"`
	Phone      string `json:"phone" validate:"required"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postal_code,omitempty"`
}

// Order represents a customer order.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber     string          `json:"order_number" gorm:"type:varchar(64);uniqueIndex;not null"`
	UserID          string          `json:"user_id" gorm:"type:varchar(36);index;not null"`
	User            *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:shipping_"`
	PaymentMethod   PaymentMethod   `json:"payment_method" gorm:"type:varchar(16);not null"`
	PaymentStatus   PaymentStatus   `json:"payment_status" gorm:"type:varchar(16);not null;default:pending"`
	OrderStatus     OrderStatus     `json:"order_status" gorm:"type:varchar(16);not null;default:pending;index"`
	Subtotal        decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2);not null"`
	ShippingFee     decimal.Decimal `json:"shipping_fee" gorm:"type:numeric(12,2);not null"`
	Total           decimal.Decimal `json:"total" gorm:"type:numeric(12,2);not null"`
	PaymentID       *string         `json:"payment_ref,omitempty" gorm:"type:varchar(36)"`
	Payment         *Payment        `json:"payment,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Payment is the single financial record attached to an order.
type Payment struct {
	ID            string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	PaymentID     string          `json:"payment_id" gorm:"type:varchar(64);uniqueIndex;not null"`
	OrderID       string          `json:"order_id" gorm:"type:varchar(36);uniqueIndex;not null"`
	Order         *Order          `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	UserID        string          `json:"user_id" gorm:"type:varchar(36);index;not null"`
	User          *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Method        PaymentMethod   `json:"method" gorm:"type:varchar(16);not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Status        PaymentStatus   `json:"status" gorm:"type:varchar(16);not null;default:pending"`
	QRCode        string          `json:"qr_code,omitempty" gorm:"type:text"`
	QRCodeData    string          `json:"qr_code_data,omitempty" gorm:"type:text"`
	TransactionID string          `json:"transaction_id,omitempty" gorm:"type:varchar(64)"`
	PaymentDate   *time.Time      `json:"payment_date,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
