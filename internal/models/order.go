package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// ParseOrderStatus validates a status string from the API.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("invalid order status: %s", s)
}

// PaymentMethod identifies how the customer intends to pay.
type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentCard           PaymentMethod = "CARD"
	PaymentBankTransfer   PaymentMethod = "BANK_TRANSFER"
)

// ParsePaymentMethod validates a payment method string from the API.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCashOnDelivery, PaymentCard, PaymentBankTransfer:
		return PaymentMethod(s), nil
	}
	return "", fmt.Errorf("invalid payment method: %s", s)
}

// Order is an immutable snapshot of a cart taken at checkout. Item names and
// prices are frozen at creation and never follow later product edits.
type Order struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber string  `json:"order_number" gorm:"uniqueIndex;type:varchar(32)"`
	UserID      *string `json:"user_id,omitempty" gorm:"index;type:varchar(36)"`
	SessionID   *string `json:"session_id,omitempty" gorm:"index;type:varchar(64)"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	Subtotal      float64       `json:"subtotal"`
	ShippingCost  float64       `json:"shipping_cost"`
	TotalAmount   float64       `json:"total_amount"`
	Status        OrderStatus   `json:"status" gorm:"type:varchar(16);index"`
	PaymentMethod PaymentMethod `json:"payment_method" gorm:"type:varchar(24)"`
	Notes         string        `json:"notes"`

	ShippingFullName   string `json:"shipping_full_name"`
	ShippingEmail      string `json:"shipping_email"`
	ShippingPhone      string `json:"shipping_phone"`
	ShippingAddress    string `json:"shipping_address"`
	ShippingCity       string `json:"shipping_city"`
	ShippingPostalCode string `json:"shipping_postal_code"`
	ShippingCountry    string `json:"shipping_country"`

	ShippedAt   *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// OrderItem is one product line of an order, holding the product name and
// unit price as they were at purchase time.
type OrderItem struct {
	ID        string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID string `json:"product_id" gorm:"index;type:varchar(36)"`

	ProductName     string  `json:"product_name"`
	ProductImageURL string  `json:"product_image_url"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
	Subtotal        float64 `json:"subtotal"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
