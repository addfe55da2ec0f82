package models

import "time"

// AddToCartRequest is the body of POST /api/cart/add. SessionID identifies a
// guest shopper; authenticated requests carry the user in their token instead.
type AddToCartRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	SessionID string `json:"session_id,omitempty"`
}

// CartItemDTO is a cart line enriched with current product data for display.
type CartItemDTO struct {
	ID              string  `json:"id"`
	CartID          string  `json:"cart_id"`
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	ProductBrand    string  `json:"product_brand"`
	ProductImageURL string  `json:"product_image_url,omitempty"`
	UnitPrice       float64 `json:"unit_price"`
	Quantity        int     `json:"quantity"`
	Subtotal        float64 `json:"subtotal"`
	StockQuantity   int     `json:"stock_quantity"`
	InStock         bool    `json:"in_stock"`
}

// CartDTO is the cart snapshot returned by every cart endpoint, including
// the derived shipping cost and grand total.
type CartDTO struct {
	ID           string        `json:"id"`
	UserID       *string       `json:"user_id,omitempty"`
	SessionID    *string       `json:"session_id,omitempty"`
	Items        []CartItemDTO `json:"items"`
	TotalItems   int           `json:"total_items"`
	TotalAmount  float64       `json:"total_amount"`
	ShippingCost float64       `json:"shipping_cost"`
	GrandTotal   float64       `json:"grand_total"`
}

// ShippingInfo is the delivery address block of an order request.
type ShippingInfo struct {
	FullName   string `json:"full_name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"required,max=30"`
	Address    string `json:"address" validate:"required,max=500"`
	City       string `json:"city" validate:"required,max=100"`
	PostalCode string `json:"postal_code" validate:"required,max=20"`
	Country    string `json:"country" validate:"required,max=100"`
}

// OrderItemRequest names one product line of an order request.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest is the body of POST /api/orders. The declared totals
// are compared against a server-side recomputation before persisting.
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Subtotal      float64            `json:"subtotal" validate:"gte=0"`
	ShippingCost  float64            `json:"shipping_cost" validate:"gte=0"`
	TotalAmount   float64            `json:"total_amount" validate:"gte=0"`
	PaymentMethod string             `json:"payment_method" validate:"required"`
	ShippingInfo  ShippingInfo       `json:"shipping_info" validate:"required"`
	Notes         string             `json:"notes" validate:"omitempty,max=1000"`
	SessionID     string             `json:"session_id,omitempty"`
}

// OrderItemDTO mirrors a frozen order line.
type OrderItemDTO struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	ProductImageURL string  `json:"product_image_url,omitempty"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
	Subtotal        float64 `json:"subtotal"`
}

// OrderDTO is the order representation returned by the API.
type OrderDTO struct {
	ID            string         `json:"id"`
	OrderNumber   string         `json:"order_number"`
	UserID        *string        `json:"user_id,omitempty"`
	Items         []OrderItemDTO `json:"items"`
	Subtotal      float64        `json:"subtotal"`
	ShippingCost  float64        `json:"shipping_cost"`
	TotalAmount   float64        `json:"total_amount"`
	Status        OrderStatus    `json:"status"`
	PaymentMethod PaymentMethod  `json:"payment_method"`
	Notes         string         `json:"notes,omitempty"`
	ShippingInfo  ShippingInfo   `json:"shipping_info"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	ShippedAt     *time.Time     `json:"shipped_at,omitempty"`
	DeliveredAt   *time.Time     `json:"delivered_at,omitempty"`
}
