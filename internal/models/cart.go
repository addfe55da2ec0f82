package models

import "gorm.io/gorm"

// Cart is a shopper's working set of items. It is owned by exactly one of a
// registered user or a guest session, never both.
type Cart struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    *string `json:"user_id,omitempty" gorm:"index;type:varchar(36)"`
	SessionID *string `json:"session_id,omitempty" gorm:"index;type:varchar(64)"`

	Items []CartItem `json:"items" gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`

	// TotalAmount is the sum of item subtotals, recomputed after every
	// mutation.
	TotalAmount float64 `json:"total_amount"`
	TotalItems  int     `json:"total_items"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// RecalculateTotals brings the cached totals in line with the items.
func (c *Cart) RecalculateTotals() {
	var amount float64
	var count int
	for _, item := range c.Items {
		amount += item.Subtotal
		count += item.Quantity
	}
	c.TotalAmount = amount
	c.TotalItems = count
}

// CartItem is one product line in a cart. At most one row exists per
// (cart, product) pair; quantity is always positive.
type CartItem struct {
	ID        string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	CartID    string  `json:"cart_id" gorm:"index;type:varchar(36)"`
	ProductID string  `json:"product_id" gorm:"index;type:varchar(36)"`
	Product   Product `json:"-" gorm:"foreignKey:ProductID"`

	Quantity int `json:"quantity"`
	// UnitPrice is captured when the item is added and kept until checkout.
	UnitPrice float64 `json:"unit_price"`
	Subtotal  float64 `json:"subtotal"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// RecalculateSubtotal updates the cached line subtotal.
func (i *CartItem) RecalculateSubtotal() {
	i.Subtotal = float64(i.Quantity) * i.UnitPrice
}
