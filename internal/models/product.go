package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

// Product represents a catalog product. The schema carries the full
// storefront attribute set; promotional fields are optional.
type Product struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"name" validate:"required,min=2,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Brand       string  `json:"brand" validate:"required,max=100"`
	Category    string  `json:"category" validate:"required,max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock_quantity" gorm:"column:stock_quantity" validate:"gte=0"`
	// InStock is derived from Stock and recomputed on every stock mutation.
	InStock          bool       `json:"in_stock"`
	ProductAvailable bool       `json:"product_available"`
	ReleaseDate      *time.Time `json:"release_date,omitempty"`

	// Main image plus additional images, stored as relative file paths
	// (comma-separated for the additional ones).
	ImagePath            string `json:"image_path"`
	AdditionalImagePaths string `json:"additional_image_paths" gorm:"type:varchar(1000)"`

	// Absolute URLs derived from the paths above; populated for API
	// responses, never stored.
	ImageURL            string   `json:"image_url,omitempty" gorm:"-"`
	AdditionalImageURLs []string `json:"additional_image_urls,omitempty" gorm:"-"`

	// Promotional attributes.
	SKU                string  `json:"sku" gorm:"column:sku;type:varchar(100)"`
	OriginalPrice      float64 `json:"original_price" validate:"gte=0"`
	DiscountPercentage int     `json:"discount_percentage" validate:"gte=0,lte=100"`
	Rating             float64 `json:"rating" validate:"gte=0,lte=5"`
	ReviewCount        int     `json:"review_count" validate:"gte=0"`
	Tags               string  `json:"tags"`
	FreeShipping       bool    `json:"free_shipping"`
	Featured           bool    `json:"featured"`
	BestSeller         bool    `json:"best_seller"`
	Status             string  `json:"status" gorm:"type:varchar(20);default:ACTIVE"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// ApplyDiscount derives the selling price from the original price when a
// discount percentage is set, rounded to two decimals.
func (p *Product) ApplyDiscount() {
	if p.OriginalPrice > 0 && p.DiscountPercentage > 0 {
		discounted := p.OriginalPrice * (1 - float64(p.DiscountPercentage)/100)
		p.Price = math.Round(discounted*100) / 100
	}
}

// RefreshStockFlag recomputes the derived availability flag. Must be called
// after every stock mutation.
func (p *Product) RefreshStockFlag() {
	p.InStock = p.Stock > 0
}
