package models

import "gorm.io/gorm"

// HeroImage is a promotional banner shown on the storefront landing area.
// The image itself lives on disk; only its relative path is stored.
type HeroImage struct {
	ID          string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=500"`
	ButtonText  string `json:"button_text"`
	ButtonLink  string `json:"button_link"`
	ImagePath   string `json:"image_path"`

	// Absolute URL derived from ImagePath; populated for API responses,
	// never stored.
	ImageURL string `json:"image_url,omitempty" gorm:"-"`

	Active       bool   `json:"active" gorm:"default:true"`
	DisplayOrder int    `json:"display_order" gorm:"default:0"`
	CreatedBy    string `json:"created_by"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
