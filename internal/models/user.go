package models

import "gorm.io/gorm"

// Role is a user's authorization role.
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// User represents a registered account.
type User struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username string `json:"username" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=3,max=100"`
	Email    string `json:"email" gorm:"uniqueIndex;type:varchar(255)" validate:"required,email"`
	Password string `json:"-" gorm:"type:varchar(255)" validate:"required,min=6"`
	Role     Role   `json:"role" gorm:"type:varchar(10);default:USER"`
	Active   bool   `json:"active" gorm:"default:true"`

	gorm.Model // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// BeforeSave keeps the admin-accounts-are-always-active invariant: any
// attempt to deactivate an ADMIN is silently overridden.
func (u *User) BeforeSave(tx *gorm.DB) error {
	if u.Role == RoleAdmin {
		u.Active = true
	}
	return nil
}
