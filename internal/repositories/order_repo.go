package repositories

import (
	"lapgalaxy/internal/models"
)

// OrderRepository defines the interface for order data access. Orders are
// never deleted; list queries return newest first.
type OrderRepository interface {
	Create(order *models.Order) error
	GetAll() ([]models.Order, error)
	GetByStatus(status models.OrderStatus) ([]models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	GetByNumber(orderNumber string) (*models.Order, error)
	Save(order *models.Order) error
	Count() (int64, error)
}
