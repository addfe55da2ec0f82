package repositories

import "lapgalaxy/internal/models"

// CartRepository defines the interface for cart and cart item data access.
type CartRepository interface {
	GetByID(id string) (*models.Cart, error)
	GetByUser(userID string) (*models.Cart, error)
	GetBySession(sessionID string) (*models.Cart, error)
	Create(cart *models.Cart) error
	Save(cart *models.Cart) error
	Delete(id string) error

	GetItem(itemID string) (*models.CartItem, error)
	GetItemByProduct(cartID, productID string) (*models.CartItem, error)
	SaveItem(item *models.CartItem) error
	DeleteItem(itemID string) error
	DeleteItemsByCart(cartID string) error
	DeleteItemsByProduct(productID string) error
}
