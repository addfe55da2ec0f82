package repositories

import (
	"fmt"
	"lapgalaxy/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByID retrieves a cart with its items and their products.
func (r *GORMCartRepository) GetByID(id string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").Preload("Items.Product").First(&cart, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart by ID %s: %w", id, err)
	}
	return &cart, nil
}

// GetByUser retrieves the cart owned by the given user.
func (r *GORMCartRepository) GetByUser(userID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").Preload("Items.Product").First(&cart, "user_id = ?", userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	return &cart, nil
}

// GetBySession retrieves the cart owned by the given guest session.
func (r *GORMCartRepository) GetBySession(sessionID string) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.Preload("Items").Preload("Items.Product").First(&cart, "session_id = ?", sessionID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart for session %s: %w", sessionID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart for session %s: %w", sessionID, err)
	}
	return &cart, nil
}

// Create creates a new cart in the database.
func (r *GORMCartRepository) Create(cart *models.Cart) error {
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	if err := r.db.Create(cart).Error; err != nil {
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

// Save persists the cart row. Items are persisted individually through
// SaveItem/DeleteItem, so the association is omitted here.
func (r *GORMCartRepository) Save(cart *models.Cart) error {
	if err := r.db.Omit("Items").Save(cart).Error; err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Delete removes a cart and all of its items.
func (r *GORMCartRepository) Delete(id string) error {
	if err := r.db.Delete(&models.CartItem{}, "cart_id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete items of cart %s: %w", id, err)
	}
	res := r.db.Delete(&models.Cart{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart with ID %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetItem retrieves a single cart item with its product.
func (r *GORMCartRepository) GetItem(itemID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Preload("Product").First(&item, "id = ?", itemID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart item with ID %s: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get cart item %s: %w", itemID, err)
	}
	return &item, nil
}

// GetItemByProduct retrieves the cart item for a (cart, product) pair.
func (r *GORMCartRepository) GetItemByProduct(cartID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.Preload("Product").
		First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("item for product %s in cart %s: %w", productID, cartID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get item for product %s in cart %s: %w", productID, cartID, err)
	}
	return &item, nil
}

// SaveItem creates or updates a cart item.
func (r *GORMCartRepository) SaveItem(item *models.CartItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if err := r.db.Omit("Product").Save(item).Error; err != nil {
		return fmt.Errorf("failed to save cart item: %w", err)
	}
	return nil
}

// DeleteItem removes a cart item by its ID.
func (r *GORMCartRepository) DeleteItem(itemID string) error {
	res := r.db.Delete(&models.CartItem{}, "id = ?", itemID)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("cart item with ID %s: %w", itemID, ErrNotFound)
	}
	return nil
}

// DeleteItemsByCart removes every item of the given cart.
func (r *GORMCartRepository) DeleteItemsByCart(cartID string) error {
	if err := r.db.Delete(&models.CartItem{}, "cart_id = ?", cartID).Error; err != nil {
		return fmt.Errorf("failed to clear items of cart %s: %w", cartID, err)
	}
	return nil
}

// DeleteItemsByProduct removes every cart item referencing the given product.
// Used when a product is deleted from the catalog.
func (r *GORMCartRepository) DeleteItemsByProduct(productID string) error {
	if err := r.db.Delete(&models.CartItem{}, "product_id = ?", productID).Error; err != nil {
		return fmt.Errorf("failed to delete cart items for product %s: %w", productID, err)
	}
	return nil
}
