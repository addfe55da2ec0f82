package repositories

import (
	"fmt"
	"sync"

	"lapgalaxy/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	carts map[string]models.Cart
	items map[string]models.CartItem
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		carts: make(map[string]models.Cart),
		items: make(map[string]models.CartItem),
	}
}

func (r *MockCartRepository) assemble(cart models.Cart) *models.Cart {
	cart.Items = nil
	for _, item := range r.items {
		if item.CartID == cart.ID {
			cart.Items = append(cart.Items, item)
		}
	}
	return &cart
}

// GetByID returns a cart with its items.
func (r *MockCartRepository) GetByID(id string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[id]
	if !ok {
		return nil, fmt.Errorf("cart with ID %s: %w", id, ErrNotFound)
	}
	return r.assemble(cart), nil
}

// GetByUser returns the cart owned by the given user.
func (r *MockCartRepository) GetByUser(userID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cart := range r.carts {
		if cart.UserID != nil && *cart.UserID == userID {
			return r.assemble(cart), nil
		}
	}
	return nil, fmt.Errorf("cart for user %s: %w", userID, ErrNotFound)
}

// GetBySession returns the cart owned by the given guest session.
func (r *MockCartRepository) GetBySession(sessionID string) (*models.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, cart := range r.carts {
		if cart.SessionID != nil && *cart.SessionID == sessionID {
			return r.assemble(cart), nil
		}
	}
	return nil, fmt.Errorf("cart for session %s: %w", sessionID, ErrNotFound)
}

// Create adds a new cart.
func (r *MockCartRepository) Create(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	stored := *cart
	stored.Items = nil
	r.carts[cart.ID] = stored
	return nil
}

// Save persists the cart row.
func (r *MockCartRepository) Save(cart *models.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[cart.ID]; !ok {
		return fmt.Errorf("cart with ID %s: %w", cart.ID, ErrNotFound)
	}
	stored := *cart
	stored.Items = nil
	r.carts[cart.ID] = stored
	return nil
}

// Delete removes a cart and all of its items.
func (r *MockCartRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[id]; !ok {
		return fmt.Errorf("cart with ID %s: %w", id, ErrNotFound)
	}
	delete(r.carts, id)
	for itemID, item := range r.items {
		if item.CartID == id {
			delete(r.items, itemID)
		}
	}
	return nil
}

// GetItem returns a cart item by its ID.
func (r *MockCartRepository) GetItem(itemID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return nil, fmt.Errorf("cart item with ID %s: %w", itemID, ErrNotFound)
	}
	return &item, nil
}

// GetItemByProduct returns the item for a (cart, product) pair.
func (r *MockCartRepository) GetItemByProduct(cartID, productID string) (*models.CartItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.items {
		if item.CartID == cartID && item.ProductID == productID {
			return &item, nil
		}
	}
	return nil, fmt.Errorf("item for product %s in cart %s: %w", productID, cartID, ErrNotFound)
}

// SaveItem creates or updates a cart item.
func (r *MockCartRepository) SaveItem(item *models.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	r.items[item.ID] = *item
	return nil
}

// DeleteItem removes a cart item by its ID.
func (r *MockCartRepository) DeleteItem(itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[itemID]; !ok {
		return fmt.Errorf("cart item with ID %s: %w", itemID, ErrNotFound)
	}
	delete(r.items, itemID)
	return nil
}

// DeleteItemsByCart removes every item of the given cart.
func (r *MockCartRepository) DeleteItemsByCart(cartID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for itemID, item := range r.items {
		if item.CartID == cartID {
			delete(r.items, itemID)
		}
	}
	return nil
}

// DeleteItemsByProduct removes every cart item referencing the product.
func (r *MockCartRepository) DeleteItemsByProduct(productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for itemID, item := range r.items {
		if item.ProductID == productID {
			delete(r.items, itemID)
		}
	}
	return nil
}
