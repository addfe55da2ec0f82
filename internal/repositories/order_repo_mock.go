package repositories

import (
	"fmt"
	"sync"

	"lapgalaxy/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
type MockOrderRepository struct {
	orders map[string]models.Order
	seq    []string // creation order, oldest first
	mu     sync.RWMutex
}

// NewMockOrderRepository creates a new instance of MockOrderRepository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Create stores a new order.
func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	r.orders[order.ID] = *order
	r.seq = append(r.seq, order.ID)
	return nil
}

func (r *MockOrderRepository) newestFirst(filter func(models.Order) bool) []models.Order {
	ids := make([]string, len(r.seq))
	copy(ids, r.seq)

	orderList := make([]models.Order, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		order, ok := r.orders[ids[i]]
		if ok && (filter == nil || filter(order)) {
			orderList = append(orderList, order)
		}
	}
	return orderList
}

// GetAll returns all orders, newest first.
func (r *MockOrderRepository) GetAll() ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.newestFirst(nil), nil
}

// GetByStatus returns all orders in the given status, newest first.
func (r *MockOrderRepository) GetByStatus(status models.OrderStatus) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.newestFirst(func(o models.Order) bool { return o.Status == status }), nil
}

// GetByUser returns all orders placed by the given user, newest first.
func (r *MockOrderRepository) GetByUser(userID string) ([]models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.newestFirst(func(o models.Order) bool {
		return o.UserID != nil && *o.UserID == userID
	}), nil
}

// GetByID returns an order by its ID.
func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

// GetByNumber returns an order by its order number.
func (r *MockOrderRepository) GetByNumber(orderNumber string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.OrderNumber == orderNumber {
			return &order, nil
		}
	}
	return nil, fmt.Errorf("order with number %s: %w", orderNumber, ErrNotFound)
}

// Save updates an existing order.
func (r *MockOrderRepository) Save(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[order.ID]; !ok {
		return fmt.Errorf("order with ID %s: %w", order.ID, ErrNotFound)
	}
	r.orders[order.ID] = *order
	return nil
}

// Count returns the number of orders ever created.
func (r *MockOrderRepository) Count() (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.seq)), nil
}
