package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"lapgalaxy/internal/config"
	"lapgalaxy/internal/models"
	"lapgalaxy/internal/repositories"

	"github.com/google/uuid"
)

// OrderService converts a priced cart into a durable, auditable order record
// and manages its fulfillment state.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	productRepo repositories.ProductRepository
	cartService *CartService
	mqClient    OrderEventPublisher
	cfg         *config.Config
}

// OrderEventPublisher is the subset of the RabbitMQ client the order service
// uses. Declared here so tests can run without a broker.
type OrderEventPublisher interface {
	PublishOrderEvent(event string, payload map[string]interface{}) error
}

// NewOrderService creates a new OrderService. mqClient may be nil, in which
// case event publication is skipped.
func NewOrderService(orderRepo repositories.OrderRepository, productRepo repositories.ProductRepository, cartService *CartService, mqClient OrderEventPublisher, cfg *config.Config) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartService: cartService,
		mqClient:    mqClient,
		cfg:         cfg,
	}
}

// CreateOrder snapshots the requested items into an immutable order.
// Product names and prices are re-read and frozen at creation time. The
// client-declared totals are compared against a server-side recomputation;
// on mismatch a warning is logged and the recomputed values are persisted.
// The originating cart is cleared best-effort afterward.
func (s *OrderService) CreateOrder(req models.CreateOrderRequest, userID string) (*models.OrderDTO, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one item is required", ErrValidation)
	}
	if userID == "" && req.SessionID == "" {
		return nil, fmt.Errorf("%w: either authentication or session_id is required", ErrValidation)
	}

	paymentMethod, err := models.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var subtotal float64
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		product, err := s.productRepo.GetByID(itemReq.ProductID)
		if err != nil {
			return nil, err
		}

		item := models.OrderItem{
			ID:              uuid.New().String(),
			ProductID:       product.ID,
			ProductName:     product.Name,
			ProductImageURL: s.cfg.ImageURL(product.ImagePath),
			Quantity:        itemReq.Quantity,
			PriceAtPurchase: product.Price, // frozen, independent of later edits
		}
		item.Subtotal = float64(item.Quantity) * item.PriceAtPurchase
		subtotal += item.Subtotal
		items = append(items, item)
	}

	shippingCost := s.cartService.ShippingCost(subtotal)
	totalAmount := subtotal + shippingCost
	if !amountsEqual(subtotal, req.Subtotal) || !amountsEqual(totalAmount, req.TotalAmount) {
		log.Printf("Warning: client-declared totals (subtotal=%.2f total=%.2f) differ from recomputed (subtotal=%.2f total=%.2f); using recomputed values",
			req.Subtotal, req.TotalAmount, subtotal, totalAmount)
	}

	orderNumber, err := s.nextOrderNumber()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:                 uuid.New().String(),
		OrderNumber:        orderNumber,
		Items:              items,
		Subtotal:           subtotal,
		ShippingCost:       shippingCost,
		TotalAmount:        totalAmount,
		Status:             models.OrderStatusPending,
		PaymentMethod:      paymentMethod,
		Notes:              req.Notes,
		ShippingFullName:   req.ShippingInfo.FullName,
		ShippingEmail:      req.ShippingInfo.Email,
		ShippingPhone:      req.ShippingInfo.Phone,
		ShippingAddress:    req.ShippingInfo.Address,
		ShippingCity:       req.ShippingInfo.City,
		ShippingPostalCode: req.ShippingInfo.PostalCode,
		ShippingCountry:    req.ShippingInfo.Country,
	}
	if userID != "" {
		order.UserID = &userID
	} else {
		sessionID := req.SessionID
		order.SessionID = &sessionID
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Cart hygiene must never fail a created order.
	if err := s.cartService.ClearCartForOwner(userID, req.SessionID); err != nil {
		log.Printf("Warning: failed to clear cart after order %s: %v", order.OrderNumber, err)
	}

	s.publishEvent("order.created", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
		"total":        order.TotalAmount,
	})

	return s.toDTO(order), nil
}

// GetAllOrders retrieves all orders, newest first.
func (s *OrderService) GetAllOrders() ([]models.OrderDTO, error) {
	orders, err := s.orderRepo.GetAll()
	if err != nil {
		return nil, err
	}
	return s.toDTOs(orders), nil
}

// GetOrdersByStatus retrieves all orders in the given status, newest first.
func (s *OrderService) GetOrdersByStatus(status string) ([]models.OrderDTO, error) {
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	orders, err := s.orderRepo.GetByStatus(parsed)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(orders), nil
}

// GetOrdersByUser retrieves the given user's orders, newest first.
func (s *OrderService) GetOrdersByUser(userID string) ([]models.OrderDTO, error) {
	orders, err := s.orderRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	return s.toDTOs(orders), nil
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.OrderDTO, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.toDTO(order), nil
}

// GetOrderByNumber retrieves a single order by its order number.
func (s *OrderService) GetOrderByNumber(orderNumber string) (*models.OrderDTO, error) {
	order, err := s.orderRepo.GetByNumber(orderNumber)
	if err != nil {
		return nil, err
	}
	return s.toDTO(order), nil
}

// UpdateOrderStatus transitions the order's fulfillment status. Entering
// SHIPPED or DELIVERED stamps the matching timestamp exactly once; a repeat
// transition leaves the first timestamp unchanged. No guard rejects
// out-of-order jumps.
func (s *OrderService) UpdateOrderStatus(id, status string) (*models.OrderDTO, error) {
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	order.Status = parsed
	now := time.Now()
	if parsed == models.OrderStatusShipped && order.ShippedAt == nil {
		order.ShippedAt = &now
	}
	if parsed == models.OrderStatusDelivered && order.DeliveredAt == nil {
		order.DeliveredAt = &now
	}

	if err := s.orderRepo.Save(order); err != nil {
		return nil, err
	}

	s.publishEvent("order.status_updated", map[string]interface{}{
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"status":       order.Status,
	})

	return s.toDTO(order), nil
}

// AddOrderNotes replaces the free-text notes of an order.
func (s *OrderService) AddOrderNotes(id, notes string) (*models.OrderDTO, error) {
	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	order.Notes = notes
	if err := s.orderRepo.Save(order); err != nil {
		return nil, err
	}
	return s.toDTO(order), nil
}

// nextOrderNumber assigns the next human-readable order number.
func (s *OrderService) nextOrderNumber() (string, error) {
	count, err := s.orderRepo.Count()
	if err != nil {
		return "", fmt.Errorf("failed to assign order number: %w", err)
	}
	return fmt.Sprintf("ORD-%s-%05d", time.Now().Format("20060102"), count+1), nil
}

func (s *OrderService) publishEvent(event string, payload map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.PublishOrderEvent(event, payload); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}

func (s *OrderService) toDTO(order *models.Order) *models.OrderDTO {
	dto := &models.OrderDTO{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		UserID:        order.UserID,
		Items:         make([]models.OrderItemDTO, 0, len(order.Items)),
		Subtotal:      order.Subtotal,
		ShippingCost:  order.ShippingCost,
		TotalAmount:   order.TotalAmount,
		Status:        order.Status,
		PaymentMethod: order.PaymentMethod,
		Notes:         order.Notes,
		ShippingInfo: models.ShippingInfo{
			FullName:   order.ShippingFullName,
			Email:      order.ShippingEmail,
			Phone:      order.ShippingPhone,
			Address:    order.ShippingAddress,
			City:       order.ShippingCity,
			PostalCode: order.ShippingPostalCode,
			Country:    order.ShippingCountry,
		},
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
		ShippedAt:   order.ShippedAt,
		DeliveredAt: order.DeliveredAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, models.OrderItemDTO{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.ProductName,
			ProductImageURL: item.ProductImageURL,
			Quantity:        item.Quantity,
			PriceAtPurchase: item.PriceAtPurchase,
			Subtotal:        item.Subtotal,
		})
	}
	return dto
}

func (s *OrderService) toDTOs(orders []models.Order) []models.OrderDTO {
	dtos := make([]models.OrderDTO, 0, len(orders))
	for i := range orders {
		dtos = append(dtos, *s.toDTO(&orders[i]))
	}
	return dtos
}

func amountsEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}
