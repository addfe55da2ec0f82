package handlers

import (
	"errors"
	"log"

	"lapgalaxy/internal/models"
	"lapgalaxy/internal/repositories"
	"lapgalaxy/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders and checkout.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the order routes. Checkout is open to guests,
// order tracking by number is public, and management routes are admin only.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, optionalAuth, authRequired, adminOnly fiber.Handler) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", optionalAuth, h.HandleCreateOrder)
	orderRoutes.Get("/", authRequired, adminOnly, h.HandleGetOrders)
	orderRoutes.Get("/my-orders", authRequired, h.HandleGetMyOrders)
	orderRoutes.Get("/number/:orderNumber", h.HandleGetOrderByNumber)
	orderRoutes.Get("/:id", authRequired, adminOnly, h.HandleGetOrderByID)
	orderRoutes.Patch("/:id/status", authRequired, adminOnly, h.HandleUpdateOrderStatus)
	orderRoutes.Patch("/:id/notes", authRequired, adminOnly, h.HandleAddOrderNotes)
}

// HandleCreateOrder places an order from the request's item list. Any
// failure to build the order, including a missing product, is reported as a
// bad request.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req models.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	order, err := h.service.CreateOrder(req, currentUserID(c))
	if err != nil {
		log.Printf("Error creating order: %v", err)
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Could not create order",
				"error":   err.Error(),
			})
		}
		return errorJSON(c, err, "Could not create order")
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders retrieves all orders, optionally filtered by ?status=.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	status := c.Query("status")

	var (
		orders []models.OrderDTO
		err    error
	)
	if status != "" {
		orders, err = h.service.GetOrdersByStatus(status)
	} else {
		orders, err = h.service.GetAllOrders()
	}
	if err != nil {
		return errorJSON(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetMyOrders retrieves the authenticated user's order history.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.service.GetOrdersByUser(currentUserID(c))
	if err != nil {
		return errorJSON(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order by its internal ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByID(c.Params("id"))
	if err != nil {
		return errorJSON(c, err, "Could not retrieve order")
	}
	return c.JSON(order)
}

// HandleGetOrderByNumber retrieves an order by its public order number, so
// guests can track their orders.
func (h *OrderHandler) HandleGetOrderByNumber(c *fiber.Ctx) error {
	order, err := h.service.GetOrderByNumber(c.Params("orderNumber"))
	if err != nil {
		return errorJSON(c, err, "Could not retrieve order")
	}
	return c.JSON(order)
}

// HandleUpdateOrderStatus transitions an order to the status in the body.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	order, err := h.service.UpdateOrderStatus(c.Params("id"), req.Status)
	if err != nil {
		log.Printf("Error updating status of order %s: %v", c.Params("id"), err)
		return errorJSON(c, err, "Could not update order status")
	}
	return c.JSON(order)
}

// HandleAddOrderNotes replaces the admin notes on an order.
func (h *OrderHandler) HandleAddOrderNotes(c *fiber.Ctx) error {
	var req struct {
		Notes string `json:"notes" validate:"required"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	order, err := h.service.AddOrderNotes(c.Params("id"), req.Notes)
	if err != nil {
		return errorJSON(c, err, "Could not update order notes")
	}
	return c.JSON(order)
}
