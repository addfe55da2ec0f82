package handlers

import (
	"log"
	"strconv"

	"lapgalaxy/internal/models"
	"lapgalaxy/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the shopping cart. Cart routes work
// for both authenticated users (identified by the JWT) and guests (identified
// by a session ID).
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the cart routes. Most routes use optional
// authentication so guests can shop; merging requires a logged-in user.
func (h *CartHandler) RegisterRoutes(router fiber.Router, optionalAuth, authRequired fiber.Handler) {
	cartRoutes := router.Group("/cart")
	cartRoutes.Post("/add", optionalAuth, h.HandleAddToCart)
	cartRoutes.Get("/", optionalAuth, h.HandleGetCart)
	cartRoutes.Put("/:cartId/items/:itemId", optionalAuth, h.HandleUpdateItemQuantity)
	cartRoutes.Delete("/:cartId/items/:itemId", optionalAuth, h.HandleRemoveItem)
	cartRoutes.Post("/merge", authRequired, h.HandleMergeGuestCart)
}

// HandleAddToCart adds a product to the caller's cart, creating the cart if
// needed. Authenticated callers use their user cart; guests must send a
// session ID in the body.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	var req models.AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return validationJSON(c, err)
	}

	userID := currentUserID(c)
	if userID == "" && req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Session ID is required for guest carts",
		})
	}

	cart, err := h.service.AddToCart(req, userID)
	if err != nil {
		log.Printf("Error adding to cart: %v", err)
		return errorJSON(c, err, "Could not add item to cart")
	}
	return c.JSON(cart)
}

// HandleGetCart retrieves the caller's cart. Authenticated callers get their
// user cart; guests identify themselves with ?sessionId=.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID := currentUserID(c)
	sessionID := c.Query("sessionId")

	var (
		cart *models.CartDTO
		err  error
	)
	switch {
	case userID != "":
		cart, err = h.service.GetCartByUserID(userID)
	case sessionID != "":
		cart, err = h.service.GetCartBySessionID(sessionID)
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Session ID is required for guest carts",
		})
	}
	if err != nil {
		return errorJSON(c, err, "Could not retrieve cart")
	}
	return c.JSON(cart)
}

// HandleUpdateItemQuantity sets the quantity of a cart item via ?quantity=.
// A quantity of zero or less removes the item.
func (h *CartHandler) HandleUpdateItemQuantity(c *fiber.Ctx) error {
	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'quantity' must be an integer",
		})
	}

	cart, err := h.service.UpdateItemQuantity(c.Params("cartId"), c.Params("itemId"), quantity)
	if err != nil {
		return errorJSON(c, err, "Could not update cart item")
	}
	return c.JSON(cart)
}

// HandleRemoveItem removes a single item from a cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveFromCart(c.Params("cartId"), c.Params("itemId"))
	if err != nil {
		return errorJSON(c, err, "Could not remove cart item")
	}
	return c.JSON(cart)
}

// HandleMergeGuestCart folds the guest cart identified by ?sessionId= into
// the authenticated user's cart.
func (h *CartHandler) HandleMergeGuestCart(c *fiber.Ctx) error {
	sessionID := c.Query("sessionId")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'sessionId' is required",
		})
	}

	cart, err := h.service.MergeGuestCart(sessionID, currentUserID(c))
	if err != nil {
		log.Printf("Error merging guest cart %s: %v", sessionID, err)
		return errorJSON(c, err, "Could not merge guest cart")
	}
	return c.JSON(cart)
}
