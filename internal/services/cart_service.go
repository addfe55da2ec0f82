package services

import (
	"errors"
	"fmt"

	"lapgalaxy/internal/config"
	"lapgalaxy/internal/models"
	"lapgalaxy/internal/repositories"
)

// CartService maintains the working set of items a shopper intends to buy,
// for both authenticated users and anonymous guest sessions, and keeps the
// computed totals consistent after every mutation.
type CartService struct {
	cartRepo    repositories.CartRepository
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	cfg         *config.Config
}

// NewCartService creates a new CartService.
func NewCartService(cartRepo repositories.CartRepository, productRepo repositories.ProductRepository, userRepo repositories.UserRepository, cfg *config.Config) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		cfg:         cfg,
	}
}

// GetOrCreateCartForUser returns the user's cart, creating an empty one on
// first access. Fails if the user does not exist.
func (s *CartService) GetOrCreateCartForUser(userID string) (*models.Cart, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, err
	}

	cart, err := s.cartRepo.GetByUser(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	newCart := &models.Cart{UserID: &userID}
	if err := s.cartRepo.Create(newCart); err != nil {
		return nil, err
	}
	return newCart, nil
}

// GetOrCreateCartForGuest returns the guest session's cart, creating an
// empty one on first access.
func (s *CartService) GetOrCreateCartForGuest(sessionID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetBySession(sessionID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	newCart := &models.Cart{SessionID: &sessionID}
	if err := s.cartRepo.Create(newCart); err != nil {
		return nil, err
	}
	return newCart, nil
}

// AddToCart adds a product to the owner's cart, upserting the line for the
// product. The stock check applies to the total desired quantity, i.e. the
// quantity already in the cart plus the increment. userID is empty for
// guest requests.
func (s *CartService) AddToCart(req models.AddToCartRequest, userID string) (*models.CartDTO, error) {
	var cart *models.Cart
	var err error
	switch {
	case userID != "":
		cart, err = s.GetOrCreateCartForUser(userID)
	case req.SessionID != "":
		cart, err = s.GetOrCreateCartForGuest(req.SessionID)
	default:
		return nil, fmt.Errorf("%w: either authentication or session_id is required", ErrValidation)
	}
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(req.ProductID)
	if err != nil {
		return nil, err
	}

	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	existing, err := s.cartRepo.GetItemByProduct(cart.ID, product.ID)
	switch {
	case err == nil:
		newQuantity := existing.Quantity + req.Quantity
		if newQuantity > product.Stock {
			return nil, fmt.Errorf("%w: cannot add more items, maximum available: %d", ErrValidation, product.Stock)
		}
		existing.Quantity = newQuantity
		existing.RecalculateSubtotal()
		if err := s.cartRepo.SaveItem(existing); err != nil {
			return nil, err
		}
	case errors.Is(err, repositories.ErrNotFound):
		if req.Quantity > product.Stock {
			return nil, fmt.Errorf("%w: insufficient stock, available: %d", ErrValidation, product.Stock)
		}
		item := &models.CartItem{
			CartID:    cart.ID,
			ProductID: product.ID,
			Quantity:  req.Quantity,
			UnitPrice: product.Price, // price captured at add-time
		}
		item.RecalculateSubtotal()
		if err := s.cartRepo.SaveItem(item); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.refreshTotals(cart.ID)
}

// UpdateItemQuantity sets the quantity of a cart line. Zero or negative
// removes the line; exceeding the product's stock is rejected. The item must
// belong to the given cart.
func (s *CartService) UpdateItemQuantity(cartID, itemID string, quantity int) (*models.CartDTO, error) {
	if _, err := s.cartRepo.GetByID(cartID); err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.CartID != cartID {
		return nil, fmt.Errorf("cart item %s does not belong to cart %s: %w", itemID, cartID, repositories.ErrNotFound)
	}

	if quantity <= 0 {
		if err := s.cartRepo.DeleteItem(itemID); err != nil {
			return nil, err
		}
		return s.refreshTotals(cartID)
	}

	product, err := s.productRepo.GetByID(item.ProductID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, fmt.Errorf("%w: insufficient stock, available: %d", ErrValidation, product.Stock)
	}

	item.Quantity = quantity
	item.RecalculateSubtotal()
	if err := s.cartRepo.SaveItem(item); err != nil {
		return nil, err
	}
	return s.refreshTotals(cartID)
}

// RemoveFromCart removes a line from the cart regardless of quantity.
func (s *CartService) RemoveFromCart(cartID, itemID string) (*models.CartDTO, error) {
	if _, err := s.cartRepo.GetByID(cartID); err != nil {
		return nil, err
	}

	item, err := s.cartRepo.GetItem(itemID)
	if err != nil {
		return nil, err
	}
	if item.CartID != cartID {
		return nil, fmt.Errorf("cart item %s does not belong to cart %s: %w", itemID, cartID, repositories.ErrNotFound)
	}

	if err := s.cartRepo.DeleteItem(itemID); err != nil {
		return nil, err
	}
	return s.refreshTotals(cartID)
}

// ClearCart empties all items and zeroes the totals.
func (s *CartService) ClearCart(cartID string) error {
	cart, err := s.cartRepo.GetByID(cartID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.DeleteItemsByCart(cartID); err != nil {
		return err
	}
	cart.Items = nil
	cart.RecalculateTotals()
	return s.cartRepo.Save(cart)
}

// ClearCartForOwner clears whichever cart belongs to the given owner. A
// missing cart is not an error.
func (s *CartService) ClearCartForOwner(userID, sessionID string) error {
	var cart *models.Cart
	var err error
	switch {
	case userID != "":
		cart, err = s.cartRepo.GetByUser(userID)
	case sessionID != "":
		cart, err = s.cartRepo.GetBySession(sessionID)
	default:
		return nil
	}
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}
	return s.ClearCart(cart.ID)
}

// GetCartByUserID returns the user's cart snapshot, creating the cart lazily.
func (s *CartService) GetCartByUserID(userID string) (*models.CartDTO, error) {
	cart, err := s.GetOrCreateCartForUser(userID)
	if err != nil {
		return nil, err
	}
	return s.toDTO(cart)
}

// GetCartBySessionID returns the guest cart snapshot, creating it lazily.
func (s *CartService) GetCartBySessionID(sessionID string) (*models.CartDTO, error) {
	cart, err := s.GetOrCreateCartForGuest(sessionID)
	if err != nil {
		return nil, err
	}
	return s.toDTO(cart)
}

// MergeGuestCart folds a guest session's cart into the user's cart after
// login. Quantities for products present in both carts are summed but capped
// at the product's current stock; the guest cart is deleted afterward.
// The merge applies item by item with no surrounding transaction, so a
// failure mid-loop leaves already-merged items in place.
func (s *CartService) MergeGuestCart(sessionID, userID string) (*models.CartDTO, error) {
	userCart, err := s.GetOrCreateCartForUser(userID)
	if err != nil {
		return nil, err
	}

	guestCart, err := s.cartRepo.GetBySession(sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return s.refreshTotals(userCart.ID)
		}
		return nil, err
	}

	for _, guestItem := range guestCart.Items {
		product, err := s.productRepo.GetByID(guestItem.ProductID)
		if err != nil {
			return nil, err
		}

		existing, err := s.cartRepo.GetItemByProduct(userCart.ID, guestItem.ProductID)
		switch {
		case err == nil:
			newQuantity := existing.Quantity + guestItem.Quantity
			if newQuantity > product.Stock {
				newQuantity = product.Stock
			}
			existing.Quantity = newQuantity
			existing.RecalculateSubtotal()
			if err := s.cartRepo.SaveItem(existing); err != nil {
				return nil, err
			}
		case errors.Is(err, repositories.ErrNotFound):
			item := &models.CartItem{
				CartID:    userCart.ID,
				ProductID: guestItem.ProductID,
				Quantity:  guestItem.Quantity,
				UnitPrice: guestItem.UnitPrice,
			}
			item.RecalculateSubtotal()
			if err := s.cartRepo.SaveItem(item); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}

	if err := s.cartRepo.Delete(guestCart.ID); err != nil {
		return nil, err
	}

	return s.refreshTotals(userCart.ID)
}

// refreshTotals reloads the cart, recomputes the cached totals, persists
// them and returns the snapshot.
func (s *CartService) refreshTotals(cartID string) (*models.CartDTO, error) {
	cart, err := s.cartRepo.GetByID(cartID)
	if err != nil {
		return nil, err
	}
	cart.RecalculateTotals()
	if err := s.cartRepo.Save(cart); err != nil {
		return nil, err
	}
	return s.toDTO(cart)
}

// ShippingCost implements the shipping step function: free at or above the
// configured threshold, a flat fee below it.
func (s *CartService) ShippingCost(totalAmount float64) float64 {
	if totalAmount >= s.cfg.FreeShippingThreshold {
		return 0
	}
	return s.cfg.ShippingFee
}

func (s *CartService) toDTO(cart *models.Cart) (*models.CartDTO, error) {
	dto := &models.CartDTO{
		ID:          cart.ID,
		UserID:      cart.UserID,
		SessionID:   cart.SessionID,
		Items:       make([]models.CartItemDTO, 0, len(cart.Items)),
		TotalItems:  cart.TotalItems,
		TotalAmount: cart.TotalAmount,
	}

	for _, item := range cart.Items {
		itemDTO := models.CartItemDTO{
			ID:        item.ID,
			CartID:    item.CartID,
			ProductID: item.ProductID,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		}
		product, err := s.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		itemDTO.ProductName = product.Name
		itemDTO.ProductBrand = product.Brand
		itemDTO.ProductImageURL = s.cfg.ImageURL(product.ImagePath)
		itemDTO.StockQuantity = product.Stock
		itemDTO.InStock = product.Stock > 0
		dto.Items = append(dto.Items, itemDTO)
	}

	dto.ShippingCost = s.ShippingCost(dto.TotalAmount)
	dto.GrandTotal = dto.TotalAmount + dto.ShippingCost
	return dto, nil
}
