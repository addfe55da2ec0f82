package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"lapgalaxy/internal/config"
	"lapgalaxy/internal/handlers"
	"lapgalaxy/internal/middleware"
	"lapgalaxy/internal/models"
	"lapgalaxy/internal/repositories"
	"lapgalaxy/internal/services"
	"lapgalaxy/pkg/filestore"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int64

// setupApp builds the full Fiber app against an in-memory SQLite database,
// with a seeded admin account and two products.
func setupApp(t *testing.T) (*fiber.App, *services.AuthService) {
	t.Helper()

	cfg := &config.Config{
		AppPort:               ":0",
		JWTSecret:             "test_jwt_secret",
		BaseURL:               "http://localhost:8080",
		UploadDir:             t.TempDir(),
		FreeShippingThreshold: 50000,
		ShippingFee:           500,
	}

	// Each setup gets its own named in-memory database so tests stay isolated.
	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	assert.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.HeroImage{},
	)
	assert.NoError(t, err)

	store, err := filestore.New(cfg.UploadDir)
	assert.NoError(t, err)

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	cartRepo := repositories.NewGORMCartRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	heroRepo := repositories.NewGORMHeroImageRepository(db)

	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo, cartRepo, store, cfg)
	cartService := services.NewCartService(cartRepo, productRepo, userRepo, cfg)
	orderService := services.NewOrderService(orderRepo, productRepo, cartService, nil, cfg)
	heroService := services.NewHeroImageService(heroRepo, store, cfg)

	// Seed an admin and some catalog data
	assert.NoError(t, authService.RegisterUser(&models.User{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "admin123",
		Role:     models.RoleAdmin,
	}))
	assert.NoError(t, productRepo.Create(&models.Product{
		ID:               "prod-laptop",
		Name:             "Test Laptop",
		Brand:            "Generic",
		Category:         "Laptops",
		Price:            1000,
		Stock:            5,
		ProductAvailable: true,
		InStock:          true,
	}))
	assert.NoError(t, productRepo.Create(&models.Product{
		ID:               "prod-monitor",
		Name:             "Test Monitor",
		Brand:            "Generic",
		Category:         "Monitors",
		Price:            200,
		Stock:            10,
		ProductAvailable: true,
		InStock:          true,
	}))

	authRequired := middleware.AuthRequired(authService)
	optionalAuth := middleware.OptionalAuth(authService)
	adminOnly := middleware.RequireRoles(string(models.RoleAdmin))

	app := fiber.New()
	api := app.Group("/api")
	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewUserHandler(authService, userService).RegisterRoutes(api, authRequired, adminOnly)
	handlers.NewProductHandler(productService).RegisterRoutes(api, authRequired, adminOnly)
	handlers.NewCartHandler(cartService).RegisterRoutes(api, optionalAuth, authRequired)
	handlers.NewOrderHandler(orderService).RegisterRoutes(api, optionalAuth, authRequired, adminOnly)
	handlers.NewHeroImageHandler(heroService).RegisterRoutes(api, authRequired, adminOnly)

	return app, authService
}

// TestMain runs setup and teardown for all tests
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	code := m.Run()
	os.Exit(code)
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	resp.Body.Close()
}

func registerAndLogin(t *testing.T, app *fiber.App, username, email, password string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/user/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	return login(t, app, username, password)
}

func login(t *testing.T, app *fiber.App, username, password string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp map[string]interface{}
	decodeBody(t, resp, &loginResp)
	token, _ := loginResp["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

func TestUserRegisterAndLogin(t *testing.T) {
	app, authService := setupApp(t)

	// Registration
	body := map[string]string{
		"username": "testuser",
		"email":    "test@example.com",
		"password": "password123",
	}
	resp := doJSON(t, app, http.MethodPost, "/api/user/register", body, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var registerResp map[string]interface{}
	decodeBody(t, resp, &registerResp)
	assert.Equal(t, "User registered successfully", registerResp["message"])

	// Duplicate registration
	resp = doJSON(t, app, http.MethodPost, "/api/user/register", body, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// Login
	token := login(t, app, "testuser", "password123")
	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "testuser", claims["username"])
	assert.Equal(t, "USER", claims["role"])

	// Wrong password
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "testuser",
		"password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestDeactivatedUserCannotLogin(t *testing.T) {
	app, _ := setupApp(t)

	registerAndLogin(t, app, "sleeper", "sleeper@example.com", "password123")
	adminToken := login(t, app, "admin", "admin123")

	// The admin looks the user up and deactivates them
	resp := doJSON(t, app, http.MethodGet, "/api/user/all", nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var users []models.User
	decodeBody(t, resp, &users)

	var sleeperID string
	for _, u := range users {
		if u.Username == "sleeper" {
			sleeperID = u.ID
		}
	}
	assert.NotEmpty(t, sleeperID)

	resp = doJSON(t, app, http.MethodPut, "/api/user/toggle-active/"+sleeperID, nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// The correct password no longer works
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "sleeper",
		"password": "password123",
	}, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

func TestGuestCartAndCheckout(t *testing.T) {
	app, _ := setupApp(t)

	// A guest fills a cart
	resp := doJSON(t, app, http.MethodPost, "/api/cart/add", map[string]interface{}{
		"product_id": "prod-monitor",
		"quantity":   2,
		"session_id": "guest-xyz",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var cart models.CartDTO
	decodeBody(t, resp, &cart)
	assert.Equal(t, 2, cart.TotalItems)
	assert.Equal(t, 400.0, cart.TotalAmount)
	assert.Equal(t, 500.0, cart.ShippingCost)

	// Exceeding the stock is rejected
	resp = doJSON(t, app, http.MethodPost, "/api/cart/add", map[string]interface{}{
		"product_id": "prod-monitor",
		"quantity":   9,
		"session_id": "guest-xyz",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Quantity updates go through the query parameter
	itemID := cart.Items[0].ID
	resp = doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/api/cart/%s/items/%s?quantity=3", cart.ID, itemID), nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Equal(t, 3, cart.Items[0].Quantity)

	// Checkout as a guest
	resp = doJSON(t, app, http.MethodPost, "/api/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "prod-monitor", "quantity": 3},
		},
		"subtotal":       600.0,
		"shipping_cost":  500.0,
		"total_amount":   1100.0,
		"payment_method": "CASH_ON_DELIVERY",
		"session_id":     "guest-xyz",
		"shipping_info": map[string]string{
			"full_name":   "Guest Buyer",
			"email":       "guest@example.com",
			"phone":       "+628123456789",
			"address":     "Jl. Thamrin No. 9",
			"city":        "Jakarta",
			"postal_code": "10110",
			"country":     "Indonesia",
		},
	}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.OrderDTO
	decodeBody(t, resp, &order)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 1100.0, order.TotalAmount)
	assert.NotEmpty(t, order.OrderNumber)

	// The cart was cleared by the checkout
	resp = doJSON(t, app, http.MethodGet, "/api/cart?sessionId=guest-xyz", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &cart)
	assert.Empty(t, cart.Items)

	// Guests can track their order by number without a token
	resp = doJSON(t, app, http.MethodGet, "/api/orders/number/"+order.OrderNumber, nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var tracked models.OrderDTO
	decodeBody(t, resp, &tracked)
	assert.Equal(t, order.ID, tracked.ID)

	// An order with an unknown product is a bad request
	resp = doJSON(t, app, http.MethodPost, "/api/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "prod-missing", "quantity": 1},
		},
		"payment_method": "CARD",
		"session_id":     "guest-xyz",
		"shipping_info": map[string]string{
			"full_name":   "Guest Buyer",
			"email":       "guest@example.com",
			"phone":       "+628123456789",
			"address":     "Jl. Thamrin No. 9",
			"city":        "Jakarta",
			"postal_code": "10110",
			"country":     "Indonesia",
		},
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCartMergeOnLogin(t *testing.T) {
	app, _ := setupApp(t)

	// Guest cart with 2 monitors
	resp := doJSON(t, app, http.MethodPost, "/api/cart/add", map[string]interface{}{
		"product_id": "prod-monitor",
		"quantity":   2,
		"session_id": "guest-merge",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	token := registerAndLogin(t, app, "merger", "merger@example.com", "password123")

	// The user already has a laptop in their cart
	resp = doJSON(t, app, http.MethodPost, "/api/cart/add", map[string]interface{}{
		"product_id": "prod-laptop",
		"quantity":   1,
	}, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Merging requires authentication
	resp = doJSON(t, app, http.MethodPost, "/api/cart/merge?sessionId=guest-merge", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPost, "/api/cart/merge?sessionId=guest-merge", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var merged models.CartDTO
	decodeBody(t, resp, &merged)
	assert.Len(t, merged.Items, 2)
	assert.Equal(t, 3, merged.TotalItems)

	// The guest cart no longer exists; asking for it creates a fresh one
	resp = doJSON(t, app, http.MethodGet, "/api/cart?sessionId=guest-merge", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var guestCart models.CartDTO
	decodeBody(t, resp, &guestCart)
	assert.Empty(t, guestCart.Items)
}

func TestProductAdminEndpoints(t *testing.T) {
	app, _ := setupApp(t)

	// Public catalog reads need no token
	resp := doJSON(t, app, http.MethodGet, "/api/product/all", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	decodeBody(t, resp, &products)
	assert.GreaterOrEqual(t, len(products), 2)

	resp = doJSON(t, app, http.MethodGet, "/api/product/search?keyword=laptop", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &products)
	assert.Len(t, products, 1)

	resp = doJSON(t, app, http.MethodGet, "/api/product/category/Monitors", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &products)
	assert.Len(t, products, 1)

	resp = doJSON(t, app, http.MethodGet, "/api/product/available", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &products)
	assert.Len(t, products, 2)

	// Mutations are admin only
	userToken := registerAndLogin(t, app, "shopper", "shopper@example.com", "password123")
	adminToken := login(t, app, "admin", "admin123")

	form, contentType := productForm(t, map[string]string{
		"name":           "Webcam",
		"brand":          "Logi",
		"category":       "Accessories",
		"price":          "99.90",
		"stock_quantity": "7",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/product/create", form)
	req.Header.Set("Content-Type", contentType)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	form, contentType = productForm(t, map[string]string{
		"name":           "Webcam",
		"brand":          "Logi",
		"category":       "Accessories",
		"price":          "99.90",
		"stock_quantity": "7",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/product/create", form)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+userToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	form, contentType = productForm(t, map[string]string{
		"name":           "Webcam",
		"brand":          "Logi",
		"category":       "Accessories",
		"price":          "99.90",
		"stock_quantity": "7",
	})
	req = httptest.NewRequest(http.MethodPost, "/api/product/create", form)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created models.Product
	decodeBody(t, resp, &created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Webcam", created.Name)
	assert.True(t, created.InStock)

	// Delete and verify
	resp = doJSON(t, app, http.MethodDelete, "/api/product/delete/"+created.ID, nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/product/"+created.ID, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestOrderAdminEndpoints(t *testing.T) {
	app, _ := setupApp(t)

	userToken := registerAndLogin(t, app, "buyer", "buyer@example.com", "password123")
	adminToken := login(t, app, "admin", "admin123")

	// The user places an order
	resp := doJSON(t, app, http.MethodPost, "/api/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": "prod-laptop", "quantity": 1},
		},
		"payment_method": "BANK_TRANSFER",
		"shipping_info": map[string]string{
			"full_name":   "Buyer",
			"email":       "buyer@example.com",
			"phone":       "+628123456789",
			"address":     "Jl. Gatot Subroto No. 3",
			"city":        "Bandung",
			"postal_code": "40111",
			"country":     "Indonesia",
		},
	}, userToken)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.OrderDTO
	decodeBody(t, resp, &order)

	// The order list is admin only
	resp = doJSON(t, app, http.MethodGet, "/api/orders", nil, userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/orders?status=PENDING", nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var orders []models.OrderDTO
	decodeBody(t, resp, &orders)
	assert.Len(t, orders, 1)

	// The user sees their own history
	resp = doJSON(t, app, http.MethodGet, "/api/orders/my-orders", nil, userToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &orders)
	assert.Len(t, orders, 1)
	assert.Equal(t, order.ID, orders[0].ID)

	// Status transitions stamp the shipping timestamp
	resp = doJSON(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/status",
		map[string]string{"status": "SHIPPED"}, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.OrderDTO
	decodeBody(t, resp, &updated)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)
	assert.NotNil(t, updated.ShippedAt)

	resp = doJSON(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/status",
		map[string]string{"status": "TELEPORTED"}, adminToken)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/notes",
		map[string]string{"notes": "fragile"}, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &updated)
	assert.Equal(t, "fragile", updated.Notes)
}

func TestHeroImageEndpoints(t *testing.T) {
	app, _ := setupApp(t)
	adminToken := login(t, app, "admin", "admin123")

	// Upload requires an image file
	form, contentType := heroForm(t, map[string]string{"title": "No image"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/hero/upload", form)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	form, contentType = heroForm(t, map[string]string{
		"title":         "Grand Opening",
		"button_text":   "Shop now",
		"display_order": "1",
	}, []byte("png-bytes"))
	req = httptest.NewRequest(http.MethodPost, "/api/hero/upload", form)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	resp, err = app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var hero models.HeroImage
	decodeBody(t, resp, &hero)
	assert.NotEmpty(t, hero.ID)
	assert.True(t, hero.Active)

	// The active list is public
	resp = doJSON(t, app, http.MethodGet, "/api/hero/active", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var heroes []models.HeroImage
	decodeBody(t, resp, &heroes)
	assert.Len(t, heroes, 1)

	// Management is not
	resp = doJSON(t, app, http.MethodGet, "/api/hero/all", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/api/hero/"+hero.ID, nil, adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/hero/active", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &heroes)
	assert.Empty(t, heroes)
}

func productForm(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		assert.NoError(t, writer.WriteField(key, value))
	}
	assert.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func heroForm(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		assert.NoError(t, writer.WriteField(key, value))
	}
	if image != nil {
		part, err := writer.CreateFormFile("image", "banner.png")
		assert.NoError(t, err)
		_, err = part.Write(image)
		assert.NoError(t, err)
	}
	assert.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}
