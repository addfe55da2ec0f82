package handlers

import (
	"log"
	"mime/multipart"
	"strconv"
	"time"

	"lapgalaxy/internal/models"
	"lapgalaxy/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes. Reads are public; mutations
// require the ADMIN role. Literal routes are registered before the /:id
// parameter route.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, authRequired, adminOnly fiber.Handler) {
	productRoutes := router.Group("/product")
	productRoutes.Get("/all", h.HandleGetProducts)
	productRoutes.Get("/available", h.HandleGetAvailableProducts)
	productRoutes.Get("/search", h.HandleSearchProducts)
	productRoutes.Get("/category/:category", h.HandleGetProductsByCategory)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/create", authRequired, adminOnly, h.HandleCreateProduct)
	productRoutes.Put("/update/:id", authRequired, adminOnly, h.HandleUpdateProduct)
	productRoutes.Delete("/delete/:id", authRequired, adminOnly, h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		return errorJSON(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return errorJSON(c, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleGetProductsByCategory retrieves products in a category.
func (h *ProductHandler) HandleGetProductsByCategory(c *fiber.Ctx) error {
	products, err := h.service.GetProductsByCategory(c.Params("category"))
	if err != nil {
		return errorJSON(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleGetAvailableProducts retrieves products flagged as available.
func (h *ProductHandler) HandleGetAvailableProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAvailableProducts()
	if err != nil {
		return errorJSON(c, err, "Could not retrieve products")
	}
	return c.JSON(products)
}

// HandleSearchProducts retrieves products matching ?keyword=.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	keyword := c.Query("keyword")
	if keyword == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Query parameter 'keyword' is required",
		})
	}
	products, err := h.service.SearchProducts(keyword)
	if err != nil {
		return errorJSON(c, err, "Could not search products")
	}
	return c.JSON(products)
}

// HandleCreateProduct creates a product from a multipart form carrying the
// product fields, an optional main "image" file and optional
// "additional_images" files.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	product, err := productFromForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product form",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(product); err != nil {
		return validationJSON(c, err)
	}

	mainImage, _ := c.FormFile("image")
	additional := additionalImages(c)

	if err := h.service.CreateProduct(product, mainImage, additional); err != nil {
		log.Printf("Error creating product: %v", err)
		return errorJSON(c, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct updates an existing product from a multipart form.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	details, err := productFromForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product form",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(details); err != nil {
		return validationJSON(c, err)
	}

	mainImage, _ := c.FormFile("image")

	product, err := h.service.UpdateProduct(c.Params("id"), details, mainImage)
	if err != nil {
		log.Printf("Error updating product %s: %v", c.Params("id"), err)
		return errorJSON(c, err, "Could not update product")
	}
	return c.JSON(product)
}

// HandleDeleteProduct deletes a product and its cart references.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		log.Printf("Error deleting product %s: %v", c.Params("id"), err)
		return errorJSON(c, err, "Could not delete product")
	}
	return c.JSON(fiber.Map{"message": "Product deleted successfully"})
}

// productFromForm builds a Product from multipart form values.
func productFromForm(c *fiber.Ctx) (*models.Product, error) {
	product := &models.Product{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Brand:       c.FormValue("brand"),
		Category:    c.FormValue("category"),
		SKU:         c.FormValue("sku"),
		Tags:        c.FormValue("tags"),
		Status:      c.FormValue("status"),
	}

	var err error
	if product.Price, err = formFloat(c, "price", 0); err != nil {
		return nil, err
	}
	if product.OriginalPrice, err = formFloat(c, "original_price", 0); err != nil {
		return nil, err
	}
	if product.Rating, err = formFloat(c, "rating", 0); err != nil {
		return nil, err
	}
	if product.Stock, err = formInt(c, "stock_quantity", 0); err != nil {
		return nil, err
	}
	if product.DiscountPercentage, err = formInt(c, "discount_percentage", 0); err != nil {
		return nil, err
	}
	if product.ReviewCount, err = formInt(c, "review_count", 0); err != nil {
		return nil, err
	}
	product.ProductAvailable = formBool(c, "product_available")
	product.FreeShipping = formBool(c, "free_shipping")
	product.Featured = formBool(c, "featured")
	product.BestSeller = formBool(c, "best_seller")

	if v := c.FormValue("release_date"); v != "" {
		releaseDate, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, err
		}
		product.ReleaseDate = &releaseDate
	}
	return product, nil
}

func additionalImages(c *fiber.Ctx) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File["additional_images"]
}

func formFloat(c *fiber.Ctx, key string, def float64) (float64, error) {
	v := c.FormValue(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseFloat(v, 64)
}

func formInt(c *fiber.Ctx, key string, def int) (int, error) {
	v := c.FormValue(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func formBool(c *fiber.Ctx, key string) bool {
	v, _ := strconv.ParseBool(c.FormValue(key))
	return v
}
