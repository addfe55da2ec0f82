package services

import (
	"mime/multipart"
	"strings"

	"lapgalaxy/internal/config"
	"lapgalaxy/internal/models"
	"lapgalaxy/internal/repositories"

	"lapgalaxy/pkg/filestore"
)

// ProductService handles business logic related to the product catalog,
// including image storage and discount-price derivation.
type ProductService struct {
	repo     repositories.ProductRepository
	cartRepo repositories.CartRepository
	store    *filestore.Store
	cfg      *config.Config
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, cartRepo repositories.CartRepository, store *filestore.Store, cfg *config.Config) *ProductService {
	return &ProductService{
		repo:     repo,
		cartRepo: cartRepo,
		store:    store,
		cfg:      cfg,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	return s.decorateAll(products), nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.decorate(product), nil
}

// GetProductsByCategory retrieves all products in a category.
func (s *ProductService) GetProductsByCategory(category string) ([]models.Product, error) {
	products, err := s.repo.GetByCategory(category)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(products), nil
}

// GetAvailableProducts retrieves products flagged as available for sale.
func (s *ProductService) GetAvailableProducts() ([]models.Product, error) {
	products, err := s.repo.GetAvailable()
	if err != nil {
		return nil, err
	}
	return s.decorateAll(products), nil
}

// SearchProducts retrieves products matching the keyword.
func (s *ProductService) SearchProducts(keyword string) ([]models.Product, error) {
	products, err := s.repo.Search(keyword)
	if err != nil {
		return nil, err
	}
	return s.decorateAll(products), nil
}

// CreateProduct creates a product, optionally storing a main image and up to
// four additional images. Files are written before the database row, so a
// failed insert can leave orphaned files but never a row pointing at a
// missing file.
func (s *ProductService) CreateProduct(product *models.Product, mainImage *multipart.FileHeader, additionalImages []*multipart.FileHeader) error {
	product.ApplyDiscount()
	product.RefreshStockFlag()
	if product.Status == "" {
		product.Status = "ACTIVE"
	}

	if mainImage != nil {
		path, err := s.store.SaveMultipart(mainImage)
		if err != nil {
			return err
		}
		product.ImagePath = path
	}

	if len(additionalImages) > 0 {
		paths, err := s.storeAdditional(additionalImages)
		if err != nil {
			return err
		}
		product.AdditionalImagePaths = paths
	}

	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.decorate(product)
	return nil
}

// UpdateProduct applies the given details to an existing product. A new main
// image replaces the old one; deleting the old file is best-effort.
func (s *ProductService) UpdateProduct(id string, details *models.Product, mainImage *multipart.FileHeader) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	product.Name = details.Name
	product.Description = details.Description
	product.Brand = details.Brand
	product.Category = details.Category
	product.Price = details.Price
	product.Stock = details.Stock
	product.ProductAvailable = details.ProductAvailable
	product.ReleaseDate = details.ReleaseDate
	product.SKU = details.SKU
	product.OriginalPrice = details.OriginalPrice
	product.DiscountPercentage = details.DiscountPercentage
	product.Rating = details.Rating
	product.ReviewCount = details.ReviewCount
	product.Tags = details.Tags
	product.FreeShipping = details.FreeShipping
	product.Featured = details.Featured
	product.BestSeller = details.BestSeller
	if details.Status != "" {
		product.Status = details.Status
	}

	product.ApplyDiscount()
	product.RefreshStockFlag()

	if mainImage != nil {
		path, err := s.store.SaveMultipart(mainImage)
		if err != nil {
			return nil, err
		}
		// A failed delete of the old file must never block the update.
		s.store.Delete(product.ImagePath)
		product.ImagePath = path
	}

	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	return s.decorate(product), nil
}

// DeleteProduct removes a product and every cart item referencing it, then
// its stored image files.
func (s *ProductService) DeleteProduct(id string) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	// Referencing cart items are removed first to keep carts consistent.
	if err := s.cartRepo.DeleteItemsByProduct(id); err != nil {
		return err
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.store.Delete(product.ImagePath)
	for _, path := range splitPaths(product.AdditionalImagePaths) {
		s.store.Delete(path)
	}
	return nil
}

func (s *ProductService) storeAdditional(files []*multipart.FileHeader) (string, error) {
	const maxAdditionalImages = 4
	if len(files) > maxAdditionalImages {
		files = files[:maxAdditionalImages]
	}
	paths := make([]string, 0, len(files))
	for _, fh := range files {
		path, err := s.store.SaveMultipart(fh)
		if err != nil {
			return "", err
		}
		paths = append(paths, path)
	}
	return strings.Join(paths, ","), nil
}

func (s *ProductService) decorate(product *models.Product) *models.Product {
	product.ImageURL = s.cfg.ImageURL(product.ImagePath)
	product.AdditionalImageURLs = nil
	for _, path := range splitPaths(product.AdditionalImagePaths) {
		product.AdditionalImageURLs = append(product.AdditionalImageURLs, s.cfg.ImageURL(path))
	}
	return product
}

func (s *ProductService) decorateAll(products []models.Product) []models.Product {
	for i := range products {
		s.decorate(&products[i])
	}
	return products
}

func splitPaths(joined string) []string {
	if joined == "" {
		return nil
	}
	var paths []string
	for _, p := range strings.Split(joined, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
