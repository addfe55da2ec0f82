package repositories

import (
	"fmt"
	"lapgalaxy/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMHeroImageRepository is a GORM implementation of HeroImageRepository.
type GORMHeroImageRepository struct {
	db *gorm.DB
}

// NewGORMHeroImageRepository creates a new instance of GORMHeroImageRepository.
func NewGORMHeroImageRepository(db *gorm.DB) *GORMHeroImageRepository {
	return &GORMHeroImageRepository{
		db: db,
	}
}

// GetActive retrieves active banners ordered for display.
func (r *GORMHeroImageRepository) GetActive() ([]models.HeroImage, error) {
	var heroes []models.HeroImage
	err := r.db.Where("active = ?", true).Order("display_order ASC").Find(&heroes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active hero images: %w", err)
	}
	return heroes, nil
}

// GetAll retrieves every banner, ordered for display.
func (r *GORMHeroImageRepository) GetAll() ([]models.HeroImage, error) {
	var heroes []models.HeroImage
	if err := r.db.Order("display_order ASC").Find(&heroes).Error; err != nil {
		return nil, fmt.Errorf("failed to get all hero images: %w", err)
	}
	return heroes, nil
}

// GetByID retrieves a single banner by its ID.
func (r *GORMHeroImageRepository) GetByID(id string) (*models.HeroImage, error) {
	var hero models.HeroImage
	if err := r.db.First(&hero, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("hero image with ID %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get hero image by ID %s: %w", id, err)
	}
	return &hero, nil
}

// Create creates a new banner.
func (r *GORMHeroImageRepository) Create(hero *models.HeroImage) error {
	if hero.ID == "" {
		hero.ID = uuid.New().String()
	}
	if err := r.db.Create(hero).Error; err != nil {
		return fmt.Errorf("failed to create hero image: %w", err)
	}
	return nil
}

// Save persists changes to an existing banner.
func (r *GORMHeroImageRepository) Save(hero *models.HeroImage) error {
	res := r.db.Save(hero)
	if res.Error != nil {
		return fmt.Errorf("failed to save hero image: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("hero image with ID %s: %w", hero.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a banner by its ID.
func (r *GORMHeroImageRepository) Delete(id string) error {
	res := r.db.Delete(&models.HeroImage{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete hero image: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("hero image with ID %s: %w", id, ErrNotFound)
	}
	return nil
}
