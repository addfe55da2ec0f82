package repositories

import "lapgalaxy/internal/models"

// HeroImageRepository defines the interface for hero banner data access.
type HeroImageRepository interface {
	GetActive() ([]models.HeroImage, error)
	GetAll() ([]models.HeroImage, error)
	GetByID(id string) (*models.HeroImage, error)
	Create(hero *models.HeroImage) error
	Save(hero *models.HeroImage) error
	Delete(id string) error
}
