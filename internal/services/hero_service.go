package services

import (
	"fmt"
	"mime/multipart"

	"lapgalaxy/internal/config"
	"lapgalaxy/internal/models"
	"lapgalaxy/internal/repositories"
	"lapgalaxy/pkg/filestore"
)

// HeroImageService manages the promotional banners shown on the storefront
// landing area. Banner images live in the file store; rows keep only paths.
type HeroImageService struct {
	repo  repositories.HeroImageRepository
	store *filestore.Store
	cfg   *config.Config
}

// NewHeroImageService creates a new HeroImageService.
func NewHeroImageService(repo repositories.HeroImageRepository, store *filestore.Store, cfg *config.Config) *HeroImageService {
	return &HeroImageService{
		repo:  repo,
		store: store,
		cfg:   cfg,
	}
}

// GetActiveHeroImages returns the active banners in display order.
func (s *HeroImageService) GetActiveHeroImages() ([]models.HeroImage, error) {
	heroes, err := s.repo.GetActive()
	if err != nil {
		return nil, err
	}
	return s.decorateAll(heroes), nil
}

// GetAllHeroImages returns every banner in display order.
func (s *HeroImageService) GetAllHeroImages() ([]models.HeroImage, error) {
	heroes, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	return s.decorateAll(heroes), nil
}

// CreateHeroImage stores the banner image and creates the record. The image
// is required.
func (s *HeroImageService) CreateHeroImage(hero *models.HeroImage, image *multipart.FileHeader) error {
	if image == nil {
		return fmt.Errorf("%w: hero image file is required", ErrValidation)
	}
	path, err := s.store.SaveMultipart(image)
	if err != nil {
		return err
	}
	hero.ImagePath = path

	if err := s.repo.Create(hero); err != nil {
		return err
	}
	s.decorate(hero)
	return nil
}

// UpdateHeroImage applies partial updates to a banner. Nil fields are left
// unchanged; a new image replaces the old file best-effort.
func (s *HeroImageService) UpdateHeroImage(id string, title, description, buttonText, buttonLink *string, displayOrder *int, active *bool, image *multipart.FileHeader) (*models.HeroImage, error) {
	hero, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if title != nil {
		hero.Title = *title
	}
	if description != nil {
		hero.Description = *description
	}
	if buttonText != nil {
		hero.ButtonText = *buttonText
	}
	if buttonLink != nil {
		hero.ButtonLink = *buttonLink
	}
	if displayOrder != nil {
		hero.DisplayOrder = *displayOrder
	}
	if active != nil {
		hero.Active = *active
	}

	if image != nil {
		path, err := s.store.SaveMultipart(image)
		if err != nil {
			return nil, err
		}
		s.store.Delete(hero.ImagePath)
		hero.ImagePath = path
	}

	if err := s.repo.Save(hero); err != nil {
		return nil, err
	}
	return s.decorate(hero), nil
}

// DeleteHeroImage removes a banner and its stored file.
func (s *HeroImageService) DeleteHeroImage(id string) error {
	hero, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.store.Delete(hero.ImagePath)
	return nil
}

func (s *HeroImageService) decorate(hero *models.HeroImage) *models.HeroImage {
	hero.ImageURL = s.cfg.ImageURL(hero.ImagePath)
	return hero
}

func (s *HeroImageService) decorateAll(heroes []models.HeroImage) []models.HeroImage {
	for i := range heroes {
		s.decorate(&heroes[i])
	}
	return heroes
}
