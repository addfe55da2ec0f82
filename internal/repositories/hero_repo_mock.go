package repositories

import (
	"fmt"
	"sort"
	"sync"

	"lapgalaxy/internal/models"

	"github.com/google/uuid"
)

// MockHeroImageRepository is an in-memory implementation of HeroImageRepository.
type MockHeroImageRepository struct {
	heroes map[string]models.HeroImage
	mu     sync.RWMutex
}

// NewMockHeroImageRepository creates a new instance of MockHeroImageRepository.
func NewMockHeroImageRepository() *MockHeroImageRepository {
	return &MockHeroImageRepository{
		heroes: make(map[string]models.HeroImage),
	}
}

func byDisplayOrder(heroes []models.HeroImage) []models.HeroImage {
	sort.Slice(heroes, func(i, j int) bool {
		return heroes[i].DisplayOrder < heroes[j].DisplayOrder
	})
	return heroes
}

// GetActive returns active banners ordered by display order.
func (r *MockHeroImageRepository) GetActive() ([]models.HeroImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var heroes []models.HeroImage
	for _, hero := range r.heroes {
		if hero.Active {
			heroes = append(heroes, hero)
		}
	}
	return byDisplayOrder(heroes), nil
}

// GetAll returns every banner ordered by display order.
func (r *MockHeroImageRepository) GetAll() ([]models.HeroImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	heroes := make([]models.HeroImage, 0, len(r.heroes))
	for _, hero := range r.heroes {
		heroes = append(heroes, hero)
	}
	return byDisplayOrder(heroes), nil
}

// GetByID returns a banner by its ID.
func (r *MockHeroImageRepository) GetByID(id string) (*models.HeroImage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	hero, ok := r.heroes[id]
	if !ok {
		return nil, fmt.Errorf("hero image with ID %s: %w", id, ErrNotFound)
	}
	return &hero, nil
}

// Create adds a new banner.
func (r *MockHeroImageRepository) Create(hero *models.HeroImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if hero.ID == "" {
		hero.ID = uuid.New().String()
	}
	r.heroes[hero.ID] = *hero
	return nil
}

// Save persists changes to an existing banner.
func (r *MockHeroImageRepository) Save(hero *models.HeroImage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.heroes[hero.ID]; !ok {
		return fmt.Errorf("hero image with ID %s: %w", hero.ID, ErrNotFound)
	}
	r.heroes[hero.ID] = *hero
	return nil
}

// Delete removes a banner by its ID.
func (r *MockHeroImageRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.heroes[id]; !ok {
		return fmt.Errorf("hero image with ID %s: %w", id, ErrNotFound)
	}
	delete(r.heroes, id)
	return nil
}
