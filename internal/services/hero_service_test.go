package services_test

import (
	"os"
	"path/filepath"
	"testing"

	"lapgalaxy/internal/models"
	"lapgalaxy/internal/repositories"
	"lapgalaxy/internal/services"
	"lapgalaxy/pkg/filestore"

	"github.com/stretchr/testify/assert"
)

func newHeroTestService(t *testing.T) (*services.HeroImageService, *repositories.MockHeroImageRepository, string) {
	t.Helper()

	repo := repositories.NewMockHeroImageRepository()
	dir := t.TempDir()
	store, err := filestore.New(dir)
	assert.NoError(t, err)
	return services.NewHeroImageService(repo, store, newCartTestConfig()), repo, dir
}

func TestHeroImageService_CreateHeroImage(t *testing.T) {
	service, _, dir := newHeroTestService(t)

	// The image file is mandatory
	err := service.CreateHeroImage(&models.HeroImage{Title: "No image"}, nil)
	assert.ErrorIs(t, err, services.ErrValidation)

	hero := &models.HeroImage{Title: "Summer Sale", Active: true}
	image := multipartFileHeader(t, "image", "banner.png", []byte("png-bytes"))
	assert.NoError(t, service.CreateHeroImage(hero, image))

	assert.NotEmpty(t, hero.ID)
	assert.NotEmpty(t, hero.ImagePath)
	assert.Contains(t, hero.ImageURL, "http://localhost:8080/")
	_, err = os.Stat(filepath.Join(dir, filepath.Base(hero.ImagePath)))
	assert.NoError(t, err)
}

func TestHeroImageService_GetActiveHeroImages(t *testing.T) {
	service, repo, _ := newHeroTestService(t)

	assert.NoError(t, repo.Create(&models.HeroImage{ID: "h-2", Title: "Second", Active: true, DisplayOrder: 2}))
	assert.NoError(t, repo.Create(&models.HeroImage{ID: "h-1", Title: "First", Active: true, DisplayOrder: 1}))
	assert.NoError(t, repo.Create(&models.HeroImage{ID: "h-3", Title: "Hidden", Active: false, DisplayOrder: 0}))

	active, err := service.GetActiveHeroImages()
	assert.NoError(t, err)
	assert.Len(t, active, 2)
	assert.Equal(t, "First", active[0].Title)
	assert.Equal(t, "Second", active[1].Title)

	all, err := service.GetAllHeroImages()
	assert.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestHeroImageService_UpdateHeroImage(t *testing.T) {
	service, repo, _ := newHeroTestService(t)

	assert.NoError(t, repo.Create(&models.HeroImage{
		ID:           "h-1",
		Title:        "Old Title",
		ButtonText:   "Shop",
		Active:       true,
		DisplayOrder: 1,
	}))

	// Only provided fields change
	newTitle := "New Title"
	inactive := false
	hero, err := service.UpdateHeroImage("h-1", &newTitle, nil, nil, nil, nil, &inactive, nil)
	assert.NoError(t, err)
	assert.Equal(t, "New Title", hero.Title)
	assert.Equal(t, "Shop", hero.ButtonText)
	assert.False(t, hero.Active)
	assert.Equal(t, 1, hero.DisplayOrder)

	// A new image replaces the stored path
	image := multipartFileHeader(t, "image", "new.png", []byte("new"))
	hero, err = service.UpdateHeroImage("h-1", nil, nil, nil, nil, nil, nil, image)
	assert.NoError(t, err)
	assert.NotEmpty(t, hero.ImagePath)

	_, err = service.UpdateHeroImage("h-missing", &newTitle, nil, nil, nil, nil, nil, nil)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestHeroImageService_DeleteHeroImage(t *testing.T) {
	service, repo, dir := newHeroTestService(t)

	hero := &models.HeroImage{Title: "Doomed", Active: true}
	image := multipartFileHeader(t, "image", "doomed.png", []byte("bytes"))
	assert.NoError(t, service.CreateHeroImage(hero, image))
	stored := filepath.Join(dir, filepath.Base(hero.ImagePath))

	assert.NoError(t, service.DeleteHeroImage(hero.ID))
	_, err := repo.GetByID(hero.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, service.DeleteHeroImage("h-missing"), repositories.ErrNotFound)
}
