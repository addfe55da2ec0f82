package handlers

import (
	"log"
	"strconv"

	"lapgalaxy/internal/models"
	"lapgalaxy/internal/services"

	"github.com/gofiber/fiber/v2"
)

// HeroImageHandler handles HTTP requests for home page hero banners.
type HeroImageHandler struct {
	service *services.HeroImageService
}

// NewHeroImageHandler creates a new HeroImageHandler.
func NewHeroImageHandler(service *services.HeroImageService) *HeroImageHandler {
	return &HeroImageHandler{service: service}
}

// RegisterRoutes registers the hero image routes. The active list is public
// for the storefront; everything else is admin only.
func (h *HeroImageHandler) RegisterRoutes(router fiber.Router, authRequired, adminOnly fiber.Handler) {
	heroRoutes := router.Group("/hero")
	heroRoutes.Get("/active", h.HandleGetActiveHeroImages)
	heroRoutes.Get("/all", authRequired, adminOnly, h.HandleGetAllHeroImages)
	heroRoutes.Post("/upload", authRequired, adminOnly, h.HandleCreateHeroImage)
	heroRoutes.Put("/:id", authRequired, adminOnly, h.HandleUpdateHeroImage)
	heroRoutes.Delete("/:id", authRequired, adminOnly, h.HandleDeleteHeroImage)
}

// HandleGetActiveHeroImages retrieves active banners in display order.
func (h *HeroImageHandler) HandleGetActiveHeroImages(c *fiber.Ctx) error {
	heroes, err := h.service.GetActiveHeroImages()
	if err != nil {
		return errorJSON(c, err, "Could not retrieve hero images")
	}
	return c.JSON(heroes)
}

// HandleGetAllHeroImages retrieves every banner, active or not.
func (h *HeroImageHandler) HandleGetAllHeroImages(c *fiber.Ctx) error {
	heroes, err := h.service.GetAllHeroImages()
	if err != nil {
		return errorJSON(c, err, "Could not retrieve hero images")
	}
	return c.JSON(heroes)
}

// HandleCreateHeroImage creates a banner from a multipart form. The "image"
// file is required.
func (h *HeroImageHandler) HandleCreateHeroImage(c *fiber.Ctx) error {
	hero := &models.HeroImage{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		ButtonText:  c.FormValue("button_text"),
		ButtonLink:  c.FormValue("button_link"),
		Active:      true,
		CreatedBy:   currentUserID(c),
	}
	if v := c.FormValue("display_order"); v != "" {
		displayOrder, err := strconv.Atoi(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Form field 'display_order' must be an integer",
			})
		}
		hero.DisplayOrder = displayOrder
	}
	if v := c.FormValue("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Form field 'active' must be a boolean",
			})
		}
		hero.Active = active
	}

	image, _ := c.FormFile("image")

	if err := h.service.CreateHeroImage(hero, image); err != nil {
		log.Printf("Error creating hero image: %v", err)
		return errorJSON(c, err, "Could not create hero image")
	}
	return c.Status(fiber.StatusCreated).JSON(hero)
}

// HandleUpdateHeroImage partially updates a banner. Only form fields that
// are present are applied; a new "image" file replaces the stored one.
func (h *HeroImageHandler) HandleUpdateHeroImage(c *fiber.Ctx) error {
	var (
		title        = optionalFormString(c, "title")
		description  = optionalFormString(c, "description")
		buttonText   = optionalFormString(c, "button_text")
		buttonLink   = optionalFormString(c, "button_link")
		displayOrder *int
		active       *bool
	)
	if v := c.FormValue("display_order"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Form field 'display_order' must be an integer",
			})
		}
		displayOrder = &parsed
	}
	if v := c.FormValue("active"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Form field 'active' must be a boolean",
			})
		}
		active = &parsed
	}

	image, _ := c.FormFile("image")

	hero, err := h.service.UpdateHeroImage(c.Params("id"), title, description, buttonText, buttonLink, displayOrder, active, image)
	if err != nil {
		log.Printf("Error updating hero image %s: %v", c.Params("id"), err)
		return errorJSON(c, err, "Could not update hero image")
	}
	return c.JSON(hero)
}

// HandleDeleteHeroImage deletes a banner and its stored image file.
func (h *HeroImageHandler) HandleDeleteHeroImage(c *fiber.Ctx) error {
	if err := h.service.DeleteHeroImage(c.Params("id")); err != nil {
		return errorJSON(c, err, "Could not delete hero image")
	}
	return c.JSON(fiber.Map{"message": "Hero image deleted successfully"})
}

// optionalFormString returns a pointer to the form value, or nil when the
// field was not sent.
func optionalFormString(c *fiber.Ctx, key string) *string {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	values, ok := form.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}
