package handlers

import (
	"log"

	"lapgalaxy/internal/models"
	"lapgalaxy/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles registration and administrative user management.
type UserHandler struct {
	authService *services.AuthService
	userService *services.UserService
	validate    *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, userService *services.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the user routes. Registration is public; the
// management endpoints require the ADMIN role.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authRequired, adminOnly fiber.Handler) {
	userRoutes := router.Group("/user")
	userRoutes.Post("/register", h.HandleRegister)
	userRoutes.Get("/all", authRequired, adminOnly, h.HandleGetUsers)
	userRoutes.Get("/:id", authRequired, adminOnly, h.HandleGetUserByID)
	userRoutes.Delete("/delete/:id", authRequired, adminOnly, h.HandleDeleteUser)
	userRoutes.Put("/toggle-active/:id", authRequired, adminOnly, h.HandleToggleActive)
}

// HandleRegister handles new user registration.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var user models.User
	if err := c.BodyParser(&user); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(user); err != nil {
		return validationJSON(c, err)
	}

	// Self-registration never grants elevated roles.
	user.Role = models.RoleUser

	if err := h.authService.RegisterUser(&user); err != nil {
		log.Printf("Error registering user: %v", err)
		return errorJSON(c, err, "Could not register user")
	}

	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    user,
	})
}

// HandleGetUsers lists all users.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		return errorJSON(c, err, "Could not retrieve users")
	}
	for i := range users {
		users[i].Password = ""
	}
	return c.JSON(users)
}

// HandleGetUserByID retrieves a single user.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByID(c.Params("id"))
	if err != nil {
		return errorJSON(c, err, "Could not retrieve user")
	}
	user.Password = ""
	return c.JSON(user)
}

// HandleDeleteUser removes a user.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.userService.DeleteUser(c.Params("id")); err != nil {
		return errorJSON(c, err, "Could not delete user")
	}
	return c.JSON(fiber.Map{"message": "User deleted successfully"})
}

// HandleToggleActive flips a user's active flag. Deactivating an ADMIN is
// silently overridden back to active.
func (h *UserHandler) HandleToggleActive(c *fiber.Ctx) error {
	user, err := h.userService.ToggleUserActiveStatus(c.Params("id"))
	if err != nil {
		return errorJSON(c, err, "Could not update user status")
	}
	user.Password = ""
	return c.JSON(user)
}
