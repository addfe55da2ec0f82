package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lapgalaxy/internal/middleware"
	"lapgalaxy/internal/repositories"
	"lapgalaxy/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test_jwt_secret"

func signToken(t *testing.T, secret, role string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  "user-123",
		"username": "tester",
		"role":     role,
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return signed
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	authService := services.NewAuthService(repositories.NewMockUserRepository(), testSecret)
	app := fiber.New()

	app.Get("/protected", middleware.AuthRequired(authService), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"user_id": c.Locals("user_id")})
	})
	app.Get("/admin", middleware.AuthRequired(authService), middleware.RequireRoles("ADMIN"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/open", middleware.OptionalAuth(authService), func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(string)
		return c.JSON(fiber.Map{"user_id": userID})
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t)

	// Missing header
	resp := get(t, app, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Garbage token
	resp = get(t, app, "/protected", "not.a.token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Token signed with another secret
	resp = get(t, app, "/protected", signToken(t, "other_secret", "USER"))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Valid token passes and exposes the claims
	resp = get(t, app, "/protected", signToken(t, testSecret, "USER"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoles(t *testing.T) {
	app := newTestApp(t)

	resp := get(t, app, "/admin", signToken(t, testSecret, "USER"))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = get(t, app, "/admin", signToken(t, testSecret, "ADMIN"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestOptionalAuth(t *testing.T) {
	app := newTestApp(t)

	// Anonymous requests pass with no identity
	resp := get(t, app, "/open", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Invalid tokens are ignored rather than rejected
	resp = get(t, app, "/open", "broken")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Valid tokens populate the identity
	resp = get(t, app, "/open", signToken(t, testSecret, "USER"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
