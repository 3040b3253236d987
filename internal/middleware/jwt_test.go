package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/lumosedu/lumos-api/internal/middleware"
)

const jwtTestSecret = "test-secret"

func newJWTApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", middleware.JWTProtected(jwtTestSecret), func(c *fiber.Ctx) error {
		userID, _ := c.Locals("user_id").(uint)
		role, _ := c.Locals("user_role").(string)
		return c.JSON(fiber.Map{"user_id": userID, "role": role})
	})
	return app
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestJWTProtectedAcceptsValidToken(t *testing.T) {
	app := newJWTApp()

	token := signToken(t, jwtTestSecret, jwt.MapClaims{
		"sub":  "42",
		"role": "learner",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJWTProtectedMissingHeader(t *testing.T) {
	app := newJWTApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedWrongSecret(t *testing.T) {
	app := newJWTApp()

	token := signToken(t, "other-secret", jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestJWTProtectedExpiredToken(t *testing.T) {
	app := newJWTApp()

	token := signToken(t, jwtTestSecret, jwt.MapClaims{
		"sub": "42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
