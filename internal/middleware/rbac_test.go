package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/lumosedu/lumos-api/internal/middleware"
	"github.com/lumosedu/lumos-api/internal/models"
)

func newRoleApp(role interface{}, allowed ...models.Role) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if role != nil {
			c.Locals("user_role", role)
		}
		return c.Next()
	})
	app.Get("/guarded", middleware.RequireRole(allowed...), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	app := newRoleApp("operator", models.RoleOperator)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleNormalisesCase(t *testing.T) {
	app := newRoleApp("  Instructor ", models.RoleInstructor)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireRoleRejectsOtherRole(t *testing.T) {
	app := newRoleApp("learner", models.RoleOperator)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleRejectsUnknownRole(t *testing.T) {
	app := newRoleApp("admin", models.RoleOperator, models.RoleInstructor)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	app := newRoleApp(nil, models.RoleOperator)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
