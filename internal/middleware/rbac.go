package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lumosedu/lumos-api/internal/models"
	"github.com/lumosedu/lumos-api/internal/utils"
)

// RequireRole ensures that the authenticated user holds one of the allowed
// roles. Roles form a closed set; anything outside it is rejected.
func RequireRole(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		role := models.Role(normalizeRoleValue(c.Locals("user_role")))
		if !role.Valid() {
			return utils.SendError(c, fiber.StatusForbidden, "FORBIDDEN", "insufficient permissions")
		}
		if _, ok := allowed[role]; !ok {
			return utils.SendError(c, fiber.StatusForbidden, "FORBIDDEN", "insufficient permissions")
		}
		return c.Next()
	}
}

func normalizeRoleValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.ToLower(strings.TrimSpace(v))
	case models.Role:
		return strings.ToLower(strings.TrimSpace(string(v)))
	case fmt.Stringer:
		return strings.ToLower(strings.TrimSpace(v.String()))
	default:
		if value == nil {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(fmt.Sprintf("%v", value)))
	}
}
