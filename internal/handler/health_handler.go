package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lumosedu/lumos-api/internal/utils"
)

// HealthHandler reports service liveness.
type HealthHandler struct {
	appName string
	appEnv  string
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(appName, appEnv string) *HealthHandler {
	return &HealthHandler{appName: appName, appEnv: appEnv}
}

// Check responds with a static liveness payload.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "ok", fiber.Map{
		"name":   h.appName,
		"env":    h.appEnv,
		"status": "healthy",
	})
}
