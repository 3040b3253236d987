package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/lumosedu/lumos-api/internal/models"
	"github.com/lumosedu/lumos-api/internal/service"
	"github.com/lumosedu/lumos-api/internal/utils"
)

func currentUserID(c *fiber.Ctx) (uint, bool) {
	value := c.Locals("user_id")
	if id, ok := value.(uint); ok && id > 0 {
		return id, true
	}
	return 0, false
}

func currentActor(c *fiber.Ctx) (service.Actor, bool) {
	id, ok := currentUserID(c)
	if !ok {
		return service.Actor{}, false
	}

	role, _ := c.Locals("user_role").(string)
	return service.Actor{ID: id, Role: models.Role(role)}, true
}

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || parsed == 0 {
		return 0, errors.New("invalid identifier")
	}
	return uint(parsed), nil
}

func sendUnauthorized(c *fiber.Ctx) error {
	return utils.SendError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
}

func sendInvalidID(c *fiber.Ctx, name string) error {
	return utils.SendError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid "+name+" identifier")
}

func sendBadBody(c *fiber.Ctx) error {
	return utils.SendError(c, fiber.StatusBadRequest, "INVALID_BODY", "invalid request body")
}

// sendValidationOr maps validator failures to 400 and defers everything else
// to the handler's own error switch via the fallback.
func sendValidationOr(c *fiber.Ctx, err error, fallback func() error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationErrors.Error())
	}
	return fallback()
}

func sendInternal(c *fiber.Ctx) error {
	return utils.SendError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}
