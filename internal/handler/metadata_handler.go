package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lumosedu/lumos-api/internal/dto"
	"github.com/lumosedu/lumos-api/internal/service"
	"github.com/lumosedu/lumos-api/internal/utils"
)

// MetadataHandler exposes reference-data management over HTTP. The :type URL
// segment selects the metadata kind (categories or difficulties).
type MetadataHandler struct {
	metadata service.MetadataService
}

// NewMetadataHandler constructs a MetadataHandler.
func NewMetadataHandler(metadata service.MetadataService) *MetadataHandler {
	return &MetadataHandler{metadata: metadata}
}

// List handles GET /api/metadata/:type.
func (h *MetadataHandler) List(c *fiber.Ctx) error {
	listing, err := h.metadata.List(c.UserContext(), c.Params("type"))
	if err != nil {
		if errors.Is(err, service.ErrMetadataInvalidKind) {
			return utils.SendError(c, fiber.StatusBadRequest, "INVALID_TYPE", "unknown metadata type")
		}
		return sendInternal(c)
	}

	return utils.SendSuccess(c, "", listing)
}

// Create handles POST /api/metadata/:type.
func (h *MetadataHandler) Create(c *fiber.Ctx) error {
	var payload dto.MetadataCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return sendBadBody(c)
	}

	item, err := h.metadata.Create(c.UserContext(), c.Params("type"), payload)
	if err != nil {
		return sendValidationOr(c, err, func() error {
			switch {
			case errors.Is(err, service.ErrMetadataInvalidKind):
				return utils.SendError(c, fiber.StatusBadRequest, "INVALID_TYPE", "unknown metadata type")
			case errors.Is(err, service.ErrMetadataDuplicateName):
				return utils.SendError(c, fiber.StatusBadRequest, "DUPLICATE_NAME", "an item with this name already exists")
			default:
				return sendInternal(c)
			}
		})
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "metadata item created", item)
}

// Update handles PATCH /api/metadata/:type/:id.
func (h *MetadataHandler) Update(c *fiber.Ctx) error {
	itemID, err := parseUintParam(c, "id")
	if err != nil {
		return sendInvalidID(c, "metadata")
	}

	var payload dto.MetadataUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return sendBadBody(c)
	}

	item, err := h.metadata.Update(c.UserContext(), c.Params("type"), itemID, payload)
	if err != nil {
		return sendValidationOr(c, err, func() error {
			switch {
			case errors.Is(err, service.ErrMetadataInvalidKind):
				return utils.SendError(c, fiber.StatusBadRequest, "INVALID_TYPE", "unknown metadata type")
			case errors.Is(err, service.ErrMetadataNotFound):
				return utils.SendError(c, fiber.StatusNotFound, "METADATA_NOT_FOUND", "metadata item not found")
			case errors.Is(err, service.ErrMetadataDuplicateName):
				return utils.SendError(c, fiber.StatusBadRequest, "DUPLICATE_NAME", "an item with this name already exists")
			default:
				return sendInternal(c)
			}
		})
	}

	return utils.SendSuccess(c, "metadata item updated", item)
}

// Delete handles DELETE /api/metadata/:type/:id.
func (h *MetadataHandler) Delete(c *fiber.Ctx) error {
	itemID, err := parseUintParam(c, "id")
	if err != nil {
		return sendInvalidID(c, "metadata")
	}

	if err := h.metadata.Delete(c.UserContext(), c.Params("type"), itemID); err != nil {
		switch {
		case errors.Is(err, service.ErrMetadataInvalidKind):
			return utils.SendError(c, fiber.StatusBadRequest, "INVALID_TYPE", "unknown metadata type")
		case errors.Is(err, service.ErrMetadataNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "METADATA_NOT_FOUND", "metadata item not found")
		case errors.Is(err, service.ErrMetadataInUse):
			return utils.SendError(c, fiber.StatusBadRequest, "IN_USE", err.Error())
		default:
			return sendInternal(c)
		}
	}

	return utils.SendSuccess(c, "metadata item deleted", nil)
}
