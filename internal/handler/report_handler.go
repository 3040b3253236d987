package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lumosedu/lumos-api/internal/dto"
	"github.com/lumosedu/lumos-api/internal/service"
	"github.com/lumosedu/lumos-api/internal/utils"
)

// ReportHandler exposes the moderation workflow over HTTP.
type ReportHandler struct {
	reports service.ReportService
}

// NewReportHandler constructs a ReportHandler.
func NewReportHandler(reports service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Create handles POST /api/reports.
func (h *ReportHandler) Create(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return sendUnauthorized(c)
	}

	var payload dto.ReportCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return sendBadBody(c)
	}

	report, err := h.reports.Create(c.UserContext(), userID, payload)
	if err != nil {
		return sendValidationOr(c, err, func() error {
			switch {
			case errors.Is(err, service.ErrReportTargetNotFound):
				return utils.SendError(c, fiber.StatusNotFound, "TARGET_NOT_FOUND", "report target not found")
			default:
				return sendInternal(c)
			}
		})
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "report received", report)
}

// List handles GET /api/reports.
func (h *ReportHandler) List(c *fiber.Ctx) error {
	var query dto.ReportListQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid query parameters")
	}

	listing, err := h.reports.List(c.UserContext(), query)
	if err != nil {
		return sendValidationOr(c, err, func() error { return sendInternal(c) })
	}

	return utils.SendSuccess(c, "", listing)
}

// Get handles GET /api/reports/:id.
func (h *ReportHandler) Get(c *fiber.Ctx) error {
	reportID, err := parseUintParam(c, "id")
	if err != nil {
		return sendInvalidID(c, "report")
	}

	report, err := h.reports.Get(c.UserContext(), reportID)
	if err != nil {
		if errors.Is(err, service.ErrReportNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "REPORT_NOT_FOUND", "report not found")
		}
		return sendInternal(c)
	}

	return utils.SendSuccess(c, "", report)
}

// UpdateStatus handles PATCH /api/reports/:id/status.
func (h *ReportHandler) UpdateStatus(c *fiber.Ctx) error {
	operatorID, ok := currentUserID(c)
	if !ok {
		return sendUnauthorized(c)
	}

	reportID, err := parseUintParam(c, "id")
	if err != nil {
		return sendInvalidID(c, "report")
	}

	var payload dto.ReportStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return sendBadBody(c)
	}

	report, err := h.reports.UpdateStatus(c.UserContext(), operatorID, reportID, payload)
	if err != nil {
		return sendValidationOr(c, err, func() error {
			switch {
			case errors.Is(err, service.ErrReportNotFound):
				return utils.SendError(c, fiber.StatusNotFound, "REPORT_NOT_FOUND", "report not found")
			case errors.Is(err, service.ErrReportStatusTransition):
				return utils.SendError(c, fiber.StatusBadRequest, "INVALID_STATUS_TRANSITION", "this status transition is not allowed")
			default:
				return sendInternal(c)
			}
		})
	}

	return utils.SendSuccess(c, "report status updated", report)
}

// ExecuteAction handles POST /api/reports/:id/actions.
func (h *ReportHandler) ExecuteAction(c *fiber.Ctx) error {
	operatorID, ok := currentUserID(c)
	if !ok {
		return sendUnauthorized(c)
	}

	reportID, err := parseUintParam(c, "id")
	if err != nil {
		return sendInvalidID(c, "report")
	}

	var payload dto.ReportActionRequest
	if err := c.BodyParser(&payload); err != nil {
		return sendBadBody(c)
	}

	report, err := h.reports.ExecuteAction(c.UserContext(), operatorID, reportID, payload)
	if err != nil {
		return sendValidationOr(c, err, func() error {
			switch {
			case errors.Is(err, service.ErrReportNotFound):
				return utils.SendError(c, fiber.StatusNotFound, "REPORT_NOT_FOUND", "report not found")
			case errors.Is(err, service.ErrReportActionFailed):
				return utils.SendError(c, fiber.StatusBadRequest, "ACTION_FAILED", err.Error())
			default:
				return sendInternal(c)
			}
		})
	}

	return utils.SendSuccess(c, "action executed", report)
}
