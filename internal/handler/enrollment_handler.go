package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lumosedu/lumos-api/internal/dto"
	"github.com/lumosedu/lumos-api/internal/service"
	"github.com/lumosedu/lumos-api/internal/utils"
)

// EnrollmentHandler exposes the enrollment ledger over HTTP.
type EnrollmentHandler struct {
	enrollments service.EnrollmentService
}

// NewEnrollmentHandler constructs an EnrollmentHandler.
func NewEnrollmentHandler(enrollments service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// Enroll handles POST /api/enrollments.
func (h *EnrollmentHandler) Enroll(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return sendUnauthorized(c)
	}

	var payload dto.EnrollmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return sendBadBody(c)
	}

	enrollment, err := h.enrollments.Enroll(c.UserContext(), userID, payload)
	if err != nil {
		return sendValidationOr(c, err, func() error {
			switch {
			case errors.Is(err, service.ErrCourseNotFound):
				return utils.SendError(c, fiber.StatusNotFound, "COURSE_NOT_FOUND", "course not found")
			case errors.Is(err, service.ErrAlreadyEnrolled):
				return utils.SendError(c, fiber.StatusBadRequest, "ALREADY_ENROLLED", "already enrolled in this course")
			default:
				return sendInternal(c)
			}
		})
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "enrolled", enrollment)
}

// Cancel handles PATCH /api/enrollments/:id/cancel.
func (h *EnrollmentHandler) Cancel(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return sendUnauthorized(c)
	}

	enrollmentID, err := parseUintParam(c, "id")
	if err != nil {
		return sendInvalidID(c, "enrollment")
	}

	enrollment, err := h.enrollments.Cancel(c.UserContext(), userID, enrollmentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEnrollmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "ENROLLMENT_NOT_FOUND", "enrollment not found")
		case errors.Is(err, service.ErrAlreadyCanceled):
			return utils.SendError(c, fiber.StatusBadRequest, "ALREADY_CANCELED", "enrollment already canceled")
		default:
			return sendInternal(c)
		}
	}

	return utils.SendSuccess(c, "enrollment canceled", enrollment)
}

// ListMine handles GET /api/enrollments/my.
func (h *EnrollmentHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return sendUnauthorized(c)
	}

	var query dto.EnrollmentListQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid query parameters")
	}

	listing, err := h.enrollments.ListMine(c.UserContext(), userID, query)
	if err != nil {
		return sendValidationOr(c, err, func() error { return sendInternal(c) })
	}

	return utils.SendSuccess(c, "", listing)
}
