package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lumosedu/lumos-api/internal/dto"
	"github.com/lumosedu/lumos-api/internal/service"
	"github.com/lumosedu/lumos-api/internal/utils"
)

// CourseHandler exposes the course catalog over HTTP.
type CourseHandler struct {
	courses service.CourseService
}

// NewCourseHandler constructs a CourseHandler.
func NewCourseHandler(courses service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List handles GET /api/courses.
func (h *CourseHandler) List(c *fiber.Ctx) error {
	var query dto.CourseListQuery
	if err := c.QueryParser(&query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid query parameters")
	}

	listing, err := h.courses.List(c.UserContext(), query)
	if err != nil {
		return sendValidationOr(c, err, func() error { return sendInternal(c) })
	}

	return utils.SendSuccess(c, "", listing)
}

// Get handles GET /api/courses/:id.
func (h *CourseHandler) Get(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return sendInvalidID(c, "course")
	}

	course, err := h.courses.Get(c.UserContext(), courseID)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "COURSE_NOT_FOUND", "course not found")
		}
		return sendInternal(c)
	}

	return utils.SendSuccess(c, "", course)
}

// Create handles POST /api/courses.
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return sendUnauthorized(c)
	}

	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return sendBadBody(c)
	}

	course, err := h.courses.Create(c.UserContext(), actor, payload)
	if err != nil {
		return sendValidationOr(c, err, func() error { return sendInternal(c) })
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

// Update handles PATCH /api/courses/:id.
func (h *CourseHandler) Update(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return sendUnauthorized(c)
	}

	courseID, err := parseUintParam(c, "id")
	if err != nil {
		return sendInvalidID(c, "course")
	}

	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return sendBadBody(c)
	}

	course, err := h.courses.Update(c.UserContext(), actor, courseID, payload)
	if err != nil {
		return sendValidationOr(c, err, func() error {
			switch {
			case errors.Is(err, service.ErrCourseNotFound):
				return utils.SendError(c, fiber.StatusNotFound, "COURSE_NOT_FOUND", "course not found")
			case errors.Is(err, service.ErrNotCourseOwner):
				return utils.SendError(c, fiber.StatusForbidden, "NOT_COURSE_OWNER", "only the course instructor may do this")
			default:
				return sendInternal(c)
			}
		})
	}

	return utils.SendSuccess(c, "course updated", course)
}
