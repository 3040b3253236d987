package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lumosedu/lumos-api/internal/dto"
	"github.com/lumosedu/lumos-api/internal/service"
	"github.com/lumosedu/lumos-api/internal/utils"
)

// AssignmentHandler exposes assignment management, submission intake and
// grading over HTTP.
type AssignmentHandler struct {
	assignments service.AssignmentService
	submissions service.SubmissionService
	grading     service.GradingService
}

// NewAssignmentHandler constructs an AssignmentHandler.
func NewAssignmentHandler(assignments service.AssignmentService, submissions service.SubmissionService, grading service.GradingService) *AssignmentHandler {
	return &AssignmentHandler{
		assignments: assignments,
		submissions: submissions,
		grading:     grading,
	}
}

// Create handles POST /api/assignments.
func (h *AssignmentHandler) Create(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return sendUnauthorized(c)
	}

	var payload dto.AssignmentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return sendBadBody(c)
	}

	assignment, err := h.assignments.Create(c.UserContext(), actor, payload)
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

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "assignment created", assignment)
}

// Get handles GET /api/assignments/:id.
func (h *AssignmentHandler) Get(c *fiber.Ctx) error {
	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return sendInvalidID(c, "assignment")
	}

	assignment, err := h.assignments.Get(c.UserContext(), assignmentID)
	if err != nil {
		if errors.Is(err, service.ErrAssignmentNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "ASSIGNMENT_NOT_FOUND", "assignment not found")
		}
		return sendInternal(c)
	}

	return utils.SendSuccess(c, "", assignment)
}

// ListByCourse handles GET /api/assignments/course/:courseId.
func (h *AssignmentHandler) ListByCourse(c *fiber.Ctx) error {
	courseID, err := parseUintParam(c, "courseId")
	if err != nil {
		return sendInvalidID(c, "course")
	}

	listing, err := h.assignments.ListByCourse(c.UserContext(), courseID)
	if err != nil {
		return sendInternal(c)
	}

	return utils.SendSuccess(c, "", listing)
}

// Update handles PATCH /api/assignments/:id.
func (h *AssignmentHandler) Update(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return sendUnauthorized(c)
	}

	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return sendInvalidID(c, "assignment")
	}

	var payload dto.AssignmentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return sendBadBody(c)
	}

	assignment, err := h.assignments.Update(c.UserContext(), actor, assignmentID, payload)
	if err != nil {
		return sendValidationOr(c, err, func() error {
			switch {
			case errors.Is(err, service.ErrAssignmentNotFound):
				return utils.SendError(c, fiber.StatusNotFound, "ASSIGNMENT_NOT_FOUND", "assignment not found")
			case errors.Is(err, service.ErrNotCourseOwner):
				return utils.SendError(c, fiber.StatusForbidden, "NOT_COURSE_OWNER", "only the course instructor may do this")
			default:
				return sendInternal(c)
			}
		})
	}

	return utils.SendSuccess(c, "assignment updated", assignment)
}

// UpdateStatus handles PATCH /api/assignments/:id/status.
func (h *AssignmentHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return sendUnauthorized(c)
	}

	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return sendInvalidID(c, "assignment")
	}

	var payload dto.AssignmentStatusRequest
	if err := c.BodyParser(&payload); err != nil {
		return sendBadBody(c)
	}

	assignment, err := h.assignments.UpdateStatus(c.UserContext(), actor, assignmentID, payload)
	if err != nil {
		return sendValidationOr(c, err, func() error {
			switch {
			case errors.Is(err, service.ErrAssignmentNotFound):
				return utils.SendError(c, fiber.StatusNotFound, "ASSIGNMENT_NOT_FOUND", "assignment not found")
			case errors.Is(err, service.ErrNotCourseOwner):
				return utils.SendError(c, fiber.StatusForbidden, "NOT_COURSE_OWNER", "only the course instructor may do this")
			case errors.Is(err, service.ErrInvalidStatusTransition):
				return utils.SendError(c, fiber.StatusBadRequest, "INVALID_STATUS_TRANSITION", "this status transition is not allowed")
			default:
				return sendInternal(c)
			}
		})
	}

	return utils.SendSuccess(c, "assignment status updated", assignment)
}

// Submit handles POST /api/assignments/submit.
func (h *AssignmentHandler) Submit(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return sendUnauthorized(c)
	}

	var payload dto.SubmissionCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return sendBadBody(c)
	}

	submission, err := h.submissions.Submit(c.UserContext(), userID, payload)
	if err != nil {
		return sendValidationOr(c, err, func() error {
			switch {
			case errors.Is(err, service.ErrAssignmentNotFound):
				return utils.SendError(c, fiber.StatusNotFound, "ASSIGNMENT_NOT_FOUND", "assignment not found")
			case errors.Is(err, service.ErrNotEnrolled):
				return utils.SendError(c, fiber.StatusForbidden, "NOT_ENROLLED", "active enrollment in the course is required")
			case errors.Is(err, service.ErrPastDueDate):
				return utils.SendError(c, fiber.StatusBadRequest, "PAST_DUE_DATE", "the deadline has passed and late submissions are not allowed")
			case errors.Is(err, service.ErrResubmitNotAllowed):
				return utils.SendError(c, fiber.StatusBadRequest, "RESUBMIT_NOT_ALLOWED", "resubmission is not allowed for this assignment")
			case errors.Is(err, service.ErrSubmissionTextEmpty):
				return utils.SendError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "submission text is empty")
			default:
				return sendInternal(c)
			}
		})
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "submission received", submission)
}

// ListSubmissions handles GET /api/assignments/:id/submissions.
func (h *AssignmentHandler) ListSubmissions(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return sendUnauthorized(c)
	}

	assignmentID, err := parseUintParam(c, "id")
	if err != nil {
		return sendInvalidID(c, "assignment")
	}

	listing, err := h.submissions.ListByAssignment(c.UserContext(), actor, assignmentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "ASSIGNMENT_NOT_FOUND", "assignment not found")
		case errors.Is(err, service.ErrNotCourseOwner):
			return utils.SendError(c, fiber.StatusForbidden, "NOT_COURSE_OWNER", "only the course instructor may do this")
		default:
			return sendInternal(c)
		}
	}

	return utils.SendSuccess(c, "", listing)
}

// Grade handles POST /api/assignments/submissions/:id/grade.
func (h *AssignmentHandler) Grade(c *fiber.Ctx) error {
	actor, ok := currentActor(c)
	if !ok {
		return sendUnauthorized(c)
	}

	submissionID, err := parseUintParam(c, "id")
	if err != nil {
		return sendInvalidID(c, "submission")
	}

	var payload dto.GradeSubmissionRequest
	if err := c.BodyParser(&payload); err != nil {
		return sendBadBody(c)
	}

	submission, err := h.grading.Grade(c.UserContext(), actor, submissionID, payload)
	if err != nil {
		return sendValidationOr(c, err, func() error {
			switch {
			case errors.Is(err, service.ErrSubmissionNotFound):
				return utils.SendError(c, fiber.StatusNotFound, "SUBMISSION_NOT_FOUND", "submission not found")
			case errors.Is(err, service.ErrNotCourseOwner):
				return utils.SendError(c, fiber.StatusForbidden, "NOT_COURSE_OWNER", "only the course instructor may do this")
			default:
				return sendInternal(c)
			}
		})
	}

	return utils.SendSuccess(c, "submission graded", submission)
}
