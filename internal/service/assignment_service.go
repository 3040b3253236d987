package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/dto"
	"github.com/lumosedu/lumos-api/internal/models"
	"github.com/lumosedu/lumos-api/internal/repository"
	"github.com/lumosedu/lumos-api/internal/workflow"
)

// ErrAssignmentNotFound indicates the requested assignment does not exist.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrNotCourseOwner indicates the actor does not own the assignment's course.
var ErrNotCourseOwner = errors.New("caller is not the course instructor")

// ErrInvalidStatusTransition indicates a status change outside the allowed
// transition table.
var ErrInvalidStatusTransition = errors.New("invalid status transition")

// Actor identifies the authenticated caller of a service operation.
type Actor struct {
	ID   uint
	Role models.Role
}

// AssignmentService exposes assignment registry use cases.
type AssignmentService interface {
	Create(ctx context.Context, actor Actor, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error)
	Get(ctx context.Context, id uint) (dto.AssignmentResponse, error)
	ListByCourse(ctx context.Context, courseID uint) (dto.AssignmentListResponse, error)
	Update(ctx context.Context, actor Actor, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error)
	UpdateStatus(ctx context.Context, actor Actor, id uint, payload dto.AssignmentStatusRequest) (dto.AssignmentResponse, error)
}

type assignmentService struct {
	assignments repository.AssignmentRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewAssignmentService builds a new assignment service.
func NewAssignmentService(assignmentRepo repository.AssignmentRepository, courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) AssignmentService {
	return &assignmentService{
		assignments: assignmentRepo,
		courses:     courseRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "assignment_service").Logger(),
		now:         time.Now,
	}
}

func (s *assignmentService) Create(ctx context.Context, actor Actor, payload dto.AssignmentCreateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	course, err := s.courses.GetByID(ctx, payload.CourseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrCourseNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	if course.InstructorID != actor.ID {
		return dto.AssignmentResponse{}, ErrNotCourseOwner
	}

	dueDate, err := time.Parse(time.RFC3339, payload.DueDate)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment := models.Assignment{
		CourseID:      payload.CourseID,
		Title:         payload.Title,
		Description:   payload.Description,
		DueDate:       dueDate,
		Weight:        1,
		AllowResubmit: true,
		Status:        models.AssignmentStatusDraft,
	}

	if payload.Weight != nil {
		assignment.Weight = *payload.Weight
	}
	if payload.AllowLate != nil {
		assignment.AllowLate = *payload.AllowLate
	}
	if payload.AllowResubmit != nil {
		assignment.AllowResubmit = *payload.AllowResubmit
	}
	if payload.Status != "" {
		assignment.Status = payload.Status
	}

	if err := s.assignments.Create(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Uint("course_id", assignment.CourseID).Msg("assignment created")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) Get(ctx context.Context, id uint) (dto.AssignmentResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AssignmentResponse{}, ErrAssignmentNotFound
		}
		return dto.AssignmentResponse{}, err
	}

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) ListByCourse(ctx context.Context, courseID uint) (dto.AssignmentListResponse, error) {
	assignments, err := s.assignments.ListByCourse(ctx, courseID)
	if err != nil {
		return dto.AssignmentListResponse{}, err
	}

	return dto.AssignmentListResponse{Assignments: dto.NewAssignmentResponseSlice(assignments)}, nil
}

func (s *assignmentService) Update(ctx context.Context, actor Actor, id uint, payload dto.AssignmentUpdateRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.ownedAssignment(ctx, actor, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if payload.Title != nil {
		assignment.Title = *payload.Title
	}
	if payload.Description != nil {
		assignment.Description = *payload.Description
	}
	if payload.DueDate != nil {
		dueDate, err := time.Parse(time.RFC3339, *payload.DueDate)
		if err != nil {
			return dto.AssignmentResponse{}, err
		}
		assignment.DueDate = dueDate
	}
	if payload.Weight != nil {
		assignment.Weight = *payload.Weight
	}
	if payload.AllowLate != nil {
		assignment.AllowLate = *payload.AllowLate
	}
	if payload.AllowResubmit != nil {
		assignment.AllowResubmit = *payload.AllowResubmit
	}

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().Uint("assignment_id", assignment.ID).Msg("assignment updated")

	return dto.NewAssignmentResponse(assignment), nil
}

// UpdateStatus validates the requested edge against the transition table
// before persisting; the table is never delegated to callers.
func (s *assignmentService) UpdateStatus(ctx context.Context, actor Actor, id uint, payload dto.AssignmentStatusRequest) (dto.AssignmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AssignmentResponse{}, err
	}

	assignment, err := s.ownedAssignment(ctx, actor, id)
	if err != nil {
		return dto.AssignmentResponse{}, err
	}

	if !workflow.AssignmentTransitions.Allowed(assignment.Status, payload.Status) {
		return dto.AssignmentResponse{}, ErrInvalidStatusTransition
	}

	assignment.Status = payload.Status

	if err := s.assignments.Update(ctx, &assignment); err != nil {
		return dto.AssignmentResponse{}, err
	}

	s.logger.Info().
		Uint("assignment_id", assignment.ID).
		Str("status", assignment.Status).
		Msg("assignment status changed")

	return dto.NewAssignmentResponse(assignment), nil
}

func (s *assignmentService) ownedAssignment(ctx context.Context, actor Actor, id uint) (models.Assignment, error) {
	assignment, err := s.assignments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Assignment{}, ErrAssignmentNotFound
		}
		return models.Assignment{}, err
	}

	if assignment.Course.InstructorID != actor.ID {
		return models.Assignment{}, ErrNotCourseOwner
	}

	return assignment, nil
}
