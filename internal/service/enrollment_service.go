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
)

// ErrAlreadyEnrolled indicates an active enrollment already exists for the pair.
var ErrAlreadyEnrolled = errors.New("already enrolled in this course")

// ErrEnrollmentNotFound indicates the enrollment does not exist or belongs to
// another user.
var ErrEnrollmentNotFound = errors.New("enrollment not found")

// ErrAlreadyCanceled indicates the enrollment was canceled before.
var ErrAlreadyCanceled = errors.New("enrollment already canceled")

// EnrollmentService exposes enrollment ledger use cases.
type EnrollmentService interface {
	Enroll(ctx context.Context, userID uint, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error)
	Cancel(ctx context.Context, userID, enrollmentID uint) (dto.EnrollmentResponse, error)
	ListMine(ctx context.Context, userID uint, query dto.EnrollmentListQuery) (dto.EnrollmentListResponse, error)
}

type enrollmentService struct {
	enrollments repository.EnrollmentRepository
	courses     repository.CourseRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService instance.
func NewEnrollmentService(enrollmentRepo repository.EnrollmentRepository, courseRepo repository.CourseRepository, validate *validator.Validate, logger zerolog.Logger) EnrollmentService {
	return &enrollmentService{
		enrollments: enrollmentRepo,
		courses:     courseRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "enrollment_service").Logger(),
		now:         time.Now,
	}
}

func (s *enrollmentService) Enroll(ctx context.Context, userID uint, payload dto.EnrollmentCreateRequest) (dto.EnrollmentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	if _, err := s.courses.GetByID(ctx, payload.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrCourseNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	enrollment := models.Enrollment{
		UserID:     userID,
		CourseID:   payload.CourseID,
		EnrolledAt: s.now(),
	}

	if err := s.enrollments.CreateActive(ctx, &enrollment); err != nil {
		if errors.Is(err, repository.ErrActiveEnrollmentExists) {
			return dto.EnrollmentResponse{}, ErrAlreadyEnrolled
		}
		return dto.EnrollmentResponse{}, err
	}

	s.logger.Info().Uint("enrollment_id", enrollment.ID).Uint("course_id", enrollment.CourseID).Msg("learner enrolled")

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) Cancel(ctx context.Context, userID, enrollmentID uint) (dto.EnrollmentResponse, error) {
	enrollment, err := s.enrollments.GetByIDAndUser(ctx, enrollmentID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.EnrollmentResponse{}, ErrEnrollmentNotFound
		}
		return dto.EnrollmentResponse{}, err
	}

	if enrollment.CanceledAt != nil {
		return dto.EnrollmentResponse{}, ErrAlreadyCanceled
	}

	canceledAt := s.now()
	enrollment.CanceledAt = &canceledAt

	if err := s.enrollments.Update(ctx, &enrollment); err != nil {
		return dto.EnrollmentResponse{}, err
	}

	s.logger.Info().Uint("enrollment_id", enrollment.ID).Msg("enrollment canceled")

	return dto.NewEnrollmentResponse(enrollment), nil
}

func (s *enrollmentService) ListMine(ctx context.Context, userID uint, query dto.EnrollmentListQuery) (dto.EnrollmentListResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.EnrollmentListResponse{}, err
	}
	query.Normalize()

	enrollments, total, err := s.enrollments.ListByUser(ctx, userID, query.Page, query.Limit)
	if err != nil {
		return dto.EnrollmentListResponse{}, err
	}

	return dto.EnrollmentListResponse{
		Enrollments: dto.NewEnrollmentResponseSlice(enrollments),
		Total:       total,
		Page:        query.Page,
		Limit:       query.Limit,
	}, nil
}
