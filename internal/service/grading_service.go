package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/dto"
	"github.com/lumosedu/lumos-api/internal/repository"
)

// GradingService encapsulates instructor-side scoring workflows.
type GradingService interface {
	Grade(ctx context.Context, actor Actor, submissionID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error)
}

type gradingService struct {
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewGradingService constructs the grading service.
func NewGradingService(submissionRepo repository.SubmissionRepository, validate *validator.Validate, logger zerolog.Logger) GradingService {
	return &gradingService{
		submissions: submissionRepo,
		validator:   validate,
		logger:      logger.With().Str("component", "grading_service").Logger(),
		now:         time.Now,
	}
}

// Grade records a score and optional feedback. The actor must be the
// instructor of the course owning the assignment owning the submission;
// ownership is verified transitively on every call. Regrading is permitted in
// any state and refreshes graded_at.
func (s *gradingService) Grade(ctx context.Context, actor Actor, submissionID uint, payload dto.GradeSubmissionRequest) (dto.SubmissionResponse, error) {
	tracer := otel.Tracer("github.com/lumosedu/lumos-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.grade")
	span.SetAttributes(
		attribute.Int64("grading.submission_id", int64(submissionID)),
		attribute.Int64("grading.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.SubmissionResponse{}, err
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "submission_not_found")
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		span.RecordError(err)
		return dto.SubmissionResponse{}, err
	}

	if submission.Assignment.Course.InstructorID != actor.ID {
		span.SetStatus(codes.Error, "not_course_owner")
		return dto.SubmissionResponse{}, ErrNotCourseOwner
	}

	score := payload.Score
	submission.Score = &score
	submission.Status = payload.Status
	gradedAt := s.now()
	submission.GradedAt = &gradedAt

	if payload.Feedback != nil {
		feedback := strings.TrimSpace(*payload.Feedback)
		submission.Feedback = &feedback
	}

	if err := s.submissions.Update(ctx, &submission); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission_update_failed")
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Float64("score", score).
		Str("status", submission.Status).
		Msg("submission graded")

	return dto.NewSubmissionResponse(submission), nil
}
