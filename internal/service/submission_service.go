package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/dto"
	"github.com/lumosedu/lumos-api/internal/models"
	"github.com/lumosedu/lumos-api/internal/repository"
)

// ErrSubmissionNotFound indicates a submission could not be found.
var ErrSubmissionNotFound = errors.New("submission not found")

// ErrNotEnrolled indicates the learner has no active enrollment in the
// assignment's course.
var ErrNotEnrolled = errors.New("not enrolled in this course")

// ErrPastDueDate indicates a late submission against an assignment that does
// not allow them.
var ErrPastDueDate = errors.New("late submissions are not allowed")

// ErrResubmitNotAllowed indicates a repeat submission against an assignment
// with resubmission disabled.
var ErrResubmitNotAllowed = errors.New("resubmission is not allowed for this assignment")

// ErrSubmissionTextEmpty indicates the answer text vanished after sanitization.
var ErrSubmissionTextEmpty = errors.New("submission text is empty")

// SubmissionService orchestrates learner submission workflows.
type SubmissionService interface {
	Submit(ctx context.Context, userID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error)
	ListByAssignment(ctx context.Context, actor Actor, assignmentID uint) (dto.SubmissionListResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	assignments repository.AssignmentRepository
	enrollments repository.EnrollmentRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(submissionRepo repository.SubmissionRepository, assignmentRepo repository.AssignmentRepository, enrollmentRepo repository.EnrollmentRepository, validate *validator.Validate, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: submissionRepo,
		assignments: assignmentRepo,
		enrollments: enrollmentRepo,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

// Submit accepts a learner's answer. Lateness is computed once here against
// the assignment deadline; a late submission is rejected outright unless the
// assignment allows them. Repeat submissions overwrite in place when the
// assignment permits resubmission.
func (s *submissionService) Submit(ctx context.Context, userID uint, payload dto.SubmissionCreateRequest) (dto.SubmissionResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionResponse{}, err
	}

	assignment, err := s.assignments.GetByID(ctx, payload.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionResponse{}, err
	}

	if _, err := s.enrollments.GetActive(ctx, userID, assignment.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrNotEnrolled
		}
		return dto.SubmissionResponse{}, err
	}

	submittedAt := s.now()
	isLate := assignment.IsPastDue(submittedAt)

	if isLate && !assignment.AllowLate {
		return dto.SubmissionResponse{}, ErrPastDueDate
	}

	text := strings.TrimSpace(s.sanitizer.Sanitize(payload.Text))
	if text == "" {
		return dto.SubmissionResponse{}, ErrSubmissionTextEmpty
	}

	var link *string
	if trimmed := strings.TrimSpace(payload.Link); trimmed != "" {
		link = &trimmed
	}

	existing, err := s.submissions.GetByAssignmentAndUser(ctx, payload.AssignmentID, userID)
	switch {
	case err == nil:
		if !assignment.AllowResubmit {
			return dto.SubmissionResponse{}, ErrResubmitNotAllowed
		}
		// Overwrite in place and make the grade revert explicit: a stale
		// score must never read as current after a resubmission.
		existing.Text = text
		existing.Link = link
		existing.Late = isLate
		existing.Status = models.SubmissionStatusSubmitted
		existing.ResubmittedAt = &submittedAt
		existing.Score = nil
		existing.Feedback = nil
		existing.GradedAt = nil

		if err := s.submissions.Update(ctx, &existing); err != nil {
			return dto.SubmissionResponse{}, err
		}

		s.logger.Info().Uint("submission_id", existing.ID).Bool("late", isLate).Msg("submission replaced")

		return dto.NewSubmissionResponse(existing), nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		submission := models.Submission{
			AssignmentID: payload.AssignmentID,
			UserID:       userID,
			Text:         text,
			Link:         link,
			Late:         isLate,
			Status:       models.SubmissionStatusSubmitted,
			SubmittedAt:  submittedAt,
		}

		if err := s.submissions.Create(ctx, &submission); err != nil {
			return dto.SubmissionResponse{}, err
		}

		s.logger.Info().Uint("submission_id", submission.ID).Bool("late", isLate).Msg("submission created")

		return dto.NewSubmissionResponse(submission), nil

	default:
		return dto.SubmissionResponse{}, err
	}
}

func (s *submissionService) ListByAssignment(ctx context.Context, actor Actor, assignmentID uint) (dto.SubmissionListResponse, error) {
	assignment, err := s.assignments.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionListResponse{}, ErrAssignmentNotFound
		}
		return dto.SubmissionListResponse{}, err
	}

	if assignment.Course.InstructorID != actor.ID {
		return dto.SubmissionListResponse{}, ErrNotCourseOwner
	}

	submissions, err := s.submissions.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return dto.SubmissionListResponse{}, err
	}

	return dto.SubmissionListResponse{Submissions: dto.NewSubmissionResponseSlice(submissions)}, nil
}
