package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/dto"
	"github.com/lumosedu/lumos-api/internal/models"
	"github.com/lumosedu/lumos-api/internal/observability"
	"github.com/lumosedu/lumos-api/internal/repository"
	"github.com/lumosedu/lumos-api/internal/workflow"
)

// ErrReportNotFound indicates the report does not exist.
var ErrReportNotFound = errors.New("report not found")

// ErrReportTargetNotFound indicates the reported entity does not exist.
var ErrReportTargetNotFound = errors.New("report target not found")

// ErrReportStatusTransition indicates a status change outside the moderation
// transition table.
var ErrReportStatusTransition = errors.New("invalid report status transition")

// ErrReportActionFailed indicates an action could not be executed.
var ErrReportActionFailed = errors.New("report action failed")

// invalidatedFeedback is the fixed feedback written onto submissions voided
// by an operator.
const invalidatedFeedback = "This submission has been invalidated by an operator."

// ReportService drives the report moderation state machine.
type ReportService interface {
	Create(ctx context.Context, reporterID uint, payload dto.ReportCreateRequest) (dto.ReportResponse, error)
	List(ctx context.Context, query dto.ReportListQuery) (dto.ReportListResponse, error)
	Get(ctx context.Context, id uint) (dto.ReportResponse, error)
	UpdateStatus(ctx context.Context, operatorID, id uint, payload dto.ReportStatusRequest) (dto.ReportResponse, error)
	ExecuteAction(ctx context.Context, operatorID, id uint, payload dto.ReportActionRequest) (dto.ReportResponse, error)
}

type reportService struct {
	reports     repository.ReportRepository
	courses     repository.CourseRepository
	assignments repository.AssignmentRepository
	submissions repository.SubmissionRepository
	profiles    repository.ProfileRepository
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	nats        *nats.Conn
	natsSubject string
	logger      zerolog.Logger
	now         func() time.Time
}

// moderationEvent is published after every executed action so downstream
// consumers (notification workers, audit sinks) can react.
type moderationEvent struct {
	ReportID   uint      `json:"report_id"`
	OperatorID uint      `json:"operator_id"`
	ActionType string    `json:"action_type"`
	TargetID   *uint     `json:"target_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewReportService constructs the report moderation service. natsConn may be
// nil; event publishing is then disabled.
func NewReportService(
	reportRepo repository.ReportRepository,
	courseRepo repository.CourseRepository,
	assignmentRepo repository.AssignmentRepository,
	submissionRepo repository.SubmissionRepository,
	profileRepo repository.ProfileRepository,
	validate *validator.Validate,
	natsConn *nats.Conn,
	natsSubject string,
	logger zerolog.Logger,
) ReportService {
	return &reportService{
		reports:     reportRepo,
		courses:     courseRepo,
		assignments: assignmentRepo,
		submissions: submissionRepo,
		profiles:    profileRepo,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		nats:        natsConn,
		natsSubject: natsSubject,
		logger:      logger.With().Str("component", "report_service").Logger(),
		now:         time.Now,
	}
}

func (s *reportService) Create(ctx context.Context, reporterID uint, payload dto.ReportCreateRequest) (dto.ReportResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReportResponse{}, err
	}

	exists, err := s.targetExists(ctx, payload.TargetType, payload.TargetID)
	if err != nil {
		return dto.ReportResponse{}, err
	}
	if !exists {
		return dto.ReportResponse{}, ErrReportTargetNotFound
	}

	report := models.Report{
		ReporterID: reporterID,
		TargetType: payload.TargetType,
		TargetID:   payload.TargetID,
		Reason:     strings.TrimSpace(s.sanitizer.Sanitize(payload.Reason)),
		Content:    strings.TrimSpace(s.sanitizer.Sanitize(payload.Content)),
		Status:     models.ReportStatusReceived,
	}

	if err := s.reports.Create(ctx, &report); err != nil {
		return dto.ReportResponse{}, err
	}

	s.logger.Info().
		Uint("report_id", report.ID).
		Str("target_type", report.TargetType).
		Uint("target_id", report.TargetID).
		Msg("report received")

	return dto.NewReportResponse(report), nil
}

func (s *reportService) List(ctx context.Context, query dto.ReportListQuery) (dto.ReportListResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return dto.ReportListResponse{}, err
	}
	query.Normalize()

	reports, total, err := s.reports.List(ctx, repository.ReportFilter{
		Status:     query.Status,
		TargetType: query.TargetType,
		Page:       query.Page,
		Limit:      query.Limit,
	})
	if err != nil {
		return dto.ReportListResponse{}, err
	}

	return dto.ReportListResponse{
		Reports: dto.NewReportResponseSlice(reports),
		Total:   total,
		Page:    query.Page,
		Limit:   query.Limit,
	}, nil
}

func (s *reportService) Get(ctx context.Context, id uint) (dto.ReportResponse, error) {
	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, ErrReportNotFound
		}
		return dto.ReportResponse{}, err
	}

	return dto.NewReportResponse(report), nil
}

// UpdateStatus moves a report along the forward-only transition table. The
// write is a compare-and-swap against the status read above, so a concurrent
// transition on the same report fails instead of double-applying.
func (s *reportService) UpdateStatus(ctx context.Context, operatorID, id uint, payload dto.ReportStatusRequest) (dto.ReportResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ReportResponse{}, err
	}

	report, err := s.reports.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.ReportResponse{}, ErrReportNotFound
		}
		return dto.ReportResponse{}, err
	}

	if !workflow.ReportTransitions.Allowed(report.Status, payload.Status) {
		return dto.ReportResponse{}, ErrReportStatusTransition
	}

	swapped, err := s.reports.UpdateStatusIf(ctx, id, report.Status, payload.Status)
	if err != nil {
		return dto.ReportResponse{}, err
	}
	if !swapped {
		return dto.ReportResponse{}, ErrReportStatusTransition
	}

	// Plain status-change memos are recorded as dismiss-typed entries; the
	// audit trail has no dedicated type for them.
	if payload.Memo != nil && strings.TrimSpace(*payload.Memo) != "" {
		memo := strings.TrimSpace(s.sanitizer.Sanitize(*payload.Memo))
		action := models.ReportAction{
			ReportID:   id,
			OperatorID: operatorID,
			ActionType: models.ReportActionDismiss,
			Memo:       &memo,
		}
		if err := s.reports.AppendAction(ctx, &action); err != nil {
			s.logger.Warn().Err(err).Uint("report_id", id).Msg("failed to record status memo")
		}
	}

	s.logger.Info().
		Uint("report_id", id).
		Str("from", report.Status).
		Str("to", payload.Status).
		Msg("report status changed")

	return s.Get(ctx, id)
}

// ExecuteAction runs an operator action, appends it to the audit trail, and
// force-resolves the report. There is no guard against acting on an already
// resolved report; repeated actions simply accumulate in the trail.
func (s *reportService) ExecuteAction(ctx context.Context, operatorID, id uint, payload dto.ReportActionRequest) (dto.ReportResponse, error) {
	tracer := otel.Tracer("github.com/lumosedu/lumos-api/internal/service/report")
	ctx, span := tracer.Start(ctx, "moderation.execute_action")
	span.SetAttributes(
		attribute.Int64("report.id", int64(id)),
		attribute.String("report.action_type", payload.ActionType),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.ReportResponse{}, err
	}

	if _, err := s.reports.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "report_not_found")
			return dto.ReportResponse{}, ErrReportNotFound
		}
		span.RecordError(err)
		return dto.ReportResponse{}, err
	}

	switch payload.ActionType {
	case models.ReportActionWarning:
		// Notification delivery is stubbed; the action is still audited.

	case models.ReportActionInvalidateSubmission:
		if payload.TargetID == nil {
			span.SetStatus(codes.Error, "target_required")
			return dto.ReportResponse{}, ErrReportActionFailed
		}
		if err := s.invalidateSubmission(ctx, *payload.TargetID); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalidate_failed")
			return dto.ReportResponse{}, err
		}

	case models.ReportActionRestrictAccount:
		if payload.TargetID == nil {
			span.SetStatus(codes.Error, "target_required")
			return dto.ReportResponse{}, ErrReportActionFailed
		}
		// Account restriction is stubbed; the action is still audited.

	case models.ReportActionDismiss:
		// Dismissal takes no side effect.
	}

	action := models.ReportAction{
		ReportID:   id,
		OperatorID: operatorID,
		ActionType: payload.ActionType,
		TargetID:   payload.TargetID,
	}
	if payload.Memo != nil && strings.TrimSpace(*payload.Memo) != "" {
		memo := strings.TrimSpace(s.sanitizer.Sanitize(*payload.Memo))
		action.Memo = &memo
	}

	if err := s.reports.AppendAction(ctx, &action); err != nil {
		span.RecordError(err)
		return dto.ReportResponse{}, err
	}

	if err := s.reports.SetStatus(ctx, id, models.ReportStatusResolved); err != nil {
		span.RecordError(err)
		return dto.ReportResponse{}, err
	}

	observability.ModerationActions().WithLabelValues(payload.ActionType).Inc()
	s.publishModerationEvent(ctx, moderationEvent{
		ReportID:   id,
		OperatorID: operatorID,
		ActionType: payload.ActionType,
		TargetID:   payload.TargetID,
		OccurredAt: s.now().UTC(),
	})

	s.logger.Info().
		Uint("report_id", id).
		Str("action_type", payload.ActionType).
		Msg("moderation action executed")

	return s.Get(ctx, id)
}

// invalidateSubmission voids a graded or pending submission: zero score,
// graded status, fixed operator feedback.
func (s *reportService) invalidateSubmission(ctx context.Context, submissionID uint) error {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReportActionFailed
		}
		return err
	}

	zero := float64(0)
	feedback := invalidatedFeedback
	gradedAt := s.now()

	submission.Score = &zero
	submission.Status = models.SubmissionStatusGraded
	submission.Feedback = &feedback
	submission.GradedAt = &gradedAt

	return s.submissions.Update(ctx, &submission)
}

func (s *reportService) targetExists(ctx context.Context, targetType string, targetID uint) (bool, error) {
	switch targetType {
	case models.ReportTargetCourse:
		return s.courses.Exists(ctx, targetID)
	case models.ReportTargetAssignment:
		return s.assignments.Exists(ctx, targetID)
	case models.ReportTargetSubmission:
		return s.submissions.Exists(ctx, targetID)
	case models.ReportTargetUser:
		return s.profiles.Exists(ctx, targetID)
	default:
		return false, nil
	}
}

func (s *reportService) publishModerationEvent(ctx context.Context, event moderationEvent) {
	if s.nats == nil || s.natsSubject == "" {
		return
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode moderation event")
		return
	}

	if err := s.nats.Publish(s.natsSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish moderation event")
	}
}
