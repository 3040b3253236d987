package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/dto"
	"github.com/lumosedu/lumos-api/internal/models"
	"github.com/lumosedu/lumos-api/internal/repository"
)

type fakeReportRepo struct {
	reports      map[uint]models.Report
	nextID       uint
	nextActionID uint
	swapDenied   bool
}

func (f *fakeReportRepo) List(ctx context.Context, filter repository.ReportFilter) ([]models.Report, int64, error) {
	var matched []models.Report
	for _, report := range f.reports {
		if filter.Status != "" && report.Status != filter.Status {
			continue
		}
		if filter.TargetType != "" && report.TargetType != filter.TargetType {
			continue
		}
		matched = append(matched, report)
	}
	return matched, int64(len(matched)), nil
}

func (f *fakeReportRepo) GetByID(ctx context.Context, id uint) (models.Report, error) {
	if report, ok := f.reports[id]; ok {
		return report, nil
	}
	return models.Report{}, gorm.ErrRecordNotFound
}

func (f *fakeReportRepo) Create(ctx context.Context, report *models.Report) error {
	if f.reports == nil {
		f.reports = map[uint]models.Report{}
	}
	f.nextID++
	report.ID = f.nextID
	f.reports[report.ID] = *report
	return nil
}

func (f *fakeReportRepo) UpdateStatusIf(ctx context.Context, id uint, expected, next string) (bool, error) {
	if f.swapDenied {
		return false, nil
	}
	report, ok := f.reports[id]
	if !ok || report.Status != expected {
		return false, nil
	}
	report.Status = next
	f.reports[id] = report
	return true, nil
}

func (f *fakeReportRepo) SetStatus(ctx context.Context, id uint, status string) error {
	report, ok := f.reports[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	report.Status = status
	f.reports[id] = report
	return nil
}

func (f *fakeReportRepo) AppendAction(ctx context.Context, action *models.ReportAction) error {
	report, ok := f.reports[action.ReportID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.nextActionID++
	action.ID = f.nextActionID
	action.CreatedAt = time.Now()
	report.Actions = append(report.Actions, *action)
	f.reports[action.ReportID] = report
	return nil
}

type fakeProfileRepo struct {
	profiles map[uint]models.Profile
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id uint) (models.Profile, error) {
	if profile, ok := f.profiles[id]; ok {
		return profile, nil
	}
	return models.Profile{}, gorm.ErrRecordNotFound
}

func (f *fakeProfileRepo) Exists(ctx context.Context, id uint) (bool, error) {
	_, ok := f.profiles[id]
	return ok, nil
}

func (f *fakeProfileRepo) Create(ctx context.Context, profile *models.Profile) error {
	if f.profiles == nil {
		f.profiles = map[uint]models.Profile{}
	}
	profile.ID = uint(len(f.profiles) + 1)
	f.profiles[profile.ID] = *profile
	return nil
}

type reportFixture struct {
	reports     *fakeReportRepo
	submissions *fakeSubmissionRepo
	svc         ReportService
}

func newReportFixture() reportFixture {
	reportRepo := &fakeReportRepo{}
	courseRepo := &fakeCourseRepo{courses: map[uint]models.Course{7: {ID: 7, InstructorID: 2}}}
	assignmentRepo := &fakeAssignmentRepo{assignments: map[uint]models.Assignment{1: {ID: 1, CourseID: 7}}}
	submissionRepo := &fakeSubmissionRepo{submissions: map[uint]models.Submission{
		3: {ID: 3, AssignmentID: 1, UserID: 5, Text: "answer", Status: models.SubmissionStatusSubmitted},
	}}
	profileRepo := &fakeProfileRepo{profiles: map[uint]models.Profile{5: {ID: 5, Role: models.RoleLearner}}}
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewReportService(reportRepo, courseRepo, assignmentRepo, submissionRepo, profileRepo, validate, nil, "", testLogger())

	return reportFixture{reports: reportRepo, submissions: submissionRepo, svc: svc}
}

func (fx reportFixture) seedReport(status string) uint {
	report := models.Report{
		ReporterID: 5,
		TargetType: models.ReportTargetSubmission,
		TargetID:   3,
		Reason:     "plagiarism",
		Content:    "copied verbatim",
		Status:     status,
	}
	_ = fx.reports.Create(context.Background(), &report)
	return report.ID
}

func TestReportServiceCreate(t *testing.T) {
	fx := newReportFixture()

	report, err := fx.svc.Create(context.Background(), 5, dto.ReportCreateRequest{
		TargetType: models.ReportTargetSubmission,
		TargetID:   3,
		Reason:     "plagiarism",
		Content:    "copied <b>verbatim</b>",
	})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusReceived, report.Status)
	require.Equal(t, "copied verbatim", report.Content)
	require.Empty(t, report.Actions)
}

func TestReportServiceCreateTargetMissing(t *testing.T) {
	fx := newReportFixture()

	_, err := fx.svc.Create(context.Background(), 5, dto.ReportCreateRequest{
		TargetType: models.ReportTargetCourse,
		TargetID:   999,
		Reason:     "spam",
		Content:    "junk course",
	})
	require.ErrorIs(t, err, ErrReportTargetNotFound)
}

func TestReportServiceStatusForward(t *testing.T) {
	fx := newReportFixture()
	id := fx.seedReport(models.ReportStatusReceived)

	report, err := fx.svc.UpdateStatus(context.Background(), 10, id, dto.ReportStatusRequest{Status: models.ReportStatusInvestigating})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusInvestigating, report.Status)

	report, err = fx.svc.UpdateStatus(context.Background(), 10, id, dto.ReportStatusRequest{Status: models.ReportStatusResolved})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusResolved, report.Status)
}

func TestReportServiceStatusSkipInvestigating(t *testing.T) {
	fx := newReportFixture()
	id := fx.seedReport(models.ReportStatusReceived)

	report, err := fx.svc.UpdateStatus(context.Background(), 10, id, dto.ReportStatusRequest{Status: models.ReportStatusResolved})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusResolved, report.Status)
}

func TestReportServiceResolvedIsTerminal(t *testing.T) {
	fx := newReportFixture()
	id := fx.seedReport(models.ReportStatusResolved)

	_, err := fx.svc.UpdateStatus(context.Background(), 10, id, dto.ReportStatusRequest{Status: models.ReportStatusInvestigating})
	require.ErrorIs(t, err, ErrReportStatusTransition)
}

func TestReportServiceStatusSwapLost(t *testing.T) {
	fx := newReportFixture()
	id := fx.seedReport(models.ReportStatusReceived)
	fx.reports.swapDenied = true

	_, err := fx.svc.UpdateStatus(context.Background(), 10, id, dto.ReportStatusRequest{Status: models.ReportStatusInvestigating})
	require.ErrorIs(t, err, ErrReportStatusTransition)
}

func TestReportServiceStatusMemoRecorded(t *testing.T) {
	fx := newReportFixture()
	id := fx.seedReport(models.ReportStatusReceived)

	memo := "looking into it"
	report, err := fx.svc.UpdateStatus(context.Background(), 10, id, dto.ReportStatusRequest{
		Status: models.ReportStatusInvestigating,
		Memo:   &memo,
	})
	require.NoError(t, err)
	require.Len(t, report.Actions, 1)
	require.Equal(t, models.ReportActionDismiss, report.Actions[0].ActionType)
	require.Equal(t, "looking into it", *report.Actions[0].Memo)
	require.Equal(t, uint(10), report.Actions[0].OperatorID)
}

func TestReportServiceExecuteDismiss(t *testing.T) {
	fx := newReportFixture()
	id := fx.seedReport(models.ReportStatusInvestigating)

	report, err := fx.svc.ExecuteAction(context.Background(), 10, id, dto.ReportActionRequest{
		ActionType: models.ReportActionDismiss,
	})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusResolved, report.Status)
	require.Len(t, report.Actions, 1)
	require.Equal(t, models.ReportActionDismiss, report.Actions[0].ActionType)
}

func TestReportServiceExecuteInvalidateSubmission(t *testing.T) {
	fx := newReportFixture()
	id := fx.seedReport(models.ReportStatusInvestigating)

	targetID := uint(3)
	report, err := fx.svc.ExecuteAction(context.Background(), 10, id, dto.ReportActionRequest{
		ActionType: models.ReportActionInvalidateSubmission,
		TargetID:   &targetID,
	})
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusResolved, report.Status)

	voided := fx.submissions.submissions[3]
	require.Equal(t, 0.0, *voided.Score)
	require.Equal(t, models.SubmissionStatusGraded, voided.Status)
	require.Equal(t, invalidatedFeedback, *voided.Feedback)
	require.NotNil(t, voided.GradedAt)
}

func TestReportServiceExecuteInvalidateRequiresTarget(t *testing.T) {
	fx := newReportFixture()
	id := fx.seedReport(models.ReportStatusInvestigating)

	_, err := fx.svc.ExecuteAction(context.Background(), 10, id, dto.ReportActionRequest{
		ActionType: models.ReportActionInvalidateSubmission,
	})
	require.ErrorIs(t, err, ErrReportActionFailed)

	report, err := fx.svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, models.ReportStatusInvestigating, report.Status)
	require.Empty(t, report.Actions)
}

func TestReportServiceExecuteInvalidateMissingSubmission(t *testing.T) {
	fx := newReportFixture()
	id := fx.seedReport(models.ReportStatusInvestigating)

	targetID := uint(404)
	_, err := fx.svc.ExecuteAction(context.Background(), 10, id, dto.ReportActionRequest{
		ActionType: models.ReportActionInvalidateSubmission,
		TargetID:   &targetID,
	})
	require.ErrorIs(t, err, ErrReportActionFailed)
}

func TestReportServiceRepeatedActionsAccumulate(t *testing.T) {
	fx := newReportFixture()
	id := fx.seedReport(models.ReportStatusInvestigating)

	_, err := fx.svc.ExecuteAction(context.Background(), 10, id, dto.ReportActionRequest{ActionType: models.ReportActionWarning})
	require.NoError(t, err)

	report, err := fx.svc.ExecuteAction(context.Background(), 10, id, dto.ReportActionRequest{ActionType: models.ReportActionDismiss})
	require.NoError(t, err)
	require.Len(t, report.Actions, 2)
	require.Equal(t, models.ReportStatusResolved, report.Status)
}

func TestReportServiceListFilters(t *testing.T) {
	fx := newReportFixture()
	fx.seedReport(models.ReportStatusReceived)
	fx.seedReport(models.ReportStatusResolved)

	listing, err := fx.svc.List(context.Background(), dto.ReportListQuery{Status: models.ReportStatusReceived})
	require.NoError(t, err)
	require.Equal(t, int64(1), listing.Total)
	require.Equal(t, 20, listing.Limit)
}
