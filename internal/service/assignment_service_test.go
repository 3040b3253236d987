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
)

type fakeAssignmentRepo struct {
	assignments map[uint]models.Assignment
	nextID      uint
}

func (f *fakeAssignmentRepo) ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error) {
	var matched []models.Assignment
	for _, assignment := range f.assignments {
		if assignment.CourseID == courseID {
			matched = append(matched, assignment)
		}
	}
	return matched, nil
}

func (f *fakeAssignmentRepo) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	if assignment, ok := f.assignments[id]; ok {
		return assignment, nil
	}
	return models.Assignment{}, gorm.ErrRecordNotFound
}

func (f *fakeAssignmentRepo) Exists(ctx context.Context, id uint) (bool, error) {
	_, ok := f.assignments[id]
	return ok, nil
}

func (f *fakeAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	if f.assignments == nil {
		f.assignments = map[uint]models.Assignment{}
	}
	f.nextID++
	assignment.ID = f.nextID
	f.assignments[assignment.ID] = *assignment
	return nil
}

func (f *fakeAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	if _, ok := f.assignments[assignment.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	f.assignments[assignment.ID] = *assignment
	return nil
}

func newAssignmentFixture() (*fakeAssignmentRepo, AssignmentService) {
	assignmentRepo := &fakeAssignmentRepo{}
	courseRepo := &fakeCourseRepo{courses: map[uint]models.Course{
		7: {ID: 7, InstructorID: 2, Title: "Algebra", Status: models.CourseStatusPublished},
	}}
	validate := validator.New(validator.WithRequiredStructEnabled())
	svc := NewAssignmentService(assignmentRepo, courseRepo, validate, testLogger())
	return assignmentRepo, svc
}

func instructorActor() Actor {
	return Actor{ID: 2, Role: models.RoleInstructor}
}

func TestAssignmentServiceCreateDefaults(t *testing.T) {
	_, svc := newAssignmentFixture()

	assignment, err := svc.Create(context.Background(), instructorActor(), dto.AssignmentCreateRequest{
		CourseID:    7,
		Title:       "Week 1 essay",
		Description: "Write 500 words.",
		DueDate:     time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusDraft, assignment.Status)
	require.Equal(t, float64(1), assignment.Weight)
	require.False(t, assignment.AllowLate)
	require.True(t, assignment.AllowResubmit)
}

func TestAssignmentServiceCreateRejectsNonOwner(t *testing.T) {
	_, svc := newAssignmentFixture()

	_, err := svc.Create(context.Background(), Actor{ID: 99, Role: models.RoleInstructor}, dto.AssignmentCreateRequest{
		CourseID:    7,
		Title:       "Week 1 essay",
		Description: "Write 500 words.",
		DueDate:     time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	require.ErrorIs(t, err, ErrNotCourseOwner)
}

func TestAssignmentServiceStatusForward(t *testing.T) {
	repo, svc := newAssignmentFixture()
	repo.assignments = map[uint]models.Assignment{
		1: {ID: 1, CourseID: 7, Status: models.AssignmentStatusDraft, Course: models.Course{ID: 7, InstructorID: 2}},
	}

	assignment, err := svc.UpdateStatus(context.Background(), instructorActor(), 1, dto.AssignmentStatusRequest{Status: models.AssignmentStatusPublished})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusPublished, assignment.Status)

	assignment, err = svc.UpdateStatus(context.Background(), instructorActor(), 1, dto.AssignmentStatusRequest{Status: models.AssignmentStatusClosed})
	require.NoError(t, err)
	require.Equal(t, models.AssignmentStatusClosed, assignment.Status)
}

func TestAssignmentServiceStatusNoBackwardEdge(t *testing.T) {
	repo, svc := newAssignmentFixture()
	repo.assignments = map[uint]models.Assignment{
		1: {ID: 1, CourseID: 7, Status: models.AssignmentStatusPublished, Course: models.Course{ID: 7, InstructorID: 2}},
	}

	_, err := svc.UpdateStatus(context.Background(), instructorActor(), 1, dto.AssignmentStatusRequest{Status: models.AssignmentStatusDraft})
	require.ErrorIs(t, err, ErrInvalidStatusTransition)
	require.Equal(t, models.AssignmentStatusPublished, repo.assignments[1].Status)
}

func TestAssignmentServiceStatusClosedIsTerminal(t *testing.T) {
	repo, svc := newAssignmentFixture()
	repo.assignments = map[uint]models.Assignment{
		1: {ID: 1, CourseID: 7, Status: models.AssignmentStatusClosed, Course: models.Course{ID: 7, InstructorID: 2}},
	}

	for _, next := range []string{models.AssignmentStatusDraft, models.AssignmentStatusPublished} {
		_, err := svc.UpdateStatus(context.Background(), instructorActor(), 1, dto.AssignmentStatusRequest{Status: next})
		require.ErrorIs(t, err, ErrInvalidStatusTransition)
	}
}

func TestAssignmentServiceStatusRejectsNonOwner(t *testing.T) {
	repo, svc := newAssignmentFixture()
	repo.assignments = map[uint]models.Assignment{
		1: {ID: 1, CourseID: 7, Status: models.AssignmentStatusDraft, Course: models.Course{ID: 7, InstructorID: 2}},
	}

	_, err := svc.UpdateStatus(context.Background(), Actor{ID: 3, Role: models.RoleInstructor}, 1, dto.AssignmentStatusRequest{Status: models.AssignmentStatusPublished})
	require.ErrorIs(t, err, ErrNotCourseOwner)
}
