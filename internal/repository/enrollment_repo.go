package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/models"
)

// ErrActiveEnrollmentExists signals that a guarded insert found an active
// enrollment for the same (user, course) pair.
var ErrActiveEnrollmentExists = errors.New("active enrollment already exists")

// EnrollmentRepository defines persistence operations for enrollments.
type EnrollmentRepository interface {
	CreateActive(ctx context.Context, enrollment *models.Enrollment) error
	GetByIDAndUser(ctx context.Context, id, userID uint) (models.Enrollment, error)
	GetActive(ctx context.Context, userID, courseID uint) (models.Enrollment, error)
	Update(ctx context.Context, enrollment *models.Enrollment) error
	ListByUser(ctx context.Context, userID uint, page, limit int) ([]models.Enrollment, int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates a GORM-backed repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// CreateActive inserts a new enrollment only when no active row exists for the
// pair. The guard and the insert are a single statement, so two concurrent
// enrolls cannot both land.
func (r *enrollmentRepository) CreateActive(ctx context.Context, enrollment *models.Enrollment) error {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO enrollments (user_id, course_id, enrolled_at, created_at, updated_at)
		 SELECT ?, ?, ?, ?, ?
		 WHERE NOT EXISTS (
			SELECT 1 FROM enrollments
			WHERE user_id = ? AND course_id = ? AND canceled_at IS NULL
		 )`,
		enrollment.UserID, enrollment.CourseID, enrollment.EnrolledAt, enrollment.EnrolledAt, enrollment.EnrolledAt,
		enrollment.UserID, enrollment.CourseID,
	)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrActiveEnrollmentExists
	}

	return r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND canceled_at IS NULL", enrollment.UserID, enrollment.CourseID).
		First(enrollment).Error
}

func (r *enrollmentRepository) GetByIDAndUser(ctx context.Context, id, userID uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&enrollment).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) GetActive(ctx context.Context, userID, courseID uint) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ? AND canceled_at IS NULL", userID, courseID).
		First(&enrollment).Error; err != nil {
		return models.Enrollment{}, err
	}

	return enrollment, nil
}

func (r *enrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Save(enrollment).Error
}

func (r *enrollmentRepository) ListByUser(ctx context.Context, userID uint, page, limit int) ([]models.Enrollment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Enrollment{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	var enrollments []models.Enrollment
	if err := query.Order("enrolled_at DESC").Offset(offset).Limit(limit).Find(&enrollments).Error; err != nil {
		return nil, 0, err
	}

	return enrollments, total, nil
}
