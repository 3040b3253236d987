package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/models"
)

// AssignmentRepository defines persistence operations for assignments.
type AssignmentRepository interface {
	ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error)
	GetByID(ctx context.Context, id uint) (models.Assignment, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
}

type assignmentRepository struct {
	db *gorm.DB
}

// NewAssignmentRepository instantiates a GORM-backed repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Assignment, error) {
	var assignments []models.Assignment
	if err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("due_date ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}

	return assignments, nil
}

func (r *assignmentRepository) GetByID(ctx context.Context, id uint) (models.Assignment, error) {
	var assignment models.Assignment
	if err := r.db.WithContext(ctx).Preload("Course").First(&assignment, id).Error; err != nil {
		return models.Assignment{}, err
	}

	return assignment, nil
}

func (r *assignmentRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Assignment{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *assignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepository) Update(ctx context.Context, assignment *models.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}
