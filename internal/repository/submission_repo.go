package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/models"
)

// SubmissionRepository defines data operations for submissions.
type SubmissionRepository interface {
	ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error)
	GetByID(ctx context.Context, id uint) (models.Submission, error)
	GetByAssignmentAndUser(ctx context.Context, assignmentID, userID uint) (models.Submission, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) ListByAssignment(ctx context.Context, assignmentID uint) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}

	return submissions, nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Assignment").
		Preload("Assignment.Course").
		First(&submission, id).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) GetByAssignmentAndUser(ctx context.Context, assignmentID, userID uint) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Where("assignment_id = ? AND user_id = ?", assignmentID, userID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}

	return submission, nil
}

func (r *submissionRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}
