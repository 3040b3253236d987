package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/models"
)

// CourseFilter narrows catalog listings.
type CourseFilter struct {
	Category   string
	Difficulty string
	Status     string
	Page       int
	Limit      int
}

// CourseRepository defines persistence operations for courses.
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error)
	GetByID(ctx context.Context, id uint) (models.Course, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	CountByMetadata(ctx context.Context, column, name string) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository instantiates a GORM-backed repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * filter.Limit

	var courses []models.Course
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

// CountByMetadata counts courses whose category or difficulty column equals
// the given metadata name. column must be "category" or "difficulty"; callers
// validate it before dispatching here.
func (r *courseRepository) CountByMetadata(ctx context.Context, column, name string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where(column+" = ?", name).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
