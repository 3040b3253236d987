package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/models"
)

// ReportFilter narrows report listings.
type ReportFilter struct {
	Status     string
	TargetType string
	Page       int
	Limit      int
}

// ReportRepository defines persistence operations for reports and their
// append-only action history.
type ReportRepository interface {
	List(ctx context.Context, filter ReportFilter) ([]models.Report, int64, error)
	GetByID(ctx context.Context, id uint) (models.Report, error)
	Create(ctx context.Context, report *models.Report) error
	UpdateStatusIf(ctx context.Context, id uint, expected, next string) (bool, error)
	SetStatus(ctx context.Context, id uint, status string) error
	AppendAction(ctx context.Context, action *models.ReportAction) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository instantiates the repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) List(ctx context.Context, filter ReportFilter) ([]models.Report, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Report{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TargetType != "" {
		query = query.Where("target_type = ?", filter.TargetType)
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

	var reports []models.Report
	if err := query.
		Preload("Actions", func(db *gorm.DB) *gorm.DB {
			return db.Order("report_actions.created_at DESC")
		}).
		Order("created_at DESC").
		Offset(offset).
		Limit(filter.Limit).
		Find(&reports).Error; err != nil {
		return nil, 0, err
	}

	return reports, total, nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).
		Preload("Actions", func(db *gorm.DB) *gorm.DB {
			return db.Order("report_actions.created_at DESC")
		}).
		First(&report, id).Error; err != nil {
		return models.Report{}, err
	}

	return report, nil
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

// UpdateStatusIf performs a compare-and-swap on the status column. It returns
// false when the row no longer carries the expected status, which closes the
// check-then-act window between reading and writing.
func (r *reportRepository) UpdateStatusIf(ctx context.Context, id uint, expected, next string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", next)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

func (r *reportRepository) SetStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *reportRepository) AppendAction(ctx context.Context, action *models.ReportAction) error {
	return r.db.WithContext(ctx).Create(action).Error
}
