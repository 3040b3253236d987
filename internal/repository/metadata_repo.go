package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/lumosedu/lumos-api/internal/models"
)

// MetadataRepository defines persistence operations for reference metadata.
type MetadataRepository interface {
	ListByKind(ctx context.Context, kind string) ([]models.MetadataItem, error)
	GetByID(ctx context.Context, kind string, id uint) (models.MetadataItem, error)
	GetByName(ctx context.Context, kind, name string) (models.MetadataItem, error)
	Create(ctx context.Context, item *models.MetadataItem) error
	Update(ctx context.Context, item *models.MetadataItem) error
	Delete(ctx context.Context, kind string, id uint) error
}

type metadataRepository struct {
	db *gorm.DB
}

// NewMetadataRepository instantiates the repository.
func NewMetadataRepository(db *gorm.DB) MetadataRepository {
	return &metadataRepository{db: db}
}

func (r *metadataRepository) ListByKind(ctx context.Context, kind string) ([]models.MetadataItem, error) {
	var items []models.MetadataItem
	if err := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Order("sort_order ASC").
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}

func (r *metadataRepository) GetByID(ctx context.Context, kind string, id uint) (models.MetadataItem, error) {
	var item models.MetadataItem
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND id = ?", kind, id).
		First(&item).Error; err != nil {
		return models.MetadataItem{}, err
	}

	return item, nil
}

func (r *metadataRepository) GetByName(ctx context.Context, kind, name string) (models.MetadataItem, error) {
	var item models.MetadataItem
	if err := r.db.WithContext(ctx).
		Where("kind = ? AND name = ?", kind, name).
		First(&item).Error; err != nil {
		return models.MetadataItem{}, err
	}

	return item, nil
}

func (r *metadataRepository) Create(ctx context.Context, item *models.MetadataItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *metadataRepository) Update(ctx context.Context, item *models.MetadataItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *metadataRepository) Delete(ctx context.Context, kind string, id uint) error {
	result := r.db.WithContext(ctx).
		Where("kind = ?", kind).
		Delete(&models.MetadataItem{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
